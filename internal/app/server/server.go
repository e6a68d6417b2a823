package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/platform/cache"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
	"leavedesk/internal/platform/i18n"
	"leavedesk/internal/platform/logger"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/platform/rbac"
	"leavedesk/internal/transport/http/api"
	audithandler "leavedesk/internal/transport/http/handlers/audit"
	authhandler "leavedesk/internal/transport/http/handlers/auth"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	leavetypehandler "leavedesk/internal/transport/http/handlers/leavetype"
	userhandler "leavedesk/internal/transport/http/handlers/user"
	"leavedesk/internal/transport/http/middleware"
)

// UserService is everything the HTTP layer needs from the user directory.
type UserService interface {
	authhandler.UserService
	userhandler.Service
	middleware.UserLoader
}

type AuditService interface {
	audithandler.Service
	middleware.AuditRecorder
}

type Deps struct {
	Config      config.Config
	Log         *zap.Logger
	Users       UserService
	LeaveTypes  leavetypehandler.Service
	Leave       leavehandler.LeaveService
	Perms       middleware.PermissionStore
	Audit       AuditService
	Translator  *i18n.Translator
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
}

type App struct {
	Config config.Config
	Log    *zap.Logger
	Mongo  *db.Mongo
	Redis  *redis.Client
	Router http.Handler
}

// New connects to the backing stores, seeds the admin account and builds
// the router. Callers own the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	mongoDB, err := db.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log, Mongo: mongoDB}

	fail := func(err error) (*App, error) {
		app.Close(context.Background())
		return nil, err
	}

	app.Redis, err = cache.Connect(ctx, cfg.RedisURL, log)
	if err != nil {
		return fail(err)
	}

	database := mongoDB.Database()
	userStore, err := user.NewStore(ctx, database)
	if err != nil {
		return fail(err)
	}
	leaveTypeStore, err := leavetype.NewStore(ctx, database)
	if err != nil {
		return fail(err)
	}
	leaveStore, err := leave.NewStore(ctx, database)
	if err != nil {
		return fail(err)
	}
	auditStore, err := audit.NewStore(ctx, database)
	if err != nil {
		return fail(err)
	}

	perms, err := rbac.New(auth.RolePermissions)
	if err != nil {
		return fail(err)
	}

	users := user.NewService(userStore, cfg.DefaultResetPassword, log)
	leaveTypes := leavetype.NewService(leaveTypeStore, log)
	leaves := leave.NewService(leaveStore, leaveTypes, perms, cfg.MaxLeaveRangeDays, log)

	if err := db.Seed(ctx, cfg, users, log); err != nil {
		return fail(err)
	}
	translator, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		return fail(err)
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	app.Router = NewRouter(Deps{
		Config:      cfg,
		Log:         log,
		Users:       users,
		LeaveTypes:  leaveTypes,
		Leave:       leaves,
		Perms:       perms,
		Audit:       audit.NewService(auditStore, log),
		Translator:  translator,
		Metrics:     collector,
		Idempotency: middleware.NewIdempotencyStore(app.Redis, cfg.IdempotencyTTL),
		Ready:       mongoDB.Ping,
	})
	return app, nil
}

func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("close redis", zap.Error(err))
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Close(ctx); err != nil {
			a.Log.Warn("close mongodb", zap.Error(err))
		}
	}
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Locale(d.Translator))
	router.Use(middleware.Logger(log, d.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, d.Users))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, d.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		r.Use(middleware.RateLimit(cfg.RateLimitPerSecond*4, cfg.RateLimitBurst*4))

		var recorder middleware.AuditRecorder
		if d.Audit != nil {
			recorder = d.Audit
			audithandler.NewHandler(d.Audit, d.Perms).RegisterRoutes(r)
		}

		authHandler := authhandler.NewHandler(d.Users, cfg.JWTSecret, cfg.TokenTTL)
		authHandler.Audit = recorder
		authHandler.RegisterRoutes(r)

		leaveHandler := leavehandler.NewHandler(d.Leave, d.LeaveTypes, d.Users, d.Perms)
		leaveHandler.Idempotency = d.Idempotency
		leaveHandler.Metrics = d.Metrics
		leaveHandler.Audit = recorder
		leaveHandler.Log = logger.Named("leave_http", log)
		leaveHandler.RegisterRoutes(r)

		leaveTypeHandler := leavetypehandler.NewHandler(d.LeaveTypes, d.Perms)
		leaveTypeHandler.Audit = recorder
		leaveTypeHandler.RegisterRoutes(r)

		userHandler := userhandler.NewHandler(d.Users, d.Perms)
		userHandler.Audit = recorder
		userHandler.RegisterRoutes(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.FailError(w, r, fmt.Errorf("route %s: %w", r.URL.Path, errRouteNotFound))
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("leavedesk server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if err == nil || os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
