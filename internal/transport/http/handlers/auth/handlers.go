package authhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type UserService interface {
	Register(ctx context.Context, in user.RegisterInput, caller *auth.UserContext) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetActive(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	Users    UserService
	Secret   string
	TokenTTL time.Duration
	Audit    middleware.AuditRecorder
}

func NewHandler(users UserService, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Users: users, Secret: secret, TokenTTL: tokenTTL}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"max=128"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

type authResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.HandleMe)
	})
}

func (h *Handler) issue(u *user.User) (string, error) {
	return auth.GenerateToken(h.Secret, auth.Claims{UserID: u.ID.Hex(), RoleName: u.Role}, h.TokenTTL)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if !shared.Decode(w, r, &payload) {
		return
	}

	var caller *auth.UserContext
	if current, ok := middleware.GetUser(r.Context()); ok {
		caller = &current
	}
	created, err := h.Users.Register(r.Context(), user.RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
	}, caller)
	if err != nil {
		api.FailError(w, r, err)
		return
	}

	token, err := h.issue(created)
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionUserRegister, audit.EntityUser, created.ID.Hex(), map[string]string{"role": created.Role})
	api.Created(w, authResponse{User: created, Token: token}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.Decode(w, r, &payload) {
		return
	}

	u, err := h.Users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	token, err := h.issue(u)
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, authResponse{User: u, Token: token}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	u, err := h.Users.GetActive(r.Context(), current.UserID)
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, u, middleware.GetRequestID(r.Context()))
}
