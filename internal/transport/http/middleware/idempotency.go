package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leavedesk/internal/apperror"
	"leavedesk/internal/transport/http/api"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyLock   = 30 * time.Second
	maxIdempotencyKey = 255
)

var (
	ErrIdempotencyConflict = apperror.New(
		apperror.CodeIdempotencyUsed,
		"idempotency key was already used for a different request",
		http.StatusUnprocessableEntity,
	)
	ErrIdempotencyInProgress = apperror.New(
		apperror.CodeIdempotencyBusy,
		"a request with this idempotency key is already in progress",
		http.StatusConflict,
	)
)

type storedResponse struct {
	Hash   string `json:"hash"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// IdempotencyStore remembers the first response for a (user, endpoint, key)
// in Redis and holds a short lock while that first request runs.
type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if rdb == nil {
		return nil
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func idempotencyKeys(userID, endpoint, key string) (string, string) {
	cacheKey := fmt.Sprintf("idemp:%s:%s:%s", endpoint, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Check returns the stored response for the key, or nil when there is none.
func (s *IdempotencyStore) Check(ctx context.Context, userID, endpoint, key, requestHash string) (*storedResponse, error) {
	cacheKey, _ := idempotencyKeys(userID, endpoint, key)
	raw, err := s.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stored storedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	if stored.Hash != requestHash {
		return nil, ErrIdempotencyConflict
	}
	return &stored, nil
}

func (s *IdempotencyStore) Acquire(ctx context.Context, userID, endpoint, key string) (bool, error) {
	_, lockKey := idempotencyKeys(userID, endpoint, key)
	return s.rdb.SetNX(ctx, lockKey, "1", idempotencyLock).Result()
}

func (s *IdempotencyStore) Save(ctx context.Context, userID, endpoint, key, requestHash string, status int, body []byte) error {
	cacheKey, _ := idempotencyKeys(userID, endpoint, key)
	data, err := json.Marshal(storedResponse{Hash: requestHash, Status: status, Body: string(body)})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cacheKey, data, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, userID, endpoint, key string) error {
	_, lockKey := idempotencyKeys(userID, endpoint, key)
	return s.rdb.Del(ctx, lockKey).Err()
}

func release(ctx context.Context, store *IdempotencyStore, log *zap.Logger, actor, endpoint, key string) {
	if err := store.Release(context.WithoutCancel(ctx), actor, endpoint, key); err != nil {
		log.Warn("idempotency unlock failed", zap.Error(err))
	}
}

func replay(w http.ResponseWriter, stored *storedResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = io.WriteString(w, stored.Body)
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated POST carrying an
// Idempotency-Key header and refuses a duplicate while the first is still
// running. Requests without the header, or with a nil store, pass through.
// Redis failures are logged and the request proceeds unprotected.
func Idempotency(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if store == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKey {
				api.FailError(w, r, apperror.New(apperror.CodeInvalidInput, "idempotency key is too long", http.StatusBadRequest))
				return
			}

			payload, err := io.ReadAll(r.Body)
			if err != nil {
				api.FailError(w, r, apperror.ErrInvalidInput)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(payload))

			ctx := r.Context()
			actor := actorOrIPKey(r)
			endpoint := r.URL.Path
			hash := RequestHash(payload)
			log := zap.L().With(zap.String("request_id", GetRequestID(ctx)), zap.String("endpoint", endpoint))

			stored, err := store.Check(ctx, actor, endpoint, key, hash)
			if errors.Is(err, ErrIdempotencyConflict) {
				api.FailError(w, r, err)
				return
			}
			if err != nil {
				log.Warn("idempotency lookup failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if stored != nil {
				replay(w, stored)
				return
			}

			acquired, err := store.Acquire(ctx, actor, endpoint, key)
			if err != nil {
				log.Warn("idempotency lock failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				api.FailError(w, r, ErrIdempotencyInProgress)
				return
			}

			// The first request may have saved and unlocked between the
			// lookup above and our lock.
			stored, err = store.Check(ctx, actor, endpoint, key, hash)
			switch {
			case errors.Is(err, ErrIdempotencyConflict):
				release(ctx, store, log, actor, endpoint, key)
				api.FailError(w, r, err)
				return
			case err != nil:
				log.Warn("idempotency lookup failed", zap.Error(err))
			case stored != nil:
				release(ctx, store, log, actor, endpoint, key)
				replay(w, stored)
				return
			}

			capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			// The outcome is recorded even when the client has gone away.
			saveCtx := context.WithoutCancel(ctx)
			if capture.status < http.StatusInternalServerError {
				if err := store.Save(saveCtx, actor, endpoint, key, hash, capture.status, capture.body.Bytes()); err != nil {
					log.Warn("idempotency save failed", zap.Error(err))
				}
			}
			release(saveCtx, store, log, actor, endpoint, key)
		})
	}
}
