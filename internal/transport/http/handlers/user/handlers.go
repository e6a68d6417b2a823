package userhandler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/apperror"
	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Service interface {
	ListActive(ctx context.Context) ([]user.User, error)
	GetActive(ctx context.Context, id string) (*user.User, error)
	Update(ctx context.Context, id string, in user.UpdateInput) (*user.User, error)
	Deactivate(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   middleware.AuditRecorder
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

type updateRequest struct {
	FirstName        *string `json:"firstName" validate:"omitempty,max=100"`
	LastName         *string `json:"lastName" validate:"omitempty,max=100"`
	Email            *string `json:"email" validate:"omitempty,email,max=254"`
	Role             *string `json:"role"`
	Password         *string `json:"password" validate:"omitempty,max=128"`
	IsActive         *bool   `json:"isActive"`
	WorksOnMonday    *bool   `json:"worksOnMonday"`
	WorksOnTuesday   *bool   `json:"worksOnTuesday"`
	WorksOnWednesday *bool   `json:"worksOnWednesday"`
	WorksOnThursday  *bool   `json:"worksOnThursday"`
	WorksOnFriday    *bool   `json:"worksOnFriday"`
	WorksOnSaturday  *bool   `json:"worksOnSaturday"`
	WorksOnSunday    *bool   `json:"worksOnSunday"`
}

// changedFields names the fields an update touched. Values are left out so
// passwords never reach the audit log.
func (p updateRequest) changedFields() map[string]string {
	fields := map[string]bool{
		"firstName":        p.FirstName != nil,
		"lastName":         p.LastName != nil,
		"email":            p.Email != nil,
		"role":             p.Role != nil,
		"password":         p.Password != nil,
		"isActive":         p.IsActive != nil,
		"worksOnMonday":    p.WorksOnMonday != nil,
		"worksOnTuesday":   p.WorksOnTuesday != nil,
		"worksOnWednesday": p.WorksOnWednesday != nil,
		"worksOnThursday":  p.WorksOnThursday != nil,
		"worksOnFriday":    p.WorksOnFriday != nil,
		"worksOnSaturday":  p.WorksOnSaturday != nil,
		"worksOnSunday":    p.WorksOnSunday != nil,
	}
	out := map[string]string{}
	for name, set := range fields {
		if set {
			out[name] = "changed"
		}
	}
	if p.Role != nil {
		out["role"] = *p.Role
	}
	return out
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/{userID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Delete("/{userID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Put("/{userID}/reset-password", h.handleResetPassword)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListActive(r.Context())
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetActive(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, u, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload updateRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	if payload.Role != nil {
		current, _ := middleware.GetUser(r.Context())
		allowed, err := h.Perms.HasPermission(r.Context(), current.RoleName, auth.PermUsersAssignRole)
		if err != nil {
			api.FailError(w, r, err)
			return
		}
		if !allowed {
			api.FailError(w, r, apperror.ErrForbidden)
			return
		}
	}

	u, err := h.Service.Update(r.Context(), chi.URLParam(r, "userID"), user.UpdateInput{
		FirstName:        payload.FirstName,
		LastName:         payload.LastName,
		Email:            payload.Email,
		Role:             payload.Role,
		Password:         payload.Password,
		IsActive:         payload.IsActive,
		WorksOnMonday:    payload.WorksOnMonday,
		WorksOnTuesday:   payload.WorksOnTuesday,
		WorksOnWednesday: payload.WorksOnWednesday,
		WorksOnThursday:  payload.WorksOnThursday,
		WorksOnFriday:    payload.WorksOnFriday,
		WorksOnSaturday:  payload.WorksOnSaturday,
		WorksOnSunday:    payload.WorksOnSunday,
	})
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionUserUpdate, audit.EntityUser, u.ID.Hex(), payload.changedFields())
	api.Success(w, u, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if err := h.Service.Deactivate(r.Context(), id); err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionUserDeactivate, audit.EntityUser, id, nil)
	api.Message(w, "user deactivated", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.ResetPassword(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionUserResetPassword, audit.EntityUser, u.ID.Hex(), nil)
	api.Message(w, fmt.Sprintf("password for user %s has been reset to default", u.Email), middleware.GetRequestID(r.Context()))
}
