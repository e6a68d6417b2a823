package leavetypehandler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, in leavetype.CreateInput) (*leavetype.LeaveType, error)
	List(ctx context.Context) ([]leavetype.LeaveType, error)
	Get(ctx context.Context, id string) (*leavetype.LeaveType, error)
	Update(ctx context.Context, id string, in leavetype.UpdateInput) (*leavetype.LeaveType, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   middleware.AuditRecorder
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

type createRequest struct {
	Name             string           `json:"name" validate:"max=100"`
	DefaultAllowance *decimal.Decimal `json:"defaultAllowance"`
	Description      string           `json:"description" validate:"max=500"`
}

type updateRequest struct {
	Name             *string          `json:"name" validate:"omitempty,max=100"`
	DefaultAllowance *decimal.Decimal `json:"defaultAllowance"`
	Description      *string          `json:"description" validate:"omitempty,max=500"`
}

// leaveTypeResponse keeps the allowance a JSON number with its exact digits.
type leaveTypeResponse struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	DefaultAllowance json.Number `json:"defaultAllowance"`
	Description      string      `json:"description"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func toResponse(lt *leavetype.LeaveType) leaveTypeResponse {
	return leaveTypeResponse{
		ID:               lt.ID,
		Name:             lt.Name,
		DefaultAllowance: json.Number(lt.DefaultAllowance.String()),
		Description:      lt.Description,
		CreatedAt:        lt.CreatedAt,
		UpdatedAt:        lt.UpdatedAt,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-types", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveTypesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveTypesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveTypesRead, h.Perms)).Get("/{leaveTypeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveTypesWrite, h.Perms)).Put("/{leaveTypeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermLeaveTypesWrite, h.Perms)).Delete("/{leaveTypeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	out := make([]leaveTypeResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	lt, err := h.Service.Create(r.Context(), leavetype.CreateInput{
		Name:             payload.Name,
		DefaultAllowance: payload.DefaultAllowance,
		Description:      payload.Description,
	})
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionLeaveTypeCreate, audit.EntityLeaveType, lt.ID, map[string]string{"name": lt.Name})
	api.Created(w, toResponse(lt), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	lt, err := h.Service.Get(r.Context(), chi.URLParam(r, "leaveTypeID"))
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, toResponse(lt), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload updateRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	lt, err := h.Service.Update(r.Context(), chi.URLParam(r, "leaveTypeID"), leavetype.UpdateInput{
		Name:             payload.Name,
		DefaultAllowance: payload.DefaultAllowance,
		Description:      payload.Description,
	})
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionLeaveTypeUpdate, audit.EntityLeaveType, lt.ID, map[string]string{"name": lt.Name})
	api.Success(w, toResponse(lt), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leaveTypeID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FailError(w, r, err)
		return
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionLeaveTypeDelete, audit.EntityLeaveType, id, nil)
	api.Message(w, "leave type removed", middleware.GetRequestID(r.Context()))
}
