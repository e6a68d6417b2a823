package leavehandler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type LeaveService interface {
	Submit(ctx context.Context, requester auth.UserContext, in leave.SubmitInput) (*leave.LeaveRequest, error)
	Preview(ctx context.Context, requester auth.UserContext, in leave.PreviewInput) (*leave.Preview, error)
	ListMine(ctx context.Context, requester auth.UserContext, limit, offset int) ([]leave.LeaveRequest, error)
	Get(ctx context.Context, requester auth.UserContext, id string) (*leave.LeaveRequest, error)
}

type LeaveTypeLookup interface {
	Get(ctx context.Context, id string) (*leavetype.LeaveType, error)
}

type UserLookup interface {
	GetActive(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	Service     LeaveService
	Types       LeaveTypeLookup
	Users       UserLookup
	Perms       middleware.PermissionStore
	Idempotency *middleware.IdempotencyStore
	Metrics     *metrics.Collector
	Audit       middleware.AuditRecorder
	Log         *zap.Logger
}

func NewHandler(service LeaveService, types LeaveTypeLookup, users UserLookup, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Types: types, Users: users, Perms: perms, Log: zap.NewNop()}
}

type submitRequest struct {
	LeaveType string `json:"leaveType" validate:"max=64"`
	StartDate string `json:"startDate" validate:"max=64"`
	EndDate   string `json:"endDate" validate:"max=64"`
	Reason    string `json:"reason" validate:"max=1000"`
}

type previewRequest struct {
	LeaveType string `json:"leaveType" validate:"max=64"`
	StartDate string `json:"startDate" validate:"max=64"`
	EndDate   string `json:"endDate" validate:"max=64"`
}

type listResponse struct {
	Items  []leave.LeaveRequest `json:"items"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms), middleware.Idempotency(h.Idempotency)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleListMine)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{requestID}/summary.pdf", h.handleSummaryPDF)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	current, _ := middleware.GetUser(r.Context())

	created, err := h.Service.Submit(r.Context(), current, leave.SubmitInput{
		LeaveType: payload.LeaveType,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Reason:    payload.Reason,
	})
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordSubmission(created.WorkingDays())
	}
	middleware.RecordAudit(r, h.Audit, audit.ActionLeaveSubmit, audit.EntityLeaveRequest, created.ID.Hex(), map[string]string{
		"workingDays": strconv.Itoa(created.WorkingDays()),
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var payload previewRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	current, _ := middleware.GetUser(r.Context())

	preview, err := h.Service.Preview(r.Context(), current, leave.PreviewInput{
		LeaveType: payload.LeaveType,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	})
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, preview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	items, err := h.Service.ListMine(r.Context(), current, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	if items == nil {
		items = []leave.LeaveRequest{}
	}
	api.Success(w, listResponse{Items: items, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Get(r.Context(), current, chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, r, err)
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, _ := middleware.GetUser(ctx)
	req, err := h.Service.Get(ctx, current, chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := leave.WriteSummaryPDF(&buf, *req, h.leaveTypeName(ctx, req), h.requesterName(ctx, current, req)); err != nil {
		api.FailError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"leave-%s.pdf\"", req.ID.Hex()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Log.Warn("write summary pdf failed", zap.Error(err))
	}
}

// Names fall back to ids when the leave type or user has since gone away.
func (h *Handler) leaveTypeName(ctx context.Context, req *leave.LeaveRequest) string {
	if h.Types != nil {
		if lt, err := h.Types.Get(ctx, req.LeaveTypeID.Hex()); err == nil {
			return lt.Name
		}
	}
	return req.LeaveTypeID.Hex()
}

func (h *Handler) requesterName(ctx context.Context, current auth.UserContext, req *leave.LeaveRequest) string {
	if req.UserID.Hex() == current.UserID && current.Name != "" {
		return current.Name
	}
	if h.Users != nil {
		if u, err := h.Users.GetActive(ctx, req.UserID.Hex()); err == nil {
			return u.FullName()
		}
	}
	return req.UserID.Hex()
}
