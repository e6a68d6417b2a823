package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"leavedesk/internal/apperror"
	"leavedesk/internal/platform/i18n"
	"leavedesk/internal/requestctx"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

// Message answers 200 with a confirmation text and no data.
func Message(w http.ResponseWriter, message, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// FailError writes err as an error envelope in the request's language.
// Errors that are not an *apperror.AppError are logged and reported as 500.
func FailError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	requestID := requestctx.GetRequestID(ctx)
	appErr := apperror.From(err)
	if appErr == apperror.ErrInternal || appErr.HTTPStatus >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	message := i18n.FromContext(ctx).Message(ctx, appErr.Code, appErr.Message)
	Fail(w, appErr.HTTPStatus, appErr.Code, message, requestID)
}

// FailValidation reports field errors collected by request validation.
func FailValidation(w http.ResponseWriter, r *http.Request, issues any) {
	ctx := r.Context()
	message := i18n.FromContext(ctx).Message(ctx, apperror.CodeValidation, "validation failed")
	WriteJSON(w, http.StatusBadRequest, Envelope{
		Success:   false,
		Error:     &Error{Code: apperror.CodeValidation, Message: message, Details: issues},
		RequestID: requestctx.GetRequestID(ctx),
	})
}
