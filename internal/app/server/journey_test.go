package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/leavetype"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/i18n"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/platform/rbac"
)

type journey struct {
	t       *testing.T
	handler http.Handler
	users   *user.Service
}

func newJourney(t *testing.T) *journey {
	t.Helper()
	frontend := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "index.html"), []byte("<html>leavedesk</html>"), 0o600))

	cfg := config.Config{
		Environment:          "test",
		JWTSecret:            "journey-secret",
		TokenTTL:             time.Hour,
		FrontendDir:          frontend,
		CORSAllowedOrigins:   []string{"http://localhost:5173"},
		MaxBodyBytes:         1 << 20,
		MaxLeaveRangeDays:    366,
		RateLimitPerSecond:   100,
		RateLimitBurst:       100,
		DefaultResetPassword: "Password1234.",
		DefaultLocale:        "en",
	}
	log := zap.NewNop()
	users := user.NewService(&memUsers{}, cfg.DefaultResetPassword, log)
	types := leavetype.NewService(&memLeaveTypes{}, log)
	perms, err := rbac.New(auth.RolePermissions)
	require.NoError(t, err)
	leaves := leave.NewService(&memLeaves{}, types, perms, cfg.MaxLeaveRangeDays, log)
	translator, err := i18n.New(cfg.DefaultLocale)
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:     cfg,
		Log:        log,
		Users:      users,
		LeaveTypes: types,
		Leave:      leaves,
		Perms:      perms,
		Audit:      audit.NewService(&memAudit{}, log),
		Translator: translator,
		Metrics:    metrics.New(),
	})
	return &journey{t: t, handler: handler, users: users}
}

type response struct {
	Status int
	Header http.Header
	Body   map[string]any
	Raw    string
}

func (j *journey) call(method, path, token string, body any, headers ...string) response {
	j.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(j.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	j.handler.ServeHTTP(rec, req)

	out := response{Status: rec.Code, Header: rec.Header(), Raw: rec.Body.String()}
	_ = json.Unmarshal(rec.Body.Bytes(), &out.Body)
	return out
}

func (r response) data() map[string]any {
	data, _ := r.Body["data"].(map[string]any)
	return data
}

func (r response) errorField(name string) string {
	errObj, _ := r.Body["error"].(map[string]any)
	value, _ := errObj[name].(string)
	return value
}

func (j *journey) login(email, password string) string {
	j.t.Helper()
	res := j.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(j.t, http.StatusOK, res.Status, res.Raw)
	token, _ := res.data()["token"].(string)
	require.NotEmpty(j.t, token)
	return token
}

func TestLeaveJourney(t *testing.T) {
	j := newJourney(t)
	_, created, err := j.users.EnsureAdmin(context.Background(), "admin@example.com", "Admin123!", "", "")
	require.NoError(t, err)
	require.True(t, created)
	adminToken := j.login("admin@example.com", "Admin123!")

	res := j.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "Ada@Example.com",
		"password":  "Secret1!",
		"role":      "admin",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)
	registered := res.data()["user"].(map[string]any)
	assert.Equal(t, auth.RoleEmployee, registered["role"])
	assert.Equal(t, "ada@example.com", registered["email"])
	employeeID := registered["id"].(string)
	employeeToken := j.login("ada@example.com", "Secret1!")

	res = j.call(http.MethodGet, "/api/auth/me", employeeToken, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, true, res.data()["worksOnFriday"])
	assert.Equal(t, false, res.data()["worksOnSaturday"])

	res = j.call(http.MethodPost, "/api/leave-types", employeeToken, map[string]any{"name": "Annual", "defaultAllowance": 20})
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, "role (employee) is not authorized to access this resource", res.errorField("message"))

	res = j.call(http.MethodPost, "/api/leave-types", adminToken, map[string]any{"name": "Annual", "defaultAllowance": 20})
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)
	typeID := res.data()["id"].(string)

	res = j.call(http.MethodPost, "/api/leave", employeeToken, map[string]string{
		"leaveType": typeID,
		"startDate": "2024-01-05",
		"endDate":   "2024-01-09",
		"reason":    "family visit",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)
	assert.Len(t, res.data()["leaveDays"], 3)
	assert.Equal(t, employeeID, res.data()["user"])
	requestID := res.data()["id"].(string)

	// Saturday becomes a working day; the next submission uses it at once.
	res = j.call(http.MethodPut, "/api/users/"+employeeID, adminToken, map[string]any{"worksOnSaturday": true})
	require.Equal(t, http.StatusOK, res.Status, res.Raw)

	res = j.call(http.MethodPost, "/api/leave/preview", employeeToken, map[string]string{"startDate": "2024-01-05", "endDate": "2024-01-09"})
	require.Equal(t, http.StatusOK, res.Status, res.Raw)
	assert.EqualValues(t, 4, res.data()["workingDays"])

	res = j.call(http.MethodGet, "/api/leave", employeeToken, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, res.data()["items"], 1)

	res = j.call(http.MethodGet, "/api/leave/"+requestID, adminToken, nil)
	assert.Equal(t, http.StatusOK, res.Status)

	res = j.call(http.MethodGet, "/api/users", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = j.call(http.MethodDelete, "/api/users/"+employeeID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.Status)

	res = j.call(http.MethodGet, "/api/audit/events?actorUserId="+employeeID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.Status, res.Raw)
	assert.Equal(t, "1", res.Header.Get("X-Total-Count"))
	assert.Contains(t, res.Raw, audit.ActionLeaveSubmit)

	// A deactivated account's token no longer resolves.
	res = j.call(http.MethodGet, "/api/leave", employeeToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "not authorized, token failed", res.errorField("message"))
}

func TestSubmissionErrorsAreLocalized(t *testing.T) {
	j := newJourney(t)
	res := j.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com", "password": "Secret1!",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)
	token := res.data()["token"].(string)

	body := map[string]string{"leaveType": "x", "startDate": "2024-01-10", "endDate": "2024-01-09", "reason": "r"}
	res = j.call(http.MethodPost, "/api/leave", token, body)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "start_after_end", res.errorField("code"))
	assert.Equal(t, "start date cannot be after end date", res.errorField("message"))

	res = j.call(http.MethodPost, "/api/leave", token, body, "Accept-Language", "fr-FR,fr;q=0.9")
	assert.Equal(t, "start_after_end", res.errorField("code"))
	assert.Equal(t, "La date de début ne peut pas être postérieure à la date de fin", res.errorField("message"))
	assert.Equal(t, "fr", res.Header.Get("Content-Language"))
}

func TestPlatformRoutes(t *testing.T) {
	j := newJourney(t)

	res := j.call(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "ok", res.Raw)

	res = j.call(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, res.Status)

	res = j.call(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.data(), "requestsTotal")

	res = j.call(http.MethodGet, "/dashboard/leave", "", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Raw, "leavedesk")

	res = j.call(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "not_found", res.errorField("code"))

	res = j.call(http.MethodGet, "/api/leave", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}
