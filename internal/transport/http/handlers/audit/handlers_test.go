package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/transport/http/middleware"
)

type fakeService struct {
	gotFilter audit.Filter
	events    []audit.Event
}

func (f *fakeService) List(_ context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, int64, error) {
	f.gotFilter = filter
	return f.events, int64(len(f.events)), nil
}

func (f *fakeService) Export(_ context.Context, filter audit.Filter) ([]audit.Event, error) {
	f.gotFilter = filter
	return f.events, nil
}

type rolePerms struct{}

func (rolePerms) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return slices.Contains(auth.RolePermissions[role], permission), nil
}

func serve(svc *fakeService, path, role string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api", NewHandler(svc, rolePerms{}).RegisterRoutes)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleEvents() []audit.Event {
	return []audit.Event{{
		ID:         bson.NewObjectID(),
		ActorID:    "a1",
		Action:     audit.ActionUserDeactivate,
		EntityType: audit.EntityUser,
		EntityID:   "u9",
		RequestID:  "req-1",
		IP:         "10.0.0.1",
		CreatedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
}

func TestListEvents(t *testing.T) {
	svc := &fakeService{events: sampleEvents()}
	rec := serve(svc, "/api/audit/events?action=user.deactivate&actorUserId=a1", auth.RoleAdmin)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, audit.Filter{Action: "user.deactivate", ActorID: "a1"}, svc.gotFilter)
	assert.Contains(t, rec.Body.String(), `"entityId":"u9"`)
}

func TestListEventsAdminOnly(t *testing.T) {
	rec := serve(&fakeService{}, "/api/audit/events", auth.RoleEmployee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportEvents(t *testing.T) {
	rec := serve(&fakeService{events: sampleEvents()}, "/api/audit/events/export", auth.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "actor_id", rows[0][1])
	assert.Equal(t, "user.deactivate", rows[1][2])
	assert.Equal(t, "2024-03-01T09:30:00Z", rows[1][7])
}
