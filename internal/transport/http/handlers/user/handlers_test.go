package userhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/user"
	"leavedesk/internal/transport/http/middleware"
)

type fakeService struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	getFn    func(ctx context.Context, id string) (*user.User, error)
	updateFn func(ctx context.Context, id string, in user.UpdateInput) (*user.User, error)
	deactFn  func(ctx context.Context, id string) error
	resetFn  func(ctx context.Context, id string) (*user.User, error)
}

func (f *fakeService) ListActive(ctx context.Context) ([]user.User, error) { return f.listFn(ctx) }

func (f *fakeService) GetActive(ctx context.Context, id string) (*user.User, error) {
	return f.getFn(ctx, id)
}

func (f *fakeService) Update(ctx context.Context, id string, in user.UpdateInput) (*user.User, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeService) Deactivate(ctx context.Context, id string) error { return f.deactFn(ctx, id) }

func (f *fakeService) ResetPassword(ctx context.Context, id string) (*user.User, error) {
	return f.resetFn(ctx, id)
}

// grantPerms grants each role the listed permissions only.
type grantPerms map[string][]string

func (g grantPerms) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return slices.Contains(g[role], permission), nil
}

var admin = auth.UserContext{UserID: "a1", RoleName: auth.RoleAdmin}

func serve(svc *fakeService, perms grantPerms, method, path, body string, caller auth.UserContext) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api", NewHandler(svc, perms).RegisterRoutes)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), caller))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListUsersHidesPasswordHash(t *testing.T) {
	svc := &fakeService{listFn: func(context.Context) ([]user.User, error) {
		return []user.User{{ID: bson.NewObjectID(), Email: "a@b.co", PasswordHash: "$2a$secret", IsActive: true}}, nil
	}}

	rec := serve(svc, grantPerms(auth.RolePermissions), http.MethodGet, "/api/users", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.co")
	assert.NotContains(t, rec.Body.String(), "$2a$secret")

	employee := auth.UserContext{UserID: "e1", RoleName: auth.RoleEmployee}
	rec = serve(svc, grantPerms(auth.RolePermissions), http.MethodGet, "/api/users", "", employee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUserPassesOnlyProvidedFields(t *testing.T) {
	var got user.UpdateInput
	svc := &fakeService{updateFn: func(_ context.Context, id string, in user.UpdateInput) (*user.User, error) {
		got = in
		return &user.User{Email: "a@b.co"}, nil
	}}

	rec := serve(svc, grantPerms(auth.RolePermissions), http.MethodPut, "/api/users/u1", `{"firstName":"Grace","worksOnSaturday":true}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Grace", *got.FirstName)
	require.NotNil(t, got.WorksOnSaturday)
	assert.True(t, *got.WorksOnSaturday)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.Role)
	assert.Nil(t, got.WorksOnMonday)
}

func TestUpdateUserRoleNeedsAssignPermission(t *testing.T) {
	svc := &fakeService{updateFn: func(context.Context, string, user.UpdateInput) (*user.User, error) {
		return &user.User{}, nil
	}}
	perms := grantPerms{auth.RoleAdmin: {auth.PermUsersWrite}}

	rec := serve(svc, perms, http.MethodPut, "/api/users/u1", `{"role":"admin"}`, admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(svc, perms, http.MethodPut, "/api/users/u1", `{"lastName":"Hopper"}`, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(svc, perms, http.MethodPut, "/api/users/u1", `{"email":"nope"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAndResetPassword(t *testing.T) {
	svc := &fakeService{
		deactFn: func(_ context.Context, id string) error {
			if id == "missing" {
				return user.ErrUserNotFound
			}
			return nil
		},
		resetFn: func(_ context.Context, id string) (*user.User, error) {
			return &user.User{Email: "ada@example.com"}, nil
		},
	}
	perms := grantPerms(auth.RolePermissions)

	rec := serve(svc, perms, http.MethodDelete, "/api/users/u1", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(svc, perms, http.MethodDelete, "/api/users/missing", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(svc, perms, http.MethodPut, "/api/users/u1/reset-password", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "password for user ada@example.com has been reset to default")
}

type auditLog []audit.Event

func (l *auditLog) Record(_ context.Context, evt audit.Event) error {
	*l = append(*l, evt)
	return nil
}

func TestUserChangesAreAudited(t *testing.T) {
	id := bson.NewObjectID()
	svc := &fakeService{
		updateFn: func(context.Context, string, user.UpdateInput) (*user.User, error) {
			return &user.User{ID: id}, nil
		},
		deactFn: func(context.Context, string) error { return nil },
	}
	var log auditLog
	r := chi.NewRouter()
	h := NewHandler(svc, grantPerms(auth.RolePermissions))
	h.Audit = &log
	r.Route("/api", h.RegisterRoutes)

	for _, call := range []struct{ method, path, body string }{
		{http.MethodPut, "/api/users/" + id.Hex(), `{"password":"Secret1!","worksOnSunday":true}`},
		{http.MethodDelete, "/api/users/" + id.Hex(), ""},
	} {
		req := httptest.NewRequest(call.method, call.path, strings.NewReader(call.body))
		req = req.WithContext(middleware.WithUser(req.Context(), admin))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	require.Len(t, log, 2)
	assert.Equal(t, audit.ActionUserUpdate, log[0].Action)
	assert.Equal(t, map[string]string{"password": "changed", "worksOnSunday": "changed"}, log[0].Details)
	assert.Equal(t, "a1", log[0].ActorID)
	assert.Equal(t, audit.ActionUserDeactivate, log[1].Action)
	assert.Equal(t, id.Hex(), log[1].EntityID)
}
