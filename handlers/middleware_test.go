package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/permissions"
)

func requestWithUser(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserContextKey, user)
	ctx = context.WithValue(ctx, SessionContextKey, "test-session")
	return req.WithContext(ctx)
}

func TestRequirePermissionAllows(t *testing.T) {
	user := &models.User{
		Username: "alice",
		Roles:    []*models.Role{{Name: "Admins", CanAdministerSite: true}},
	}

	called := false
	handler := RequirePermission(permissions.RequireAnyAdminister, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(user))
	assert.True(t, called)
}

func TestRequirePermissionRejects(t *testing.T) {
	user := &models.User{
		Username: "bob",
		Roles:    []*models.Role{{Name: "Viewers", CanView: true}},
	}

	handler := RequirePermission(permissions.RequireAnyAdminister, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(user))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionMissingUser(t *testing.T) {
	handler := RequirePermission(permissions.RequireView, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
