package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/auth"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/huangsam/codecritic/schema"
)

type sessionBody struct {
	Token string      `json:"token"`
	User  schema.User `json:"user"`
}

func register(t *testing.T, env *testEnv, username, role string) sessionBody {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password1",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionBody](t, w)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil, Options{})

	session := register(t, env, "ravi", "")
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ravi", session.User.Username)
	assert.Equal(t, schema.DeveloperRole, session.User.Role)

	w := env.do(t, http.MethodPost, "/api/users/login", map[string]string{"username": "ravi", "password": "password1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[sessionBody](t, w)
	assert.NotEmpty(t, login.Token)
	assert.NotNil(t, login.User.LastLogin)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodGet, "/api/users/profile", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ravi@example.com", decode[schema.User](t, w).Email)
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	register(t, env, "ravi", "viewer")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"duplicate", map[string]string{"username": "ravi", "email": "other@example.com", "password": "password1"}, http.StatusConflict},
		{"missing email", map[string]string{"username": "bob", "password": "password1"}, http.StatusBadRequest},
		{"bad email", map[string]string{"username": "bob", "email": "bob", "password": "password1"}, http.StatusBadRequest},
		{"short password", map[string]string{"username": "bob", "email": "bob@example.com", "password": "pw"}, http.StatusBadRequest},
		{"admin role", map[string]string{"username": "bob", "email": "bob@example.com", "password": "password1", "role": "admin"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/users/register", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestLoginErrors(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	register(t, env, "ravi", "")

	w := env.do(t, http.MethodPost, "/api/users/login", map[string]string{"username": "ravi", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/users/login", map[string]string{"username": "ravi"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/users/profile", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/users/profile", nil, "junk").Code)
}

func TestAdminUsers(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	created, err := env.accounts.EnsureAdmin(context.Background(), "admin-password")
	require.NoError(t, err)
	require.True(t, created)
	developer := register(t, env, "ravi", "")

	w := env.do(t, http.MethodPost, "/api/users/login", map[string]string{"username": auth.AdminUsername, "password": "admin-password"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	admin := decode[sessionBody](t, w)

	w = env.do(t, http.MethodGet, "/api/admin/users", nil, admin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]schema.User](t, w), 2)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/admin/users", nil, developer.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/admin/users", nil, "").Code)
}

func TestUsersWithoutPersistence(t *testing.T) {
	tokens, err := auth.NewTokenManager("api-test-secret-0123456789abcdef", time.Hour)
	require.NoError(t, err)
	accounts := auth.NewService(store.NewUserStore(nil, schema.NoneBackend), tokens)
	reviews := store.NewReviewStore(nil, schema.NoneBackend)
	env := &testEnv{
		handler:  NewServer(core.NewReviewer(nil, reviews, core.Options{}), reviews, accounts, Options{}).Handler(),
		reviews:  reviews,
		accounts: accounts,
	}

	w := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "ravi", "email": "ravi@example.com", "password": "password1",
	}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodPost, "/api/review", map[string]string{"code": "x = 1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[schema.ReviewResult](t, w).ReviewID)
	assert.JSONEq(t, `[]`, env.do(t, http.MethodGet, "/api/history", nil, "").Body.String())
}
