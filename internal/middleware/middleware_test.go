package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage/memory"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type authFixture struct {
	store  *memory.Store
	tokens *auth.TokenManager
	user   models.User
	admin  models.User
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)
	admin, err := store.CreateUser(ctx, models.User{Username: "root", PasswordHash: "x", Role: models.RoleAdmin})
	require.NoError(t, err)
	return authFixture{
		store:  store,
		tokens: auth.NewTokenManager("test-secret", "arcade-test", time.Hour),
		user:   user,
		admin:  admin,
	}
}

func (f authFixture) token(t *testing.T, u models.User) string {
	t.Helper()
	raw, err := f.tokens.Generate(u)
	require.NoError(t, err)
	return raw
}

func (f authFixture) do(header string, h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	h := Authenticate(f.tokens, f.store)(okHandler())

	assert.Equal(t, http.StatusUnauthorized, f.do("", h).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do("Basic abc", h).Code)
	assert.Equal(t, http.StatusForbidden, f.do("Bearer garbage", h).Code)
	assert.Equal(t, http.StatusOK, f.do("Bearer "+f.token(t, f.user), h).Code)
}

func TestAuthenticateReloadsUser(t *testing.T) {
	f := newAuthFixture(t)
	h := Authenticate(f.tokens, f.store)(okHandler())
	raw := f.token(t, f.user)

	require.NoError(t, f.store.DeleteUser(context.Background(), f.user.ID))
	assert.Equal(t, http.StatusForbidden, f.do("Bearer "+raw, h).Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	h := Authenticate(f.tokens, f.store)(RequireAdmin(okHandler()))

	assert.Equal(t, http.StatusForbidden, f.do("Bearer "+f.token(t, f.user), h).Code)
	assert.Equal(t, http.StatusOK, f.do("Bearer "+f.token(t, f.admin), h).Code)
}

func TestRequestIDEchoesClientValue(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2)(okHandler())
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("arcade_test", reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/admin/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/games/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	count := testutil.ToFloat64(m.errors.WithLabelValues(http.MethodGet, "/api/admin/games/{id}", "404"))
	assert.Equal(t, float64(1), count)
}
