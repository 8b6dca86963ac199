package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", time.Hour)
	var seen *auth.Claims
	h := JWTMiddleware(tm, nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tok, err := tm.GenerateToken("admin-1", "a@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"register is public", http.MethodPost, "/api/users", "", http.StatusOK},
		{"login is public", http.MethodPost, "/api/users/login", "", http.StatusOK},
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"me needs token", http.MethodGet, "/api/users/me", "", http.StatusUnauthorized},
		{"malformed header", http.MethodGet, "/api/buildings", "Token abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/buildings", "Bearer nope", http.StatusUnauthorized},
		{"valid token", http.MethodGet, "/api/buildings", "Bearer " + tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "admin-1", seen.UserID)
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(security.NewAuthorizationService(nopLogger()), audit.NewLogger(nopLogger()),
		security.PermManageBuildings)(okHandler())

	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"student", &auth.Claims{UserID: "s1", Role: domain.RoleStudent}, http.StatusUnauthorized},
		{"admin", &auth.Claims{UserID: "a1", Role: domain.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/buildings", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()
	h := RateLimitMiddleware(limiter, nopLogger())(okHandler())

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/buildings", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/buildings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	h := RequestID(nopLogger())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Header().Get("X-Request-ID"))
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(nopLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/buildings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/buildings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateJSONContentTypeSkipsEmptyBodies(t *testing.T) {
	h := ValidateJSONContentType(nopLogger())(okHandler())
	req := httptest.NewRequest(http.MethodPut, "/api/rooms/r1/vacate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSanitizeInputs(t *testing.T) {
	h := SanitizeInputs(nopLogger())(okHandler())
	tests := []struct {
		target string
		want   int
	}{
		{"/api/rent-records?status=Overdue&month=11", http.StatusOK},
		{"/api/rent-records?status=%3Cscript%3E", http.StatusBadRequest},
		{"/api/rent-records?notes=a%00b", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, tt.want, rec.Code, tt.target)
	}
}
