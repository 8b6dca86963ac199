package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/infrastructure/logger"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// isPublic lists the routes reachable without a bearer token
func isPublic(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics":
		return true
	case "/api/users", "/api/users/login":
		return r.Method == http.MethodPost
	}
	return r.Method == http.MethodOptions || !strings.HasPrefix(r.URL.Path, "/api/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// JWTMiddleware decodes the bearer token and stores its claims in the request context
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authorized, malformed token")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeError(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects callers whose role lacks perm. It must run after JWTMiddleware.
func RequirePermission(authz *security.AuthorizationService, auditLog *audit.Logger, perm security.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}
			if err := authz.ValidatePermission(claims.Role, perm); err != nil {
				auditLog.LogDenied(r.Context(), claims.UserID, string(claims.Role), string(perm))
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware limits each user, or each client address before login
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := "ip:" + clientIP(r)
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				key = "user:" + claims.UserID
			}

			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", r.URL.Path))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every authenticated mutating API call
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims != nil && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				auditLog.Record(r.Context(), audit.Entry{
					UserID:   claims.UserID,
					Role:     string(claims.Role),
					Action:   strings.ToLower(r.Method),
					Resource: r.URL.Path,
					Outcome:  audit.Initiated,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID attaches a request ID to the context and response headers and logs
// one line per completed request.
func RequestID(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = generateRequestID()
			}
			w.Header().Set("X-Request-ID", reqID)

			ctx := logger.WithRequestID(r.Context(), reqID)
			start := time.Now()

			next.ServeHTTP(w, r.WithContext(ctx))

			log.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration_ms", time.Since(start)),
			)
		})
	}
}

// CORS honors the configured origins and answers preflight requests
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if originAllowed(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(allowed) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", allowed[0])
			}
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsContextKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// WithClaims returns ctx carrying claims, for handler tests and internal callers
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey{}, claims)
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func generateRequestID() string {
	return uuid.NewString()
}
