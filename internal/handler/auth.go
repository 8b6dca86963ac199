package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// Login attempts allowed per client address per window
const (
	loginAttempts = 10
	loginWindow   = 15 * time.Minute
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	limiter     *ratelimit.Limiter
	resp        *Responder
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler. A nil limiter disables the
// login throttle.
func NewAuthHandler(authService *service.AuthService, limiter *ratelimit.Limiter, resp *Responder, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, limiter: limiter, resp: resp, logger: logger}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func authResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{UserResponse: toUser(res.User), Token: res.Token, ExpiresIn: res.ExpiresIn}
}

// Register handles POST /api/users. New accounts are always students.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, authResponse(result))
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.AllowStrict("login:"+remoteHost(r), loginAttempts, loginWindow) {
		h.logger.Warn("login throttled", slog.String("remote", remoteHost(r)))
		h.resp.json(w, http.StatusTooManyRequests, ErrorResponse{Message: "too many login attempts, try again later"})
		return
	}

	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, authResponse(result))
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	user, err := h.authService.Me(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toUser(user))
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
