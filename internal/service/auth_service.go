package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// AuthService handles authentication operations
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users domain.UserRepository,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresIn int // seconds
}

// Register creates a student account. Admin accounts are only created by
// operators through CreateAdmin.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	user, err := s.createUser(ctx, name, email, password, domain.RoleStudent)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin creates an admin account
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.createUser(ctx, name, email, password, domain.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.Validation("name, email, and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validation("invalid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.Validation("password must be at least %d characters", MinPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("email already registered")
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)),
	)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			s.logger.Info("login attempt with non-existent email")
			return nil, domain.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("user_id", user.ID))
		return nil, domain.Unauthorized("invalid email or password")
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return s.issue(user)
}

// Me returns the account behind a token
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, err
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int(s.tokens.TTL().Seconds()),
	}, nil
}
