package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository/memory"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
)

func newAuthService() (*AuthService, *auth.TokenManager) {
	tm := auth.NewTokenManager("secret", "", time.Hour)
	return NewAuthService(memory.NewUserRepository(), tm, discardLogger()), tm
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s, tm := newAuthService()

	// Register
	r, err := s.Register(ctx, "Alice", "Alice@Example.com", "Password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if r.User.ID == "" || r.Token == "" {
		t.Fatalf("expected user id and token")
	}
	if r.User.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %s", r.User.Role)
	}
	claims, err := tm.ValidateToken(r.Token)
	if err != nil || claims.UserID != r.User.ID || claims.Role != domain.RoleStudent {
		t.Fatalf("token does not carry the new user: %v", err)
	}

	// Duplicate email, any case
	if _, err := s.Register(ctx, "Alice 2", "alice@example.com", "Password123"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}

	// Login ok
	lr, err := s.Login(ctx, "alice@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lr.Token == "" || lr.ExpiresIn != 3600 {
		t.Fatalf("expected token valid for an hour, got %d", lr.ExpiresIn)
	}

	// Login wrong password
	if _, err := s.Login(ctx, "alice@example.com", "Wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	// Unknown email
	if _, err := s.Login(ctx, "nobody@example.com", "Password123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newAuthService()

	cases := []struct{ name, email, password string }{
		{"", "a@example.com", "Password123"},
		{"A", "not-an-email", "Password123"},
		{"A", "a@example.com", "short"},
	}
	for _, c := range cases {
		if _, err := s.Register(ctx, c.name, c.email, c.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", c, err)
		}
	}
}

func TestCreateAdminAndMe(t *testing.T) {
	ctx := context.Background()
	s, _ := newAuthService()

	admin, err := s.CreateAdmin(ctx, "Owner", "owner@example.com", "Password123")
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role")
	}

	me, err := s.Me(ctx, admin.ID)
	if err != nil || me.Email != "owner@example.com" {
		t.Fatalf("me failed: %v", err)
	}
	if _, err := s.Me(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
