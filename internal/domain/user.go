package domain

import (
	"context"
	"time"
)

// Role is the coarse access level carried in a user's token
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is a login account. Admins own buildings; a student may be linked
// from at most one tenant record.
type User struct {
	ID           string
	Name         string
	Email        string // stored lowercased, unique
	PasswordHash string // bcrypt, never serialized
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository stores accounts. Create returns ErrConflict on a taken email
// and the Get methods return ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
