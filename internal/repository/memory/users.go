package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// UserRepository implements domain.UserRepository in memory
type UserRepository struct {
	t *table[domain.User]
}

// NewUserRepository creates an empty user store
func NewUserRepository() *UserRepository {
	return &UserRepository{t: newTable[domain.User]()}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, e := range r.t.rows {
		if e.v.Email == u.Email {
			return domain.Conflict("email already registered")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	r.t.put(u.ID, *u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	e, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	u := e.v
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range r.t.rows {
		if e.v.Email == email {
			u := e.v
			return &u, nil
		}
	}
	return nil, domain.NotFound("user not found")
}
