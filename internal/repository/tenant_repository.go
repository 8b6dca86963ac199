package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// PostgresTenantRepository implements domain.TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTenantRepository creates a new tenant repository
func NewPostgresTenantRepository(db *sql.DB, logger *slog.Logger) *PostgresTenantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTenantRepository{db: db, logger: logger}
}

const tenantColumns = `id, building_id, user_id, name, phone, email, national_id, college_id, status, created_at, updated_at`

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	var userID sql.NullString
	var status string
	if err := row.Scan(
		&t.ID, &t.BuildingID, &userID, &t.Name, &t.Phone, &t.Email,
		&t.NationalID, &t.CollegeID, &status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.UserID = stringPtr(userID)
	t.Status = domain.TenantStatus(status)
	return t, nil
}

func (r *PostgresTenantRepository) getOne(ctx context.Context, query string, arg string) (*domain.Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// Create creates a new tenant
func (r *PostgresTenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tenants (id, building_id, user_id, name, phone, email, national_id, college_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.BuildingID, nullString(t.UserID), t.Name, t.Phone, t.Email,
		t.NationalID, t.CollegeID, string(t.Status),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
}

// GetByUserID retrieves the tenant linked to a student login
func (r *PostgresTenantRepository) GetByUserID(ctx context.Context, userID string) (*domain.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
}

// ListByBuilding returns a building's tenants, newest first
func (r *PostgresTenantRepository) ListByBuilding(ctx context.Context, buildingID string) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE building_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update updates an existing tenant
func (r *PostgresTenantRepository) Update(ctx context.Context, t *domain.Tenant) error {
	query := `
		UPDATE tenants
		SET user_id = $1, name = $2, phone = $3, email = $4, national_id = $5,
		    college_id = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		nullString(t.UserID), t.Name, t.Phone, t.Email, t.NationalID, t.CollegeID, string(t.Status), t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("tenant not found")
		}
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}

// Delete removes a tenant
func (r *PostgresTenantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return checkAffected(res, domain.NotFound("tenant not found"))
}
