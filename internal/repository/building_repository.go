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

// PostgresBuildingRepository implements domain.BuildingRepository using PostgreSQL
type PostgresBuildingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBuildingRepository creates a new building repository
func NewPostgresBuildingRepository(db *sql.DB, logger *slog.Logger) *PostgresBuildingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBuildingRepository{db: db, logger: logger}
}

const buildingColumns = `id, name, address, admin_id, created_at, updated_at`

// Create inserts a building
func (r *PostgresBuildingRepository) Create(ctx context.Context, b *domain.Building) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query := `
		INSERT INTO buildings (id, name, address, admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, b.ID, b.Name, b.Address, b.AdminID).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("building %q already exists", b.Name)
		}
		return fmt.Errorf("failed to create building: %w", err)
	}
	return nil
}

// GetByID retrieves a building by ID
func (r *PostgresBuildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1`
	return scanBuilding(r.db.QueryRowContext(ctx, query, id))
}

// GetByAdminAndName retrieves an admin's building by its name
func (r *PostgresBuildingRepository) GetByAdminAndName(ctx context.Context, adminID, name string) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE admin_id = $1 AND name = $2`
	return scanBuilding(r.db.QueryRowContext(ctx, query, adminID, name))
}

// ListByAdmin returns every building owned by adminID
func (r *PostgresBuildingRepository) ListByAdmin(ctx context.Context, adminID string) ([]*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE admin_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		r.logger.Error("failed to list buildings",
			slog.String("admin_id", adminID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var out []*domain.Building
	for rows.Next() {
		b := &domain.Building{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.AdminID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update saves name and address
func (r *PostgresBuildingRepository) Update(ctx context.Context, b *domain.Building) error {
	query := `
		UPDATE buildings
		SET name = $1, address = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, b.Name, b.Address, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("building not found")
		}
		if isUniqueViolation(err) {
			return domain.Conflict("building %q already exists", b.Name)
		}
		return fmt.Errorf("failed to update building: %w", err)
	}
	return nil
}

// Delete removes a building
func (r *PostgresBuildingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete building: %w", err)
	}
	return checkAffected(res, domain.NotFound("building not found"))
}

func scanBuilding(row *sql.Row) (*domain.Building, error) {
	b := &domain.Building{}
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.AdminID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("building not found")
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	return b, nil
}
