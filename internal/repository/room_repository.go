package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// PostgresRoomRepository implements domain.RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRoomRepository creates a new room repository
func NewPostgresRoomRepository(db *sql.DB, logger *slog.Logger) *PostgresRoomRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRoomRepository{db: db, logger: logger}
}

const roomColumns = `id, building_id, room_number, monthly_rent, status, tenant_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	room := &domain.Room{}
	var status string
	var tenantID sql.NullString
	if err := row.Scan(
		&room.ID,
		&room.BuildingID,
		&room.RoomNumber,
		&room.MonthlyRent,
		&status,
		&tenantID,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	room.Status = domain.RoomStatus(status)
	room.TenantID = stringPtr(tenantID)
	return room, nil
}

func (r *PostgresRoomRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("room not found")
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// Create inserts a room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	query := `
		INSERT INTO rooms (id, building_id, room_number, monthly_rent, status, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		room.ID,
		room.BuildingID,
		room.RoomNumber,
		room.MonthlyRent,
		string(room.Status),
		nullString(room.TenantID),
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("room %s already exists in this building", room.RoomNumber)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *PostgresRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return r.getOne(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
}

// GetByNumber retrieves a room by its number within a building
func (r *PostgresRoomRepository) GetByNumber(ctx context.Context, buildingID, number string) (*domain.Room, error) {
	return r.getOne(ctx, `SELECT `+roomColumns+` FROM rooms WHERE building_id = $1 AND room_number = $2`, buildingID, number)
}

// GetByTenant retrieves the room a tenant occupies
func (r *PostgresRoomRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.Room, error) {
	return r.getOne(ctx, `SELECT `+roomColumns+` FROM rooms WHERE tenant_id = $1`, tenantID)
}

// ListByBuildings returns the rooms of the given buildings ordered by room number
func (r *PostgresRoomRepository) ListByBuildings(ctx context.Context, buildingIDs []string) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE building_id = ANY($1) ORDER BY building_id, room_number`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(buildingIDs))
	if err != nil {
		r.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var out []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// Update saves room number, rent and status. Occupancy changes go through Assign and Vacate.
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `
		UPDATE rooms
		SET room_number = $1, monthly_rent = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, room.RoomNumber, room.MonthlyRent, string(room.Status), room.ID).Scan(&room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("room not found")
		}
		if isUniqueViolation(err) {
			return domain.Conflict("room %s already exists in this building", room.RoomNumber)
		}
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

// Assign occupies a vacant room. The WHERE clause makes the vacancy check
// and the write a single statement.
func (r *PostgresRoomRepository) Assign(ctx context.Context, roomID, tenantID string) (*domain.Room, error) {
	query := `
		UPDATE rooms
		SET tenant_id = $2, status = 'Occupied', updated_at = NOW()
		WHERE id = $1 AND status = 'Vacant' AND tenant_id IS NULL
		RETURNING ` + roomColumns
	room, err := scanRoom(r.db.QueryRowContext(ctx, query, roomID, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Conflict("room is not vacant")
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict("tenant already occupies another room")
		}
		return nil, fmt.Errorf("failed to assign room: %w", err)
	}
	return room, nil
}

// Vacate clears the room's tenant
func (r *PostgresRoomRepository) Vacate(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `
		UPDATE rooms
		SET tenant_id = NULL, status = 'Vacant', updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roomColumns
	room, err := scanRoom(r.db.QueryRowContext(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("room not found")
		}
		return nil, fmt.Errorf("failed to vacate room: %w", err)
	}
	return room, nil
}

// Delete removes a room
func (r *PostgresRoomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return checkAffected(res, domain.NotFound("room not found"))
}
