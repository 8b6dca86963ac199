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

// PostgresBillRepository implements domain.BillRepository using PostgreSQL
type PostgresBillRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBillRepository creates a new bill repository
func NewPostgresBillRepository(db *sql.DB, logger *slog.Logger) *PostgresBillRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBillRepository{db: db, logger: logger}
}

const billColumns = `id, room_id, tenant_id, building_id, month, year, rent, electricity_units,
	electricity_bill, other_charges, previous_dues, total_amount, status, source, due_date,
	payment_method, paid_at, notes, created_at, updated_at`

func scanBill(row rowScanner) (*domain.Bill, error) {
	b := &domain.Bill{}
	var status, source string
	var method sql.NullString
	var paidAt sql.NullTime
	if err := row.Scan(
		&b.ID, &b.RoomID, &b.TenantID, &b.BuildingID, &b.Month, &b.Year,
		&b.Rent, &b.ElectricityUnits, &b.ElectricityBill, &b.OtherCharges, &b.PreviousDues, &b.TotalAmount,
		&status, &source, &b.DueDate, &method, &paidAt, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = domain.BillStatus(status)
	b.Source = domain.BillSource(source)
	if method.Valid {
		m := domain.PaymentMethod(method.String)
		b.PaymentMethod = &m
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	return b, nil
}

func billArgs(b *domain.Bill) (sql.NullString, sql.NullTime) {
	var method sql.NullString
	if b.PaymentMethod != nil {
		method = sql.NullString{String: string(*b.PaymentMethod), Valid: true}
	}
	var paidAt sql.NullTime
	if b.PaidAt != nil {
		paidAt = sql.NullTime{Time: *b.PaidAt, Valid: true}
	}
	return method, paidAt
}

func (r *PostgresBillRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Bill, error) {
	b, err := scanBill(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("bill not found")
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return b, nil
}

// Create inserts a bill. The (tenant, month, year) unique index turns a
// duplicate into ErrConflict.
func (r *PostgresBillRepository) Create(ctx context.Context, b *domain.Bill) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	method, paidAt := billArgs(b)
	query := `
		INSERT INTO bills (id, room_id, tenant_id, building_id, month, year, rent, electricity_units,
			electricity_bill, other_charges, previous_dues, total_amount, status, source, due_date,
			payment_method, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.RoomID, b.TenantID, b.BuildingID, b.Month, b.Year, b.Rent, b.ElectricityUnits,
		b.ElectricityBill, b.OtherCharges, b.PreviousDues, b.TotalAmount, string(b.Status), string(b.Source),
		b.DueDate, method, paidAt, b.Notes,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("a bill already exists for this tenant for %02d/%d", b.Month, b.Year)
		}
		r.logger.Error("failed to create bill",
			slog.String("room_id", b.RoomID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// GetByID retrieves a bill by ID
func (r *PostgresBillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
}

// FindForRoomPeriod retrieves the bill of a room for one period
func (r *PostgresBillRepository) FindForRoomPeriod(ctx context.Context, roomID string, month, year int) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE room_id = $1 AND month = $2 AND year = $3
		ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, roomID, month, year)
}

// FindForTenantPeriod retrieves the bill of a tenant for one period
func (r *PostgresBillRepository) FindForTenantPeriod(ctx context.Context, tenantID string, month, year int) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE tenant_id = $1 AND month = $2 AND year = $3`
	return r.getOne(ctx, query, tenantID, month, year)
}

// List returns bills matching filter, newest period first
func (r *PostgresBillRepository) List(ctx context.Context, filter domain.BillFilter) ([]*domain.Bill, error) {
	var where whereClause
	if len(filter.BuildingIDs) > 0 {
		where.add("building_id = ANY($%d)", pq.Array(filter.BuildingIDs))
	}
	if filter.TenantID != "" {
		where.add("tenant_id = $%d", filter.TenantID)
	}
	if filter.RoomID != "" {
		where.add("room_id = $%d", filter.RoomID)
	}
	if filter.Status != "" {
		where.add("status = $%d", string(filter.Status))
	}
	if filter.Source != "" {
		where.add("source = $%d", string(filter.Source))
	}
	if filter.Month != 0 {
		where.add("month = $%d", filter.Month)
	}
	if filter.Year != 0 {
		where.add("year = $%d", filter.Year)
	}

	query := `SELECT ` + billColumns + ` FROM bills` + where.String() + ` ORDER BY year DESC, month DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		r.logger.Error("failed to list bills", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var out []*domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update saves charges, status and payment details
func (r *PostgresBillRepository) Update(ctx context.Context, b *domain.Bill) error {
	method, paidAt := billArgs(b)
	query := `
		UPDATE bills
		SET rent = $1, electricity_units = $2, electricity_bill = $3, other_charges = $4,
		    previous_dues = $5, total_amount = $6, status = $7, payment_method = $8,
		    paid_at = $9, notes = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.Rent, b.ElectricityUnits, b.ElectricityBill, b.OtherCharges, b.PreviousDues, b.TotalAmount,
		string(b.Status), method, paidAt, b.Notes, b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("bill not found")
		}
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return nil
}

// Delete removes a bill
func (r *PostgresBillRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return checkAffected(res, domain.NotFound("bill not found"))
}
