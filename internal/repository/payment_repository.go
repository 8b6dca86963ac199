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

// PostgresPaymentRepository implements domain.PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPaymentRepository creates a new payment repository
func NewPostgresPaymentRepository(db *sql.DB, logger *slog.Logger) *PostgresPaymentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPaymentRepository{db: db, logger: logger}
}

const paymentColumns = `id, bill_id, tenant_id, building_id, amount, method, status, payment_date, confirmed_by, created_at`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var method, status string
	if err := row.Scan(
		&p.ID, &p.BillID, &p.TenantID, &p.BuildingID, &p.Amount, &method, &status,
		&p.PaymentDate, &p.ConfirmedBy, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	return p, nil
}

// Create records a payment receipt. One receipt per bill.
func (r *PostgresPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO payments (id, bill_id, tenant_id, building_id, amount, method, status, payment_date, confirmed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.BillID, p.TenantID, p.BuildingID, p.Amount, string(p.Method), string(p.Status),
		p.PaymentDate, p.ConfirmedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("a payment is already recorded for this bill")
		}
		r.logger.Error("failed to create payment",
			slog.String("bill_id", p.BillID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByBill retrieves the receipt of a bill
func (r *PostgresPaymentRepository) GetByBill(ctx context.Context, billID string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE bill_id = $1`, billID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("payment not found")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// List returns payments matching filter, newest first
func (r *PostgresPaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	var where whereClause
	if len(filter.BuildingIDs) > 0 {
		where.add("building_id = ANY($%d)", pq.Array(filter.BuildingIDs))
	}
	if filter.TenantID != "" {
		where.add("tenant_id = $%d", filter.TenantID)
	}
	if filter.Status != "" {
		where.add("status = $%d", string(filter.Status))
	}
	if !filter.From.IsZero() {
		where.add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.add("created_at < $%d", filter.To)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments` + where.String() + ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
