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

// PostgresExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type PostgresExpenseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresExpenseRepository creates a new expense repository
func NewPostgresExpenseRepository(db *sql.DB, logger *slog.Logger) *PostgresExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `id, building_id, admin_id, category, amount, description, month, year, expense_date, notes, created_at, updated_at`

func scanExpense(row rowScanner) (*domain.Expense, error) {
	e := &domain.Expense{}
	var category string
	if err := row.Scan(
		&e.ID, &e.BuildingID, &e.AdminID, &category, &e.Amount, &e.Description,
		&e.Month, &e.Year, &e.ExpenseDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Category = domain.ExpenseCategory(category)
	return e, nil
}

// Create inserts an expense
func (r *PostgresExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO expenses (id, building_id, admin_id, category, amount, description, month, year, expense_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.BuildingID, e.AdminID, string(e.Category), e.Amount, e.Description,
		e.Month, e.Year, e.ExpenseDate, e.Notes,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID
func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("expense not found")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// List returns expenses matching filter, most recent expense date first
func (r *PostgresExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	var where whereClause
	if len(filter.BuildingIDs) > 0 {
		where.add("building_id = ANY($%d)", pq.Array(filter.BuildingIDs))
	}
	if filter.AdminID != "" {
		where.add("admin_id = $%d", filter.AdminID)
	}
	if filter.Month != 0 {
		where.add("month = $%d", filter.Month)
	}
	if filter.Year != 0 {
		where.add("year = $%d", filter.Year)
	}
	if !filter.From.IsZero() {
		where.add("expense_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.add("expense_date < $%d", filter.To)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses` + where.String() + ` ORDER BY expense_date DESC`
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		r.logger.Error("failed to list expenses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var out []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes an expense
func (r *PostgresExpenseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, domain.NotFound("expense not found"))
}
