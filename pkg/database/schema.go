package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'student',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS buildings (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		admin_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (admin_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		building_id UUID NOT NULL REFERENCES buildings(id),
		user_id UUID REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		national_id CHAR(12) NOT NULL,
		college_id VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id UUID PRIMARY KEY,
		building_id UUID NOT NULL REFERENCES buildings(id),
		room_number VARCHAR(32) NOT NULL,
		monthly_rent NUMERIC(12,2) NOT NULL CHECK (monthly_rent >= 0),
		status VARCHAR(32) NOT NULL DEFAULT 'Vacant',
		tenant_id UUID REFERENCES tenants(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (building_id, room_number),
		CHECK ((status = 'Occupied') = (tenant_id IS NOT NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_tenant ON rooms(tenant_id) WHERE tenant_id IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS bills (
		id UUID PRIMARY KEY,
		room_id UUID NOT NULL REFERENCES rooms(id),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		building_id UUID NOT NULL REFERENCES buildings(id),
		month SMALLINT NOT NULL CHECK (month BETWEEN 1 AND 12),
		year SMALLINT NOT NULL,
		rent NUMERIC(12,2) NOT NULL DEFAULT 0,
		electricity_units NUMERIC(12,2) NOT NULL DEFAULT 0,
		electricity_bill NUMERIC(12,2) NOT NULL DEFAULT 0,
		other_charges NUMERIC(12,2) NOT NULL DEFAULT 0,
		previous_dues NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'Pending',
		source VARCHAR(16) NOT NULL DEFAULT 'monthly',
		due_date TIMESTAMPTZ NOT NULL,
		payment_method VARCHAR(16),
		paid_at TIMESTAMPTZ,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, month, year)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_room_period ON bills(room_id, year, month)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_building ON bills(building_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		bill_id UUID NOT NULL UNIQUE REFERENCES bills(id),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		building_id UUID NOT NULL REFERENCES buildings(id),
		amount NUMERIC(12,2) NOT NULL,
		method VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Confirmed',
		payment_date TIMESTAMPTZ NOT NULL,
		confirmed_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_building_created ON payments(building_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY,
		building_id UUID NOT NULL REFERENCES buildings(id),
		admin_id UUID NOT NULL REFERENCES users(id),
		category VARCHAR(32) NOT NULL,
		amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
		description TEXT NOT NULL DEFAULT '',
		month SMALLINT NOT NULL,
		year SMALLINT NOT NULL,
		expense_date TIMESTAMPTZ NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_building_date ON expenses(building_id, expense_date)`,
}

// Migrate creates any missing tables and indexes
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	logger.Info("database schema up to date", slog.Int("statements", len(schema)))
	return nil
}
