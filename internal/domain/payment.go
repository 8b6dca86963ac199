package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the outcome recorded on a payment receipt
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "Confirmed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment is an immutable receipt created when a bill becomes Paid
type Payment struct {
	ID          string
	BillID      string
	TenantID    string
	BuildingID  string
	Amount      decimal.Decimal
	Method      PaymentMethod
	Status      PaymentStatus
	PaymentDate time.Time
	ConfirmedBy string
	CreatedAt   time.Time
}

// PaymentFilter narrows payment listings. Zero values mean "any".
type PaymentFilter struct {
	BuildingIDs []string
	TenantID    string
	Status      PaymentStatus
	From        time.Time // inclusive, on CreatedAt
	To          time.Time // exclusive, on CreatedAt
}

// PaymentRepository defines data access for payments. There is no update.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBill(ctx context.Context, billID string) (*Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*Payment, error)
}
