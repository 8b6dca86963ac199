package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the stored state of a bill. Overdue is never stored; it is
// derived from the due date by EffectiveStatus.
type BillStatus string

const (
	BillPending                    BillStatus = "Pending"
	BillPaymentPendingConfirmation BillStatus = "PaymentPendingConfirmation"
	BillPaid                       BillStatus = "Paid"
	BillOverdue                    BillStatus = "Overdue"
)

// Valid reports whether s is a known bill status, derived ones included
func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPaymentPendingConfirmation, BillPaid, BillOverdue:
		return true
	}
	return false
}

// BillSource records which generation path produced a bill
type BillSource string

const (
	// SourceMonthly bills come from the dues-rollover generator
	SourceMonthly BillSource = "monthly"
	// SourceRentRecord bills come from the electricity-units generator or explicit creation
	SourceRentRecord BillSource = "rent_record"
)

// PaymentMethod is how a tenant settled a bill
type PaymentMethod string

const (
	MethodUPI          PaymentMethod = "UPI"
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "BankTransfer"
)

// Valid reports whether m is an accepted payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodUPI, MethodCash, MethodBankTransfer:
		return true
	}
	return false
}

// Bill is one tenant's obligation for one billing period
type Bill struct {
	ID               string
	RoomID           string
	TenantID         string
	BuildingID       string
	Month            int
	Year             int
	Rent             decimal.Decimal
	ElectricityUnits decimal.Decimal
	ElectricityBill  decimal.Decimal
	OtherCharges     decimal.Decimal
	PreviousDues     decimal.Decimal
	TotalAmount      decimal.Decimal
	Status           BillStatus
	Source           BillSource
	DueDate          time.Time
	PaymentMethod    *PaymentMethod
	PaidAt           *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Recalculate sets TotalAmount from the itemized charges. The total is
// never set independently.
func (b *Bill) Recalculate() {
	b.TotalAmount = b.Rent.Add(b.ElectricityBill).Add(b.OtherCharges).Add(b.PreviousDues)
}

// EffectiveStatus returns the status as seen at now, deriving Overdue for
// pending bills past their due date.
func (b *Bill) EffectiveStatus(now time.Time) BillStatus {
	if b.Status == BillPending && !b.DueDate.IsZero() && now.After(b.DueDate) {
		return BillOverdue
	}
	return b.Status
}

// IsPaid reports whether the bill reached its terminal state
func (b *Bill) IsPaid() bool {
	return b.Status == BillPaid
}

// billTransitions lists the stored-state transitions the API may perform.
// Paid is terminal.
var billTransitions = map[BillStatus][]BillStatus{
	BillPending:                    {BillPaymentPendingConfirmation, BillPaid},
	BillPaymentPendingConfirmation: {BillPaid, BillPending},
	BillPaid:                       {},
}

// ValidateBillTransition checks whether moving from current to target is allowed
func ValidateBillTransition(current, target BillStatus) error {
	allowed, ok := billTransitions[current]
	if !ok {
		return InvalidState("unknown bill status %s", current)
	}
	for _, s := range allowed {
		if s == target {
			return nil
		}
	}
	return InvalidState("bill status %s cannot change to %s", current, target)
}

// ValidatePeriod checks a billing month and year
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return Validation("month must be between 1 and 12")
	}
	if year < 2000 || year > 9999 {
		return Validation("year %d is out of range", year)
	}
	return nil
}

// PreviousPeriod returns the billing period immediately before month/year
func PreviousPeriod(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// PeriodBounds returns the first instant of the month and the first instant
// of the following month, in UTC.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DueDate returns the end of the given day within the billing month, clamped
// to the month's last day.
func DueDate(month, year, day int) time.Time {
	start, next := PeriodBounds(month, year)
	last := next.AddDate(0, 0, -1).Day()
	if day < 1 {
		day = 1
	}
	if day > last {
		day = last
	}
	return start.AddDate(0, 0, day).Add(-time.Second)
}

// BillFilter narrows bill listings. Zero values mean "any".
type BillFilter struct {
	BuildingIDs []string
	TenantID    string
	RoomID      string
	Status      BillStatus
	Source      BillSource
	Month       int
	Year        int
}

// BillRepository defines data access for bills
type BillRepository interface {
	// Create inserts a bill; ErrConflict if the tenant already has one for the period.
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id string) (*Bill, error)
	FindForRoomPeriod(ctx context.Context, roomID string, month, year int) (*Bill, error)
	FindForTenantPeriod(ctx context.Context, tenantID string, month, year int) (*Bill, error)
	List(ctx context.Context, filter BillFilter) ([]*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id string) error
}

// Locker serializes work on a key across processes
type Locker interface {
	// Acquire takes the lock or fails with ErrConflict if someone else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
