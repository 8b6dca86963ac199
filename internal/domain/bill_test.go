package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate(t *testing.T) {
	b := &Bill{
		Rent:            decimal.NewFromInt(5000),
		ElectricityBill: decimal.NewFromInt(420),
		OtherCharges:    decimal.NewFromInt(80),
		PreviousDues:    decimal.NewFromInt(1500),
	}
	b.Recalculate()
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(7000)), "total = %s", b.TotalAmount)
}

func TestEffectiveStatus(t *testing.T) {
	due := DueDate(11, 2025, 10)
	b := &Bill{Status: BillPending, DueDate: due}

	assert.Equal(t, BillPending, b.EffectiveStatus(due.Add(-time.Hour)))
	assert.Equal(t, BillOverdue, b.EffectiveStatus(due.Add(time.Hour)))

	b.Status = BillPaymentPendingConfirmation
	assert.Equal(t, BillPaymentPendingConfirmation, b.EffectiveStatus(due.Add(time.Hour)))

	b.Status = BillPaid
	assert.Equal(t, BillPaid, b.EffectiveStatus(due.Add(time.Hour)))
}

func TestPreviousPeriodWrapsYear(t *testing.T) {
	m, y := PreviousPeriod(1, 2026)
	assert.Equal(t, 12, m)
	assert.Equal(t, 2025, y)

	m, y = PreviousPeriod(7, 2026)
	assert.Equal(t, 6, m)
	assert.Equal(t, 2026, y)
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	d := DueDate(2, 2025, 31)
	assert.Equal(t, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), d)

	d = DueDate(11, 2025, 10)
	assert.Equal(t, time.Date(2025, 11, 10, 23, 59, 59, 0, time.UTC), d)
}

func TestValidateBillTransition(t *testing.T) {
	require.NoError(t, ValidateBillTransition(BillPending, BillPaymentPendingConfirmation))
	require.NoError(t, ValidateBillTransition(BillPaymentPendingConfirmation, BillPaid))
	require.NoError(t, ValidateBillTransition(BillPending, BillPaid))

	err := ValidateBillTransition(BillPaid, BillPending)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	err = ValidateBillTransition(BillPaymentPendingConfirmation, BillPaymentPendingConfirmation)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod(11, 2025))
	assert.True(t, errors.Is(ValidatePeriod(0, 2025), ErrValidation))
	assert.True(t, errors.Is(ValidatePeriod(13, 2025), ErrValidation))
	assert.True(t, errors.Is(ValidatePeriod(5, 1999), ErrValidation))
}

func TestTenantValidate(t *testing.T) {
	tenant := &Tenant{Name: "Asha", Phone: "9999999999", NationalID: "123456789012", Status: TenantActive}
	require.NoError(t, tenant.Validate())

	tenant.NationalID = "12345"
	err := tenant.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "12 digits")
}
