package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

const admin = "admin-1"

func TestGenerateBillsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	f.occupiedRoom(t, admin, b.ID, "102", "6000", nil)
	f.addRoom(t, admin, b.ID, "103", "4000") // vacant, ignored

	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Bills, 2)
	for _, bill := range res.Bills {
		assert.Equal(t, domain.BillPending, bill.Status)
		assert.Equal(t, domain.SourceMonthly, bill.Source)
		assert.True(t, bill.TotalAmount.Equal(bill.Rent))
		assert.Equal(t, time.Date(2025, 11, 10, 23, 59, 59, 0, time.UTC), bill.DueDate)
	}

	res, err = f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)

	all, err := f.bills.List(ctx, domain.BillFilter{BuildingIDs: []string{b.ID}})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGenerateBillsCarriesUnpaidDues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	_, unpaid := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	_, settled := f.occupiedRoom(t, admin, b.ID, "102", "6000", nil)

	first, err := f.billing.GenerateBills(ctx, admin, b.ID, 12, 2025)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	var settledBill string
	for _, bill := range first.Bills {
		if bill.TenantID == settled.ID {
			settledBill = bill.ID
		}
	}
	_, _, err = f.billing.PayRentRecord(ctx, admin, settledBill, domain.MethodCash, nil)
	require.NoError(t, err)

	// January rolls over from December of the previous year
	next, err := f.billing.GenerateBills(ctx, admin, b.ID, 1, 2026)
	require.NoError(t, err)
	require.Equal(t, 2, next.Created)
	for _, bill := range next.Bills {
		switch bill.TenantID {
		case unpaid.ID:
			assert.True(t, bill.PreviousDues.Equal(dec("5000")), "dues = %s", bill.PreviousDues)
			assert.True(t, bill.TotalAmount.Equal(dec("10000")), "total = %s", bill.TotalAmount)
		case settled.ID:
			assert.True(t, bill.PreviousDues.IsZero())
			assert.True(t, bill.TotalAmount.Equal(dec("6000")))
		}
	}
}

func TestGenerateBillsReportsOccupiedRoomWithoutTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	broken := &domain.Room{BuildingID: b.ID, RoomNumber: "102", MonthlyRent: dec("6000"), Status: domain.RoomOccupied}
	require.NoError(t, f.rooms.Create(ctx, broken))

	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, broken.ID, res.Errors[0].RoomID)
	assert.Contains(t, res.Errors[0].Message, "no tenant")
}

func TestGenerateBillsRejectsNonOwner(t *testing.T) {
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")

	_, err := f.billing.GenerateBills(context.Background(), "someone-else", b.ID, 11, 2025)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.billing.GenerateBills(context.Background(), admin, "missing", 11, 2025)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.billing.GenerateBills(context.Background(), admin, b.ID, 13, 2025)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateBillsFailsWhileLocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)

	release, err := f.locker.Acquire(ctx, generationLockKey(b.ID, 11, 2025), time.Minute)
	require.NoError(t, err)

	_, err = f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	assert.ErrorIs(t, err, domain.ErrConflict)

	release()
	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestGenerateRentRecordsPricesElectricity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	r1, _ := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	f.occupiedRoom(t, admin, b.ID, "102", "6000", nil)

	res, err := f.billing.GenerateRentRecords(ctx, admin, b.ID, 11, 2025, map[string]decimal.Decimal{r1.ID: dec("52.5")})
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)
	for _, bill := range res.Bills {
		assert.Equal(t, domain.SourceRentRecord, bill.Source)
		if bill.RoomID == r1.ID {
			assert.True(t, bill.ElectricityBill.Equal(dec("420")), "electricity = %s", bill.ElectricityBill)
			assert.True(t, bill.TotalAmount.Equal(dec("5420")))
		} else {
			assert.True(t, bill.ElectricityBill.IsZero())
		}
	}

	_, err = f.billing.GenerateRentRecordForRoom(ctx, admin, r1.ID, 11, 2025, dec("10"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.billing.GenerateRentRecords(ctx, admin, b.ID, 12, 2025, map[string]decimal.Decimal{r1.ID: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateRentRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room, tenant := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)

	bill, err := f.billing.CreateRentRecord(ctx, admin, RentRecordInput{
		RoomID:           room.ID,
		Month:            11,
		Year:             2025,
		ElectricityUnits: dec("10"),
		OtherCharges:     dec("150"),
		Notes:            "water filter",
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, bill.TenantID)
	assert.True(t, bill.TotalAmount.Equal(dec("5230")), "total = %s", bill.TotalAmount)

	_, err = f.billing.CreateRentRecord(ctx, admin, RentRecordInput{RoomID: room.ID, Month: 11, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateRentRecordChargesOnlyTheOccupant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room, _ := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	_, neighbour := f.occupiedRoom(t, admin, b.ID, "102", "6000", nil)
	vacant := f.addRoom(t, admin, b.ID, "103", "4000")

	_, err := f.billing.CreateRentRecord(ctx, admin, RentRecordInput{RoomID: room.ID, TenantID: neighbour.ID, Month: 11, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.billing.CreateRentRecord(ctx, admin, RentRecordInput{RoomID: vacant.ID, TenantID: neighbour.ID, Month: 11, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrValidation)

	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.Skipped)
}

func TestCreateRentRecordWaitsForGenerationLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room, _ := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)

	release, err := f.locker.Acquire(ctx, generationLockKey(b.ID, 11, 2025), time.Minute)
	require.NoError(t, err)
	_, err = f.billing.CreateRentRecord(ctx, admin, RentRecordInput{RoomID: room.ID, Month: 11, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrConflict)

	release()
	_, err = f.billing.CreateRentRecord(ctx, admin, RentRecordInput{RoomID: room.ID, Month: 11, Year: 2025})
	assert.NoError(t, err)
}

func TestUpdateChargesHonorsExplicitZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room, _ := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	bill, err := f.billing.GenerateRentRecordForRoom(ctx, admin, room.ID, 11, 2025, dec("50"))
	require.NoError(t, err)
	require.True(t, bill.TotalAmount.Equal(dec("5400")))

	bill, err = f.billing.UpdateCharges(ctx, admin, bill.ID, ChargesUpdate{OtherCharges: ptr(dec("200"))})
	require.NoError(t, err)
	assert.True(t, bill.TotalAmount.Equal(dec("5600")))

	bill, err = f.billing.UpdateCharges(ctx, admin, bill.ID, ChargesUpdate{ElectricityBill: ptr(dec("0"))})
	require.NoError(t, err)
	assert.True(t, bill.ElectricityBill.IsZero())
	assert.True(t, bill.OtherCharges.Equal(dec("200")), "unset field must be kept")
	assert.True(t, bill.TotalAmount.Equal(dec("5200")))

	bill, err = f.billing.UpdateCharges(ctx, admin, bill.ID, ChargesUpdate{ElectricityUnits: ptr(dec("25"))})
	require.NoError(t, err)
	assert.True(t, bill.ElectricityBill.Equal(dec("200")))
	assert.True(t, bill.TotalAmount.Equal(dec("5400")))

	_, err = f.billing.UpdateCharges(ctx, "intruder", bill.ID, ChargesUpdate{OtherCharges: ptr(dec("1"))})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPaymentFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.addStudent(t, "asha@example.com")
	other := f.addStudent(t, "ravi@example.com")
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", &student.ID)

	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	billID := res.Bills[0].ID

	// Overdue bills can still be claimed.
	f.billing.now = func() time.Time { return time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC) }
	mine, err := f.billing.MyBills(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.BillOverdue, mine[0].EffectiveStatus(f.billing.Now()))

	_, err = f.billing.MarkPaid(ctx, other.ID, billID, domain.MethodUPI)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	bill, err := f.billing.MarkPaid(ctx, student.ID, billID, domain.MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, domain.BillPaymentPendingConfirmation, bill.Status)

	_, err = f.billing.MarkPaid(ctx, student.ID, billID, domain.MethodUPI)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	queue, err := f.billing.PendingConfirmations(ctx, admin)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	bill, payment, err := f.billing.ConfirmPayment(ctx, admin, billID, ConfirmInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.BillPaid, bill.Status)
	require.NotNil(t, bill.PaidAt)
	assert.True(t, payment.Amount.Equal(dec("5000")))
	assert.Equal(t, domain.MethodUPI, payment.Method)
	assert.Equal(t, admin, payment.ConfirmedBy)

	_, _, err = f.billing.ConfirmPayment(ctx, admin, billID, ConfirmInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Contains(t, err.Error(), "Paid")

	assert.ErrorIs(t, f.billing.DeleteBill(ctx, admin, billID), domain.ErrInvalidState)

	payments, err := f.billing.MyPayments(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	none, err := f.billing.MyPayments(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRejectPaymentReturnsToPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.addStudent(t, "asha@example.com")
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", &student.ID)
	res, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	billID := res.Bills[0].ID

	_, err = f.billing.RejectPayment(ctx, admin, billID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.billing.MarkPaid(ctx, student.ID, billID, domain.MethodCash)
	require.NoError(t, err)
	bill, err := f.billing.RejectPayment(ctx, admin, billID)
	require.NoError(t, err)
	assert.Equal(t, domain.BillPending, bill.Status)
	assert.Nil(t, bill.PaymentMethod)

	_, _, err = f.billing.ConfirmPayment(ctx, admin, billID, ConfirmInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConfirmReusesExistingReceipt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.addStudent(t, "asha@example.com")
	b := f.addBuilding(t, admin, "Sunrise")
	room, tenant := f.occupiedRoom(t, admin, b.ID, "101", "5000", &student.ID)
	bill, err := f.billing.GenerateRentRecordForRoom(ctx, admin, room.ID, 11, 2025, dec("0"))
	require.NoError(t, err)
	_, err = f.billing.MarkPaid(ctx, student.ID, bill.ID, domain.MethodCash)
	require.NoError(t, err)

	// a receipt left behind by an interrupted confirm
	stale := &domain.Payment{BillID: bill.ID, TenantID: tenant.ID, BuildingID: b.ID, Amount: dec("5000"),
		Method: domain.MethodCash, Status: domain.PaymentConfirmed}
	require.NoError(t, f.payments.Create(ctx, stale))

	paid, payment, err := f.billing.ConfirmPayment(ctx, admin, bill.ID, ConfirmInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.BillPaid, paid.Status)
	assert.Equal(t, stale.ID, payment.ID)

	all, err := f.billing.AllPayments(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBillsByBuildingFiltersEffectiveStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	_, err := f.billing.GenerateBills(ctx, admin, b.ID, 10, 2025)
	require.NoError(t, err)
	_, err = f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)

	f.billing.now = func() time.Time { return time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC) }

	overdue, err := f.billing.BillsByBuilding(ctx, admin, b.ID, domain.BillOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, 10, overdue[0].Month)

	pending, err := f.billing.BillsByBuilding(ctx, admin, b.ID, domain.BillPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 11, pending[0].Month)

	all, err := f.billing.BillsByBuilding(ctx, admin, b.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 11, all[0].Month, "newest period first")

	_, err = f.billing.BillsByBuilding(ctx, admin, b.ID, "Bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)

	records, err := f.billing.RentRecords(ctx, "nobody", BillQuery{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
