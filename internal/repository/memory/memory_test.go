package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

func TestBillsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBillRepository()
	method := domain.MethodUPI
	b := &domain.Bill{TenantID: "t1", RoomID: "r1", Month: 11, Year: 2025, Status: domain.BillPending, PaymentMethod: &method}
	require.NoError(t, repo.Create(ctx, b))

	*b.PaymentMethod = domain.MethodCash
	b.Status = domain.BillPaid

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BillPending, stored.Status)
	assert.Equal(t, domain.MethodUPI, *stored.PaymentMethod)
}

func TestBillUniquePerTenantPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewBillRepository()
	require.NoError(t, repo.Create(ctx, &domain.Bill{TenantID: "t1", Month: 11, Year: 2025}))

	err := repo.Create(ctx, &domain.Bill{TenantID: "t1", Month: 11, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, repo.Create(ctx, &domain.Bill{TenantID: "t1", Month: 12, Year: 2025}))
	require.NoError(t, repo.Create(ctx, &domain.Bill{TenantID: "t1", Month: 1, Year: 2026}))

	list, err := repo.List(ctx, domain.BillFilter{TenantID: "t1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 2026, list[0].Year)
	assert.Equal(t, 12, list[1].Month)
	assert.Equal(t, 11, list[2].Month)
}

func TestRoomAssignIsExclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	r1 := &domain.Room{BuildingID: "b1", RoomNumber: "101", Status: domain.RoomVacant}
	r2 := &domain.Room{BuildingID: "b1", RoomNumber: "102", Status: domain.RoomVacant}
	require.NoError(t, repo.Create(ctx, r1))
	require.NoError(t, repo.Create(ctx, r2))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Room{BuildingID: "b1", RoomNumber: "101"}), domain.ErrConflict)

	_, err := repo.Assign(ctx, r1.ID, "t1")
	require.NoError(t, err)
	_, err = repo.Assign(ctx, r1.ID, "t2")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = repo.Assign(ctx, r2.ID, "t1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Update never clears the tenant
	r1, err = repo.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	r1.RoomNumber = "101A"
	r1.TenantID = nil
	require.NoError(t, repo.Update(ctx, r1))
	got, err := repo.GetByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, r1.ID, got.ID)
}

func TestPaymentsFilterByCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository()
	nov := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &domain.Payment{BillID: "a", BuildingID: "b1", CreatedAt: nov}))
	require.NoError(t, repo.Create(ctx, &domain.Payment{BillID: "b", BuildingID: "b1", CreatedAt: nov.AddDate(0, 1, 0)}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Payment{BillID: "a"}), domain.ErrConflict)

	start, end := domain.PeriodBounds(11, 2025)
	list, err := repo.List(ctx, domain.PaymentFilter{From: start, To: end})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].BillID)
}

func TestLockerExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocker()
	l.clock = func() time.Time { return now }

	release, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)

	now = now.Add(2 * time.Minute)
	release2, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	// a stale release must not free the new holder
	release()
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)

	release2()
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.NoError(t, err)
}
