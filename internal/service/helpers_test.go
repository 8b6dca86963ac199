package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository/memory"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

// fixture wires every service over fresh in-memory repositories
type fixture struct {
	users     *memory.UserRepository
	buildings *memory.BuildingRepository
	rooms     *memory.RoomRepository
	tenants   *memory.TenantRepository
	bills     *memory.BillRepository
	payments  *memory.PaymentRepository
	expenses  *memory.ExpenseRepository
	locker    *memory.Locker
	auditBuf  *bytes.Buffer
	audit     *audit.Logger

	guard     *OwnershipGuard
	stats     *StatsCache
	building  *BuildingService
	room      *RoomService
	tenant    *TenantService
	billing   *BillingService
	expense   *ExpenseService
	financial *FinancialService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := discardLogger()
	f := &fixture{
		users:     memory.NewUserRepository(),
		buildings: memory.NewBuildingRepository(),
		rooms:     memory.NewRoomRepository(),
		tenants:   memory.NewTenantRepository(),
		bills:     memory.NewBillRepository(),
		payments:  memory.NewPaymentRepository(),
		expenses:  memory.NewExpenseRepository(),
		locker:    memory.NewLocker(),
		stats:     NewStatsCache(time.Minute),
		auditBuf:  &bytes.Buffer{},
	}
	f.audit = audit.NewLogger(slog.New(slog.NewJSONHandler(f.auditBuf, nil)))
	f.guard = NewOwnershipGuard(f.buildings, log)
	f.building = NewBuildingService(f.buildings, f.rooms, f.tenants, f.expenses, f.guard, f.stats, log)
	f.room = NewRoomService(f.rooms, f.tenants, f.bills, f.guard, f.stats, log)
	f.tenant = NewTenantService(f.tenants, f.rooms, f.users, f.bills, f.guard, f.stats, f.audit, log)
	f.billing = NewBillingService(f.bills, f.rooms, f.tenants, f.payments, f.guard, f.locker, f.stats, f.audit,
		BillingConfig{ElectricityRate: dec("8"), DueDay: 10, LockTTL: time.Minute}, log)
	f.expense = NewExpenseService(f.expenses, f.payments, f.buildings, f.guard, f.stats, log)
	f.financial = NewFinancialService(f.buildings, f.rooms, f.tenants, f.payments, f.expenses, f.guard, f.stats, log)
	return f
}

func (f *fixture) addBuilding(t *testing.T, adminID, name string) *domain.Building {
	t.Helper()
	b, err := f.building.Create(context.Background(), adminID, BuildingInput{Name: name, Address: "1 Main St"})
	require.NoError(t, err)
	return b
}

func (f *fixture) addRoom(t *testing.T, adminID, buildingID, number, rent string) *domain.Room {
	t.Helper()
	r, err := f.room.Create(context.Background(), adminID, RoomInput{
		BuildingID:  buildingID,
		RoomNumber:  number,
		MonthlyRent: dec(rent),
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) addTenant(t *testing.T, adminID, buildingID, name string, userID *string) *domain.Tenant {
	t.Helper()
	v, err := f.tenant.Create(context.Background(), adminID, TenantInput{
		BuildingID: buildingID,
		UserID:     userID,
		Name:       name,
		Phone:      "9999999999",
		NationalID: "123456789012",
	})
	require.NoError(t, err)
	return v.Tenant
}

// occupiedRoom creates a room with a freshly assigned tenant
func (f *fixture) occupiedRoom(t *testing.T, adminID, buildingID, number, rent string, userID *string) (*domain.Room, *domain.Tenant) {
	t.Helper()
	r := f.addRoom(t, adminID, buildingID, number, rent)
	tn := f.addTenant(t, adminID, buildingID, "Tenant "+number, userID)
	r, err := f.room.Assign(context.Background(), adminID, r.ID, tn.ID)
	require.NoError(t, err)
	return r, tn
}

func (f *fixture) addStudent(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Student", Email: email, PasswordHash: "x", Role: domain.RoleStudent}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}
