package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

func TestBuildingNamesAreUniquePerAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addBuilding(t, admin, "Sunrise")

	_, err := f.building.Create(ctx, admin, BuildingInput{Name: " Sunrise "})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// another admin may reuse the name
	_, err = f.building.Create(ctx, "admin-2", BuildingInput{Name: "Sunrise"})
	require.NoError(t, err)

	list, err := f.building.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.building.Create(ctx, admin, BuildingInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBuildingDeleteRequiresEmptyBuilding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room := f.addRoom(t, admin, b.ID, "101", "5000")

	assert.ErrorIs(t, f.building.Delete(ctx, "admin-2", b.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, f.building.Delete(ctx, admin, b.ID), domain.ErrConflict)

	require.NoError(t, f.room.Delete(ctx, admin, room.ID))
	require.NoError(t, f.building.Delete(ctx, admin, b.ID))

	_, err := f.building.Get(ctx, admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")

	room := f.addRoom(t, admin, b.ID, "101", "5000")
	assert.Equal(t, domain.RoomVacant, room.Status)

	_, err := f.room.Create(ctx, admin, RoomInput{BuildingID: b.ID, RoomNumber: "101", MonthlyRent: dec("1")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.room.Create(ctx, admin, RoomInput{BuildingID: b.ID, RoomNumber: "102", Status: domain.RoomOccupied})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.room.Create(ctx, admin, RoomInput{BuildingID: b.ID, RoomNumber: "103", MonthlyRent: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.room.Create(ctx, "admin-2", RoomInput{BuildingID: b.ID, RoomNumber: "104"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	maintenance := domain.RoomUnderMaintenance
	updated, err := f.room.Update(ctx, admin, room.ID, RoomUpdate{MonthlyRent: ptr(dec("5500")), Status: &maintenance})
	require.NoError(t, err)
	assert.True(t, updated.MonthlyRent.Equal(dec("5500")))
	assert.Equal(t, domain.RoomUnderMaintenance, updated.Status)
	assert.Equal(t, "101", updated.RoomNumber)
}

func TestAssignAndVacate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	other := f.addBuilding(t, admin, "Moonlight")
	room := f.addRoom(t, admin, b.ID, "101", "5000")
	second := f.addRoom(t, admin, b.ID, "102", "5000")
	tenant := f.addTenant(t, admin, b.ID, "Asha", nil)
	stranger := f.addTenant(t, admin, other.ID, "Ravi", nil)

	_, err := f.room.Assign(ctx, admin, room.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assigned, err := f.room.Assign(ctx, admin, room.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomOccupied, assigned.Status)
	require.NotNil(t, assigned.TenantID)
	assert.Equal(t, tenant.ID, *assigned.TenantID)

	// one room per tenant, one tenant per room
	_, err = f.room.Assign(ctx, admin, second.ID, tenant.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	late := f.addTenant(t, admin, b.ID, "Meera", nil)
	_, err = f.room.Assign(ctx, admin, room.ID, late.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	maintenance := domain.RoomUnderMaintenance
	_, err = f.room.Update(ctx, admin, room.ID, RoomUpdate{Status: &maintenance})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, f.room.Delete(ctx, admin, room.ID), domain.ErrConflict)

	view, err := f.tenant.Get(ctx, admin, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Room)
	assert.Equal(t, room.ID, view.Room.ID)

	vacated, err := f.room.Vacate(ctx, admin, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomVacant, vacated.Status)
	assert.Nil(t, vacated.TenantID)

	_, err = f.room.Vacate(ctx, admin, room.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAssignRejectsInactiveTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room := f.addRoom(t, admin, b.ID, "101", "5000")
	tenant := f.addTenant(t, admin, b.ID, "Asha", nil)

	inactive := domain.TenantInactive
	_, err := f.tenant.Update(ctx, admin, tenant.ID, TenantUpdate{Status: &inactive})
	require.NoError(t, err)

	_, err = f.room.Assign(ctx, admin, room.ID, tenant.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRoomWithBillsCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	room, tenant := f.occupiedRoom(t, admin, b.ID, "101", "5000", nil)
	_, err := f.billing.GenerateBills(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)

	_, err = f.room.Vacate(ctx, admin, room.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.room.Delete(ctx, admin, room.ID), domain.ErrConflict)
	assert.ErrorIs(t, f.tenant.Delete(ctx, admin, tenant.ID), domain.ErrConflict)
}

func TestTenantValidationAndLinking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	adminUser := &domain.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, f.users.Create(ctx, adminUser))

	_, err := f.tenant.Create(ctx, admin, TenantInput{BuildingID: b.ID, Name: "Asha", Phone: "1", NationalID: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tenant.Create(ctx, admin, TenantInput{BuildingID: b.ID, Name: "Asha", Phone: "1", NationalID: "123456789012", UserID: &adminUser.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	missing := "missing-user"
	_, err = f.tenant.Create(ctx, admin, TenantInput{BuildingID: b.ID, Name: "Asha", Phone: "1", NationalID: "123456789012", UserID: &missing})
	assert.ErrorIs(t, err, domain.ErrValidation)

	student := f.addStudent(t, "asha@example.com")
	tenant := f.addTenant(t, admin, b.ID, "Asha", &student.ID)
	assert.Equal(t, domain.TenantActive, tenant.Status)

	room := f.addRoom(t, admin, b.ID, "101", "5000")
	_, err = f.room.Assign(ctx, admin, room.ID, tenant.ID)
	require.NoError(t, err)

	inactive := domain.TenantInactive
	_, err = f.tenant.Update(ctx, admin, tenant.ID, TenantUpdate{Status: &inactive})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	views, err := f.tenant.ListByBuilding(ctx, admin, b.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Room)
	assert.Equal(t, "101", views[0].Room.RoomNumber)

	_, err = f.tenant.ListByBuilding(ctx, "admin-2", b.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExpenses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")

	e, err := f.expense.Create(ctx, admin, ExpenseInput{
		BuildingID:  b.ID,
		Category:    domain.ExpenseRepairs,
		Amount:      dec("1500"),
		ExpenseDate: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 11, e.Month)
	assert.Equal(t, 2025, e.Year)
	assert.Equal(t, admin, e.AdminID)

	_, err = f.expense.Create(ctx, admin, ExpenseInput{BuildingID: b.ID, Category: "Parties", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stats, err := f.expense.ExpenseStats(ctx, admin, b.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.True(t, stats.Total.Equal(dec("1500")))
	assert.True(t, stats.ByCategory[domain.ExpenseRepairs].Equal(dec("1500")))
	assert.True(t, stats.ByCategory[domain.ExpenseWater].IsZero())
	assert.Len(t, stats.ByCategory, len(domain.ExpenseCategories))

	list, err := f.expense.ListByBuilding(ctx, admin, b.ID, 10, 2025)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.expense.Delete(ctx, "admin-2", e.ID), domain.ErrUnauthorized)
	require.NoError(t, f.expense.Delete(ctx, admin, e.ID))
	assert.ErrorIs(t, f.expense.Delete(ctx, admin, e.ID), domain.ErrNotFound)
}

func auditLines(t *testing.T, f *fixture) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(f.auditBuf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestTenantChangesAreAudited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.addBuilding(t, admin, "Sunrise")
	tenant := f.addTenant(t, admin, b.ID, "Ravi", nil)

	_, err := f.tenant.Update(ctx, admin, tenant.ID, TenantUpdate{Name: ptr("Ravi K"), Phone: ptr("8888888888")})
	require.NoError(t, err)
	require.NoError(t, f.tenant.Delete(ctx, admin, tenant.ID))

	lines := auditLines(t, f)
	require.Len(t, lines, 3)
	for i, action := range []string{"create_tenant", "update_tenant", "delete_tenant"} {
		assert.Equal(t, action, lines[i]["action"])
		assert.Equal(t, "tenant", lines[i]["resource"])
		assert.Equal(t, tenant.ID, lines[i]["resource_id"])
		assert.Equal(t, admin, lines[i]["user_id"])
	}
	assert.Equal(t, "fields=name,phone", lines[1]["details"])
	assert.NotContains(t, f.auditBuf.String(), "8888888888")
}
