package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// RoomInput carries the fields of a new room
type RoomInput struct {
	BuildingID  string
	RoomNumber  string
	MonthlyRent decimal.Decimal
	Status      domain.RoomStatus
}

// RoomUpdate changes only the fields that are set
type RoomUpdate struct {
	RoomNumber  *string
	MonthlyRent *decimal.Decimal
	Status      *domain.RoomStatus
}

// RoomService manages rooms and their occupancy
type RoomService struct {
	rooms   domain.RoomRepository
	tenants domain.TenantRepository
	bills   domain.BillRepository
	guard   *OwnershipGuard
	stats   *StatsCache
	logger  *slog.Logger
}

// NewRoomService creates a new room service
func NewRoomService(
	rooms domain.RoomRepository,
	tenants domain.TenantRepository,
	bills domain.BillRepository,
	guard *OwnershipGuard,
	stats *StatsCache,
	logger *slog.Logger,
) *RoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{rooms: rooms, tenants: tenants, bills: bills, guard: guard, stats: stats, logger: logger}
}

// Create adds a room to a building the admin owns. Rooms start Vacant unless
// marked UnderMaintenance; occupancy is set through Assign.
func (s *RoomService) Create(ctx context.Context, adminID string, in RoomInput) (*domain.Room, error) {
	if err := s.guard.AssertOwnership(ctx, in.BuildingID, adminID); err != nil {
		return nil, err
	}
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	if in.RoomNumber == "" {
		return nil, domain.Validation("room number is required")
	}
	if in.MonthlyRent.IsNegative() {
		return nil, domain.Validation("monthly rent must not be negative")
	}
	if in.Status == "" {
		in.Status = domain.RoomVacant
	}
	if !in.Status.Valid() {
		return nil, domain.Validation("invalid room status %q", in.Status)
	}
	if in.Status == domain.RoomOccupied {
		return nil, domain.Validation("assign a tenant to occupy a room")
	}

	room := &domain.Room{
		BuildingID:  in.BuildingID,
		RoomNumber:  in.RoomNumber,
		MonthlyRent: in.MonthlyRent,
		Status:      in.Status,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	return room, nil
}

// ListByBuilding returns a building's rooms ordered by number
func (s *RoomService) ListByBuilding(ctx context.Context, adminID, buildingID string) ([]*domain.Room, error) {
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	return s.rooms.ListByBuildings(ctx, []string{buildingID})
}

// Get loads a room and checks that adminID owns its building
func (s *RoomService) Get(ctx context.Context, adminID, roomID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, room.BuildingID, adminID); err != nil {
		return nil, err
	}
	return room, nil
}

// Update edits number, rent and status. Occupancy only changes through
// Assign and Vacate.
func (s *RoomService) Update(ctx context.Context, adminID, roomID string, upd RoomUpdate) (*domain.Room, error) {
	room, err := s.Get(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}
	if upd.RoomNumber != nil {
		number := strings.TrimSpace(*upd.RoomNumber)
		if number == "" {
			return nil, domain.Validation("room number is required")
		}
		room.RoomNumber = number
	}
	if upd.MonthlyRent != nil {
		if upd.MonthlyRent.IsNegative() {
			return nil, domain.Validation("monthly rent must not be negative")
		}
		room.MonthlyRent = *upd.MonthlyRent
	}
	if upd.Status != nil && *upd.Status != room.Status {
		switch {
		case !upd.Status.Valid():
			return nil, domain.Validation("invalid room status %q", *upd.Status)
		case *upd.Status == domain.RoomOccupied:
			return nil, domain.Validation("assign a tenant to occupy a room")
		case room.IsOccupied():
			return nil, domain.InvalidState("vacate room %s before changing its status", room.RoomNumber)
		}
		room.Status = *upd.Status
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	return room, nil
}

// Delete removes a room that has no tenant and no bills
func (s *RoomService) Delete(ctx context.Context, adminID, roomID string) error {
	room, err := s.Get(ctx, adminID, roomID)
	if err != nil {
		return err
	}
	if room.IsOccupied() {
		return domain.Conflict("room %s is occupied; vacate it first", room.RoomNumber)
	}
	bills, err := s.bills.List(ctx, domain.BillFilter{RoomID: roomID})
	if err != nil {
		return err
	}
	if len(bills) > 0 {
		return domain.Conflict("room %s has %d bills and cannot be deleted", room.RoomNumber, len(bills))
	}
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return err
	}
	s.stats.Invalidate(adminID)
	return nil
}

// Assign places an active tenant of the same building into a vacant room.
// The room row is the only place occupancy is recorded.
func (s *RoomService) Assign(ctx context.Context, adminID, roomID, tenantID string) (*domain.Room, error) {
	room, err := s.Get(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.BuildingID != room.BuildingID {
		return nil, domain.Validation("tenant belongs to a different building")
	}
	if tenant.Status != domain.TenantActive {
		return nil, domain.InvalidState("tenant %s is not active", tenant.Name)
	}
	if room.Status != domain.RoomVacant {
		return nil, domain.Conflict("room %s is %s", room.RoomNumber, room.Status)
	}
	if current, err := s.rooms.GetByTenant(ctx, tenantID); err == nil {
		return nil, domain.Conflict("tenant already occupies room %s", current.RoomNumber)
	} else if !isNotFound(err) {
		return nil, err
	}

	assigned, err := s.rooms.Assign(ctx, roomID, tenantID)
	if err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	s.logger.Info("tenant assigned",
		slog.String("room_id", roomID),
		slog.String("tenant_id", tenantID),
	)
	return assigned, nil
}

// Vacate removes the tenant from an occupied room
func (s *RoomService) Vacate(ctx context.Context, adminID, roomID string) (*domain.Room, error) {
	room, err := s.Get(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsOccupied() {
		return nil, domain.InvalidState("room %s is not occupied", room.RoomNumber)
	}
	vacated, err := s.rooms.Vacate(ctx, roomID)
	if err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	s.logger.Info("room vacated", slog.String("room_id", roomID))
	return vacated, nil
}
