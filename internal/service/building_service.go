package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// BuildingInput carries the editable fields of a building
type BuildingInput struct {
	Name    string
	Address string
}

// BuildingService manages an admin's buildings
type BuildingService struct {
	buildings domain.BuildingRepository
	rooms     domain.RoomRepository
	tenants   domain.TenantRepository
	expenses  domain.ExpenseRepository
	guard     *OwnershipGuard
	stats     *StatsCache
	logger    *slog.Logger
}

// NewBuildingService creates a new building service
func NewBuildingService(
	buildings domain.BuildingRepository,
	rooms domain.RoomRepository,
	tenants domain.TenantRepository,
	expenses domain.ExpenseRepository,
	guard *OwnershipGuard,
	stats *StatsCache,
	logger *slog.Logger,
) *BuildingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildingService{
		buildings: buildings,
		rooms:     rooms,
		tenants:   tenants,
		expenses:  expenses,
		guard:     guard,
		stats:     stats,
		logger:    logger,
	}
}

func (in *BuildingInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" {
		return domain.Validation("building name is required")
	}
	return nil
}

// Create adds a building owned by adminID. Names are unique per admin.
func (s *BuildingService) Create(ctx context.Context, adminID string, in BuildingInput) (*domain.Building, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.buildings.GetByAdminAndName(ctx, adminID, in.Name); err == nil {
		return nil, domain.Conflict("building %q already exists", in.Name)
	} else if !isNotFound(err) {
		return nil, err
	}

	b := &domain.Building{Name: in.Name, Address: in.Address, AdminID: adminID}
	if err := s.buildings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)

	s.logger.Info("building created",
		slog.String("building_id", b.ID),
		slog.String("admin_id", adminID),
	)
	return b, nil
}

// List returns every building adminID owns
func (s *BuildingService) List(ctx context.Context, adminID string) ([]*domain.Building, error) {
	return s.buildings.ListByAdmin(ctx, adminID)
}

// Get returns one building after the ownership check
func (s *BuildingService) Get(ctx context.Context, adminID, id string) (*domain.Building, error) {
	return s.guard.OwnedBuilding(ctx, id, adminID)
}

// Update renames or re-addresses a building
func (s *BuildingService) Update(ctx context.Context, adminID, id string, in BuildingInput) (*domain.Building, error) {
	b, err := s.guard.OwnedBuilding(ctx, id, adminID)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Name != b.Name {
		if _, err := s.buildings.GetByAdminAndName(ctx, adminID, in.Name); err == nil {
			return nil, domain.Conflict("building %q already exists", in.Name)
		} else if !isNotFound(err) {
			return nil, err
		}
	}
	b.Name = in.Name
	b.Address = in.Address
	if err := s.buildings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes an empty building. Rooms, tenants and expenses must be
// removed first.
func (s *BuildingService) Delete(ctx context.Context, adminID, id string) error {
	if err := s.guard.AssertOwnership(ctx, id, adminID); err != nil {
		return err
	}

	rooms, err := s.rooms.ListByBuildings(ctx, []string{id})
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return domain.Conflict("building still has %d rooms", len(rooms))
	}
	tenants, err := s.tenants.ListByBuilding(ctx, id)
	if err != nil {
		return err
	}
	if len(tenants) > 0 {
		return domain.Conflict("building still has %d tenants", len(tenants))
	}
	expenses, err := s.expenses.List(ctx, domain.ExpenseFilter{BuildingIDs: []string{id}})
	if err != nil {
		return err
	}
	if len(expenses) > 0 {
		return domain.Conflict("building still has %d expenses", len(expenses))
	}

	if err := s.buildings.Delete(ctx, id); err != nil {
		return err
	}
	s.stats.Invalidate(adminID)
	s.logger.Info("building deleted", slog.String("building_id", id), slog.String("admin_id", adminID))
	return nil
}
