package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// OwnershipGuard confirms that an admin owns a building. It re-reads the
// building on every call.
type OwnershipGuard struct {
	buildings domain.BuildingRepository
	logger    *slog.Logger
}

// NewOwnershipGuard creates a new ownership guard
func NewOwnershipGuard(buildings domain.BuildingRepository, logger *slog.Logger) *OwnershipGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnershipGuard{buildings: buildings, logger: logger}
}

// AssertOwnership fails with ErrNotFound for an unknown building and with
// ErrUnauthorized when adminID is not its owner.
func (g *OwnershipGuard) AssertOwnership(ctx context.Context, buildingID, adminID string) error {
	_, err := g.OwnedBuilding(ctx, buildingID, adminID)
	return err
}

// OwnedBuilding is AssertOwnership returning the building it loaded
func (g *OwnershipGuard) OwnedBuilding(ctx context.Context, buildingID, adminID string) (*domain.Building, error) {
	b, err := g.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if b.AdminID != adminID {
		g.logger.Warn("ownership check failed",
			slog.String("building_id", buildingID),
			slog.String("admin_id", adminID),
		)
		return nil, domain.Unauthorized("not authorized to access this building")
	}
	return b, nil
}

// BuildingIDs lists the ids of every building adminID owns
func (g *OwnershipGuard) BuildingIDs(ctx context.Context, adminID string) ([]string, error) {
	buildings, err := g.buildings.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(buildings))
	for i, b := range buildings {
		ids[i] = b.ID
	}
	return ids, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}
