package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Building is a property owned by exactly one admin
type Building struct {
	ID        string
	Name      string // Unique per admin
	Address   string
	AdminID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomStatus is the occupancy state of a room
type RoomStatus string

const (
	RoomVacant           RoomStatus = "Vacant"
	RoomOccupied         RoomStatus = "Occupied"
	RoomUnderMaintenance RoomStatus = "UnderMaintenance"
)

// Valid reports whether s is a known room status
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomVacant, RoomOccupied, RoomUnderMaintenance:
		return true
	}
	return false
}

// Room is a rentable unit. The room owns the occupancy fact: a tenant's
// room is found by looking up the room whose TenantID points at it.
type Room struct {
	ID          string
	BuildingID  string
	RoomNumber  string
	MonthlyRent decimal.Decimal
	Status      RoomStatus
	TenantID    *string // non-nil iff Status == RoomOccupied
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOccupied reports whether the room currently has a tenant
func (r *Room) IsOccupied() bool {
	return r.Status == RoomOccupied
}

// TenantStatus marks whether a tenant is still living in the building
type TenantStatus string

const (
	TenantActive   TenantStatus = "active"
	TenantInactive TenantStatus = "inactive"
)

// NationalIDLength is the fixed length of a tenant's national id number
const NationalIDLength = 12

var nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// Tenant is a room occupant registered under a building
type Tenant struct {
	ID         string
	BuildingID string
	UserID     *string // student login account, if any
	Name       string
	Phone      string
	Email      string
	NationalID string
	CollegeID  string
	Status     TenantStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the tenant's required fields
func (t *Tenant) Validate() error {
	if t.Name == "" {
		return Validation("tenant name is required")
	}
	if t.Phone == "" {
		return Validation("tenant phone is required")
	}
	if !nationalIDPattern.MatchString(t.NationalID) {
		return Validation("national id must be exactly %d digits", NationalIDLength)
	}
	if t.Status != TenantActive && t.Status != TenantInactive {
		return Validation("invalid tenant status %q", t.Status)
	}
	return nil
}

// BuildingRepository defines data access for buildings
type BuildingRepository interface {
	Create(ctx context.Context, b *Building) error
	GetByID(ctx context.Context, id string) (*Building, error)
	GetByAdminAndName(ctx context.Context, adminID, name string) (*Building, error)
	ListByAdmin(ctx context.Context, adminID string) ([]*Building, error)
	Update(ctx context.Context, b *Building) error
	Delete(ctx context.Context, id string) error
}

// RoomRepository defines data access for rooms
type RoomRepository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	GetByNumber(ctx context.Context, buildingID, number string) (*Room, error)
	GetByTenant(ctx context.Context, tenantID string) (*Room, error)
	ListByBuildings(ctx context.Context, buildingIDs []string) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	// Assign occupies a vacant room in one write; ErrConflict if the room is taken.
	Assign(ctx context.Context, roomID, tenantID string) (*Room, error)
	// Vacate clears the tenant and marks the room vacant.
	Vacate(ctx context.Context, roomID string) (*Room, error)
	Delete(ctx context.Context, id string) error
}

// TenantRepository defines data access for tenants
type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByUserID(ctx context.Context, userID string) (*Tenant, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id string) error
}
