package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
)

// TenantInput carries the fields of a new tenant
type TenantInput struct {
	BuildingID string
	UserID     *string
	Name       string
	Phone      string
	Email      string
	NationalID string
	CollegeID  string
	Status     domain.TenantStatus
}

// TenantUpdate changes only the fields that are set
type TenantUpdate struct {
	UserID     *string
	Name       *string
	Phone      *string
	Email      *string
	NationalID *string
	CollegeID  *string
	Status     *domain.TenantStatus
}

// TenantView is a tenant with the room it currently occupies, if any
type TenantView struct {
	*domain.Tenant
	Room *domain.Room
}

// TenantService manages tenants
type TenantService struct {
	tenants domain.TenantRepository
	rooms   domain.RoomRepository
	users   domain.UserRepository
	bills   domain.BillRepository
	guard   *OwnershipGuard
	stats   *StatsCache
	audit   *audit.Logger
	logger  *slog.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenants domain.TenantRepository,
	rooms domain.RoomRepository,
	users domain.UserRepository,
	bills domain.BillRepository,
	guard *OwnershipGuard,
	stats *StatsCache,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *TenantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantService{tenants: tenants, rooms: rooms, users: users, bills: bills, guard: guard, stats: stats, audit: auditLog, logger: logger}
}

func (s *TenantService) checkUser(ctx context.Context, userID *string) error {
	if userID == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, *userID)
	if err != nil {
		if isNotFound(err) {
			return domain.Validation("linked user does not exist")
		}
		return err
	}
	if u.Role != domain.RoleStudent {
		return domain.Validation("only student accounts can be linked to a tenant")
	}
	return nil
}

// Create registers a tenant under a building the admin owns
func (s *TenantService) Create(ctx context.Context, adminID string, in TenantInput) (*TenantView, error) {
	if err := s.guard.AssertOwnership(ctx, in.BuildingID, adminID); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.TenantActive
	}
	t := &domain.Tenant{
		BuildingID: in.BuildingID,
		UserID:     in.UserID,
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		NationalID: strings.TrimSpace(in.NationalID),
		CollegeID:  strings.TrimSpace(in.CollegeID),
		Status:     in.Status,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, t.UserID); err != nil {
		return nil, err
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("tenant created", slog.String("tenant_id", t.ID), slog.String("building_id", t.BuildingID))
	s.audit.LogTenant(ctx, adminID, t.ID, "create_tenant", "building="+t.BuildingID)
	return &TenantView{Tenant: t}, nil
}

func (s *TenantService) view(ctx context.Context, t *domain.Tenant) (*TenantView, error) {
	room, err := s.rooms.GetByTenant(ctx, t.ID)
	if err != nil {
		if isNotFound(err) {
			return &TenantView{Tenant: t}, nil
		}
		return nil, err
	}
	return &TenantView{Tenant: t, Room: room}, nil
}

// ListByBuilding returns a building's tenants with their rooms
func (s *TenantService) ListByBuilding(ctx context.Context, adminID, buildingID string) ([]*TenantView, error) {
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	tenants, err := s.tenants.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListByBuildings(ctx, []string{buildingID})
	if err != nil {
		return nil, err
	}
	byTenant := make(map[string]*domain.Room, len(rooms))
	for _, r := range rooms {
		if r.TenantID != nil {
			byTenant[*r.TenantID] = r
		}
	}
	out := make([]*TenantView, len(tenants))
	for i, t := range tenants {
		out[i] = &TenantView{Tenant: t, Room: byTenant[t.ID]}
	}
	return out, nil
}

func (s *TenantService) load(ctx context.Context, adminID, id string) (*domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, t.BuildingID, adminID); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns one tenant with the room it occupies
func (s *TenantService) Get(ctx context.Context, adminID, id string) (*TenantView, error) {
	t, err := s.load(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, t)
}

// Update edits a tenant. An assigned tenant cannot be made inactive.
func (s *TenantService) Update(ctx context.Context, adminID, id string, upd TenantUpdate) (*TenantView, error) {
	t, err := s.load(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	var changed []string
	if upd.UserID != nil {
		changed = append(changed, "userId")
		if *upd.UserID == "" {
			t.UserID = nil
		} else {
			t.UserID = upd.UserID
		}
	}
	if upd.Name != nil {
		changed = append(changed, "name")
		t.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		changed = append(changed, "phone")
		t.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Email != nil {
		changed = append(changed, "email")
		t.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.NationalID != nil {
		changed = append(changed, "nationalId")
		t.NationalID = strings.TrimSpace(*upd.NationalID)
	}
	if upd.CollegeID != nil {
		changed = append(changed, "collegeId")
		t.CollegeID = strings.TrimSpace(*upd.CollegeID)
	}
	if upd.Status != nil {
		changed = append(changed, "status")
		t.Status = *upd.Status
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, t.UserID); err != nil {
		return nil, err
	}

	view, err := s.view(ctx, t)
	if err != nil {
		return nil, err
	}
	if view.Room != nil && t.Status != domain.TenantActive {
		return nil, domain.InvalidState("vacate room %s before deactivating the tenant", view.Room.RoomNumber)
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	s.audit.LogTenant(ctx, adminID, t.ID, "update_tenant", "fields="+strings.Join(changed, ","))
	return view, nil
}

// Delete removes a tenant that holds no room and has no bills. Tenants with
// billing history should be marked inactive instead.
func (s *TenantService) Delete(ctx context.Context, adminID, id string) error {
	t, err := s.load(ctx, adminID, id)
	if err != nil {
		return err
	}
	if room, err := s.rooms.GetByTenant(ctx, t.ID); err == nil {
		return domain.Conflict("tenant is assigned to room %s; vacate it first", room.RoomNumber)
	} else if !isNotFound(err) {
		return err
	}
	bills, err := s.bills.List(ctx, domain.BillFilter{TenantID: t.ID})
	if err != nil {
		return err
	}
	if len(bills) > 0 {
		return domain.Conflict("tenant has %d bills; mark the tenant inactive instead", len(bills))
	}
	if err := s.tenants.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.audit.LogTenant(ctx, adminID, t.ID, "delete_tenant", "")
	return nil
}
