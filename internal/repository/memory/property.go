package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// BuildingRepository implements domain.BuildingRepository in memory
type BuildingRepository struct {
	t *table[domain.Building]
}

// NewBuildingRepository creates an empty building store
func NewBuildingRepository() *BuildingRepository {
	return &BuildingRepository{t: newTable[domain.Building]()}
}

func (r *BuildingRepository) nameTaken(b *domain.Building) bool {
	for _, e := range r.t.rows {
		if e.v.ID != b.ID && e.v.AdminID == b.AdminID && e.v.Name == b.Name {
			return true
		}
	}
	return false
}

func (r *BuildingRepository) Create(_ context.Context, b *domain.Building) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if r.nameTaken(b) {
		return domain.Conflict("building %q already exists", b.Name)
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	r.t.put(b.ID, *b)
	return nil
}

func (r *BuildingRepository) GetByID(_ context.Context, id string) (*domain.Building, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	e, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("building not found")
	}
	b := e.v
	return &b, nil
}

func (r *BuildingRepository) GetByAdminAndName(_ context.Context, adminID, name string) (*domain.Building, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, e := range r.t.rows {
		if e.v.AdminID == adminID && e.v.Name == name {
			b := e.v
			return &b, nil
		}
	}
	return nil, domain.NotFound("building not found")
}

func (r *BuildingRepository) ListByAdmin(_ context.Context, adminID string) ([]*domain.Building, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(b domain.Building) bool { return b.AdminID == adminID })
	return pointers(rows), nil
}

func (r *BuildingRepository) Update(_ context.Context, b *domain.Building) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[b.ID]
	if !ok {
		return domain.NotFound("building not found")
	}
	if r.nameTaken(b) {
		return domain.Conflict("building %q already exists", b.Name)
	}
	b.CreatedAt = e.v.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	r.t.put(b.ID, *b)
	return nil
}

func (r *BuildingRepository) Delete(_ context.Context, id string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[id]; !ok {
		return domain.NotFound("building not found")
	}
	delete(r.t.rows, id)
	return nil
}

// RoomRepository implements domain.RoomRepository in memory
type RoomRepository struct {
	t *table[domain.Room]
}

// NewRoomRepository creates an empty room store
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{t: newTable[domain.Room]()}
}

func (r *RoomRepository) numberTaken(room *domain.Room) bool {
	for _, e := range r.t.rows {
		if e.v.ID != room.ID && e.v.BuildingID == room.BuildingID && e.v.RoomNumber == room.RoomNumber {
			return true
		}
	}
	return false
}

func (r *RoomRepository) Create(_ context.Context, room *domain.Room) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if r.numberTaken(room) {
		return domain.Conflict("room %s already exists in this building", room.RoomNumber)
	}
	stamp(&room.CreatedAt, &room.UpdatedAt)
	r.t.put(room.ID, copyRoom(*room))
	return nil
}

func (r *RoomRepository) get(id string) (*domain.Room, error) {
	e, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("room not found")
	}
	room := copyRoom(e.v)
	return &room, nil
}

func (r *RoomRepository) GetByID(_ context.Context, id string) (*domain.Room, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.get(id)
}

func (r *RoomRepository) GetByNumber(_ context.Context, buildingID, number string) (*domain.Room, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for id, e := range r.t.rows {
		if e.v.BuildingID == buildingID && e.v.RoomNumber == number {
			return r.get(id)
		}
	}
	return nil, domain.NotFound("room not found")
}

func (r *RoomRepository) GetByTenant(_ context.Context, tenantID string) (*domain.Room, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for id, e := range r.t.rows {
		if e.v.TenantID != nil && *e.v.TenantID == tenantID {
			return r.get(id)
		}
	}
	return nil, domain.NotFound("room not found")
}

func (r *RoomRepository) ListByBuildings(_ context.Context, buildingIDs []string) ([]*domain.Room, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(room domain.Room) bool { return slices.Contains(buildingIDs, room.BuildingID) })
	slices.SortStableFunc(rows, func(a, b domain.Room) int {
		if a.BuildingID != b.BuildingID {
			return cmp.Compare(a.BuildingID, b.BuildingID)
		}
		return cmp.Compare(a.RoomNumber, b.RoomNumber)
	})
	out := make([]*domain.Room, len(rows))
	for i := range rows {
		room := copyRoom(rows[i])
		out[i] = &room
	}
	return out, nil
}

// Update leaves occupancy untouched, like the SQL implementation
func (r *RoomRepository) Update(_ context.Context, room *domain.Room) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[room.ID]
	if !ok {
		return domain.NotFound("room not found")
	}
	if r.numberTaken(room) {
		return domain.Conflict("room %s already exists in this building", room.RoomNumber)
	}
	stored := e.v
	stored.RoomNumber = room.RoomNumber
	stored.MonthlyRent = room.MonthlyRent
	stored.Status = room.Status
	stored.UpdatedAt = time.Now().UTC()
	r.t.put(room.ID, stored)
	room.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *RoomRepository) Assign(_ context.Context, roomID, tenantID string) (*domain.Room, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[roomID]
	if !ok || e.v.Status != domain.RoomVacant || e.v.TenantID != nil {
		return nil, domain.Conflict("room is not vacant")
	}
	for _, other := range r.t.rows {
		if other.v.TenantID != nil && *other.v.TenantID == tenantID {
			return nil, domain.Conflict("tenant already occupies another room")
		}
	}
	stored := e.v
	tid := tenantID
	stored.TenantID = &tid
	stored.Status = domain.RoomOccupied
	stored.UpdatedAt = time.Now().UTC()
	r.t.put(roomID, stored)
	return r.get(roomID)
}

func (r *RoomRepository) Vacate(_ context.Context, roomID string) (*domain.Room, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[roomID]
	if !ok {
		return nil, domain.NotFound("room not found")
	}
	stored := e.v
	stored.TenantID = nil
	stored.Status = domain.RoomVacant
	stored.UpdatedAt = time.Now().UTC()
	r.t.put(roomID, stored)
	return r.get(roomID)
}

func (r *RoomRepository) Delete(_ context.Context, id string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[id]; !ok {
		return domain.NotFound("room not found")
	}
	delete(r.t.rows, id)
	return nil
}

func copyRoom(room domain.Room) domain.Room {
	if room.TenantID != nil {
		tid := *room.TenantID
		room.TenantID = &tid
	}
	return room
}

// TenantRepository implements domain.TenantRepository in memory
type TenantRepository struct {
	t *table[domain.Tenant]
}

// NewTenantRepository creates an empty tenant store
func NewTenantRepository() *TenantRepository {
	return &TenantRepository{t: newTable[domain.Tenant]()}
}

func (r *TenantRepository) Create(_ context.Context, t *domain.Tenant) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	r.t.put(t.ID, *t)
	return nil
}

func (r *TenantRepository) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	e, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("tenant not found")
	}
	t := e.v
	return &t, nil
}

// GetByUserID returns the most recently created tenant linked to userID
func (r *TenantRepository) GetByUserID(_ context.Context, userID string) (*domain.Tenant, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(t domain.Tenant) bool { return t.UserID != nil && *t.UserID == userID })
	if len(rows) == 0 {
		return nil, domain.NotFound("tenant not found")
	}
	t := rows[len(rows)-1]
	return &t, nil
}

// ListByBuilding returns a building's tenants, newest first
func (r *TenantRepository) ListByBuilding(_ context.Context, buildingID string) ([]*domain.Tenant, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(t domain.Tenant) bool { return t.BuildingID == buildingID })
	slices.Reverse(rows)
	return pointers(rows), nil
}

func (r *TenantRepository) Update(_ context.Context, t *domain.Tenant) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[t.ID]
	if !ok {
		return domain.NotFound("tenant not found")
	}
	t.CreatedAt = e.v.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	r.t.put(t.ID, *t)
	return nil
}

func (r *TenantRepository) Delete(_ context.Context, id string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[id]; !ok {
		return domain.NotFound("tenant not found")
	}
	delete(r.t.rows, id)
	return nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
