package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// RoomHandler serves /api/rooms
type RoomHandler struct {
	rooms *service.RoomService
	resp  *Responder
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *service.RoomService, resp *Responder) *RoomHandler {
	return &RoomHandler{rooms: rooms, resp: resp}
}

// CreateRoomRequest is the body of POST /api/rooms
type CreateRoomRequest struct {
	BuildingID  string            `json:"buildingId" validate:"required,uuid"`
	RoomNumber  string            `json:"roomNumber" validate:"required"`
	MonthlyRent *decimal.Decimal  `json:"monthlyRent" validate:"required"`
	Status      domain.RoomStatus `json:"status" validate:"omitempty,oneof=Vacant UnderMaintenance"`
}

// UpdateRoomRequest changes only the fields present in the body
type UpdateRoomRequest struct {
	RoomNumber  *string            `json:"roomNumber"`
	MonthlyRent *decimal.Decimal   `json:"monthlyRent"`
	Status      *domain.RoomStatus `json:"status" validate:"omitempty,oneof=Vacant UnderMaintenance"`
}

// AssignRequest is the body of PUT /api/rooms/{id}/assign
type AssignRequest struct {
	TenantID string `json:"tenantId" validate:"required,uuid"`
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req CreateRoomRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	room, err := h.rooms.Create(r.Context(), claims.UserID, service.RoomInput{
		BuildingID:  req.BuildingID,
		RoomNumber:  req.RoomNumber,
		MonthlyRent: *req.MonthlyRent,
		Status:      req.Status,
	})
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toRoom(room))
}

// ListByBuilding handles GET /api/rooms/building/{id}
func (h *RoomHandler) ListByBuilding(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	buildingID, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	rooms, err := h.rooms.ListByBuilding(r.Context(), claims.UserID, buildingID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]RoomResponse, len(rooms))
	for i, room := range rooms {
		out[i] = toRoom(room)
	}
	h.resp.json(w, http.StatusOK, out)
}

// roomAction runs fn for the room in the path and writes the resulting room
func (h *RoomHandler) roomAction(w http.ResponseWriter, r *http.Request, fn func(adminID, roomID string) (*domain.Room, error)) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	roomID, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	room, err := fn(claims.UserID, roomID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toRoom(room))
}

// Get handles GET /api/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, func(adminID, roomID string) (*domain.Room, error) {
		return h.rooms.Get(r.Context(), adminID, roomID)
	})
}

// Update handles PUT /api/rooms/{id}
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoomRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.roomAction(w, r, func(adminID, roomID string) (*domain.Room, error) {
		return h.rooms.Update(r.Context(), adminID, roomID, service.RoomUpdate(req))
	})
}

// Assign handles PUT /api/rooms/{id}/assign
func (h *RoomHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.roomAction(w, r, func(adminID, roomID string) (*domain.Room, error) {
		return h.rooms.Assign(r.Context(), adminID, roomID, req.TenantID)
	})
}

// Vacate handles PUT /api/rooms/{id}/vacate
func (h *RoomHandler) Vacate(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, func(adminID, roomID string) (*domain.Room, error) {
		return h.rooms.Vacate(r.Context(), adminID, roomID)
	})
}

// Delete handles DELETE /api/rooms/{id}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	roomID, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if err := h.rooms.Delete(r.Context(), claims.UserID, roomID); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, map[string]string{"message": "room removed"})
}
