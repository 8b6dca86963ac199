package handler

import (
	"net/http"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// BuildingHandler serves /api/buildings
type BuildingHandler struct {
	buildings *service.BuildingService
	resp      *Responder
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(buildings *service.BuildingService, resp *Responder) *BuildingHandler {
	return &BuildingHandler{buildings: buildings, resp: resp}
}

// BuildingRequest is the body of create and update
type BuildingRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// Create handles POST /api/buildings
func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req BuildingRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	b, err := h.buildings.Create(r.Context(), claims.UserID, service.BuildingInput(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toBuilding(b))
}

// List handles GET /api/buildings
func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	list, err := h.buildings.List(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]BuildingResponse, len(list))
	for i, b := range list {
		out[i] = toBuilding(b)
	}
	h.resp.json(w, http.StatusOK, out)
}

// Get handles GET /api/buildings/{id}
func (h *BuildingHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	b, err := h.buildings.Get(r.Context(), claims.UserID, id)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBuilding(b))
}

// Update handles PUT /api/buildings/{id}
func (h *BuildingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req BuildingRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	b, err := h.buildings.Update(r.Context(), claims.UserID, id, service.BuildingInput(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBuilding(b))
}

// Delete handles DELETE /api/buildings/{id}
func (h *BuildingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if err := h.buildings.Delete(r.Context(), claims.UserID, id); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, map[string]string{"message": "building removed"})
}
