package handler

import (
	"net/http"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// TenantHandler serves /api/tenants
type TenantHandler struct {
	tenants *service.TenantService
	resp    *Responder
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *service.TenantService, resp *Responder) *TenantHandler {
	return &TenantHandler{tenants: tenants, resp: resp}
}

// CreateTenantRequest is the body of POST /api/tenants
type CreateTenantRequest struct {
	BuildingID string              `json:"buildingId" validate:"required,uuid"`
	UserID     *string             `json:"userId" validate:"omitempty,uuid"`
	Name       string              `json:"name" validate:"required"`
	Phone      string              `json:"phone" validate:"required"`
	Email      string              `json:"email" validate:"omitempty,email"`
	NationalID string              `json:"nationalId" validate:"required,len=12,numeric"`
	CollegeID  string              `json:"collegeId"`
	Status     domain.TenantStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateTenantRequest changes only the fields present in the body. An
// empty userId unlinks the login account.
type UpdateTenantRequest struct {
	UserID     *string              `json:"userId"`
	Name       *string              `json:"name"`
	Phone      *string              `json:"phone"`
	Email      *string              `json:"email" validate:"omitempty,email"`
	NationalID *string              `json:"nationalId" validate:"omitempty,len=12,numeric"`
	CollegeID  *string              `json:"collegeId"`
	Status     *domain.TenantStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req CreateTenantRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	view, err := h.tenants.Create(r.Context(), claims.UserID, service.TenantInput(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toTenant(view))
}

// ListByBuilding handles GET /api/tenants/building/{id}
func (h *TenantHandler) ListByBuilding(w http.ResponseWriter, r *http.Request) {
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
	views, err := h.tenants.ListByBuilding(r.Context(), claims.UserID, buildingID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]TenantResponse, len(views))
	for i, v := range views {
		out[i] = toTenant(v)
	}
	h.resp.json(w, http.StatusOK, out)
}

// Get handles GET /api/tenants/{id}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	view, err := h.tenants.Get(r.Context(), claims.UserID, id)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toTenant(view))
}

// Update handles PUT /api/tenants/{id}
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req UpdateTenantRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	view, err := h.tenants.Update(r.Context(), claims.UserID, id, service.TenantUpdate(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toTenant(view))
}

// Delete handles DELETE /api/tenants/{id}
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.tenants.Delete(r.Context(), claims.UserID, id); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, map[string]string{"message": "tenant removed"})
}
