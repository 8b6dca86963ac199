package handler

import (
	"net/http"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// FinancialHandler serves the dashboard figures under /api/financial
type FinancialHandler struct {
	financial *service.FinancialService
	resp      *Responder
}

// NewFinancialHandler creates a new financial handler
func NewFinancialHandler(financial *service.FinancialService, resp *Responder) *FinancialHandler {
	return &FinancialHandler{financial: financial, resp: resp}
}

func statsQuery(r *http.Request) (service.StatsQuery, error) {
	month, year, err := period(r)
	if err != nil {
		return service.StatsQuery{}, err
	}
	return service.StatsQuery{Month: month, Year: year, Period: r.URL.Query().Get("period")}, nil
}

// Monthly handles GET /api/financial/monthly?month&year&period
func (h *FinancialHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	q, err := statsQuery(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	stats, err := h.financial.GetStats(r.Context(), claims.UserID, q)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toStats(stats))
}

// Building handles GET /api/financial/building/{id}
func (h *FinancialHandler) Building(w http.ResponseWriter, r *http.Request) {
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
	q, err := statsQuery(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	stats, err := h.financial.GetBuildingStats(r.Context(), claims.UserID, buildingID, q)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toStats(stats))
}

// Rooms handles GET /api/financial/rooms
func (h *FinancialHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	rows, err := h.financial.GetRoomTable(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]RoomRowResponse, len(rows))
	for i, row := range rows {
		out[i] = RoomRowResponse(row)
	}
	h.resp.json(w, http.StatusOK, out)
}
