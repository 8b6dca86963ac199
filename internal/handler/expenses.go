package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// ExpenseHandler serves /api/expenses
type ExpenseHandler struct {
	expenses *service.ExpenseService
	resp     *Responder
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *service.ExpenseService, resp *Responder) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, resp: resp}
}

// CreateExpenseRequest is the body of POST /api/expenses. Month and year
// default to those of the expense date.
type CreateExpenseRequest struct {
	BuildingID  string                 `json:"buildingId" validate:"required,uuid"`
	Category    domain.ExpenseCategory `json:"category" validate:"required"`
	Amount      *decimal.Decimal       `json:"amount" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	ExpenseDate *Date                  `json:"expenseDate"`
	Month       int                    `json:"month"`
	Year        int                    `json:"year"`
	Notes       string                 `json:"notes"`
}

// period reads the optional month and year query parameters
func period(r *http.Request) (int, int, error) {
	month, err := queryInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := queryInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// Create handles POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req CreateExpenseRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	in := service.ExpenseInput{
		BuildingID:  req.BuildingID,
		Category:    req.Category,
		Amount:      *req.Amount,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
		Notes:       req.Notes,
	}
	if t := req.ExpenseDate.ptr(); t != nil {
		in.ExpenseDate = *t
	}
	e, err := h.expenses.Create(r.Context(), claims.UserID, in)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toExpense(e))
}

// ListByBuilding handles GET /api/expenses/building/{id}?month&year
func (h *ExpenseHandler) ListByBuilding(w http.ResponseWriter, r *http.Request) {
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
	month, year, err := period(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	list, err := h.expenses.ListByBuilding(r.Context(), claims.UserID, buildingID, month, year)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]ExpenseResponse, len(list))
	for i, e := range list {
		out[i] = toExpense(e)
	}
	h.resp.json(w, http.StatusOK, out)
}

// Stats handles GET /api/expenses/stats/{id}?month&year
func (h *ExpenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
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
	month, year, err := period(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	stats, err := h.expenses.ExpenseStats(r.Context(), claims.UserID, buildingID, month, year)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, ExpenseStatsResponse(*stats))
}

// ProfitAnalysis handles GET /api/expenses/profit-analysis?month&year
func (h *ExpenseHandler) ProfitAnalysis(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	month, year, err := period(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	analysis, err := h.expenses.ProfitAnalysis(r.Context(), claims.UserID, month, year)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toProfit(analysis))
}

// Delete handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.expenses.Delete(r.Context(), claims.UserID, id); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, map[string]string{"message": "expense removed"})
}
