package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// BillHandler serves /api/bills
type BillHandler struct {
	billing *service.BillingService
	resp    *Responder
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billing *service.BillingService, resp *Responder) *BillHandler {
	return &BillHandler{billing: billing, resp: resp}
}

// PeriodRequest names a billing month
type PeriodRequest struct {
	Month int `json:"month" validate:"required"`
	Year  int `json:"year" validate:"required"`
}

// ChargesRequest changes only the charges present in the body
type ChargesRequest struct {
	ElectricityBill  *decimal.Decimal `json:"electricityBill"`
	ElectricityUnits *decimal.Decimal `json:"electricityUnits"`
	OtherCharges     *decimal.Decimal `json:"otherCharges"`
}

// MarkPaidRequest is the body of PUT /api/bills/{id}/markpaid
type MarkPaidRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=UPI Cash BankTransfer"`
}

// Generate handles POST /api/bills/generate/{buildingId}
func (h *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	buildingID, err := pathID(r, "buildingId")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req PeriodRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	res, err := h.billing.GenerateBills(r.Context(), claims.UserID, buildingID, req.Month, req.Year)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toGeneration(res, h.billing.Now()))
}

// UpdateCharges handles PUT /api/bills/{id}/charges
func (h *BillHandler) UpdateCharges(w http.ResponseWriter, r *http.Request) {
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
	var req ChargesRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, err := h.billing.UpdateCharges(r.Context(), claims.UserID, id, service.ChargesUpdate(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBill(bill, h.billing.Now()))
}

// MyBills handles GET /api/bills/mybill
func (h *BillHandler) MyBills(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bills, err := h.billing.MyBills(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBills(bills, h.billing.Now()))
}

// MarkPaid handles PUT /api/bills/{id}/markpaid
func (h *BillHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
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
	var req MarkPaidRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, err := h.billing.MarkPaid(r.Context(), claims.UserID, id, req.PaymentMethod)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBill(bill, h.billing.Now()))
}

// Pending handles GET /api/bills/pending
func (h *BillHandler) Pending(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bills, err := h.billing.PendingConfirmations(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBills(bills, h.billing.Now()))
}

// ByBuilding handles GET /api/bills/building/{buildingId}?status=
func (h *BillHandler) ByBuilding(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	buildingID, err := pathID(r, "buildingId")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	status := domain.BillStatus(r.URL.Query().Get("status"))
	bills, err := h.billing.BillsByBuilding(r.Context(), claims.UserID, buildingID, status)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBills(bills, h.billing.Now()))
}

// Reject handles PUT /api/bills/{id}/reject
func (h *BillHandler) Reject(w http.ResponseWriter, r *http.Request) {
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
	bill, err := h.billing.RejectPayment(r.Context(), claims.UserID, id)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBill(bill, h.billing.Now()))
}

// Delete handles DELETE /api/bills/{id}
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.billing.DeleteBill(r.Context(), claims.UserID, id); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, map[string]string{"message": "bill removed"})
}
