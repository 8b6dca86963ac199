package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// PaymentHandler serves /api/payments
type PaymentHandler struct {
	billing *service.BillingService
	resp    *Responder
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(billing *service.BillingService, resp *Responder) *PaymentHandler {
	return &PaymentHandler{billing: billing, resp: resp}
}

// ConfirmRequest overrides the recorded receipt; every field is optional
type ConfirmRequest struct {
	Amount        *decimal.Decimal      `json:"amount"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=UPI Cash BankTransfer"`
	PaymentDate   *Date                 `json:"paymentDate"`
}

// ConfirmResponse carries the settled bill and its receipt
type ConfirmResponse struct {
	Bill    BillResponse    `json:"bill"`
	Payment PaymentResponse `json:"payment"`
}

// Confirm handles POST /api/payments/confirm/{billId}
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	billID, err := pathID(r, "billId")
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req ConfirmRequest
	if err := decodeOptional(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, payment, err := h.billing.ConfirmPayment(r.Context(), claims.UserID, billID, service.ConfirmInput{
		Amount:      req.Amount,
		Method:      req.PaymentMethod,
		PaymentDate: req.PaymentDate.ptr(),
	})
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, ConfirmResponse{
		Bill:    toBill(bill, h.billing.Now()),
		Payment: toPayment(payment),
	})
}

// Mine handles GET /api/payments/my
func (h *PaymentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	payments, err := h.billing.MyPayments(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toPayments(payments))
}

// All handles GET /api/payments/admin/all
func (h *PaymentHandler) All(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	payments, err := h.billing.AllPayments(r.Context(), claims.UserID)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toPayments(payments))
}
