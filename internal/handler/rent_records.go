package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// RentRecordHandler serves /api/rent-records, the admin ledger view of bills
type RentRecordHandler struct {
	billing *service.BillingService
	resp    *Responder
}

// NewRentRecordHandler creates a new rent record handler
func NewRentRecordHandler(billing *service.BillingService, resp *Responder) *RentRecordHandler {
	return &RentRecordHandler{billing: billing, resp: resp}
}

// CreateRentRecordRequest is the body of POST /api/rent-records
type CreateRentRecordRequest struct {
	RoomID           string           `json:"roomId" validate:"required,uuid"`
	TenantID         string           `json:"tenantId" validate:"omitempty,uuid"`
	Month            int              `json:"month" validate:"required"`
	Year             int              `json:"year" validate:"required"`
	Rent             *decimal.Decimal `json:"rent"`
	ElectricityUnits decimal.Decimal  `json:"electricityUnits"`
	OtherCharges     decimal.Decimal  `json:"otherCharges"`
	Notes            string           `json:"notes"`
}

// GenerateRecordsRequest bills every occupied room of a building. Units
// are keyed by room id; rooms without an entry use zero.
type GenerateRecordsRequest struct {
	BuildingID string                     `json:"buildingId" validate:"required,uuid"`
	Month      int                        `json:"month" validate:"required"`
	Year       int                        `json:"year" validate:"required"`
	Units      map[string]decimal.Decimal `json:"units"`
}

// GenerateRoomRecordRequest bills a single room
type GenerateRoomRecordRequest struct {
	RoomID           string          `json:"roomId" validate:"required,uuid"`
	Month            int             `json:"month" validate:"required"`
	Year             int             `json:"year" validate:"required"`
	ElectricityUnits decimal.Decimal `json:"electricityUnits"`
}

// PayRecordRequest is the body of PUT /api/rent-records/{id}/pay
type PayRecordRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=UPI Cash BankTransfer"`
	PaidDate      *Date                `json:"paidDate"`
}

// List handles GET /api/rent-records?buildingId&status&source&month&year
func (h *RentRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	query := r.URL.Query()
	q := service.BillQuery{
		BuildingID: query.Get("buildingId"),
		Status:     domain.BillStatus(query.Get("status")),
		Source:     domain.BillSource(query.Get("source")),
	}
	if q.Source != "" && q.Source != domain.SourceMonthly && q.Source != domain.SourceRentRecord {
		h.resp.fail(w, r, domain.Validation("invalid source %q", q.Source))
		return
	}
	if q.Month, err = queryInt(r, "month"); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if q.Year, err = queryInt(r, "year"); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bills, err := h.billing.RentRecords(r.Context(), claims.UserID, q)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toBills(bills, h.billing.Now()))
}

// Create handles POST /api/rent-records
func (h *RentRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req CreateRentRecordRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, err := h.billing.CreateRentRecord(r.Context(), claims.UserID, service.RentRecordInput(req))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toBill(bill, h.billing.Now()))
}

// Generate handles POST /api/rent-records/generate
func (h *RentRecordHandler) Generate(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req GenerateRecordsRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	res, err := h.billing.GenerateRentRecords(r.Context(), claims.UserID, req.BuildingID, req.Month, req.Year, req.Units)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, toGeneration(res, h.billing.Now()))
}

// GenerateRoom handles POST /api/rent-records/generate/room
func (h *RentRecordHandler) GenerateRoom(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req GenerateRoomRecordRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, err := h.billing.GenerateRentRecordForRoom(r.Context(), claims.UserID, req.RoomID, req.Month, req.Year, req.ElectricityUnits)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusCreated, toBill(bill, h.billing.Now()))
}

// Pay handles PUT /api/rent-records/{id}/pay
func (h *RentRecordHandler) Pay(w http.ResponseWriter, r *http.Request) {
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
	var req PayRecordRequest
	if err := decode(r, &req); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	bill, payment, err := h.billing.PayRentRecord(r.Context(), claims.UserID, id, req.PaymentMethod, req.PaidDate.ptr())
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	h.resp.json(w, http.StatusOK, ConfirmResponse{
		Bill:    toBill(bill, h.billing.Now()),
		Payment: toPayment(payment),
	})
}
