package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

// UserResponse never carries the password hash
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func toUser(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	UserResponse
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type BuildingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBuilding(b *domain.Building) BuildingResponse {
	return BuildingResponse{ID: b.ID, Name: b.Name, Address: b.Address, AdminID: b.AdminID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}

type RoomResponse struct {
	ID          string            `json:"id"`
	BuildingID  string            `json:"buildingId"`
	RoomNumber  string            `json:"roomNumber"`
	MonthlyRent decimal.Decimal   `json:"monthlyRent"`
	Status      domain.RoomStatus `json:"status"`
	TenantID    *string           `json:"tenantId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func toRoom(r *domain.Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID,
		BuildingID:  r.BuildingID,
		RoomNumber:  r.RoomNumber,
		MonthlyRent: r.MonthlyRent,
		Status:      r.Status,
		TenantID:    r.TenantID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type TenantResponse struct {
	ID         string              `json:"id"`
	BuildingID string              `json:"buildingId"`
	UserID     *string             `json:"userId"`
	Name       string              `json:"name"`
	Phone      string              `json:"phone"`
	Email      string              `json:"email,omitempty"`
	NationalID string              `json:"nationalId"`
	CollegeID  string              `json:"collegeId,omitempty"`
	Status     domain.TenantStatus `json:"status"`
	Room       *RoomResponse       `json:"room"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func toTenant(v *service.TenantView) TenantResponse {
	t := v.Tenant
	out := TenantResponse{
		ID:         t.ID,
		BuildingID: t.BuildingID,
		UserID:     t.UserID,
		Name:       t.Name,
		Phone:      t.Phone,
		Email:      t.Email,
		NationalID: t.NationalID,
		CollegeID:  t.CollegeID,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	if v.Room != nil {
		room := toRoom(v.Room)
		out.Room = &room
	}
	return out
}

// BillResponse shows the effective status, so Overdue appears once the due
// date has passed.
type BillResponse struct {
	ID               string                `json:"id"`
	RoomID           string                `json:"roomId"`
	TenantID         string                `json:"tenantId"`
	BuildingID       string                `json:"buildingId"`
	Month            int                   `json:"month"`
	Year             int                   `json:"year"`
	Rent             decimal.Decimal       `json:"rent"`
	ElectricityUnits decimal.Decimal       `json:"electricityUnits"`
	ElectricityBill  decimal.Decimal       `json:"electricityBill"`
	OtherCharges     decimal.Decimal       `json:"otherCharges"`
	PreviousDues     decimal.Decimal       `json:"previousDues"`
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	Status           domain.BillStatus     `json:"status"`
	IsPaid           bool                  `json:"isPaid"`
	Source           domain.BillSource     `json:"source"`
	DueDate          time.Time             `json:"dueDate"`
	PaymentMethod    *domain.PaymentMethod `json:"paymentMethod"`
	PaidAt           *time.Time            `json:"paidDate"`
	Notes            string                `json:"notes,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

func toBill(b *domain.Bill, now time.Time) BillResponse {
	return BillResponse{
		ID:               b.ID,
		RoomID:           b.RoomID,
		TenantID:         b.TenantID,
		BuildingID:       b.BuildingID,
		Month:            b.Month,
		Year:             b.Year,
		Rent:             b.Rent,
		ElectricityUnits: b.ElectricityUnits,
		ElectricityBill:  b.ElectricityBill,
		OtherCharges:     b.OtherCharges,
		PreviousDues:     b.PreviousDues,
		TotalAmount:      b.TotalAmount,
		Status:           b.EffectiveStatus(now),
		IsPaid:           b.IsPaid(),
		Source:           b.Source,
		DueDate:          b.DueDate,
		PaymentMethod:    b.PaymentMethod,
		PaidAt:           b.PaidAt,
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func toBills(bills []*domain.Bill, now time.Time) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i, b := range bills {
		out[i] = toBill(b, now)
	}
	return out
}

type PaymentResponse struct {
	ID          string               `json:"id"`
	BillID      string               `json:"billId"`
	TenantID    string               `json:"tenantId"`
	BuildingID  string               `json:"buildingId"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      domain.PaymentMethod `json:"paymentMethod"`
	Status      domain.PaymentStatus `json:"status"`
	PaymentDate time.Time            `json:"paymentDate"`
	ConfirmedBy string               `json:"confirmedBy,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func toPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		BillID:      p.BillID,
		TenantID:    p.TenantID,
		BuildingID:  p.BuildingID,
		Amount:      p.Amount,
		Method:      p.Method,
		Status:      p.Status,
		PaymentDate: p.PaymentDate,
		ConfirmedBy: p.ConfirmedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toPayments(ps []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(ps))
	for i, p := range ps {
		out[i] = toPayment(p)
	}
	return out
}

type GenerationResponse struct {
	Created int                       `json:"created"`
	Skipped int                       `json:"skipped"`
	Bills   []BillResponse            `json:"bills"`
	Errors  []service.GenerationError `json:"errors"`
}

func toGeneration(res *service.GenerationResult, now time.Time) GenerationResponse {
	return GenerationResponse{
		Created: res.Created,
		Skipped: res.Skipped,
		Bills:   toBills(res.Bills, now),
		Errors:  res.Errors,
	}
}

type ExpenseResponse struct {
	ID          string                 `json:"id"`
	BuildingID  string                 `json:"buildingId"`
	AdminID     string                 `json:"adminId"`
	Category    domain.ExpenseCategory `json:"category"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	Month       int                    `json:"month"`
	Year        int                    `json:"year"`
	ExpenseDate time.Time              `json:"expenseDate"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func toExpense(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		BuildingID:  e.BuildingID,
		AdminID:     e.AdminID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Month:       e.Month,
		Year:        e.Year,
		ExpenseDate: e.ExpenseDate,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}

type ExpenseStatsResponse struct {
	BuildingID string                                     `json:"buildingId"`
	Month      int                                        `json:"month,omitempty"`
	Year       int                                        `json:"year,omitempty"`
	Count      int                                        `json:"count"`
	Total      decimal.Decimal                            `json:"totalExpenses"`
	ByCategory map[domain.ExpenseCategory]decimal.Decimal `json:"byCategory"`
}

type BuildingProfitResponse struct {
	BuildingID   string          `json:"buildingId"`
	BuildingName string          `json:"buildingName"`
	Collections  decimal.Decimal `json:"totalCollections"`
	Expenses     decimal.Decimal `json:"totalExpenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

type ProfitAnalysisResponse struct {
	Month            int                      `json:"month,omitempty"`
	Year             int                      `json:"year,omitempty"`
	Buildings        []BuildingProfitResponse `json:"buildings"`
	TotalCollections decimal.Decimal          `json:"totalCollections"`
	TotalExpenses    decimal.Decimal          `json:"totalExpenses"`
	NetProfit        decimal.Decimal          `json:"netProfit"`
}

func toProfit(p *service.ProfitAnalysis) ProfitAnalysisResponse {
	out := ProfitAnalysisResponse{
		Month:            p.Month,
		Year:             p.Year,
		Buildings:        make([]BuildingProfitResponse, len(p.Buildings)),
		TotalCollections: p.TotalCollections,
		TotalExpenses:    p.TotalExpenses,
		NetProfit:        p.NetProfit,
	}
	for i, b := range p.Buildings {
		out.Buildings[i] = BuildingProfitResponse(b)
	}
	return out
}

type StatsResponse struct {
	Period           string          `json:"period"`
	Month            int             `json:"month,omitempty"`
	Year             int             `json:"year,omitempty"`
	BuildingID       string          `json:"buildingId,omitempty"`
	BuildingName     string          `json:"buildingName,omitempty"`
	TotalBuildings   int             `json:"totalBuildings"`
	TotalRooms       int             `json:"totalRooms"`
	OccupiedRooms    int             `json:"occupiedRooms"`
	VacantRooms      int             `json:"vacantRooms"`
	OccupancyRate    float64         `json:"occupancyRate"`
	TotalMonthlyRent decimal.Decimal `json:"totalMonthlyRent"`
	TotalCollections decimal.Decimal `json:"totalCollections"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TotalDues        decimal.Decimal `json:"totalDues"`
	CollectionRate   float64         `json:"collectionRate"`
}

func toStats(s *service.StatsSummary) StatsResponse {
	return StatsResponse(*s)
}

type RoomRowResponse struct {
	RoomID       string            `json:"roomId"`
	RoomNumber   string            `json:"roomNumber"`
	BuildingID   string            `json:"buildingId"`
	BuildingName string            `json:"buildingName"`
	MonthlyRent  decimal.Decimal   `json:"monthlyRent"`
	Status       domain.RoomStatus `json:"status"`
	IsOccupied   bool              `json:"isOccupied"`
	TenantID     string            `json:"tenantId,omitempty"`
	TenantName   string            `json:"tenantName,omitempty"`
	TenantPhone  string            `json:"tenantPhone,omitempty"`
}

// Date accepts either a calendar date ("2025-11-05") or an RFC 3339 timestamp
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// ptr returns nil for an absent date
func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
