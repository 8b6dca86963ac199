package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/metrics"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/tracing"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
)

// BillingConfig holds the tariff and scheduling knobs of bill generation
type BillingConfig struct {
	ElectricityRate decimal.Decimal // per unit
	DueDay          int             // day of the billing month a bill falls due
	LockTTL         time.Duration   // upper bound on one generation run
}

// GenerationError reports one room that could not be billed
type GenerationError struct {
	RoomID     string `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	Message    string `json:"message"`
}

// GenerationResult summarizes a bulk generation run. Per-room failures are
// collected in Errors and do not abort the batch.
type GenerationResult struct {
	Created int
	Skipped int
	Bills   []*domain.Bill
	Errors  []GenerationError
}

// RentRecordInput describes an explicitly created rent record
type RentRecordInput struct {
	RoomID           string
	TenantID         string // optional; must match the room's current tenant
	Month            int
	Year             int
	Rent             *decimal.Decimal // defaults to the room's monthly rent
	ElectricityUnits decimal.Decimal
	OtherCharges     decimal.Decimal
	Notes            string
}

// ChargesUpdate overwrites only the fields that are set. A set zero clears the charge.
type ChargesUpdate struct {
	ElectricityBill  *decimal.Decimal
	ElectricityUnits *decimal.Decimal
	OtherCharges     *decimal.Decimal
}

// ConfirmInput overrides the recorded payment; unset fields fall back to the bill
type ConfirmInput struct {
	Amount      *decimal.Decimal
	Method      *domain.PaymentMethod
	PaymentDate *time.Time
}

// BillQuery narrows an admin's bill listing
type BillQuery struct {
	BuildingID string
	Status     domain.BillStatus
	Source     domain.BillSource
	Month      int
	Year       int
}

// BillingService generates bills and drives their payment state machine
type BillingService struct {
	bills    domain.BillRepository
	rooms    domain.RoomRepository
	tenants  domain.TenantRepository
	payments domain.PaymentRepository
	guard    *OwnershipGuard
	locker   domain.Locker
	stats    *StatsCache
	audit    *audit.Logger
	cfg      BillingConfig
	now      func() time.Time
	logger   *slog.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	bills domain.BillRepository,
	rooms domain.RoomRepository,
	tenants domain.TenantRepository,
	payments domain.PaymentRepository,
	guard *OwnershipGuard,
	locker domain.Locker,
	stats *StatsCache,
	auditLog *audit.Logger,
	cfg BillingConfig,
	logger *slog.Logger,
) *BillingService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}
	if cfg.DueDay <= 0 {
		cfg.DueDay = 10
	}
	return &BillingService{
		bills:    bills,
		rooms:    rooms,
		tenants:  tenants,
		payments: payments,
		guard:    guard,
		locker:   locker,
		stats:    stats,
		audit:    auditLog,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Now is the clock used to derive Overdue
func (s *BillingService) Now() time.Time {
	return s.now()
}

func generationLockKey(buildingID string, month, year int) string {
	return fmt.Sprintf("billgen:%s:%d:%d", buildingID, month, year)
}

// userMessage hides internal error text from per-room results
func (s *BillingService) userMessage(room *domain.Room, err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	s.logger.Error("bill generation failed for room",
		slog.String("room_id", room.ID),
		slog.String("error", err.Error()),
	)
	return "internal error while generating bill"
}

func (r *GenerationResult) addError(room *domain.Room, msg string) {
	r.Errors = append(r.Errors, GenerationError{RoomID: room.ID, RoomNumber: room.RoomNumber, Message: msg})
}

// periodBilled reports whether the room or its tenant already has a bill for the period
func (s *BillingService) periodBilled(ctx context.Context, roomID, tenantID string, month, year int) (bool, error) {
	if _, err := s.bills.FindForRoomPeriod(ctx, roomID, month, year); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	if _, err := s.bills.FindForTenantPeriod(ctx, tenantID, month, year); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	return false, nil
}

func (s *BillingService) newBill(room *domain.Room, tenantID string, month, year int, source domain.BillSource) *domain.Bill {
	return &domain.Bill{
		RoomID:     room.ID,
		TenantID:   tenantID,
		BuildingID: room.BuildingID,
		Month:      month,
		Year:       year,
		Rent:       room.MonthlyRent,
		Status:     domain.BillPending,
		Source:     source,
		DueDate:    domain.DueDate(month, year, s.cfg.DueDay),
	}
}

func (s *BillingService) electricity(units decimal.Decimal) decimal.Decimal {
	return units.Mul(s.cfg.ElectricityRate).Round(2)
}

type billBuilder func(ctx context.Context, room *domain.Room, tenantID string) (*domain.Bill, error)

// generate runs one bulk pass over the occupied rooms of a building under the
// period lock. Rooms already billed for the period are skipped.
func (s *BillingService) generate(ctx context.Context, kind string, source domain.BillSource, adminID, buildingID string, month, year int, build billBuilder) (res *GenerationResult, err error) {
	ctx, span := tracing.Start(ctx, "BillingService."+kind)
	defer span.End()
	span.SetAttributes(
		attribute.String("building_id", buildingID),
		attribute.Int("month", month),
		attribute.Int("year", year),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			tracing.Fail(span, err)
		}
		metrics.ObserveGeneration(kind, outcome, time.Since(start))
	}()

	if err := domain.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	release, err := s.locker.Acquire(ctx, generationLockKey(buildingID, month, year), s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	rooms, err := s.rooms.ListByBuildings(ctx, []string{buildingID})
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{Bills: []*domain.Bill{}, Errors: []GenerationError{}}
	for _, room := range rooms {
		if !room.IsOccupied() {
			continue
		}
		if room.TenantID == nil {
			result.addError(room, fmt.Sprintf("room %s is occupied but has no tenant", room.RoomNumber))
			metrics.ObserveSkip("no_tenant")
			continue
		}
		tenantID := *room.TenantID

		billed, err := s.periodBilled(ctx, room.ID, tenantID, month, year)
		if err != nil {
			result.addError(room, s.userMessage(room, err))
			continue
		}
		if billed {
			result.Skipped++
			metrics.ObserveSkip("duplicate")
			continue
		}

		bill, err := build(ctx, room, tenantID)
		if err != nil {
			result.addError(room, s.userMessage(room, err))
			continue
		}
		if err := s.bills.Create(ctx, bill); err != nil {
			if isConflict(err) {
				result.Skipped++
				metrics.ObserveSkip("duplicate")
				continue
			}
			result.addError(room, s.userMessage(room, err))
			continue
		}
		result.Created++
		result.Bills = append(result.Bills, bill)
	}

	metrics.AddBillsGenerated(string(source), result.Created)
	span.SetAttributes(attribute.Int("created", result.Created), attribute.Int("skipped", result.Skipped))
	s.audit.LogGeneration(ctx, adminID, buildingID,
		fmt.Sprintf("%02d/%d created=%d skipped=%d errors=%d", month, year, result.Created, result.Skipped, len(result.Errors)))
	s.logger.Info("bills generated",
		slog.String("kind", kind),
		slog.String("building_id", buildingID),
		slog.Int("month", month),
		slog.Int("year", year),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// GenerateBills creates one Pending bill per occupied room for the period.
// An unpaid bill of the tenant's previous period is carried forward as a
// lump sum in PreviousDues. Calling it twice for a period never double-bills.
func (s *BillingService) GenerateBills(ctx context.Context, adminID, buildingID string, month, year int) (*GenerationResult, error) {
	return s.generate(ctx, "GenerateBills", domain.SourceMonthly, adminID, buildingID, month, year,
		func(ctx context.Context, room *domain.Room, tenantID string) (*domain.Bill, error) {
			dues := decimal.Zero
			pm, py := domain.PreviousPeriod(month, year)
			prev, err := s.bills.FindForTenantPeriod(ctx, tenantID, pm, py)
			switch {
			case err == nil:
				if !prev.IsPaid() {
					dues = prev.TotalAmount
				}
			case !isNotFound(err):
				return nil, err
			}

			bill := s.newBill(room, tenantID, month, year, domain.SourceMonthly)
			bill.PreviousDues = dues
			bill.Recalculate()
			return bill, nil
		})
}

// GenerateRentRecords bills every occupied room with electricity computed
// from the given meter units (keyed by room id). There is no dues rollover.
func (s *BillingService) GenerateRentRecords(ctx context.Context, adminID, buildingID string, month, year int, units map[string]decimal.Decimal) (*GenerationResult, error) {
	for roomID, u := range units {
		if u.IsNegative() {
			return nil, domain.Validation("electricity units for room %s must not be negative", roomID)
		}
	}
	return s.generate(ctx, "GenerateRentRecords", domain.SourceRentRecord, adminID, buildingID, month, year,
		func(_ context.Context, room *domain.Room, tenantID string) (*domain.Bill, error) {
			bill := s.newBill(room, tenantID, month, year, domain.SourceRentRecord)
			bill.ElectricityUnits = units[room.ID]
			bill.ElectricityBill = s.electricity(bill.ElectricityUnits)
			bill.Recalculate()
			return bill, nil
		})
}

// GenerateRentRecordForRoom bills a single occupied room. Unlike the bulk
// path an existing record for the period is an error.
func (s *BillingService) GenerateRentRecordForRoom(ctx context.Context, adminID, roomID string, month, year int, units decimal.Decimal) (*domain.Bill, error) {
	if err := domain.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	if units.IsNegative() {
		return nil, domain.Validation("electricity units must not be negative")
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, room.BuildingID, adminID); err != nil {
		return nil, err
	}
	if !room.IsOccupied() || room.TenantID == nil {
		return nil, domain.InvalidState("room %s has no tenant", room.RoomNumber)
	}

	release, err := s.locker.Acquire(ctx, generationLockKey(room.BuildingID, month, year), s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	billed, err := s.periodBilled(ctx, room.ID, *room.TenantID, month, year)
	if err != nil {
		return nil, err
	}
	if billed {
		return nil, domain.Conflict("a rent record already exists for room %s for %02d/%d", room.RoomNumber, month, year)
	}

	bill := s.newBill(room, *room.TenantID, month, year, domain.SourceRentRecord)
	bill.ElectricityUnits = units
	bill.ElectricityBill = s.electricity(units)
	bill.Recalculate()
	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	metrics.AddBillsGenerated(string(domain.SourceRentRecord), 1)
	return bill, nil
}

// CreateRentRecord inserts one record with explicit charges
func (s *BillingService) CreateRentRecord(ctx context.Context, adminID string, in RentRecordInput) (*domain.Bill, error) {
	if err := domain.ValidatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	if in.ElectricityUnits.IsNegative() || in.OtherCharges.IsNegative() || (in.Rent != nil && in.Rent.IsNegative()) {
		return nil, domain.Validation("charges must not be negative")
	}
	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, room.BuildingID, adminID); err != nil {
		return nil, err
	}

	// The room's occupant is the only tenant a record on it may be charged to.
	if room.TenantID == nil {
		return nil, domain.Validation("room %s has no tenant", room.RoomNumber)
	}
	tenantID := *room.TenantID
	if in.TenantID != "" && in.TenantID != tenantID {
		return nil, domain.Validation("tenant does not occupy room %s", room.RoomNumber)
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, generationLockKey(room.BuildingID, in.Month, in.Year), s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	billed, err := s.periodBilled(ctx, room.ID, tenantID, in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	if billed {
		return nil, domain.Conflict("a rent record already exists for %02d/%d", in.Month, in.Year)
	}

	bill := s.newBill(room, tenantID, in.Month, in.Year, domain.SourceRentRecord)
	if in.Rent != nil {
		bill.Rent = *in.Rent
	}
	bill.ElectricityUnits = in.ElectricityUnits
	bill.ElectricityBill = s.electricity(in.ElectricityUnits)
	bill.OtherCharges = in.OtherCharges
	bill.Notes = in.Notes
	bill.Recalculate()
	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// loadOwnedBill loads a bill and checks that adminID owns its building
func (s *BillingService) loadOwnedBill(ctx context.Context, adminID, billID string) (*domain.Bill, error) {
	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertOwnership(ctx, bill.BuildingID, adminID); err != nil {
		return nil, err
	}
	return bill, nil
}

// UpdateCharges sets electricity and other charges and recomputes the total.
// Setting units without an explicit electricity amount prices them at the
// configured rate.
func (s *BillingService) UpdateCharges(ctx context.Context, adminID, billID string, upd ChargesUpdate) (*domain.Bill, error) {
	bill, err := s.loadOwnedBill(ctx, adminID, billID)
	if err != nil {
		return nil, err
	}
	if bill.IsPaid() {
		return nil, domain.InvalidState("charges of a Paid bill cannot change")
	}
	for _, v := range []*decimal.Decimal{upd.ElectricityBill, upd.ElectricityUnits, upd.OtherCharges} {
		if v != nil && v.IsNegative() {
			return nil, domain.Validation("charges must not be negative")
		}
	}

	if upd.ElectricityUnits != nil {
		bill.ElectricityUnits = *upd.ElectricityUnits
		if upd.ElectricityBill == nil {
			bill.ElectricityBill = s.electricity(bill.ElectricityUnits)
		}
	}
	if upd.ElectricityBill != nil {
		bill.ElectricityBill = *upd.ElectricityBill
	}
	if upd.OtherCharges != nil {
		bill.OtherCharges = *upd.OtherCharges
	}
	bill.Recalculate()

	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// MarkPaid is the tenant saying "I paid": Pending (or Overdue) moves to
// PaymentPendingConfirmation. Only the tenant linked to userID may do this.
func (s *BillingService) MarkPaid(ctx context.Context, userID, billID string, method domain.PaymentMethod) (*domain.Bill, error) {
	if !method.Valid() {
		return nil, domain.Validation("invalid payment method %q", method)
	}
	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.Unauthorized("no tenant profile is linked to this account")
		}
		return nil, err
	}
	if bill.TenantID != tenant.ID {
		return nil, domain.Unauthorized("not authorized to pay this bill")
	}
	if err := domain.ValidateBillTransition(bill.Status, domain.BillPaymentPendingConfirmation); err != nil {
		return nil, domain.InvalidState("bill is already %s", bill.Status)
	}

	bill.Status = domain.BillPaymentPendingConfirmation
	bill.PaymentMethod = &method
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, err
	}
	metrics.ObservePaymentTransition("mark_paid")
	s.audit.LogPayment(ctx, userID, bill.ID, "mark_paid", string(method))
	return bill, nil
}

// recordPayment writes the receipt of a bill. A receipt left behind by an
// interrupted earlier attempt is reused, so a bill never gets two.
func (s *BillingService) recordPayment(ctx context.Context, bill *domain.Bill, amount decimal.Decimal, method domain.PaymentMethod, paidAt time.Time, confirmedBy string) (*domain.Payment, error) {
	p := &domain.Payment{
		BillID:      bill.ID,
		TenantID:    bill.TenantID,
		BuildingID:  bill.BuildingID,
		Amount:      amount,
		Method:      method,
		Status:      domain.PaymentConfirmed,
		PaymentDate: paidAt,
		ConfirmedBy: confirmedBy,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if !isConflict(err) {
			return nil, err
		}
		return s.payments.GetByBill(ctx, bill.ID)
	}
	metrics.ObserveCollected(string(method), amount.InexactFloat64())
	return p, nil
}

func (s *BillingService) settle(ctx context.Context, adminID string, bill *domain.Bill, amount decimal.Decimal, method domain.PaymentMethod, paidAt time.Time) (*domain.Payment, error) {
	payment, err := s.recordPayment(ctx, bill, amount, method, paidAt, adminID)
	if err != nil {
		return nil, err
	}
	bill.Status = domain.BillPaid
	bill.PaymentMethod = &method
	bill.PaidAt = &paidAt
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	return payment, nil
}

// ConfirmPayment is the admin accepting a tenant's claimed payment. It is
// the normal path that creates a Payment and makes the bill Paid.
func (s *BillingService) ConfirmPayment(ctx context.Context, adminID, billID string, in ConfirmInput) (*domain.Bill, *domain.Payment, error) {
	ctx, span := tracing.Start(ctx, "BillingService.ConfirmPayment")
	defer span.End()
	span.SetAttributes(attribute.String("bill_id", billID))

	bill, err := s.loadOwnedBill(ctx, adminID, billID)
	if err != nil {
		return nil, nil, err
	}
	if bill.Status != domain.BillPaymentPendingConfirmation {
		return nil, nil, domain.InvalidState("bill cannot be confirmed: current status is %s", bill.EffectiveStatus(s.now()))
	}

	amount := bill.TotalAmount
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, nil, domain.Validation("amount must not be negative")
		}
		amount = *in.Amount
	}
	var method domain.PaymentMethod
	switch {
	case in.Method != nil:
		method = *in.Method
	case bill.PaymentMethod != nil:
		method = *bill.PaymentMethod
	}
	if !method.Valid() {
		return nil, nil, domain.Validation("a valid payment method is required")
	}
	paidAt := s.now()
	if in.PaymentDate != nil {
		paidAt = in.PaymentDate.UTC()
	}

	payment, err := s.settle(ctx, adminID, bill, amount, method, paidAt)
	if err != nil {
		tracing.Fail(span, err)
		return nil, nil, err
	}
	metrics.ObservePaymentTransition("confirm")
	s.audit.LogPayment(ctx, adminID, bill.ID, "confirm_payment", "amount="+amount.String())
	s.logger.Info("payment confirmed",
		slog.String("bill_id", bill.ID),
		slog.String("payment_id", payment.ID),
		slog.String("amount", amount.String()),
	)
	return bill, payment, nil
}

// PayRentRecord marks any unpaid bill Paid directly, for cash collected
// offline. It records a Payment like ConfirmPayment does.
func (s *BillingService) PayRentRecord(ctx context.Context, adminID, billID string, method domain.PaymentMethod, paidAt *time.Time) (*domain.Bill, *domain.Payment, error) {
	if !method.Valid() {
		return nil, nil, domain.Validation("invalid payment method %q", method)
	}
	bill, err := s.loadOwnedBill(ctx, adminID, billID)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateBillTransition(bill.Status, domain.BillPaid); err != nil {
		return nil, nil, domain.InvalidState("bill is already %s", bill.Status)
	}
	when := s.now()
	if paidAt != nil {
		when = paidAt.UTC()
	}

	payment, err := s.settle(ctx, adminID, bill, bill.TotalAmount, method, when)
	if err != nil {
		return nil, nil, err
	}
	metrics.ObservePaymentTransition("pay_direct")
	s.audit.LogPayment(ctx, adminID, bill.ID, "pay_rent_record", string(method))
	return bill, payment, nil
}

// RejectPayment sends a claimed payment back to Pending
func (s *BillingService) RejectPayment(ctx context.Context, adminID, billID string) (*domain.Bill, error) {
	bill, err := s.loadOwnedBill(ctx, adminID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillPaymentPendingConfirmation {
		return nil, domain.InvalidState("bill cannot be rejected: current status is %s", bill.EffectiveStatus(s.now()))
	}
	bill.Status = domain.BillPending
	bill.PaymentMethod = nil
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, err
	}
	metrics.ObservePaymentTransition("reject")
	s.audit.LogPayment(ctx, adminID, bill.ID, "reject_payment", "")
	return bill, nil
}

// DeleteBill removes an unpaid bill. Paid bills keep their receipt and stay.
func (s *BillingService) DeleteBill(ctx context.Context, adminID, billID string) error {
	bill, err := s.loadOwnedBill(ctx, adminID, billID)
	if err != nil {
		return err
	}
	if bill.IsPaid() {
		return domain.InvalidState("paid bills cannot be deleted")
	}
	return s.bills.Delete(ctx, billID)
}

// MyBills lists the bills of the tenant linked to userID, newest first
func (s *BillingService) MyBills(ctx context.Context, userID string) ([]*domain.Bill, error) {
	tenant, err := s.tenants.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return []*domain.Bill{}, nil
		}
		return nil, err
	}
	return s.bills.List(ctx, domain.BillFilter{TenantID: tenant.ID})
}

// PendingConfirmations is the admin's queue of bills awaiting confirmation
func (s *BillingService) PendingConfirmations(ctx context.Context, adminID string) ([]*domain.Bill, error) {
	ids, err := s.guard.BuildingIDs(ctx, adminID)
	if err != nil || len(ids) == 0 {
		return []*domain.Bill{}, err
	}
	return s.bills.List(ctx, domain.BillFilter{BuildingIDs: ids, Status: domain.BillPaymentPendingConfirmation})
}

// BillsByBuilding lists a building's bills. The status filter applies to the
// effective status, so Overdue and Pending split the stored Pending bills by
// due date.
func (s *BillingService) BillsByBuilding(ctx context.Context, adminID, buildingID string, status domain.BillStatus) ([]*domain.Bill, error) {
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	return s.listEffective(ctx, domain.BillFilter{BuildingIDs: []string{buildingID}}, status)
}

// RentRecords lists bills across the admin's buildings, or one building
func (s *BillingService) RentRecords(ctx context.Context, adminID string, q BillQuery) ([]*domain.Bill, error) {
	filter := domain.BillFilter{Source: q.Source, Month: q.Month, Year: q.Year}
	if q.BuildingID != "" {
		if err := s.guard.AssertOwnership(ctx, q.BuildingID, adminID); err != nil {
			return nil, err
		}
		filter.BuildingIDs = []string{q.BuildingID}
	} else {
		ids, err := s.guard.BuildingIDs(ctx, adminID)
		if err != nil || len(ids) == 0 {
			return []*domain.Bill{}, err
		}
		filter.BuildingIDs = ids
	}
	return s.listEffective(ctx, filter, q.Status)
}

func (s *BillingService) listEffective(ctx context.Context, filter domain.BillFilter, status domain.BillStatus) ([]*domain.Bill, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Validation("invalid bill status %q", status)
	}
	switch status {
	case domain.BillOverdue, domain.BillPending:
		filter.Status = domain.BillPending
	default:
		filter.Status = status
	}
	bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if status != domain.BillOverdue && status != domain.BillPending {
		return bills, nil
	}
	now := s.now()
	out := make([]*domain.Bill, 0, len(bills))
	for _, b := range bills {
		if b.EffectiveStatus(now) == status {
			out = append(out, b)
		}
	}
	return out, nil
}

// MyPayments lists receipts of the tenant linked to userID
func (s *BillingService) MyPayments(ctx context.Context, userID string) ([]*domain.Payment, error) {
	tenant, err := s.tenants.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return []*domain.Payment{}, nil
		}
		return nil, err
	}
	return s.payments.List(ctx, domain.PaymentFilter{TenantID: tenant.ID})
}

// AllPayments lists receipts across the admin's buildings
func (s *BillingService) AllPayments(ctx context.Context, adminID string) ([]*domain.Payment, error) {
	ids, err := s.guard.BuildingIDs(ctx, adminID)
	if err != nil || len(ids) == 0 {
		return []*domain.Payment{}, err
	}
	return s.payments.List(ctx, domain.PaymentFilter{BuildingIDs: ids})
}
