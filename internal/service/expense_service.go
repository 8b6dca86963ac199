package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// ExpenseInput carries the fields of a new expense. Month and year default
// to those of ExpenseDate, which defaults to now.
type ExpenseInput struct {
	BuildingID  string
	Category    domain.ExpenseCategory
	Amount      decimal.Decimal
	Description string
	ExpenseDate time.Time
	Month       int
	Year        int
	Notes       string
}

// ExpenseStats totals a building's expenses by category
type ExpenseStats struct {
	BuildingID string
	Month      int
	Year       int
	Count      int
	Total      decimal.Decimal
	ByCategory map[domain.ExpenseCategory]decimal.Decimal
}

// BuildingProfit is one building's line in a profit analysis
type BuildingProfit struct {
	BuildingID   string
	BuildingName string
	Collections  decimal.Decimal
	Expenses     decimal.Decimal
	NetProfit    decimal.Decimal
}

// ProfitAnalysis compares collections with expenses across an admin's buildings
type ProfitAnalysis struct {
	Month            int
	Year             int
	Buildings        []BuildingProfit
	TotalCollections decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetProfit        decimal.Decimal
}

// ExpenseService records building expenses
type ExpenseService struct {
	expenses  domain.ExpenseRepository
	payments  domain.PaymentRepository
	buildings domain.BuildingRepository
	guard     *OwnershipGuard
	stats     *StatsCache
	now       func() time.Time
	logger    *slog.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenses domain.ExpenseRepository,
	payments domain.PaymentRepository,
	buildings domain.BuildingRepository,
	guard *OwnershipGuard,
	stats *StatsCache,
	logger *slog.Logger,
) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		expenses:  expenses,
		payments:  payments,
		buildings: buildings,
		guard:     guard,
		stats:     stats,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Create records an expense against a building the admin owns
func (s *ExpenseService) Create(ctx context.Context, adminID string, in ExpenseInput) (*domain.Expense, error) {
	if err := s.guard.AssertOwnership(ctx, in.BuildingID, adminID); err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, domain.Validation("invalid expense category %q", in.Category)
	}
	if in.Amount.IsNegative() {
		return nil, domain.Validation("amount must not be negative")
	}
	if in.ExpenseDate.IsZero() {
		in.ExpenseDate = s.now()
	}
	if in.Month == 0 {
		in.Month = int(in.ExpenseDate.Month())
	}
	if in.Year == 0 {
		in.Year = in.ExpenseDate.Year()
	}
	if err := domain.ValidatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}

	e := &domain.Expense{
		BuildingID:  in.BuildingID,
		AdminID:     adminID,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Month:       in.Month,
		Year:        in.Year,
		ExpenseDate: in.ExpenseDate.UTC(),
		Notes:       in.Notes,
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	s.stats.Invalidate(adminID)
	s.logger.Info("expense recorded",
		slog.String("expense_id", e.ID),
		slog.String("building_id", e.BuildingID),
		slog.String("amount", e.Amount.String()),
	)
	return e, nil
}

// ListByBuilding returns a building's expenses, optionally for one period
func (s *ExpenseService) ListByBuilding(ctx context.Context, adminID, buildingID string, month, year int) ([]*domain.Expense, error) {
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	return s.expenses.List(ctx, domain.ExpenseFilter{BuildingIDs: []string{buildingID}, Month: month, Year: year})
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, adminID, id string) error {
	e, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AssertOwnership(ctx, e.BuildingID, adminID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.stats.Invalidate(adminID)
	return nil
}

// ExpenseStats totals a building's expenses, optionally for one period.
// Every category appears in the breakdown, zero when unused.
func (s *ExpenseService) ExpenseStats(ctx context.Context, adminID, buildingID string, month, year int) (*ExpenseStats, error) {
	if err := s.guard.AssertOwnership(ctx, buildingID, adminID); err != nil {
		return nil, err
	}
	expenses, err := s.expenses.List(ctx, domain.ExpenseFilter{BuildingIDs: []string{buildingID}, Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	out := &ExpenseStats{
		BuildingID: buildingID,
		Month:      month,
		Year:       year,
		Count:      len(expenses),
		Total:      decimal.Zero,
		ByCategory: make(map[domain.ExpenseCategory]decimal.Decimal, len(domain.ExpenseCategories)),
	}
	for _, c := range domain.ExpenseCategories {
		out.ByCategory[c] = decimal.Zero
	}
	for _, e := range expenses {
		out.Total = out.Total.Add(e.Amount)
		out.ByCategory[e.Category] = out.ByCategory[e.Category].Add(e.Amount)
	}
	return out, nil
}

// ProfitAnalysis returns collections, expenses and net profit per building.
// With a month and year, payments count by creation time and expenses by
// expense date within that month; otherwise all time.
func (s *ExpenseService) ProfitAnalysis(ctx context.Context, adminID string, month, year int) (*ProfitAnalysis, error) {
	pf := domain.PaymentFilter{Status: domain.PaymentConfirmed}
	ef := domain.ExpenseFilter{}
	if month != 0 || year != 0 {
		if err := domain.ValidatePeriod(month, year); err != nil {
			return nil, err
		}
		start, end := domain.PeriodBounds(month, year)
		pf.From, pf.To = start, end
		ef.From, ef.To = start, end
	}

	buildings, err := s.buildings.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	out := &ProfitAnalysis{
		Month:            month,
		Year:             year,
		Buildings:        make([]BuildingProfit, 0, len(buildings)),
		TotalCollections: decimal.Zero,
		TotalExpenses:    decimal.Zero,
		NetProfit:        decimal.Zero,
	}
	if len(buildings) == 0 {
		return out, nil
	}

	ids := make([]string, len(buildings))
	for i, b := range buildings {
		ids[i] = b.ID
	}
	pf.BuildingIDs, ef.BuildingIDs = ids, ids

	payments, err := s.payments.List(ctx, pf)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.List(ctx, ef)
	if err != nil {
		return nil, err
	}

	collected := make(map[string]decimal.Decimal, len(buildings))
	spent := make(map[string]decimal.Decimal, len(buildings))
	for _, p := range payments {
		collected[p.BuildingID] = collected[p.BuildingID].Add(p.Amount)
	}
	for _, e := range expenses {
		spent[e.BuildingID] = spent[e.BuildingID].Add(e.Amount)
	}
	for _, b := range buildings {
		line := BuildingProfit{
			BuildingID:   b.ID,
			BuildingName: b.Name,
			Collections:  collected[b.ID],
			Expenses:     spent[b.ID],
		}
		line.NetProfit = line.Collections.Sub(line.Expenses)
		out.Buildings = append(out.Buildings, line)
		out.TotalCollections = out.TotalCollections.Add(line.Collections)
		out.TotalExpenses = out.TotalExpenses.Add(line.Expenses)
	}
	out.NetProfit = out.TotalCollections.Sub(out.TotalExpenses)
	return out, nil
}
