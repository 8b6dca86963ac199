package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/tracing"
)

// Stats periods
const (
	PeriodMonthly = "monthly"
	PeriodAll     = "all"
)

// StatsQuery selects the window of a financial summary. A monthly query
// without month and year means the current month.
type StatsQuery struct {
	Month  int
	Year   int
	Period string
}

// StatsSummary is the dashboard view of occupancy and money. Rates are
// percentages rounded to two decimals and are 0 when their base is 0.
type StatsSummary struct {
	Period           string
	Month            int
	Year             int
	BuildingID       string
	BuildingName     string
	TotalBuildings   int
	TotalRooms       int
	OccupiedRooms    int
	VacantRooms      int
	OccupancyRate    float64
	TotalMonthlyRent decimal.Decimal
	TotalCollections decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetProfit        decimal.Decimal
	TotalDues        decimal.Decimal
	CollectionRate   float64
}

// RoomRow flattens a room, its building and its tenant for table views
type RoomRow struct {
	RoomID       string
	RoomNumber   string
	BuildingID   string
	BuildingName string
	MonthlyRent  decimal.Decimal
	Status       domain.RoomStatus
	IsOccupied   bool
	TenantID     string
	TenantName   string
	TenantPhone  string
}

// FinancialService aggregates rooms, payments and expenses per admin
type FinancialService struct {
	buildings domain.BuildingRepository
	rooms     domain.RoomRepository
	tenants   domain.TenantRepository
	payments  domain.PaymentRepository
	expenses  domain.ExpenseRepository
	guard     *OwnershipGuard
	stats     *StatsCache
	now       func() time.Time
	logger    *slog.Logger
}

// NewFinancialService creates a new financial service
func NewFinancialService(
	buildings domain.BuildingRepository,
	rooms domain.RoomRepository,
	tenants domain.TenantRepository,
	payments domain.PaymentRepository,
	expenses domain.ExpenseRepository,
	guard *OwnershipGuard,
	stats *StatsCache,
	logger *slog.Logger,
) *FinancialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialService{
		buildings: buildings,
		rooms:     rooms,
		tenants:   tenants,
		payments:  payments,
		expenses:  expenses,
		guard:     guard,
		stats:     stats,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (s *FinancialService) normalize(q StatsQuery) (StatsQuery, error) {
	if q.Period == PeriodAll {
		return StatsQuery{Period: PeriodAll}, nil
	}
	if q.Period != "" && q.Period != PeriodMonthly {
		return q, domain.Validation("period must be %q or %q", PeriodMonthly, PeriodAll)
	}
	q.Period = PeriodMonthly
	if q.Month == 0 && q.Year == 0 {
		now := s.now()
		q.Month, q.Year = int(now.Month()), now.Year()
	}
	if err := domain.ValidatePeriod(q.Month, q.Year); err != nil {
		return q, err
	}
	return q, nil
}

func (q StatsQuery) cacheKey() string {
	return fmt.Sprintf("%s:%d:%d", q.Period, q.Month, q.Year)
}

// percentage returns part/whole*100 rounded to 2 decimals, or 0 for an empty whole
func percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2).InexactFloat64()
}

// summarize applies the dashboard formulas to a set of buildings.
// allTime is the expense filter used for the all-time period.
func (s *FinancialService) summarize(ctx context.Context, q StatsQuery, buildingIDs []string, allTime domain.ExpenseFilter) (*StatsSummary, error) {
	out := &StatsSummary{
		Period:           q.Period,
		Month:            q.Month,
		Year:             q.Year,
		TotalBuildings:   len(buildingIDs),
		TotalMonthlyRent: decimal.Zero,
		TotalCollections: decimal.Zero,
		TotalExpenses:    decimal.Zero,
	}

	pf := domain.PaymentFilter{BuildingIDs: buildingIDs, Status: domain.PaymentConfirmed}
	ef := allTime
	if q.Period == PeriodMonthly {
		start, end := domain.PeriodBounds(q.Month, q.Year)
		pf.From, pf.To = start, end
		ef = domain.ExpenseFilter{BuildingIDs: buildingIDs, From: start, To: end}
	}

	if len(buildingIDs) > 0 {
		rooms, err := s.rooms.ListByBuildings(ctx, buildingIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range rooms {
			out.TotalRooms++
			if r.IsOccupied() {
				out.OccupiedRooms++
			}
			out.TotalMonthlyRent = out.TotalMonthlyRent.Add(r.MonthlyRent)
		}

		payments, err := s.payments.List(ctx, pf)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			out.TotalCollections = out.TotalCollections.Add(p.Amount)
		}
	}

	// An empty building list must not turn into "no filter".
	if len(ef.BuildingIDs) > 0 || ef.AdminID != "" {
		expenses, err := s.expenses.List(ctx, ef)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			out.TotalExpenses = out.TotalExpenses.Add(e.Amount)
		}
	}

	out.VacantRooms = out.TotalRooms - out.OccupiedRooms
	out.OccupancyRate = percentage(decimal.NewFromInt(int64(out.OccupiedRooms)), decimal.NewFromInt(int64(out.TotalRooms)))
	out.NetProfit = out.TotalCollections.Sub(out.TotalExpenses)
	out.TotalDues = out.TotalMonthlyRent.Sub(out.TotalCollections)
	out.CollectionRate = percentage(out.TotalCollections, out.TotalMonthlyRent)
	return out, nil
}

// GetStats summarizes every building adminID owns
func (s *FinancialService) GetStats(ctx context.Context, adminID string, q StatsQuery) (*StatsSummary, error) {
	ctx, span := tracing.Start(ctx, "FinancialService.GetStats")
	defer span.End()

	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}
	return cachedStats(s.stats, adminID, "summary:"+q.cacheKey(), func() (*StatsSummary, error) {
		ids, err := s.guard.BuildingIDs(ctx, adminID)
		if err != nil {
			return nil, err
		}
		return s.summarize(ctx, q, ids, domain.ExpenseFilter{AdminID: adminID})
	})
}

// GetBuildingStats summarizes one building. Ownership is checked on every
// call, before the cache is consulted.
func (s *FinancialService) GetBuildingStats(ctx context.Context, adminID, buildingID string, q StatsQuery) (*StatsSummary, error) {
	b, err := s.guard.OwnedBuilding(ctx, buildingID, adminID)
	if err != nil {
		return nil, err
	}
	q, err = s.normalize(q)
	if err != nil {
		return nil, err
	}
	return cachedStats(s.stats, adminID, "building:"+buildingID+":"+q.cacheKey(), func() (*StatsSummary, error) {
		ids := []string{buildingID}
		out, err := s.summarize(ctx, q, ids, domain.ExpenseFilter{BuildingIDs: ids})
		if err != nil {
			return nil, err
		}
		out.BuildingID = b.ID
		out.BuildingName = b.Name
		return out, nil
	})
}

// GetRoomTable lists every room of the admin with its building and tenant
func (s *FinancialService) GetRoomTable(ctx context.Context, adminID string) ([]RoomRow, error) {
	return cachedStats(s.stats, adminID, "rooms", func() ([]RoomRow, error) {
		buildings, err := s.buildings.ListByAdmin(ctx, adminID)
		if err != nil {
			return nil, err
		}
		if len(buildings) == 0 {
			return []RoomRow{}, nil
		}
		names := make(map[string]string, len(buildings))
		ids := make([]string, len(buildings))
		tenants := make(map[string]*domain.Tenant)
		for i, b := range buildings {
			ids[i] = b.ID
			names[b.ID] = b.Name
			list, err := s.tenants.ListByBuilding(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			for _, t := range list {
				tenants[t.ID] = t
			}
		}

		rooms, err := s.rooms.ListByBuildings(ctx, ids)
		if err != nil {
			return nil, err
		}
		rows := make([]RoomRow, 0, len(rooms))
		for _, r := range rooms {
			row := RoomRow{
				RoomID:       r.ID,
				RoomNumber:   r.RoomNumber,
				BuildingID:   r.BuildingID,
				BuildingName: names[r.BuildingID],
				MonthlyRent:  r.MonthlyRent,
				Status:       r.Status,
				IsOccupied:   r.IsOccupied(),
			}
			if r.TenantID != nil {
				row.TenantID = *r.TenantID
				if t, ok := tenants[*r.TenantID]; ok {
					row.TenantName = t.Name
					row.TenantPhone = t.Phone
				}
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
}
