package app

import (
	"log/slog"
	"time"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/handler"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
	"github.com/Spectronyx/rent-manager-app-sub000/pkg/config"
)

// Services is the business layer over one Storage
type Services struct {
	Tokens    *auth.TokenManager
	Audit     *audit.Logger
	Auth      *service.AuthService
	Buildings *service.BuildingService
	Rooms     *service.RoomService
	Tenants   *service.TenantService
	Billing   *service.BillingService
	Expenses  *service.ExpenseService
	Financial *service.FinancialService
}

// NewServices builds every service. All of them share one ownership guard
// and one stats cache so writes invalidate what the dashboards read.
func NewServices(s *Storage, cfg *config.Config, log *slog.Logger) *Services {
	tokens := auth.NewTokenManager(cfg.JWTSecret, "", time.Duration(cfg.JWTTTLHours)*time.Hour)
	auditLog := audit.NewLogger(log)
	guard := service.NewOwnershipGuard(s.Buildings, log)
	stats := service.NewStatsCache(time.Duration(cfg.StatsCacheTTLSeconds) * time.Second)

	billingCfg := service.BillingConfig{
		ElectricityRate: cfg.ElectricityRatePerUnit,
		DueDay:          cfg.BillDueDay,
		LockTTL:         2 * time.Minute,
	}

	return &Services{
		Tokens:    tokens,
		Audit:     auditLog,
		Auth:      service.NewAuthService(s.Users, tokens, log),
		Buildings: service.NewBuildingService(s.Buildings, s.Rooms, s.Tenants, s.Expenses, guard, stats, log),
		Rooms:     service.NewRoomService(s.Rooms, s.Tenants, s.Bills, guard, stats, log),
		Tenants:   service.NewTenantService(s.Tenants, s.Rooms, s.Users, s.Bills, guard, stats, auditLog, log),
		Billing:   service.NewBillingService(s.Bills, s.Rooms, s.Tenants, s.Payments, guard, s.Locker, stats, auditLog, billingCfg, log),
		Expenses:  service.NewExpenseService(s.Expenses, s.Payments, s.Buildings, guard, stats, log),
		Financial: service.NewFinancialService(s.Buildings, s.Rooms, s.Tenants, s.Payments, s.Expenses, guard, stats, log),
	}
}

// Routes builds the HTTP handlers over svc
func (svc *Services) Routes(checks map[string]handler.Check, limiter *ratelimit.Limiter, production bool, log *slog.Logger) *handler.Routes {
	resp := handler.NewResponder(log, production)
	return &handler.Routes{
		Health:     handler.NewHealthHandler(checks, resp, log),
		Auth:       handler.NewAuthHandler(svc.Auth, limiter, resp, log),
		Buildings:  handler.NewBuildingHandler(svc.Buildings, resp),
		Rooms:      handler.NewRoomHandler(svc.Rooms, resp),
		Tenants:    handler.NewTenantHandler(svc.Tenants, resp),
		Bills:      handler.NewBillHandler(svc.Billing, resp),
		Payments:   handler.NewPaymentHandler(svc.Billing, resp),
		RentRecord: handler.NewRentRecordHandler(svc.Billing, resp),
		Expenses:   handler.NewExpenseHandler(svc.Expenses, resp),
		Financial:  handler.NewFinancialHandler(svc.Financial, resp),
	}
}
