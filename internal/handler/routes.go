package handler

import (
	"net/http"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/security"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/middleware"
)

// Routes bundles every handler of the API
type Routes struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Buildings  *BuildingHandler
	Rooms      *RoomHandler
	Tenants    *TenantHandler
	Bills      *BillHandler
	Payments   *PaymentHandler
	RentRecord *RentRecordHandler
	Expenses   *ExpenseHandler
	Financial  *FinancialHandler
}

// Register mounts the API on mux. Authentication happens in the outer
// middleware chain; role checks are applied per route here.
func (rt *Routes) Register(mux *http.ServeMux, authz *security.AuthorizationService, auditLog *audit.Logger) {
	guard := func(perm security.Permission, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(authz, auditLog, perm)(h)
	}

	mux.HandleFunc("GET /healthz", rt.Health.Health)
	mux.HandleFunc("GET /readyz", rt.Health.Ready)

	mux.HandleFunc("POST /api/users", rt.Auth.Register)
	mux.HandleFunc("POST /api/users/login", rt.Auth.Login)
	mux.HandleFunc("GET /api/users/me", rt.Auth.Me)

	mux.Handle("POST /api/buildings", guard(security.PermManageBuildings, rt.Buildings.Create))
	mux.Handle("GET /api/buildings", guard(security.PermManageBuildings, rt.Buildings.List))
	mux.Handle("GET /api/buildings/{id}", guard(security.PermManageBuildings, rt.Buildings.Get))
	mux.Handle("PUT /api/buildings/{id}", guard(security.PermManageBuildings, rt.Buildings.Update))
	mux.Handle("DELETE /api/buildings/{id}", guard(security.PermManageBuildings, rt.Buildings.Delete))

	mux.Handle("POST /api/rooms", guard(security.PermManageRooms, rt.Rooms.Create))
	mux.Handle("GET /api/rooms/building/{id}", guard(security.PermManageRooms, rt.Rooms.ListByBuilding))
	mux.Handle("GET /api/rooms/{id}", guard(security.PermManageRooms, rt.Rooms.Get))
	mux.Handle("PUT /api/rooms/{id}", guard(security.PermManageRooms, rt.Rooms.Update))
	mux.Handle("DELETE /api/rooms/{id}", guard(security.PermManageRooms, rt.Rooms.Delete))
	mux.Handle("PUT /api/rooms/{id}/assign", guard(security.PermManageRooms, rt.Rooms.Assign))
	mux.Handle("PUT /api/rooms/{id}/vacate", guard(security.PermManageRooms, rt.Rooms.Vacate))

	mux.Handle("POST /api/tenants", guard(security.PermManageTenants, rt.Tenants.Create))
	mux.Handle("GET /api/tenants/building/{id}", guard(security.PermManageTenants, rt.Tenants.ListByBuilding))
	mux.Handle("GET /api/tenants/{id}", guard(security.PermManageTenants, rt.Tenants.Get))
	mux.Handle("PUT /api/tenants/{id}", guard(security.PermManageTenants, rt.Tenants.Update))
	mux.Handle("DELETE /api/tenants/{id}", guard(security.PermManageTenants, rt.Tenants.Delete))

	mux.Handle("POST /api/bills/generate/{buildingId}", guard(security.PermManageBills, rt.Bills.Generate))
	mux.Handle("GET /api/bills/building/{buildingId}", guard(security.PermManageBills, rt.Bills.ByBuilding))
	mux.Handle("PUT /api/bills/{id}/charges", guard(security.PermManageBills, rt.Bills.UpdateCharges))
	mux.Handle("DELETE /api/bills/{id}", guard(security.PermManageBills, rt.Bills.Delete))
	mux.Handle("GET /api/bills/pending", guard(security.PermConfirmPayments, rt.Bills.Pending))
	mux.Handle("PUT /api/bills/{id}/reject", guard(security.PermConfirmPayments, rt.Bills.Reject))
	mux.Handle("GET /api/bills/mybill", guard(security.PermViewOwnBills, rt.Bills.MyBills))
	mux.Handle("PUT /api/bills/{id}/markpaid", guard(security.PermMarkBillPaid, rt.Bills.MarkPaid))

	mux.Handle("POST /api/payments/confirm/{billId}", guard(security.PermConfirmPayments, rt.Payments.Confirm))
	mux.Handle("GET /api/payments/admin/all", guard(security.PermViewFinancials, rt.Payments.All))
	mux.Handle("GET /api/payments/my", guard(security.PermViewOwnPayments, rt.Payments.Mine))

	mux.Handle("GET /api/rent-records", guard(security.PermManageBills, rt.RentRecord.List))
	mux.Handle("POST /api/rent-records", guard(security.PermManageBills, rt.RentRecord.Create))
	mux.Handle("POST /api/rent-records/generate", guard(security.PermManageBills, rt.RentRecord.Generate))
	mux.Handle("POST /api/rent-records/generate/room", guard(security.PermManageBills, rt.RentRecord.GenerateRoom))
	mux.Handle("PUT /api/rent-records/{id}/pay", guard(security.PermConfirmPayments, rt.RentRecord.Pay))

	mux.Handle("POST /api/expenses", guard(security.PermManageExpenses, rt.Expenses.Create))
	mux.Handle("GET /api/expenses/building/{id}", guard(security.PermManageExpenses, rt.Expenses.ListByBuilding))
	mux.Handle("GET /api/expenses/stats/{id}", guard(security.PermManageExpenses, rt.Expenses.Stats))
	mux.Handle("GET /api/expenses/profit-analysis", guard(security.PermViewFinancials, rt.Expenses.ProfitAnalysis))
	mux.Handle("DELETE /api/expenses/{id}", guard(security.PermManageExpenses, rt.Expenses.Delete))

	mux.Handle("GET /api/financial/monthly", guard(security.PermViewFinancials, rt.Financial.Monthly))
	mux.Handle("GET /api/financial/building/{id}", guard(security.PermViewFinancials, rt.Financial.Building))
	mux.Handle("GET /api/financial/rooms", guard(security.PermViewFinancials, rt.Financial.Rooms))
}
