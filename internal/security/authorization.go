package security

import (
	"log/slog"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// Permission names one guarded group of routes
type Permission string

const (
	PermManageBuildings Permission = "manage_buildings"
	PermManageRooms     Permission = "manage_rooms"
	PermManageTenants   Permission = "manage_tenants"
	PermManageBills     Permission = "manage_bills"
	PermConfirmPayments Permission = "confirm_payments"
	PermManageExpenses  Permission = "manage_expenses"
	PermViewFinancials  Permission = "view_financials"
	PermViewOwnBills    Permission = "view_own_bills"
	PermMarkBillPaid    Permission = "mark_bill_paid"
	PermViewOwnPayments Permission = "view_own_payments"
)

type permissionSet map[Permission]struct{}

func setOf(perms ...Permission) permissionSet {
	s := make(permissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Admins run their own buildings. Students only see and pay their own bills;
// marking a bill paid is the tenant's claim, so admins do not get it.
var grants = map[domain.Role]permissionSet{
	domain.RoleAdmin: setOf(
		PermManageBuildings, PermManageRooms, PermManageTenants,
		PermManageBills, PermConfirmPayments, PermManageExpenses,
		PermViewFinancials, PermViewOwnBills, PermViewOwnPayments,
	),
	domain.RoleStudent: setOf(PermViewOwnBills, PermMarkBillPaid, PermViewOwnPayments),
}

type AuthorizationService struct {
	logger *slog.Logger
}

func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{logger: logger}
}

// HasPermission reports whether role is granted perm. Unknown roles get nothing.
func (as *AuthorizationService) HasPermission(role domain.Role, perm Permission) bool {
	_, ok := grants[role][perm]
	return ok
}

// ValidatePermission is HasPermission as a domain Unauthorized error
func (as *AuthorizationService) ValidatePermission(role domain.Role, perm Permission) error {
	if as.HasPermission(role, perm) {
		return nil
	}
	as.logger.Warn("permission denied",
		slog.String("role", string(role)),
		slog.String("permission", string(perm)),
	)
	return domain.Unauthorized("%s role cannot %s", role, perm)
}
