package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository/memory"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/audit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/middleware"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/service"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAPI is the full router over in-memory storage behind the JWT middleware
type testAPI struct {
	handler http.Handler
	auth    *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := nopLogger()

	users := memory.NewUserRepository()
	buildings := memory.NewBuildingRepository()
	rooms := memory.NewRoomRepository()
	tenants := memory.NewTenantRepository()
	bills := memory.NewBillRepository()
	payments := memory.NewPaymentRepository()
	expenses := memory.NewExpenseRepository()

	tm := auth.NewTokenManager("test-secret", "", time.Hour)
	auditLog := audit.NewLogger(log)
	stats := service.NewStatsCache(time.Minute)
	guard := service.NewOwnershipGuard(buildings, log)

	authSvc := service.NewAuthService(users, tm, log)
	billing := service.NewBillingService(bills, rooms, tenants, payments, guard, memory.NewLocker(), stats, auditLog,
		service.BillingConfig{ElectricityRate: decimal.NewFromInt(8), DueDay: 10, LockTTL: time.Minute}, log)

	limiter := ratelimit.NewLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	resp := NewResponder(log, false)
	routes := &Routes{
		Health:     NewHealthHandler(nil, resp, log),
		Auth:       NewAuthHandler(authSvc, limiter, resp, log),
		Buildings:  NewBuildingHandler(service.NewBuildingService(buildings, rooms, tenants, expenses, guard, stats, log), resp),
		Rooms:      NewRoomHandler(service.NewRoomService(rooms, tenants, bills, guard, stats, log), resp),
		Tenants:    NewTenantHandler(service.NewTenantService(tenants, rooms, users, bills, guard, stats, auditLog, log), resp),
		Bills:      NewBillHandler(billing, resp),
		Payments:   NewPaymentHandler(billing, resp),
		RentRecord: NewRentRecordHandler(billing, resp),
		Expenses:   NewExpenseHandler(service.NewExpenseService(expenses, payments, buildings, guard, stats, log), resp),
		Financial:  NewFinancialHandler(service.NewFinancialService(buildings, rooms, tenants, payments, expenses, guard, stats, log), resp),
	}
	mux := http.NewServeMux()
	routes.Register(mux, security.NewAuthorizationService(log), auditLog)

	return &testAPI{handler: middleware.JWTMiddleware(tm, log)(mux), auth: authSvc}
}

// do sends body as JSON and returns the recorded response
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// adminToken creates an admin account and logs it in through the API
func (a *testAPI) adminToken(t *testing.T, email string) (string, string) {
	t.Helper()
	u, err := a.auth.CreateAdmin(context.Background(), "Admin", email, "password123")
	require.NoError(t, err)
	rec := a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[AuthResponse](t, rec).Token, u.ID
}

func (a *testAPI) studentToken(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/users", "", map[string]string{"name": "Student", "email": email, "password": "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeBody[AuthResponse](t, rec)
	return res.Token, res.ID
}
