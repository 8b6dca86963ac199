// Package audit writes security and money-movement events as structured log
// records tagged msg=audit, so they can be routed apart from request logs.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/infrastructure/logger"
)

// Outcome values
const (
	Initiated = "initiated"
	Completed = "completed"
	Denied    = "denied"
)

// Entry is one audit record
type Entry struct {
	UserID     string
	Role       string
	Action     string
	Resource   string
	ResourceID string
	Outcome    string
	Details    string
}

type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{logger: l, now: time.Now}
}

// Record writes e. A nil Logger discards it.
func (al *Logger) Record(ctx context.Context, e Entry) {
	if al == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("action", e.Action),
		slog.String("resource", e.Resource),
		slog.String("user_id", e.UserID),
		slog.String("outcome", e.Outcome),
		slog.Time("at", al.now().UTC()),
	}
	if e.ResourceID != "" {
		attrs = append(attrs, slog.String("resource_id", e.ResourceID))
	}
	if e.Role != "" {
		attrs = append(attrs, slog.String("role", e.Role))
	}
	if e.Details != "" {
		attrs = append(attrs, slog.String("details", e.Details))
	}
	if id := logger.RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// LogPayment records a bill moving between payment states
func (al *Logger) LogPayment(ctx context.Context, userID, billID, transition, details string) {
	al.Record(ctx, Entry{UserID: userID, Action: transition, Resource: "bill", ResourceID: billID, Outcome: Completed, Details: details})
}

func (al *Logger) LogGeneration(ctx context.Context, adminID, buildingID, details string) {
	al.Record(ctx, Entry{UserID: adminID, Role: "admin", Action: "generate_bills", Resource: "building", ResourceID: buildingID, Outcome: Completed, Details: details})
}

// LogTenant records an admin changing a tenant. details names the changed
// fields, never their values.
func (al *Logger) LogTenant(ctx context.Context, adminID, tenantID, action, details string) {
	al.Record(ctx, Entry{UserID: adminID, Role: "admin", Action: action, Resource: "tenant", ResourceID: tenantID, Outcome: Completed, Details: details})
}

func (al *Logger) LogDenied(ctx context.Context, userID, role, permission string) {
	al.Record(ctx, Entry{UserID: userID, Role: role, Action: "access_denied", Resource: "api", Outcome: Denied, Details: permission})
}
