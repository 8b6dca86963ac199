package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository/memory"
)

func addBill(t *testing.T, repo *memory.BillRepository, tenant string, month int, total string, status domain.BillStatus) {
	t.Helper()
	b := &domain.Bill{
		RoomID:      "room-" + tenant,
		TenantID:    tenant,
		BuildingID:  "b1",
		Month:       month,
		Year:        2025,
		Rent:        decimal.RequireFromString(total),
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		Source:      domain.SourceMonthly,
		DueDate:     domain.DueDate(month, 2025, 10),
	}
	require.NoError(t, repo.Create(context.Background(), b))
}

func TestReceivablesScan(t *testing.T) {
	repo := memory.NewBillRepository()
	addBill(t, repo, "t1", 10, "5000", domain.BillPending)                    // due Oct 10, overdue
	addBill(t, repo, "t1", 11, "5200", domain.BillPending)                    // due Nov 10, not yet
	addBill(t, repo, "t2", 10, "4000", domain.BillPaymentPendingConfirmation) // past due but claimed
	addBill(t, repo, "t3", 10, "3000", domain.BillPaid)

	w := NewReceivablesWorker(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	w.now = func() time.Time { return time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC) }

	r, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count[domain.BillOverdue])
	assert.Equal(t, 1, r.Count[domain.BillPending])
	assert.Equal(t, 1, r.Count[domain.BillPaymentPendingConfirmation])
	assert.Zero(t, r.Count[domain.BillPaid])
	assert.Equal(t, "5000", r.Amount[domain.BillOverdue].String())
	assert.Equal(t, "5200", r.Amount[domain.BillPending].String())
}

func TestReceivablesWorkerStops(t *testing.T) {
	w := NewReceivablesWorker(memory.NewBillRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
