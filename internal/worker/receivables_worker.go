package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/metrics"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/reliability/retry"
)

// Receivables is one scan of every unpaid bill, keyed by effective status
type Receivables struct {
	Count  map[domain.BillStatus]int
	Amount map[domain.BillStatus]decimal.Decimal
}

// unpaidStatuses are the effective statuses a scan reports on
var unpaidStatuses = []domain.BillStatus{
	domain.BillPending,
	domain.BillOverdue,
	domain.BillPaymentPendingConfirmation,
}

// ReceivablesWorker periodically totals unpaid bills so overdue rent shows
// up on dashboards and alerts without anyone opening the admin UI
type ReceivablesWorker struct {
	bills    domain.BillRepository
	logger   *slog.Logger
	interval time.Duration
	retry    *retry.Config
	now      func() time.Time
}

// NewReceivablesWorker creates a new receivables worker
func NewReceivablesWorker(bills domain.BillRepository, logger *slog.Logger, interval time.Duration) *ReceivablesWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceivablesWorker{
		bills:    bills,
		logger:   logger,
		interval: interval,
		retry:    retry.DefaultConfig(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs a scan immediately and then every interval until ctx ends
func (w *ReceivablesWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("receivables worker started", slog.Duration("interval", w.interval))
	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("receivables worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReceivablesWorker) run(ctx context.Context) {
	r, err := w.Scan(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("receivables scan failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, s := range unpaidStatuses {
		metrics.SetOutstanding(string(s), r.Count[s], r.Amount[s].InexactFloat64())
	}
	w.logger.Info("receivables scanned",
		slog.Int("pending", r.Count[domain.BillPending]),
		slog.Int("overdue", r.Count[domain.BillOverdue]),
		slog.Int("awaiting_confirmation", r.Count[domain.BillPaymentPendingConfirmation]),
		slog.String("overdue_amount", r.Amount[domain.BillOverdue].String()),
	)
}

// Scan reads every unpaid bill. Stored Pending bills past their due date
// count as Overdue.
func (w *ReceivablesWorker) Scan(ctx context.Context) (*Receivables, error) {
	now := w.now()
	out := &Receivables{
		Count:  make(map[domain.BillStatus]int, len(unpaidStatuses)),
		Amount: make(map[domain.BillStatus]decimal.Decimal, len(unpaidStatuses)),
	}
	for _, s := range unpaidStatuses {
		out.Amount[s] = decimal.Zero
	}

	for _, stored := range []domain.BillStatus{domain.BillPending, domain.BillPaymentPendingConfirmation} {
		filter := domain.BillFilter{Status: stored}
		bills, err := retry.Do(ctx, w.retry, w.logger, "list unpaid bills",
			func(ctx context.Context) ([]*domain.Bill, error) {
				return w.bills.List(ctx, filter)
			})
		if err != nil {
			return nil, err
		}
		for _, b := range bills {
			s := b.EffectiveStatus(now)
			out.Count[s]++
			out.Amount[s] = out.Amount[s].Add(b.TotalAmount)
		}
	}
	return out, nil
}
