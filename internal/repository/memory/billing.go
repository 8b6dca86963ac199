package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// BillRepository implements domain.BillRepository in memory
type BillRepository struct {
	t *table[domain.Bill]
}

// NewBillRepository creates an empty bill store
func NewBillRepository() *BillRepository {
	return &BillRepository{t: newTable[domain.Bill]()}
}

func (r *BillRepository) Create(_ context.Context, b *domain.Bill) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, e := range r.t.rows {
		if e.v.TenantID == b.TenantID && e.v.Month == b.Month && e.v.Year == b.Year {
			return domain.Conflict("a bill already exists for this tenant for %02d/%d", b.Month, b.Year)
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	r.t.put(b.ID, copyBill(*b))
	return nil
}

func (r *BillRepository) GetByID(_ context.Context, id string) (*domain.Bill, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	e, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("bill not found")
	}
	b := copyBill(e.v)
	return &b, nil
}

func (r *BillRepository) findLatest(match func(domain.Bill) bool) (*domain.Bill, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(match)
	if len(rows) == 0 {
		return nil, domain.NotFound("bill not found")
	}
	b := copyBill(rows[len(rows)-1])
	return &b, nil
}

func (r *BillRepository) FindForRoomPeriod(_ context.Context, roomID string, month, year int) (*domain.Bill, error) {
	return r.findLatest(func(b domain.Bill) bool {
		return b.RoomID == roomID && b.Month == month && b.Year == year
	})
}

func (r *BillRepository) FindForTenantPeriod(_ context.Context, tenantID string, month, year int) (*domain.Bill, error) {
	return r.findLatest(func(b domain.Bill) bool {
		return b.TenantID == tenantID && b.Month == month && b.Year == year
	})
}

// List returns bills matching filter, newest period first
func (r *BillRepository) List(_ context.Context, f domain.BillFilter) ([]*domain.Bill, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(b domain.Bill) bool {
		switch {
		case len(f.BuildingIDs) > 0 && !slices.Contains(f.BuildingIDs, b.BuildingID):
			return false
		case f.TenantID != "" && b.TenantID != f.TenantID:
			return false
		case f.RoomID != "" && b.RoomID != f.RoomID:
			return false
		case f.Status != "" && b.Status != f.Status:
			return false
		case f.Source != "" && b.Source != f.Source:
			return false
		case f.Month != 0 && b.Month != f.Month:
			return false
		case f.Year != 0 && b.Year != f.Year:
			return false
		}
		return true
	})
	slices.Reverse(rows)
	slices.SortStableFunc(rows, func(a, b domain.Bill) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Month, a.Month)
	})
	out := make([]*domain.Bill, len(rows))
	for i := range rows {
		b := copyBill(rows[i])
		out[i] = &b
	}
	return out, nil
}

func (r *BillRepository) Update(_ context.Context, b *domain.Bill) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	e, ok := r.t.rows[b.ID]
	if !ok {
		return domain.NotFound("bill not found")
	}
	b.CreatedAt = e.v.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	r.t.put(b.ID, copyBill(*b))
	return nil
}

func (r *BillRepository) Delete(_ context.Context, id string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[id]; !ok {
		return domain.NotFound("bill not found")
	}
	delete(r.t.rows, id)
	return nil
}

func copyBill(b domain.Bill) domain.Bill {
	if b.PaymentMethod != nil {
		m := *b.PaymentMethod
		b.PaymentMethod = &m
	}
	if b.PaidAt != nil {
		t := *b.PaidAt
		b.PaidAt = &t
	}
	return b
}

// PaymentRepository implements domain.PaymentRepository in memory
type PaymentRepository struct {
	t *table[domain.Payment]
}

// NewPaymentRepository creates an empty payment store
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{t: newTable[domain.Payment]()}
}

// Create stores a receipt. A preset CreatedAt is kept so tests can place
// payments in a given month.
func (r *PaymentRepository) Create(_ context.Context, p *domain.Payment) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, e := range r.t.rows {
		if e.v.BillID == p.BillID {
			return domain.Conflict("a payment is already recorded for this bill")
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.t.put(p.ID, *p)
	return nil
}

func (r *PaymentRepository) GetByBill(_ context.Context, billID string) (*domain.Payment, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, e := range r.t.rows {
		if e.v.BillID == billID {
			p := e.v
			return &p, nil
		}
	}
	return nil, domain.NotFound("payment not found")
}

// List returns payments matching filter, newest first
func (r *PaymentRepository) List(_ context.Context, f domain.PaymentFilter) ([]*domain.Payment, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(p domain.Payment) bool {
		switch {
		case len(f.BuildingIDs) > 0 && !slices.Contains(f.BuildingIDs, p.BuildingID):
			return false
		case f.TenantID != "" && p.TenantID != f.TenantID:
			return false
		case f.Status != "" && p.Status != f.Status:
			return false
		case !f.From.IsZero() && p.CreatedAt.Before(f.From):
			return false
		case !f.To.IsZero() && !p.CreatedAt.Before(f.To):
			return false
		}
		return true
	})
	slices.Reverse(rows)
	slices.SortStableFunc(rows, func(a, b domain.Payment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return pointers(rows), nil
}

// ExpenseRepository implements domain.ExpenseRepository in memory
type ExpenseRepository struct {
	t *table[domain.Expense]
}

// NewExpenseRepository creates an empty expense store
func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{t: newTable[domain.Expense]()}
}

func (r *ExpenseRepository) Create(_ context.Context, e *domain.Expense) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	r.t.put(e.ID, *e)
	return nil
}

func (r *ExpenseRepository) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	row, ok := r.t.rows[id]
	if !ok {
		return nil, domain.NotFound("expense not found")
	}
	e := row.v
	return &e, nil
}

// List returns expenses matching filter, most recent expense date first
func (r *ExpenseRepository) List(_ context.Context, f domain.ExpenseFilter) ([]*domain.Expense, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	rows := r.t.filter(func(e domain.Expense) bool {
		switch {
		case len(f.BuildingIDs) > 0 && !slices.Contains(f.BuildingIDs, e.BuildingID):
			return false
		case f.AdminID != "" && e.AdminID != f.AdminID:
			return false
		case f.Month != 0 && e.Month != f.Month:
			return false
		case f.Year != 0 && e.Year != f.Year:
			return false
		case !f.From.IsZero() && e.ExpenseDate.Before(f.From):
			return false
		case !f.To.IsZero() && !e.ExpenseDate.Before(f.To):
			return false
		}
		return true
	})
	slices.SortStableFunc(rows, func(a, b domain.Expense) int { return b.ExpenseDate.Compare(a.ExpenseDate) })
	return pointers(rows), nil
}

func (r *ExpenseRepository) Delete(_ context.Context, id string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[id]; !ok {
		return domain.NotFound("expense not found")
	}
	delete(r.t.rows, id)
	return nil
}

// Locker implements domain.Locker for a single process. Expired holds are
// treated as free.
type Locker struct {
	mu    sync.Mutex
	held  map[string]lockHold
	clock func() time.Time
}

type lockHold struct {
	token   string
	expires time.Time
}

// NewLocker creates an in-process lock
func NewLocker() *Locker {
	return &Locker{held: make(map[string]lockHold), clock: time.Now}
}

func (l *Locker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if h, ok := l.held[key]; ok && now.Before(h.expires) {
		return nil, domain.Conflict("another generation run is in progress")
	}
	token := uuid.NewString()
	l.held[key] = lockHold{token: token, expires: now.Add(ttl)}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if h, ok := l.held[key]; ok && h.token == token {
			delete(l.held, key)
		}
	}, nil
}
