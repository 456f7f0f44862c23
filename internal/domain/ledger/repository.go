package ledger

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange is an inclusive [From, To] window; zero bounds mean unbounded
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether no bound is set
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// StatusCount is one row of a status breakdown
type StatusCount struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CreditNoteStats summarizes a tenant's credit notes over an optional range
type CreditNoteStats struct {
	TotalCreditNotes int64           `json:"total_credit_notes"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	StatusBreakdown  []StatusCount   `json:"status_breakdown"`
}

// PaymentStats summarizes a tenant's payments over an optional range.
// Received/Paid totals only count completed payments.
type PaymentStats struct {
	TotalReceived     decimal.Decimal `json:"total_received"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	TotalPayments     int64           `json:"total_payments"`
	PendingPayments   int64           `json:"pending_payments"`
	CompletedPayments int64           `json:"completed_payments"`
}

// CreditNoteRepository persists credit notes
type CreditNoteRepository interface {
	shared.TenantRepository[CreditNote]
	// SaveWithLock persists with an optimistic version check; returns
	// shared.ErrConcurrencyConflict when another writer won.
	SaveWithLock(ctx context.Context, note *CreditNote) error
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*CreditNote, error)
	Stats(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*CreditNoteStats, error)
}

// PaymentRepository persists payments
type PaymentRepository interface {
	shared.TenantRepository[Payment]
	SaveWithLock(ctx context.Context, payment *Payment) error
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Payment, error)
	Stats(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*PaymentStats, error)
	// FindCompletedForCustomer returns completed payments for a customer in
	// the inclusive window, ordered by payment date then number ascending.
	FindCompletedForCustomer(ctx context.Context, tenantID, customerID uuid.UUID, dateRange DateRange) ([]Payment, error)
	// SumSignedBefore returns the signed sum (received minus paid) of
	// completed payments strictly before the given instant.
	SumSignedBefore(ctx context.Context, tenantID, customerID uuid.UUID, before time.Time) (decimal.Decimal, error)
}
