package analytics

import (
	"context"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSource reads invoiced sales owned by the invoicing collaborator
type SalesSource interface {
	TotalSales(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error)
	SalesByDate(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]DateTotal, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange, limit int) ([]TopProduct, error)
	TopCustomers(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange, limit int) ([]TopCustomer, error)
}

// PurchaseSource reads recorded purchases
type PurchaseSource interface {
	TotalPurchases(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error)
}

// ExpenseSource reads recorded operating expenses
type ExpenseSource interface {
	TotalExpenses(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error)
}

// PaymentSource reads completed payments from the ledger store
type PaymentSource interface {
	MethodTotals(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]MethodTotal, error)
	FlowTotals(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]FlowTotal, error)
	DailyPayments(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]DailyPayment, error)
}

// TenantSource lists tenants that have ledger activity, for scheduled refreshes
type TenantSource interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
