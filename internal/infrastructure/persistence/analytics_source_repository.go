package persistence

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// GormSalesSource reads invoiced sales from the invoicing collaborator's
// tables. Cancelled invoices never count.
type GormSalesSource struct {
	db *gorm.DB
}

// NewGormSalesSource creates a new GormSalesSource
func NewGormSalesSource(db *gorm.DB) *GormSalesSource {
	return &GormSalesSource{db: db}
}

// TotalSales returns the invoiced total for the window
func (r *GormSalesSource) TotalSales(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("sales_invoices").
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("tenant_id = ? AND status <> ?", tenantID, "cancelled").
		Where("invoice_date BETWEEN ? AND ?", window.From, window.To).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SalesByDate returns sparse per-day invoiced totals
func (r *GormSalesSource) SalesByDate(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]analytics.DateTotal, error) {
	type dailyResult struct {
		Date  time.Time
		Total decimal.Decimal
		Count int64
	}
	var results []dailyResult
	err := r.db.WithContext(ctx).Table("sales_invoices").
		Select("DATE(invoice_date) as date, COALESCE(SUM(total_amount), 0) as total, COUNT(*) as count").
		Where("tenant_id = ? AND status <> ?", tenantID, "cancelled").
		Where("invoice_date BETWEEN ? AND ?", window.From, window.To).
		Group("DATE(invoice_date)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	totals := make([]analytics.DateTotal, len(results))
	for i, row := range results {
		totals[i] = analytics.DateTotal{
			Date:  row.Date.Format(dateLayout),
			Total: row.Total,
			Count: row.Count,
		}
	}
	return totals, nil
}

// TopProducts ranks invoice line items by credited amount
func (r *GormSalesSource) TopProducts(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange, limit int) ([]analytics.TopProduct, error) {
	var results []analytics.TopProduct
	err := r.db.WithContext(ctx).Table("sales_invoice_items sii").
		Select(`
			sii.product_name,
			COALESCE(SUM(sii.quantity), 0) as total_quantity,
			COALESCE(SUM(sii.amount), 0) as total_amount,
			COUNT(DISTINCT si.id) as count
		`).
		Joins("JOIN sales_invoices si ON si.id = sii.invoice_id").
		Where("si.tenant_id = ? AND si.status <> ?", tenantID, "cancelled").
		Where("si.invoice_date BETWEEN ? AND ?", window.From, window.To).
		Group("sii.product_name").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TopCustomers ranks customers by invoiced amount
func (r *GormSalesSource) TopCustomers(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange, limit int) ([]analytics.TopCustomer, error) {
	type customerResult struct {
		CustomerID   uuid.UUID
		CustomerName string
		TotalAmount  decimal.Decimal
		InvoiceCount int64
	}
	var results []customerResult
	err := r.db.WithContext(ctx).Table("sales_invoices").
		Select(`
			customer_id,
			customer_name,
			COALESCE(SUM(total_amount), 0) as total_amount,
			COUNT(*) as invoice_count
		`).
		Where("tenant_id = ? AND status <> ?", tenantID, "cancelled").
		Where("invoice_date BETWEEN ? AND ?", window.From, window.To).
		Group("customer_id, customer_name").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	customers := make([]analytics.TopCustomer, len(results))
	for i, row := range results {
		avg := decimal.Zero
		if row.InvoiceCount > 0 {
			avg = row.TotalAmount.Div(decimal.NewFromInt(row.InvoiceCount)).Round(2)
		}
		customers[i] = analytics.TopCustomer{
			CustomerID:    row.CustomerID,
			CustomerName:  row.CustomerName,
			TotalAmount:   row.TotalAmount,
			InvoiceCount:  row.InvoiceCount,
			AvgOrderValue: avg,
		}
	}
	return customers, nil
}

// GormPurchaseSource reads recorded purchases
type GormPurchaseSource struct {
	db *gorm.DB
}

// NewGormPurchaseSource creates a new GormPurchaseSource
func NewGormPurchaseSource(db *gorm.DB) *GormPurchaseSource {
	return &GormPurchaseSource{db: db}
}

// TotalPurchases returns the purchase total for the window
func (r *GormPurchaseSource) TotalPurchases(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("purchases").
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("tenant_id = ? AND status <> ?", tenantID, "cancelled").
		Where("purchase_date BETWEEN ? AND ?", window.From, window.To).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GormExpenseSource reads recorded operating expenses
type GormExpenseSource struct {
	db *gorm.DB
}

// NewGormExpenseSource creates a new GormExpenseSource
func NewGormExpenseSource(db *gorm.DB) *GormExpenseSource {
	return &GormExpenseSource{db: db}
}

// TotalExpenses returns the expense total for the window
func (r *GormExpenseSource) TotalExpenses(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("expenses").
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ?", tenantID).
		Where("expense_date BETWEEN ? AND ?", window.From, window.To).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GormPaymentSource reads completed payments from the ledger store for the
// payment analytics section.
type GormPaymentSource struct {
	db *gorm.DB
}

// NewGormPaymentSource creates a new GormPaymentSource
func NewGormPaymentSource(db *gorm.DB) *GormPaymentSource {
	return &GormPaymentSource{db: db}
}

func (r *GormPaymentSource) completedInWindow(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) *gorm.DB {
	return r.db.WithContext(ctx).Model(&ledger.Payment{}).
		Where("tenant_id = ? AND status = ?", tenantID, ledger.PaymentStatusCompleted).
		Where("payment_date BETWEEN ? AND ?", window.From, window.To)
}

// MethodTotals aggregates completed payments by method
func (r *GormPaymentSource) MethodTotals(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]analytics.MethodTotal, error) {
	var results []analytics.MethodTotal
	err := r.completedInWindow(ctx, tenantID, window).
		Select("method, COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Group("method").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FlowTotals aggregates completed payments by direction
func (r *GormPaymentSource) FlowTotals(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]analytics.FlowTotal, error) {
	var results []analytics.FlowTotal
	err := r.completedInWindow(ctx, tenantID, window).
		Select("type, COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Group("type").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DailyPayments returns the per-day received/paid split
func (r *GormPaymentSource) DailyPayments(ctx context.Context, tenantID uuid.UUID, window ledger.DateRange) ([]analytics.DailyPayment, error) {
	type dailyResult struct {
		Date     time.Time
		Received decimal.Decimal
		Paid     decimal.Decimal
	}
	var results []dailyResult
	err := r.completedInWindow(ctx, tenantID, window).
		Select(`
			DATE(payment_date) as date,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as received,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as paid
		`, ledger.PaymentTypeReceived, ledger.PaymentTypePaid).
		Group("DATE(payment_date)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	days := make([]analytics.DailyPayment, len(results))
	for i, row := range results {
		days[i] = analytics.DailyPayment{
			Date:     row.Date.Format(dateLayout),
			Received: row.Received,
			Paid:     row.Paid,
		}
	}
	return days, nil
}

// GormTenantSource lists tenants with ledger activity, for scheduled refreshes
type GormTenantSource struct {
	db *gorm.DB
}

// NewGormTenantSource creates a new GormTenantSource
func NewGormTenantSource(db *gorm.DB) *GormTenantSource {
	return &GormTenantSource{db: db}
}

// ActiveTenantIDs returns the distinct tenants present in the ledger
func (r *GormTenantSource) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT tenant_id FROM payments WHERE deleted_at IS NULL
			UNION
			SELECT tenant_id FROM credit_notes WHERE deleted_at IS NULL
		`).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
