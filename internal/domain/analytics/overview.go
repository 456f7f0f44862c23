package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MethodTotal aggregates payments by method
type MethodTotal struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

// DateTotal aggregates an amount by calendar day (YYYY-MM-DD)
type DateTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// FlowTotal aggregates payments by direction (Received/Paid)
type FlowTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DailyPayment is the per-day in/out split for the payments chart
type DailyPayment struct {
	Date     string          `json:"date"`
	Received decimal.Decimal `json:"received"`
	Paid     decimal.Decimal `json:"paid"`
}

// FinancialOverview is the headline dashboard aggregate
type FinancialOverview struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	PaymentMethods []MethodTotal   `json:"payment_methods"`
	SalesByDate    []DateTotal     `json:"sales_by_date"`
}

// TopProduct ranks a product by credited sales amount
type TopProduct struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Count         int64           `json:"count"`
}

// TopCustomer ranks a customer by invoiced amount
type TopCustomer struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	InvoiceCount  int64           `json:"invoice_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// PaymentAnalytics is the payments section of the dashboard
type PaymentAnalytics struct {
	PaymentFlow    []FlowTotal    `json:"payment_flow"`
	PaymentMethods []MethodTotal  `json:"payment_methods"`
	DailyPayments  []DailyPayment `json:"daily_payments"`
}

// Snapshot is one published analytics computation for a tenant and period.
// Snapshots are immutable once published; a refresh replaces the whole value.
type Snapshot struct {
	TenantID     uuid.UUID          `json:"tenant_id"`
	Period       Period             `json:"period"`
	From         time.Time          `json:"from"`
	To           time.Time          `json:"to"`
	ComputedAt   time.Time          `json:"computed_at"`
	Overview     *FinancialOverview `json:"overview,omitempty"`
	TopProducts  []TopProduct       `json:"top_products,omitempty"`
	TopCustomers []TopCustomer      `json:"top_customers,omitempty"`
	Payments     *PaymentAnalytics  `json:"payments,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// SortMethodTotals orders by total desc, ties broken by method name asc,
// so recomputations over identical data publish identical snapshots.
func SortMethodTotals(totals []MethodTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Method < totals[j].Method
	})
}

// SortFlowTotals orders by total desc, ties broken by type asc
func SortFlowTotals(totals []FlowTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Type < totals[j].Type
	})
}

// SortTopProducts orders by amount desc, ties broken by product name asc
func SortTopProducts(products []TopProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].TotalAmount.Equal(products[j].TotalAmount) {
			return products[i].TotalAmount.GreaterThan(products[j].TotalAmount)
		}
		return products[i].ProductName < products[j].ProductName
	})
}

// SortTopCustomers orders by amount desc, ties broken by customer id asc
func SortTopCustomers(customers []TopCustomer) {
	sort.SliceStable(customers, func(i, j int) bool {
		if !customers[i].TotalAmount.Equal(customers[j].TotalAmount) {
			return customers[i].TotalAmount.GreaterThan(customers[j].TotalAmount)
		}
		return customers[i].CustomerID.String() < customers[j].CustomerID.String()
	})
}

// SortDateTotals orders sparse day buckets ascending by date
func SortDateTotals(totals []DateTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})
}

// SortDailyPayments orders day buckets ascending by date
func SortDailyPayments(days []DailyPayment) {
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
}
