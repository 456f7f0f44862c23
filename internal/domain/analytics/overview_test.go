package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSortMethodTotals(t *testing.T) {
	totals := []MethodTotal{
		{Method: "UPI", Total: d(500)},
		{Method: "Cash", Total: d(900)},
		{Method: "Card", Total: d(500)},
	}
	SortMethodTotals(totals)
	assert.Equal(t, "Cash", totals[0].Method)
	// Equal totals break ties alphabetically.
	assert.Equal(t, "Card", totals[1].Method)
	assert.Equal(t, "UPI", totals[2].Method)
}

func TestSortTopProducts(t *testing.T) {
	products := []TopProduct{
		{ProductName: "Steel Rod", TotalAmount: d(100)},
		{ProductName: "Cement Bag", TotalAmount: d(100)},
		{ProductName: "Paint Tin", TotalAmount: d(300)},
	}
	SortTopProducts(products)
	assert.Equal(t, "Paint Tin", products[0].ProductName)
	assert.Equal(t, "Cement Bag", products[1].ProductName)
	assert.Equal(t, "Steel Rod", products[2].ProductName)
}

func TestSortTopCustomers(t *testing.T) {
	idA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	idB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	customers := []TopCustomer{
		{CustomerID: idB, CustomerName: "B", TotalAmount: d(100)},
		{CustomerID: idA, CustomerName: "A", TotalAmount: d(100)},
	}
	SortTopCustomers(customers)
	assert.Equal(t, idA, customers[0].CustomerID)
}

func TestSortDateBuckets(t *testing.T) {
	dates := []DateTotal{
		{Date: "2026-03-03", Total: d(1)},
		{Date: "2026-03-01", Total: d(2)},
		{Date: "2026-03-02", Total: d(3)},
	}
	SortDateTotals(dates)
	assert.Equal(t, "2026-03-01", dates[0].Date)
	assert.Equal(t, "2026-03-03", dates[2].Date)

	days := []DailyPayment{
		{Date: "2026-03-02"},
		{Date: "2026-03-01"},
	}
	SortDailyPayments(days)
	assert.Equal(t, "2026-03-01", days[0].Date)
}
