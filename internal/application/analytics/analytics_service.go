package analytics

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTopLimit bounds ranking queries when the request names no limit
const DefaultTopLimit = 10

// MaxTopLimit is the server-side cap on ranking query size
const MaxTopLimit = 100

// AnalyticsService computes dashboard aggregates from the ledger and its
// collaborator sources and publishes them as atomic snapshots. Reads for a
// named period are served from the published snapshot when one exists;
// explicit date bounds always compute fresh and are never published.
type AnalyticsService struct {
	sales     analytics.SalesSource
	purchases analytics.PurchaseSource
	expenses  analytics.ExpenseSource
	payments  analytics.PaymentSource
	store     analytics.SnapshotStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	sales analytics.SalesSource,
	purchases analytics.PurchaseSource,
	expenses analytics.ExpenseSource,
	payments analytics.PaymentSource,
	store analytics.SnapshotStore,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		sales:     sales,
		purchases: purchases,
		expenses:  expenses,
		payments:  payments,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// AnalyticsQuery selects the reporting window for a dashboard read
type AnalyticsQuery struct {
	Period    string     `form:"period"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
}

func (q AnalyticsQuery) period() analytics.Period {
	if q.Period == "" {
		return analytics.DefaultPeriod
	}
	return analytics.Period(q.Period)
}

func (q AnalyticsQuery) explicit() bool {
	return q.StartDate != nil || q.EndDate != nil
}

func (q AnalyticsQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultTopLimit
	}
	if q.Limit > MaxTopLimit {
		return MaxTopLimit
	}
	return q.Limit
}

// Overview serves the financial overview section
func (s *AnalyticsService) Overview(ctx context.Context, tenantID uuid.UUID, query AnalyticsQuery) (*analytics.Snapshot, error) {
	return s.read(ctx, tenantID, query)
}

// TopProducts serves the product ranking section
func (s *AnalyticsService) TopProducts(ctx context.Context, tenantID uuid.UUID, query AnalyticsQuery) (*analytics.Snapshot, error) {
	return s.read(ctx, tenantID, query)
}

// TopCustomers serves the customer ranking section
func (s *AnalyticsService) TopCustomers(ctx context.Context, tenantID uuid.UUID, query AnalyticsQuery) (*analytics.Snapshot, error) {
	return s.read(ctx, tenantID, query)
}

// Payments serves the payment analytics section
func (s *AnalyticsService) Payments(ctx context.Context, tenantID uuid.UUID, query AnalyticsQuery) (*analytics.Snapshot, error) {
	return s.read(ctx, tenantID, query)
}

func (s *AnalyticsService) read(ctx context.Context, tenantID uuid.UUID, query AnalyticsQuery) (*analytics.Snapshot, error) {
	period := query.period()
	window, err := analytics.ResolveWindow(period, query.StartDate, query.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	if !query.explicit() {
		snap, err := s.store.Get(ctx, tenantID, period)
		if err != nil {
			// A degraded snapshot store falls back to direct computation.
			s.logger.Warn("snapshot store read failed, computing directly",
				zap.String("tenant_id", tenantID.String()),
				zap.String("period", period.String()),
				zap.Error(err))
		} else if snap != nil {
			return snap, nil
		}
		return s.Refresh(ctx, tenantID, period)
	}

	snap := s.compute(ctx, tenantID, period, window, query.limit())
	return snap, nil
}

// Refresh recomputes the named period for a tenant and publishes the result
// atomically. Readers keep seeing the previous snapshot until the new one is
// fully written.
func (s *AnalyticsService) Refresh(ctx context.Context, tenantID uuid.UUID, period analytics.Period) (*analytics.Snapshot, error) {
	window, err := analytics.ResolveWindow(period, nil, nil, s.now())
	if err != nil {
		return nil, err
	}

	snap := s.compute(ctx, tenantID, period, window, DefaultTopLimit)

	if err := s.store.Put(ctx, snap); err != nil {
		s.logger.Error("failed to publish analytics snapshot",
			zap.String("tenant_id", tenantID.String()),
			zap.String("period", period.String()),
			zap.Error(err))
		snap.Warnings = append(snap.Warnings, "UPSTREAM_UNAVAILABLE: snapshot store")
	}
	return snap, nil
}

// compute builds a full snapshot for the window. A failed collaborator
// sub-query degrades its section with a warning instead of failing the whole
// snapshot.
func (s *AnalyticsService) compute(ctx context.Context, tenantID uuid.UUID, period analytics.Period, window ledger.DateRange, limit int) *analytics.Snapshot {
	snap := &analytics.Snapshot{
		TenantID:   tenantID,
		Period:     period,
		From:       window.From,
		To:         window.To,
		ComputedAt: s.now().UTC(),
	}

	warn := func(section string, err error) {
		s.logger.Warn("analytics source degraded",
			zap.String("tenant_id", tenantID.String()),
			zap.String("section", section),
			zap.Error(err))
		snap.Warnings = append(snap.Warnings, "UPSTREAM_UNAVAILABLE: "+section)
	}

	overview := &analytics.FinancialOverview{
		TotalSales:     decimal.Zero,
		TotalPurchases: decimal.Zero,
		TotalExpenses:  decimal.Zero,
		PaymentMethods: make([]analytics.MethodTotal, 0),
		SalesByDate:    make([]analytics.DateTotal, 0),
	}

	if total, err := s.sales.TotalSales(ctx, tenantID, window); err != nil {
		warn("sales", err)
	} else {
		overview.TotalSales = total
		if byDate, err := s.sales.SalesByDate(ctx, tenantID, window); err != nil {
			warn("sales by date", err)
		} else {
			analytics.SortDateTotals(byDate)
			overview.SalesByDate = byDate
		}
	}
	if total, err := s.purchases.TotalPurchases(ctx, tenantID, window); err != nil {
		warn("purchases", err)
	} else {
		overview.TotalPurchases = total
	}
	if total, err := s.expenses.TotalExpenses(ctx, tenantID, window); err != nil {
		warn("expenses", err)
	} else {
		overview.TotalExpenses = total
	}
	if methods, err := s.payments.MethodTotals(ctx, tenantID, window); err != nil {
		warn("payment methods", err)
	} else {
		analytics.SortMethodTotals(methods)
		overview.PaymentMethods = methods
	}
	snap.Overview = overview

	if products, err := s.sales.TopProducts(ctx, tenantID, window, limit); err != nil {
		warn("top products", err)
		snap.TopProducts = make([]analytics.TopProduct, 0)
	} else {
		analytics.SortTopProducts(products)
		snap.TopProducts = products
	}

	if customers, err := s.sales.TopCustomers(ctx, tenantID, window, limit); err != nil {
		warn("top customers", err)
		snap.TopCustomers = make([]analytics.TopCustomer, 0)
	} else {
		analytics.SortTopCustomers(customers)
		snap.TopCustomers = customers
	}

	payments := &analytics.PaymentAnalytics{
		PaymentFlow:    make([]analytics.FlowTotal, 0),
		PaymentMethods: make([]analytics.MethodTotal, 0),
		DailyPayments:  make([]analytics.DailyPayment, 0),
	}
	if flow, err := s.payments.FlowTotals(ctx, tenantID, window); err != nil {
		warn("payment flow", err)
	} else {
		analytics.SortFlowTotals(flow)
		payments.PaymentFlow = flow
	}
	if methods, err := s.payments.MethodTotals(ctx, tenantID, window); err == nil {
		analytics.SortMethodTotals(methods)
		payments.PaymentMethods = methods
	}
	if daily, err := s.payments.DailyPayments(ctx, tenantID, window); err != nil {
		warn("daily payments", err)
	} else {
		analytics.SortDailyPayments(daily)
		payments.DailyPayments = daily
	}
	snap.Payments = payments

	return snap
}
