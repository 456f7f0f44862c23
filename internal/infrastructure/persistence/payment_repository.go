package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID. Returns nil when no row matches.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var payment ledger.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	var payment ledger.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindByNumber finds a payment by its document number within a tenant
func (r *GormPaymentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Payment, error) {
	var payment ledger.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_number = ?", tenantID, number).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindAll finds all payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Payment, error) {
	var payments []ledger.Payment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.Payment{}), filter)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAllForTenant finds all payments for a tenant with filtering
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Payment, error) {
	var payments []ledger.Payment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.Payment{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindCompletedForCustomer returns completed payments for a customer in the
// inclusive window, ordered by payment date then number ascending so statement
// lines fold deterministically.
func (r *GormPaymentRepository) FindCompletedForCustomer(ctx context.Context, tenantID, customerID uuid.UUID, dateRange ledger.DateRange) ([]ledger.Payment, error) {
	var payments []ledger.Payment
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND status = ?", tenantID, customerID, ledger.PaymentStatusCompleted)
	query = applyDateRange(query, "payment_date", dateRange)

	if err := query.
		Order("payment_date ASC").
		Order("payment_number ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumSignedBefore returns the signed sum of completed payments strictly before
// the given instant. Received payments count positive, paid negative.
func (r *GormPaymentRepository) SumSignedBefore(ctx context.Context, tenantID, customerID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&ledger.Payment{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) as total", ledger.PaymentTypeReceived).
		Where("tenant_id = ? AND customer_id = ? AND status = ? AND payment_date < ?",
			tenantID, customerID, ledger.PaymentStatusCompleted, before).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves the payment with an optimistic version check
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *ledger.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		err := tx.Model(&ledger.Payment{}).
			Select("version").
			Where("id = ?", payment.GetID()).
			Scan(&currentVersion).Error
		if err != nil {
			return err
		}
		if currentVersion == 0 {
			return tx.Create(payment).Error
		}

		expectedVersion := payment.GetVersion() - 1
		if currentVersion != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&ledger.Payment{}).
			Where("id = ? AND version = ?", payment.GetID(), expectedVersion).
			Select("*").
			Updates(payment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete removes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&ledger.Payment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts a tenant's payments matching the filter
func (r *GormPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&ledger.Payment{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates a tenant's payments, optionally restricted to a payment
// date range. Received and paid totals only count completed payments.
func (r *GormPaymentRepository) Stats(ctx context.Context, tenantID uuid.UUID, dateRange ledger.DateRange) (*ledger.PaymentStats, error) {
	base := applyDateRange(r.db.WithContext(ctx).Model(&ledger.Payment{}).Where("tenant_id = ?", tenantID), "payment_date", dateRange)

	var result struct {
		TotalReceived     decimal.Decimal
		TotalPaid         decimal.Decimal
		TotalPayments     int64
		PendingPayments   int64
		CompletedPayments int64
	}
	err := base.Session(&gorm.Session{}).
		Select(`
			COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN amount ELSE 0 END), 0) as total_received,
			COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN amount ELSE 0 END), 0) as total_paid,
			COUNT(*) as total_payments,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as pending_payments,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as completed_payments
		`,
			ledger.PaymentStatusCompleted, ledger.PaymentTypeReceived,
			ledger.PaymentStatusCompleted, ledger.PaymentTypePaid,
			ledger.PaymentStatusPending,
			ledger.PaymentStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &ledger.PaymentStats{
		TotalReceived:     result.TotalReceived,
		TotalPaid:         result.TotalPaid,
		TotalPayments:     result.TotalPayments,
		PendingPayments:   result.PendingPayments,
		CompletedPayments: result.CompletedPayments,
	}, nil
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PaymentSortFields, "payment_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Order("payment_number DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

func (r *GormPaymentRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(payment_number ILIKE ? OR customer_name ILIKE ? OR reference ILIKE ?)", searchPattern, searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if method, ok := filter.Filters["method"]; ok {
		query = query.Where("method = ?", method)
	}
	if paymentType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", paymentType)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if fromDate, ok := filter.Filters["from_date"].(time.Time); ok {
		query = query.Where("payment_date >= ?", fromDate)
	}
	if toDate, ok := filter.Filters["to_date"].(time.Time); ok {
		query = query.Where("payment_date <= ?", toDate)
	}
	return query
}

func applyDateRange(query *gorm.DB, column string, dateRange ledger.DateRange) *gorm.DB {
	if !dateRange.From.IsZero() {
		query = query.Where(column+" >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where(column+" <= ?", dateRange.To)
	}
	return query
}
