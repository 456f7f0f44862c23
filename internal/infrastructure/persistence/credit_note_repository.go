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

// GormCreditNoteRepository implements CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by its ID. Returns nil when no row matches.
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CreditNote, error) {
	var note ledger.CreditNote
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindByIDForTenant finds a credit note by ID within a tenant
func (r *GormCreditNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CreditNote, error) {
	var note ledger.CreditNote
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindByNumber finds a credit note by its document number within a tenant
func (r *GormCreditNoteRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.CreditNote, error) {
	var note ledger.CreditNote
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND note_number = ?", tenantID, number).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindAll finds all credit notes matching the filter
func (r *GormCreditNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.CreditNote, error) {
	var notes []ledger.CreditNote
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.CreditNote{}), filter)

	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// FindAllForTenant finds all credit notes for a tenant with filtering
func (r *GormCreditNoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.CreditNote, error) {
	var notes []ledger.CreditNote
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.CreditNote{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Save creates or updates a credit note
func (r *GormCreditNoteRepository) Save(ctx context.Context, note *ledger.CreditNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// SaveWithLock saves the credit note with an optimistic version check. The
// aggregate increments its version on every mutation, so the row must still
// carry the previous version for the write to win.
func (r *GormCreditNoteRepository) SaveWithLock(ctx context.Context, note *ledger.CreditNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		err := tx.Model(&ledger.CreditNote{}).
			Select("version").
			Where("id = ?", note.GetID()).
			Scan(&currentVersion).Error
		if err != nil {
			return err
		}
		if currentVersion == 0 {
			return tx.Create(note).Error
		}

		expectedVersion := note.GetVersion() - 1
		if currentVersion != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&ledger.CreditNote{}).
			Where("id = ? AND version = ?", note.GetID(), expectedVersion).
			Select("*").
			Updates(note)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete removes a credit note
func (r *GormCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.CreditNote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts credit notes matching the filter
func (r *GormCreditNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&ledger.CreditNote{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts a tenant's credit notes matching the filter
func (r *GormCreditNoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&ledger.CreditNote{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates a tenant's credit notes, optionally restricted to a note
// date range, including the per-status breakdown.
func (r *GormCreditNoteRepository) Stats(ctx context.Context, tenantID uuid.UUID, dateRange ledger.DateRange) (*ledger.CreditNoteStats, error) {
	base := applyDateRange(r.db.WithContext(ctx).Model(&ledger.CreditNote{}).Where("tenant_id = ?", tenantID), "note_date", dateRange)

	var totals struct {
		TotalCount  int64
		TotalAmount decimal.Decimal
	}
	if err := base.Session(&gorm.Session{}).
		Select("COUNT(*) as total_count, COALESCE(SUM(amount), 0) as total_amount").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var breakdown []ledger.StatusCount
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total_amount").
		Group("status").
		Order("status ASC").
		Scan(&breakdown).Error; err != nil {
		return nil, err
	}

	return &ledger.CreditNoteStats{
		TotalCreditNotes: totals.TotalCount,
		TotalAmount:      totals.TotalAmount,
		StatusBreakdown:  breakdown,
	}, nil
}

func (r *GormCreditNoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, CreditNoteSortFields, "note_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Order("note_number DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

func (r *GormCreditNoteRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(note_number ILIKE ? OR customer_name ILIKE ?)", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if fromDate, ok := filter.Filters["from_date"].(time.Time); ok {
		query = query.Where("note_date >= ?", fromDate)
	}
	if toDate, ok := filter.Filters["to_date"].(time.Time); ok {
		query = query.Where("note_date <= ?", toDate)
	}
	return query
}
