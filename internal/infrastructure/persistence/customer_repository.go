package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository is the read-only GORM access to the customer
// directory. Customers are mastered upstream; this service only snapshots
// their contact data onto ledger documents.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant. Returns nil when
// no row matches.
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindAllForTenant finds all customers for a tenant with filtering
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.applyConditions(r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID), filter)

	sortField := ValidateSortField(filter.OrderBy, CustomerSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CountForTenant counts a tenant's customers matching the filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCustomerRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR gstin ILIKE ?)",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}
