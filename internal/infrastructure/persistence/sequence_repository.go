package persistence

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNumberGenerator allocates document numbers from per-tenant counter rows.
// The increment and read happen in one transaction, so two writers asking for
// the same series never receive the same number.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

// Next allocates the next document number in the tenant's series, creating the
// counter row on first use.
func (g *GormNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, kind ledger.DocumentKind) (string, error) {
	var value int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ledger.DocumentSequence{}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind).
			UpdateColumns(map[string]interface{}{
				"last_value": gorm.Expr("last_value + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			seq := ledger.DocumentSequence{
				ID:        uuid.New(),
				TenantID:  tenantID,
				Kind:      kind,
				LastValue: 1,
			}
			if err := tx.Create(&seq).Error; err != nil {
				// Another writer created the row first; fall back to the
				// increment path against the now existing row.
				retry := tx.Model(&ledger.DocumentSequence{}).
					Where("tenant_id = ? AND kind = ?", tenantID, kind).
					UpdateColumns(map[string]interface{}{
						"last_value": gorm.Expr("last_value + 1"),
						"updated_at": time.Now(),
					})
				if retry.Error != nil {
					return retry.Error
				}
				if retry.RowsAffected == 0 {
					return err
				}
			} else {
				value = seq.LastValue
				return nil
			}
		}

		var seq ledger.DocumentSequence
		if err := tx.Where("tenant_id = ? AND kind = ?", tenantID, kind).
			First(&seq).Error; err != nil {
			return err
		}
		value = seq.LastValue
		return nil
	})
	if err != nil {
		return "", err
	}
	return ledger.FormatDocumentNumber(kind, value), nil
}
