package partner

import (
	"context"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository is the read-only access to the customer directory
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
