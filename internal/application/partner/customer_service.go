package partner

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerService exposes the read-only customer directory
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	GSTIN       string          `json:"gstin,omitempty"`
	Address     string          `json:"address,omitempty"`
	City        string          `json:"city,omitempty"`
	State       string          `json:"state,omitempty"`
	PostalCode  string          `json:"postal_code,omitempty"`
	Status      string          `json:"status"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerListFilter defines filtering options for directory queries
type CustomerListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// List lists customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.Limit,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()

	if filter.Status != "" {
		domainFilter.Filters["status"] = partner.CustomerStatus(filter.Status)
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = *toCustomerResponse(&customers[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// GetByID returns a single customer scoped to the tenant
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	}
	return toCustomerResponse(customer), nil
}

func toCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		GSTIN:       c.GSTIN,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		PostalCode:  c.PostalCode,
		Status:      string(c.Status),
		Balance:     c.Balance,
		CreditLimit: c.CreditLimit,
		CreatedAt:   c.CreatedAt,
	}
}
