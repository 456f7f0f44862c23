package ledger

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService provides application-level payment operations
type PaymentService struct {
	paymentRepo  ledger.PaymentRepository
	customerRepo partner.CustomerRepository
	numbers      ledger.NumberGenerator
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo ledger.PaymentRepository,
	customerRepo partner.CustomerRepository,
	numbers ledger.NumberGenerator,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		numbers:      numbers,
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"payment_number"`
	Reference     string          `json:"reference,omitempty"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        string          `json:"method"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// RecordPaymentRequest represents a request to record a payment
type RecordPaymentRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=Received Paid"`
	Status      string          `json:"status" binding:"omitempty,oneof=pending completed"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	CreatedBy   *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// FailPaymentRequest carries the failure reason for a settlement failure
type FailPaymentRequest struct {
	Reason string `json:"reason"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	Method     string     `form:"method"`
	Type       string     `form:"type"`
	CustomerID *uuid.UUID `form:"customer_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
}

// PaymentStatsFilter bounds the stats aggregation
type PaymentStatsFilter struct {
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Record creates a payment. Status pending means awaiting settlement;
// completed means the money already moved.
func (s *PaymentService) Record(ctx context.Context, tenantID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	}

	paymentNumber, err := s.numbers.Next(ctx, tenantID, ledger.DocumentKindPayment)
	if err != nil {
		return nil, err
	}

	payment, err := ledger.NewPayment(
		tenantID,
		paymentNumber,
		ledger.CustomerSnapshot{
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			CustomerPhone: customer.Phone,
		},
		valueobject.NewMoneyINR(req.Amount),
		req.PaymentDate,
		ledger.PaymentMethod(req.Method),
		ledger.PaymentType(req.Type),
		ledger.PaymentStatus(req.Status),
	)
	if err != nil {
		return nil, err
	}

	payment.Reference = req.Reference
	payment.Description = req.Description
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	return toPaymentResponse(payment), nil
}

// GetByID returns a single payment scoped to the tenant
func (s *PaymentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Payment not found")
	}
	return toPaymentResponse(payment), nil
}

// Settle marks a pending payment completed. Retried settlements of an
// already completed payment succeed without touching the row.
func (s *PaymentService) Settle(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *ledger.Payment) error {
		return p.Settle()
	})
}

// Fail marks a pending payment failed
func (s *PaymentService) Fail(ctx context.Context, tenantID, id uuid.UUID, req FailPaymentRequest) (*PaymentResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *ledger.Payment) error {
		return p.Fail(req.Reason)
	})
}

// Cancel withdraws a pending payment
func (s *PaymentService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *ledger.Payment) error {
		return p.Cancel()
	})
}

func (s *PaymentService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*ledger.Payment) error) (*PaymentResponse, error) {
	var result *PaymentResponse
	err := withOptimisticRetry(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError(shared.CodeNotFound, "Payment not found")
		}
		versionBefore := payment.GetVersion()
		if err := apply(payment); err != nil {
			return err
		}
		// Idempotent no-op transitions skip the write entirely.
		if payment.GetVersion() != versionBefore {
			if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
				return err
			}
		}
		result = toPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List lists payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.Limit,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()

	if filter.Status != "" {
		status := ledger.PaymentStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Unknown payment status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}
	if filter.Method != "" {
		method := ledger.PaymentMethod(filter.Method)
		if !method.IsValid() {
			return nil, shared.NewValidationError("Unknown payment method: " + filter.Method)
		}
		domainFilter.Filters["method"] = method
	}
	if filter.Type != "" {
		paymentType := ledger.PaymentType(filter.Type)
		if !paymentType.IsValid() {
			return nil, shared.NewValidationError("Unknown payment type: " + filter.Type)
		}
		domainFilter.Filters["type"] = paymentType
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.FromDate != nil {
		domainFilter.Filters["from_date"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		domainFilter.Filters["to_date"] = *filter.ToDate
	}

	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Stats returns payment totals for an optional date range
func (s *PaymentService) Stats(ctx context.Context, tenantID uuid.UUID, filter PaymentStatsFilter) (*ledger.PaymentStats, error) {
	dateRange := ledger.DateRange{}
	if filter.FromDate != nil {
		dateRange.From = *filter.FromDate
	}
	if filter.ToDate != nil {
		dateRange.To = *filter.ToDate
	}
	return s.paymentRepo.Stats(ctx, tenantID, dateRange)
}

func toPaymentResponse(p *ledger.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		Reference:     p.Reference,
		CustomerID:    p.Customer.CustomerID,
		CustomerName:  p.Customer.CustomerName,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method.String(),
		Type:          p.Type.String(),
		Status:        p.Status.String(),
		Description:   p.Description,
		FailureReason: p.FailureReason,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.GetVersion(),
	}
}
