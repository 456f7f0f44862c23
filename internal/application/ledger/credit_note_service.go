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

// CreditNoteService provides application-level credit note operations
type CreditNoteService struct {
	noteRepo     ledger.CreditNoteRepository
	customerRepo partner.CustomerRepository
	numbers      ledger.NumberGenerator
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(
	noteRepo ledger.CreditNoteRepository,
	customerRepo partner.CustomerRepository,
	numbers ledger.NumberGenerator,
) *CreditNoteService {
	return &CreditNoteService{
		noteRepo:     noteRepo,
		customerRepo: customerRepo,
		numbers:      numbers,
	}
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID            uuid.UUID       `json:"id"`
	NoteNumber    string          `json:"note_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	NoteDate      time.Time       `json:"note_date"`
	IssuedAt      *time.Time      `json:"issued_at,omitempty"`
	AppliedAt     *time.Time      `json:"applied_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CreateCreditNoteRequest represents a request to create a credit note
type CreateCreditNoteRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Reason        string          `json:"reason" binding:"required"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	NoteDate      time.Time       `json:"note_date"`
	Remark        string          `json:"remark"`
	CreatedBy     *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// UpdateCreditNoteRequest represents a request to update a draft credit note
type UpdateCreditNoteRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Reason   string          `json:"reason" binding:"required"`
	NoteDate time.Time       `json:"note_date"`
	Remark   string          `json:"remark"`
}

// ChangeCreditNoteStatusRequest asks for a lifecycle transition
type ChangeCreditNoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=issued applied cancelled"`
	Reason string `json:"reason"`
}

// CreditNoteListFilter defines filtering options for credit note list queries
type CreditNoteListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
}

// CreditNoteStatsFilter bounds the stats aggregation
type CreditNoteStatsFilter struct {
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Create creates a credit note in draft status. The customer contact data is
// snapshotted from the directory at this moment and never re-read.
func (s *CreditNoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	}

	noteNumber, err := s.numbers.Next(ctx, tenantID, ledger.DocumentKindCreditNote)
	if err != nil {
		return nil, err
	}

	note, err := ledger.NewCreditNote(
		tenantID,
		noteNumber,
		ledger.CustomerSnapshot{
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			CustomerPhone: customer.Phone,
		},
		valueobject.NewMoneyINR(req.Amount),
		req.Reason,
		req.NoteDate,
	)
	if err != nil {
		return nil, err
	}

	if req.InvoiceID != nil {
		if err := note.SetInvoiceReference(*req.InvoiceID, req.InvoiceNumber); err != nil {
			return nil, err
		}
	}
	note.Remark = req.Remark
	if req.CreatedBy != nil {
		note.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	return toCreditNoteResponse(note), nil
}

// GetByID returns a single credit note scoped to the tenant
func (s *CreditNoteService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CreditNoteResponse, error) {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Credit note not found")
	}
	return toCreditNoteResponse(note), nil
}

// Update updates a draft credit note
func (s *CreditNoteService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCreditNoteRequest) (*CreditNoteResponse, error) {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Credit note not found")
	}

	if err := note.UpdateDraft(valueobject.NewMoneyINR(req.Amount), req.Reason, req.Remark, req.NoteDate); err != nil {
		return nil, err
	}

	if err := s.noteRepo.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}

	return toCreditNoteResponse(note), nil
}

// ChangeStatus runs a lifecycle transition. Lost optimistic-lock races are
// retried against fresh state before a CONFLICT reaches the caller.
func (s *CreditNoteService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeCreditNoteStatusRequest) (*CreditNoteResponse, error) {
	target := ledger.CreditNoteStatus(req.Status)

	var result *CreditNoteResponse
	err := withOptimisticRetry(ctx, func(ctx context.Context) error {
		note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return shared.NewDomainError(shared.CodeNotFound, "Credit note not found")
		}
		if err := note.TransitionTo(target, req.Reason); err != nil {
			return err
		}
		if err := s.noteRepo.SaveWithLock(ctx, note); err != nil {
			return err
		}
		result = toCreditNoteResponse(note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a draft credit note
func (s *CreditNoteService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if note == nil {
		return shared.NewDomainError(shared.CodeNotFound, "Credit note not found")
	}
	if !note.CanDelete() {
		return shared.ErrNotDeletable
	}
	return s.noteRepo.Delete(ctx, note.ID)
}

// List lists credit notes with filtering and pagination
func (s *CreditNoteService) List(ctx context.Context, tenantID uuid.UUID, filter CreditNoteListFilter) (*shared.Paginated[CreditNoteResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.Limit,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	domainFilter.Normalize()

	if filter.Status != "" {
		status := ledger.CreditNoteStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Unknown credit note status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
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

	notes, err := s.noteRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.noteRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CreditNoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toCreditNoteResponse(&notes[i])
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Stats returns the status breakdown and totals for an optional date range
func (s *CreditNoteService) Stats(ctx context.Context, tenantID uuid.UUID, filter CreditNoteStatsFilter) (*ledger.CreditNoteStats, error) {
	dateRange := ledger.DateRange{}
	if filter.FromDate != nil {
		dateRange.From = *filter.FromDate
	}
	if filter.ToDate != nil {
		dateRange.To = *filter.ToDate
	}
	return s.noteRepo.Stats(ctx, tenantID, dateRange)
}

func toCreditNoteResponse(note *ledger.CreditNote) *CreditNoteResponse {
	return &CreditNoteResponse{
		ID:            note.ID,
		NoteNumber:    note.NoteNumber,
		CustomerID:    note.Customer.CustomerID,
		CustomerName:  note.Customer.CustomerName,
		CustomerEmail: note.Customer.CustomerEmail,
		CustomerPhone: note.Customer.CustomerPhone,
		InvoiceID:     note.InvoiceID,
		InvoiceNumber: note.InvoiceNumber,
		Amount:        note.Amount,
		Reason:        note.Reason,
		Status:        note.Status.String(),
		NoteDate:      note.NoteDate,
		IssuedAt:      note.IssuedAt,
		AppliedAt:     note.AppliedAt,
		CancelledAt:   note.CancelledAt,
		CancelReason:  note.CancelReason,
		Remark:        note.Remark,
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
		Version:       note.GetVersion(),
	}
}
