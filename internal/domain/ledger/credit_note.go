package ledger

import (
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditNoteStatus represents the lifecycle status of a credit note.
// Statuses are lowercase on the wire.
type CreditNoteStatus string

const (
	CreditNoteStatusDraft     CreditNoteStatus = "draft"     // Editable, not yet visible to the customer
	CreditNoteStatusIssued    CreditNoteStatus = "issued"    // Communicated, amount and customer locked
	CreditNoteStatusApplied   CreditNoteStatus = "applied"   // Consumed against an invoice or refund
	CreditNoteStatusCancelled CreditNoteStatus = "cancelled" // Withdrawn before application
)

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	switch s {
	case CreditNoteStatusDraft, CreditNoteStatusIssued,
		CreditNoteStatusApplied, CreditNoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteStatus
func (s CreditNoteStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s CreditNoteStatus) IsTerminal() bool {
	return s == CreditNoteStatusApplied || s == CreditNoteStatusCancelled
}

// CanTransitionTo reports whether the transition s -> target is allowed.
// The graph is draft->issued, issued->applied, and draft/issued->cancelled.
func (s CreditNoteStatus) CanTransitionTo(target CreditNoteStatus) bool {
	switch s {
	case CreditNoteStatusDraft:
		return target == CreditNoteStatusIssued || target == CreditNoteStatusCancelled
	case CreditNoteStatusIssued:
		return target == CreditNoteStatusApplied || target == CreditNoteStatusCancelled
	}
	return false
}

// CustomerSnapshot is the customer contact data embedded into a document at
// creation time. It never changes afterwards, even if the customer record does.
type CustomerSnapshot struct {
	CustomerID    uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	CustomerName  string    `json:"customer_name" gorm:"not null"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
}

// CreditNote represents a credit note aggregate root. It is issued against a
// customer, optionally referencing the invoice being corrected, and moves
// through draft -> issued -> applied, with cancellation possible before
// application.
type CreditNote struct {
	shared.TenantAggregateRoot
	// Unique per tenant; the composite constraint lives in the migration.
	NoteNumber    string           `json:"note_number" gorm:"not null;index"`
	Customer      CustomerSnapshot `json:"customer" gorm:"embedded"`
	InvoiceID     *uuid.UUID       `json:"invoice_id" gorm:"type:uuid;index"`
	InvoiceNumber string           `json:"invoice_number"`
	Amount        decimal.Decimal  `json:"amount" gorm:"type:decimal(18,2);not null"`
	Reason        string           `json:"reason" gorm:"not null"`
	Status        CreditNoteStatus `json:"status" gorm:"not null;index;default:draft"`
	NoteDate      time.Time        `json:"note_date" gorm:"not null;index"`
	IssuedAt      *time.Time       `json:"issued_at"`
	AppliedAt     *time.Time       `json:"applied_at"`
	CancelledAt   *time.Time       `json:"cancelled_at"`
	CancelReason  string           `json:"cancel_reason"`
	Remark        string           `json:"remark"`
	DeletedAt     gorm.DeletedAt   `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM
func (CreditNote) TableName() string {
	return "credit_notes"
}

// NewCreditNote creates a credit note in draft status
func NewCreditNote(
	tenantID uuid.UUID,
	noteNumber string,
	customer CustomerSnapshot,
	amount valueobject.Money,
	reason string,
	noteDate time.Time,
) (*CreditNote, error) {
	if noteNumber == "" {
		return nil, shared.NewValidationError("Credit note number cannot be empty")
	}
	if len(noteNumber) > 50 {
		return nil, shared.NewValidationError("Credit note number cannot exceed 50 characters")
	}
	if customer.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customer.CustomerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Credit note amount must be positive")
	}
	if reason == "" {
		return nil, shared.NewValidationError("Credit note reason cannot be empty")
	}
	if noteDate.IsZero() {
		noteDate = time.Now()
	}

	return &CreditNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NoteNumber:          noteNumber,
		Customer:            customer,
		Amount:              amount.Amount(),
		Reason:              reason,
		Status:              CreditNoteStatusDraft,
		NoteDate:            noteDate,
	}, nil
}

// SetInvoiceReference links the note to the invoice it corrects
func (cn *CreditNote) SetInvoiceReference(invoiceID uuid.UUID, invoiceNumber string) error {
	if !cn.IsEditable() {
		return shared.ErrNotEditable
	}
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("Invoice ID cannot be empty")
	}
	cn.InvoiceID = &invoiceID
	cn.InvoiceNumber = invoiceNumber
	cn.touch()
	return nil
}

// IsEditable returns true while the note content may still change
func (cn *CreditNote) IsEditable() bool {
	return cn.Status == CreditNoteStatusDraft
}

// CanDelete returns true while the note may be removed from the ledger
func (cn *CreditNote) CanDelete() bool {
	return cn.Status == CreditNoteStatusDraft
}

// UpdateDraft replaces the mutable fields of a draft note
func (cn *CreditNote) UpdateDraft(amount valueobject.Money, reason, remark string, noteDate time.Time) error {
	if !cn.IsEditable() {
		return shared.ErrNotEditable
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Credit note amount must be positive")
	}
	if reason == "" {
		return shared.NewValidationError("Credit note reason cannot be empty")
	}
	cn.Amount = amount.Amount()
	cn.Reason = reason
	cn.Remark = remark
	if !noteDate.IsZero() {
		cn.NoteDate = noteDate
	}
	cn.touch()
	return nil
}

// Issue moves the note from draft to issued, locking amount and customer
func (cn *CreditNote) Issue() error {
	if !cn.Status.CanTransitionTo(CreditNoteStatusIssued) {
		return shared.NewInvalidTransitionError(cn.Status.String(), CreditNoteStatusIssued.String())
	}
	now := time.Now()
	cn.Status = CreditNoteStatusIssued
	cn.IssuedAt = &now
	cn.touch()
	return nil
}

// Apply marks an issued note as consumed. Applied is terminal: a wrongly
// applied note is corrected by issuing a fresh note, never by rolling back.
func (cn *CreditNote) Apply() error {
	if !cn.Status.CanTransitionTo(CreditNoteStatusApplied) {
		return shared.NewInvalidTransitionError(cn.Status.String(), CreditNoteStatusApplied.String())
	}
	now := time.Now()
	cn.Status = CreditNoteStatusApplied
	cn.AppliedAt = &now
	cn.touch()
	return nil
}

// Cancel withdraws a draft or issued note
func (cn *CreditNote) Cancel(reason string) error {
	if !cn.Status.CanTransitionTo(CreditNoteStatusCancelled) {
		return shared.NewInvalidTransitionError(cn.Status.String(), CreditNoteStatusCancelled.String())
	}
	now := time.Now()
	cn.Status = CreditNoteStatusCancelled
	cn.CancelledAt = &now
	cn.CancelReason = reason
	cn.touch()
	return nil
}

// TransitionTo applies the named transition for a target status
func (cn *CreditNote) TransitionTo(target CreditNoteStatus, reason string) error {
	if !target.IsValid() {
		return shared.NewValidationError("Unknown credit note status: " + target.String())
	}
	switch target {
	case CreditNoteStatusIssued:
		return cn.Issue()
	case CreditNoteStatusApplied:
		return cn.Apply()
	case CreditNoteStatusCancelled:
		return cn.Cancel(reason)
	}
	return shared.NewInvalidTransitionError(cn.Status.String(), target.String())
}

// GetAmountMoney returns the amount as Money value object
func (cn *CreditNote) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(cn.Amount)
}

func (cn *CreditNote) touch() {
	cn.UpdatedAt = time.Now()
	cn.IncrementVersion()
}
