package ledger

import (
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the settlement status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the payment can no longer change state
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// PaymentMethod is the instrument a payment moved through
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCard         PaymentMethod = "Card"
	PaymentMethodCheque       PaymentMethod = "Cheque"
	PaymentMethodNetBanking   PaymentMethod = "Net Banking"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer,
		PaymentMethodCard, PaymentMethodCheque, PaymentMethodNetBanking:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentType distinguishes money coming in from money going out
type PaymentType string

const (
	PaymentTypeReceived PaymentType = "Received" // Money in from a customer
	PaymentTypePaid     PaymentType = "Paid"     // Money out to a customer or vendor
)

// IsValid checks if the type is a known PaymentType
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeReceived || t == PaymentTypePaid
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// Payment represents a single money movement against a customer account.
// Only completed payments participate in statements and balances.
type Payment struct {
	shared.TenantAggregateRoot
	// Unique per tenant; the composite constraint lives in the migration.
	PaymentNumber string           `json:"payment_number" gorm:"not null;index"`
	Reference     string           `json:"reference"`
	Customer      CustomerSnapshot `json:"customer" gorm:"embedded"`
	Amount        decimal.Decimal  `json:"amount" gorm:"type:decimal(18,2);not null"`
	PaymentDate   time.Time        `json:"payment_date" gorm:"not null;index"`
	Method        PaymentMethod    `json:"method" gorm:"not null"`
	Type          PaymentType      `json:"type" gorm:"not null;index"`
	Status        PaymentStatus    `json:"status" gorm:"not null;index;default:pending"`
	Description   string           `json:"description"`
	FailureReason string           `json:"failure_reason"`
	CompletedAt   *time.Time       `json:"completed_at"`
	DeletedAt     gorm.DeletedAt   `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a new payment. Initial status may be pending or
// completed; completed payments are settled on arrival (cash over the
// counter, confirmed bank credit).
func NewPayment(
	tenantID uuid.UUID,
	paymentNumber string,
	customer CustomerSnapshot,
	amount valueobject.Money,
	paymentDate time.Time,
	method PaymentMethod,
	paymentType PaymentType,
	status PaymentStatus,
) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewValidationError("Payment number cannot be empty")
	}
	if customer.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customer.CustomerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Unknown payment method: " + method.String())
	}
	if !paymentType.IsValid() {
		return nil, shared.NewValidationError("Unknown payment type: " + paymentType.String())
	}
	if status == "" {
		status = PaymentStatusPending
	}
	if status != PaymentStatusPending && status != PaymentStatusCompleted {
		return nil, shared.NewValidationError("New payments must be pending or completed")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       paymentNumber,
		Customer:            customer,
		Amount:              amount.Amount(),
		PaymentDate:         paymentDate,
		Method:              method,
		Type:                paymentType,
		Status:              status,
	}
	if status == PaymentStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}
	return p, nil
}

// Settle marks a pending payment as completed. Settling an already completed
// payment is a no-op so retried webhooks and double-clicks stay harmless.
func (p *Payment) Settle() error {
	if p.Status == PaymentStatusCompleted {
		return nil
	}
	if p.Status != PaymentStatusPending {
		return shared.NewInvalidTransitionError(p.Status.String(), PaymentStatusCompleted.String())
	}
	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.touch()
	return nil
}

// Fail marks a pending payment as failed. Idempotent when already failed.
func (p *Payment) Fail(reason string) error {
	if p.Status == PaymentStatusFailed {
		return nil
	}
	if p.Status != PaymentStatusPending {
		return shared.NewInvalidTransitionError(p.Status.String(), PaymentStatusFailed.String())
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.touch()
	return nil
}

// Cancel withdraws a pending payment. Idempotent when already cancelled.
func (p *Payment) Cancel() error {
	if p.Status == PaymentStatusCancelled {
		return nil
	}
	if p.Status != PaymentStatusPending {
		return shared.NewInvalidTransitionError(p.Status.String(), PaymentStatusCancelled.String())
	}
	p.Status = PaymentStatusCancelled
	p.touch()
	return nil
}

// SignedAmount returns the amount with direction applied: positive for money
// received, negative for money paid out.
func (p *Payment) SignedAmount() decimal.Decimal {
	if p.Type == PaymentTypePaid {
		return p.Amount.Neg()
	}
	return p.Amount
}

// GetAmountMoney returns the amount as Money value object
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
