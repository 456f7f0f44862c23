package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies a numbered document series
type DocumentKind string

const (
	DocumentKindCreditNote DocumentKind = "credit_note"
	DocumentKindPayment    DocumentKind = "payment"
)

// Prefix returns the human-facing number prefix for the series
func (k DocumentKind) Prefix() string {
	switch k {
	case DocumentKindCreditNote:
		return "CN"
	case DocumentKindPayment:
		return "PAY"
	}
	return "DOC"
}

// IsValid checks if the kind is a known DocumentKind
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindCreditNote || k == DocumentKindPayment
}

// DocumentSequence is the per-tenant counter row backing document numbers.
// Increments happen inside a transaction so concurrent writers never collide;
// gaps after rolled-back transactions are acceptable.
type DocumentSequence struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_document_sequences_tenant_kind"`
	Kind      DocumentKind `gorm:"not null;uniqueIndex:idx_document_sequences_tenant_kind"`
	LastValue int64        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// FormatDocumentNumber renders a sequence value as a document number,
// e.g. CN-00042.
func FormatDocumentNumber(kind DocumentKind, value int64) string {
	return fmt.Sprintf("%s-%05d", kind.Prefix(), value)
}

// NumberGenerator allocates the next document number in a tenant's series
type NumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, kind DocumentKind) (string, error)
}
