package partner

import (
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is the read model for the customer directory. Customer records
// are mastered by an upstream service; this service only reads them to
// resolve snapshots and render the directory, so there are no mutating
// operations here.
type Customer struct {
	shared.TenantAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Email       string          `gorm:"type:varchar(200);index" json:"email"`
	Phone       string          `gorm:"type:varchar(50);index" json:"phone"`
	GSTIN       string          `gorm:"type:varchar(20)" json:"gstin"`
	Address     string          `gorm:"type:text" json:"address"`
	City        string          `gorm:"type:varchar(100)" json:"city"`
	State       string          `gorm:"type:varchar(100)" json:"state"`
	PostalCode  string          `gorm:"type:varchar(20)" json:"postal_code"`
	Status      CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit_limit"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// IsActive returns true if the customer can be referenced by new documents
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
