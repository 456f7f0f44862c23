package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementLine is one reconciled payment row with the running balance after it
type StatementLine struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        PaymentMethod   `json:"method"`
	Type          PaymentType     `json:"type"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// CustomerStatement reconciles a customer's completed payments over a window
type CustomerStatement struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Lines          []StatementLine `json:"lines"`
}

// BuildStatement folds completed payments into a running-balance statement.
// Payments must already be ordered (date asc, number asc); the opening balance
// is the signed sum of everything before the window.
func BuildStatement(
	customerID uuid.UUID,
	customerName string,
	dateRange DateRange,
	openingBalance decimal.Decimal,
	payments []Payment,
) CustomerStatement {
	stmt := CustomerStatement{
		CustomerID:     customerID,
		CustomerName:   customerName,
		From:           dateRange.From,
		To:             dateRange.To,
		OpeningBalance: openingBalance,
		ClosingBalance: openingBalance,
		Lines:          make([]StatementLine, 0, len(payments)),
	}

	balance := openingBalance
	for i := range payments {
		p := &payments[i]
		signed := p.SignedAmount()
		balance = balance.Add(signed)
		stmt.Lines = append(stmt.Lines, StatementLine{
			PaymentID:     p.ID,
			PaymentNumber: p.PaymentNumber,
			PaymentDate:   p.PaymentDate,
			Method:        p.Method,
			Type:          p.Type,
			Reference:     p.Reference,
			Description:   p.Description,
			Amount:        p.Amount,
			SignedAmount:  signed,
			Balance:       balance,
		})
	}
	stmt.ClosingBalance = balance
	return stmt
}
