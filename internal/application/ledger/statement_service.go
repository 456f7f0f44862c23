package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StatementService reconciles a customer's completed payments into a
// running-balance statement
type StatementService struct {
	paymentRepo  ledger.PaymentRepository
	customerRepo partner.CustomerRepository
}

// NewStatementService creates a new StatementService
func NewStatementService(
	paymentRepo ledger.PaymentRepository,
	customerRepo partner.CustomerRepository,
) *StatementService {
	return &StatementService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
	}
}

// StatementFilter bounds the statement window. Unset bounds default to the
// last 90 days ending now.
type StatementFilter struct {
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Build computes the statement for a customer over the window
func (s *StatementService) Build(ctx context.Context, tenantID, customerID uuid.UUID, filter StatementFilter) (*ledger.CustomerStatement, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	}

	window := resolveStatementWindow(filter)

	opening, err := s.paymentRepo.SumSignedBefore(ctx, tenantID, customerID, window.From)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindCompletedForCustomer(ctx, tenantID, customerID, window)
	if err != nil {
		return nil, err
	}

	stmt := ledger.BuildStatement(customerID, customer.Name, window, opening, payments)
	return &stmt, nil
}

// WriteCSV renders a statement as CSV for file download
func (s *StatementService) WriteCSV(w io.Writer, stmt *ledger.CustomerStatement) error {
	cw := csv.NewWriter(w)

	header := []string{"Date", "Number", "Type", "Method", "Reference", "Description", "Amount", "Balance"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write statement header: %w", err)
	}

	opening := []string{
		stmt.From.Format("2006-01-02"), "", "Opening Balance", "", "", "",
		"", stmt.OpeningBalance.StringFixed(2),
	}
	if err := cw.Write(opening); err != nil {
		return fmt.Errorf("failed to write opening balance: %w", err)
	}

	for _, line := range stmt.Lines {
		record := []string{
			line.PaymentDate.Format("2006-01-02"),
			line.PaymentNumber,
			line.Type.String(),
			line.Method.String(),
			line.Reference,
			line.Description,
			line.SignedAmount.StringFixed(2),
			line.Balance.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write statement line: %w", err)
		}
	}

	closing := []string{
		stmt.To.Format("2006-01-02"), "", "Closing Balance", "", "", "",
		"", stmt.ClosingBalance.StringFixed(2),
	}
	if err := cw.Write(closing); err != nil {
		return fmt.Errorf("failed to write closing balance: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// FileName returns the attachment name for a statement download
func (s *StatementService) FileName(customerID uuid.UUID) string {
	return fmt.Sprintf("customer-statement-%s.csv", customerID)
}

func resolveStatementWindow(filter StatementFilter) ledger.DateRange {
	now := time.Now().UTC()
	window := ledger.DateRange{
		From: now.AddDate(0, 0, -90),
		To:   now,
	}
	if filter.FromDate != nil {
		window.From = *filter.FromDate
	}
	if filter.ToDate != nil {
		// Cover the whole final day.
		window.To = filter.ToDate.Add(24*time.Hour - time.Nanosecond)
	}
	return window
}
