package ledger

import (
	"context"
	"time"

	domainledger "github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCreditNoteRepository is a mock implementation of ledger.CreditNoteRepository
type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainledger.CreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domainledger.CreditNote, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domainledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) Save(ctx context.Context, note *domainledger.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domainledger.CreditNote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]domainledger.CreditNote, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]domainledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditNoteRepository) SaveWithLock(ctx context.Context, note *domainledger.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*domainledger.CreditNote, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) Stats(ctx context.Context, tenantID uuid.UUID, dateRange domainledger.DateRange) (*domainledger.CreditNoteStats, error) {
	args := m.Called(ctx, tenantID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.CreditNoteStats), args.Error(1)
}

// MockPaymentRepository is a mock implementation of ledger.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainledger.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domainledger.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *domainledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domainledger.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]domainledger.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *domainledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*domainledger.Payment, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Stats(ctx context.Context, tenantID uuid.UUID, dateRange domainledger.DateRange) (*domainledger.PaymentStats, error) {
	args := m.Called(ctx, tenantID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainledger.PaymentStats), args.Error(1)
}

func (m *MockPaymentRepository) FindCompletedForCustomer(ctx context.Context, tenantID, customerID uuid.UUID, dateRange domainledger.DateRange) ([]domainledger.Payment, error) {
	args := m.Called(ctx, tenantID, customerID, dateRange)
	return args.Get(0).([]domainledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumSignedBefore(ctx context.Context, tenantID, customerID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, customerID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockNumberGenerator is a mock implementation of ledger.NumberGenerator
type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, kind domainledger.DocumentKind) (string, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.String(0), args.Error(1)
}
