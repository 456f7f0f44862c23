package ledger

import (
	"context"
	"testing"
	"time"

	domainledger "github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCustomer(tenantID uuid.UUID) *partner.Customer {
	c := &partner.Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                "Sharma Traders",
		Email:               "accounts@sharmatraders.in",
		Phone:               "+91 98765 43210",
		Status:              partner.CustomerStatusActive,
	}
	return c
}

func testDraftNote(t *testing.T, tenantID uuid.UUID) *domainledger.CreditNote {
	t.Helper()
	note, err := domainledger.NewCreditNote(
		tenantID,
		"CN-00007",
		domainledger.CustomerSnapshot{
			CustomerID:   uuid.New(),
			CustomerName: "Sharma Traders",
		},
		valueobject.NewMoneyINRFromFloat(1800),
		"Damaged goods returned",
		time.Now(),
	)
	require.NoError(t, err)
	return note
}

func TestCreditNoteServiceCreate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates draft with allocated number and customer snapshot", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		customerRepo := new(MockCustomerRepository)
		numbers := new(MockNumberGenerator)
		svc := NewCreditNoteService(noteRepo, customerRepo, numbers)

		customer := testCustomer(tenantID)
		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		numbers.On("Next", mock.Anything, tenantID, domainledger.DocumentKindCreditNote).Return("CN-00001", nil)
		noteRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.CreditNote")).Return(nil)

		resp, err := svc.Create(context.Background(), tenantID, CreateCreditNoteRequest{
			CustomerID: customer.ID,
			Amount:     decimal.NewFromInt(1500),
			Reason:     "Damaged goods returned",
		})

		require.NoError(t, err)
		assert.Equal(t, "CN-00001", resp.NoteNumber)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "Sharma Traders", resp.CustomerName)
		noteRepo.AssertExpectations(t)
		numbers.AssertExpectations(t)
	})

	t.Run("unknown customer yields NOT_FOUND", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		customerRepo := new(MockCustomerRepository)
		numbers := new(MockNumberGenerator)
		svc := NewCreditNoteService(noteRepo, customerRepo, numbers)

		customerID := uuid.New()
		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customerID).Return(nil, nil)

		_, err := svc.Create(context.Background(), tenantID, CreateCreditNoteRequest{
			CustomerID: customerID,
			Amount:     decimal.NewFromInt(100),
			Reason:     "r",
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
		noteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid amount never allocates a number slot", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		customerRepo := new(MockCustomerRepository)
		numbers := new(MockNumberGenerator)
		svc := NewCreditNoteService(noteRepo, customerRepo, numbers)

		customer := testCustomer(tenantID)
		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		numbers.On("Next", mock.Anything, tenantID, domainledger.DocumentKindCreditNote).Return("CN-00001", nil)

		_, err := svc.Create(context.Background(), tenantID, CreateCreditNoteRequest{
			CustomerID: customer.ID,
			Amount:     decimal.NewFromInt(-10),
			Reason:     "r",
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		noteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCreditNoteServiceChangeStatus(t *testing.T) {
	tenantID := uuid.New()

	t.Run("issues a draft note", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)
		noteRepo.On("SaveWithLock", mock.Anything, note).Return(nil)

		resp, err := svc.ChangeStatus(context.Background(), tenantID, note.ID, ChangeCreditNoteStatusRequest{Status: "issued"})

		require.NoError(t, err)
		assert.Equal(t, "issued", resp.Status)
	})

	t.Run("invalid transition surfaces INVALID_TRANSITION", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)

		_, err := svc.ChangeStatus(context.Background(), tenantID, note.ID, ChangeCreditNoteStatusRequest{Status: "applied"})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
		noteRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("retries once after losing the version race", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		first := testDraftNote(t, tenantID)
		second := testDraftNote(t, tenantID)
		second.ID = first.ID

		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, first.ID).Return(first, nil).Once()
		noteRepo.On("SaveWithLock", mock.Anything, first).Return(shared.ErrConcurrencyConflict).Once()
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, first.ID).Return(second, nil).Once()
		noteRepo.On("SaveWithLock", mock.Anything, second).Return(nil).Once()

		resp, err := svc.ChangeStatus(context.Background(), tenantID, first.ID, ChangeCreditNoteStatusRequest{Status: "issued"})

		require.NoError(t, err)
		assert.Equal(t, "issued", resp.Status)
		noteRepo.AssertExpectations(t)
	})

	t.Run("persistent conflict surfaces CONFLICT", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		noteID := uuid.New()
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, noteID).Return(testDraftNote(t, tenantID), nil)
		noteRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict)

		_, err := svc.ChangeStatus(context.Background(), tenantID, noteID, ChangeCreditNoteStatusRequest{Status: "issued"})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
	})
}

func TestCreditNoteServiceUpdate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("updates draft", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)
		noteRepo.On("SaveWithLock", mock.Anything, note).Return(nil)

		resp, err := svc.Update(context.Background(), tenantID, note.ID, UpdateCreditNoteRequest{
			Amount: decimal.NewFromInt(2100),
			Reason: "Rate difference",
		})

		require.NoError(t, err)
		assert.Equal(t, "Rate difference", resp.Reason)
	})

	t.Run("rejects edit of issued note", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		require.NoError(t, note.Issue())
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)

		_, err := svc.Update(context.Background(), tenantID, note.ID, UpdateCreditNoteRequest{
			Amount: decimal.NewFromInt(2100),
			Reason: "Rate difference",
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotEditable))
	})
}

func TestCreditNoteServiceDelete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deletes draft", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)
		noteRepo.On("Delete", mock.Anything, note.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), tenantID, note.ID))
		noteRepo.AssertExpectations(t)
	})

	t.Run("rejects delete of issued note", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		note := testDraftNote(t, tenantID)
		require.NoError(t, note.Issue())
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, note.ID).Return(note, nil)

		err := svc.Delete(context.Background(), tenantID, note.ID)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotDeletable))
		noteRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing note yields NOT_FOUND", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		id := uuid.New()
		noteRepo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, nil)

		err := svc.Delete(context.Background(), tenantID, id)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}

func TestCreditNoteServiceList(t *testing.T) {
	tenantID := uuid.New()

	t.Run("clamps limit and maps filters", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		var captured shared.Filter
		noteRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(2).(shared.Filter) }).
			Return([]domainledger.CreditNote{}, nil)
		noteRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
			Return(int64(250), nil)

		page, err := svc.List(context.Background(), tenantID, CreditNoteListFilter{
			Search: "sharma",
			Status: "issued",
			Page:   99,
			Limit:  500,
		})

		require.NoError(t, err)
		assert.Equal(t, shared.MaxPageSize, captured.PageSize)
		assert.Equal(t, "sharma", captured.Search)
		assert.Equal(t, domainledger.CreditNoteStatusIssued, captured.Filters["status"])
		// Out-of-range page reports the true total with an empty list.
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(250), page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		noteRepo := new(MockCreditNoteRepository)
		svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

		_, err := svc.List(context.Background(), tenantID, CreditNoteListFilter{Status: "archived"})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestCreditNoteServiceStats(t *testing.T) {
	tenantID := uuid.New()
	noteRepo := new(MockCreditNoteRepository)
	svc := NewCreditNoteService(noteRepo, new(MockCustomerRepository), new(MockNumberGenerator))

	stats := &domainledger.CreditNoteStats{
		TotalCreditNotes: 4,
		TotalAmount:      decimal.NewFromInt(9000),
		StatusBreakdown: []domainledger.StatusCount{
			{Status: "issued", Count: 3, TotalAmount: decimal.NewFromInt(7000)},
			{Status: "draft", Count: 1, TotalAmount: decimal.NewFromInt(2000)},
		},
	}
	noteRepo.On("Stats", mock.Anything, tenantID, mock.AnythingOfType("ledger.DateRange")).Return(stats, nil)

	got, err := svc.Stats(context.Background(), tenantID, CreditNoteStatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TotalCreditNotes)
	assert.Len(t, got.StatusBreakdown, 2)
}
