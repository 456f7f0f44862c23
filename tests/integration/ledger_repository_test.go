package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(customerID uuid.UUID, name string) ledger.CustomerSnapshot {
	return ledger.CustomerSnapshot{
		CustomerID:   customerID,
		CustomerName: name,
	}
}

func TestCreditNoteRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormCreditNoteRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()
	testDB.CreateTestCustomer(tenantID, customerID, "Sharma Traders")

	newNote := func(number string, amount float64) *ledger.CreditNote {
		note, err := ledger.NewCreditNote(tenantID, number,
			testSnapshot(customerID, "Sharma Traders"),
			valueobject.NewMoneyINRFromFloat(amount),
			"Damaged goods", time.Now())
		require.NoError(t, err)
		return note
	}

	t.Run("Save and FindByIDForTenant", func(t *testing.T) {
		note := newNote("CN-00001", 1500)
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		assert.Equal(t, note.NoteNumber, found.NoteNumber)
		assert.Equal(t, ledger.CreditNoteStatusDraft, found.Status)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("tenant isolation", func(t *testing.T) {
		note := newNote("CN-00002", 500)
		require.NoError(t, repo.Save(ctx, note))

		_, err := repo.FindByIDForTenant(ctx, uuid.New(), note.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("number unique per tenant among live rows", func(t *testing.T) {
		first := newNote("CN-00003", 100)
		require.NoError(t, repo.Save(ctx, first))

		dup := newNote("CN-00003", 200)
		err := repo.Save(ctx, dup)
		assert.Error(t, err)

		// Another tenant may reuse the number
		otherTenant := uuid.New()
		otherNote, err := ledger.NewCreditNote(otherTenant, "CN-00003",
			testSnapshot(customerID, "Sharma Traders"),
			valueobject.NewMoneyINRFromFloat(300),
			"Return", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, otherNote))

		// A soft-deleted draft releases its number
		require.NoError(t, repo.Delete(ctx, first.ID))
		again := newNote("CN-00003", 400)
		require.NoError(t, repo.Save(ctx, again))
	})

	t.Run("SaveWithLock detects concurrent writers", func(t *testing.T) {
		note := newNote("CN-00010", 900)
		require.NoError(t, repo.Save(ctx, note))

		stale, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)

		fresh, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.Issue())
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Issue())
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("Stats aggregates by status", func(t *testing.T) {
		statsTenant := uuid.New()
		for i, amount := range []float64{100, 200, 300} {
			note, err := ledger.NewCreditNote(statsTenant,
				ledger.FormatDocumentNumber(ledger.DocumentKindCreditNote, int64(i+1)),
				testSnapshot(customerID, "Sharma Traders"),
				valueobject.NewMoneyINRFromFloat(amount),
				"Adjustment", time.Now())
			require.NoError(t, err)
			if i == 2 {
				require.NoError(t, note.Issue())
			}
			require.NoError(t, repo.Save(ctx, note))
		}

		stats, err := repo.Stats(ctx, statsTenant, ledger.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalCreditNotes)
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(600)))

		byStatus := make(map[string]int64)
		for _, row := range stats.StatusBreakdown {
			byStatus[row.Status] = row.Count
		}
		assert.Equal(t, int64(2), byStatus["draft"])
		assert.Equal(t, int64(1), byStatus["issued"])
	})
}

func TestPaymentRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPaymentRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()
	testDB.CreateTestCustomer(tenantID, customerID, "Sharma Traders")

	newPayment := func(number string, amount float64, ptype ledger.PaymentType, status ledger.PaymentStatus, date time.Time) *ledger.Payment {
		p, err := ledger.NewPayment(tenantID, number,
			testSnapshot(customerID, "Sharma Traders"),
			valueobject.NewMoneyINRFromFloat(amount),
			date, ledger.PaymentMethodUPI, ptype, status)
		require.NoError(t, err)
		return p
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completed payments for customer ordered by date", func(t *testing.T) {
		later := newPayment("PAY-00002", 2000, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted, base.AddDate(0, 0, 5))
		earlier := newPayment("PAY-00001", 1000, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted, base)
		pending := newPayment("PAY-00003", 500, ledger.PaymentTypeReceived, ledger.PaymentStatusPending, base.AddDate(0, 0, 2))
		for _, p := range []*ledger.Payment{later, earlier, pending} {
			require.NoError(t, repo.Save(ctx, p))
		}

		window := ledger.DateRange{From: base.AddDate(0, 0, -1), To: base.AddDate(0, 0, 10)}
		payments, err := repo.FindCompletedForCustomer(ctx, tenantID, customerID, window)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "PAY-00001", payments[0].PaymentNumber)
		assert.Equal(t, "PAY-00002", payments[1].PaymentNumber)
	})

	t.Run("SumSignedBefore nets received against paid", func(t *testing.T) {
		paid := newPayment("PAY-00004", 700, ledger.PaymentTypePaid, ledger.PaymentStatusCompleted, base.AddDate(0, 0, 1))
		require.NoError(t, repo.Save(ctx, paid))

		sum, err := repo.SumSignedBefore(ctx, tenantID, customerID, base.AddDate(0, 0, 3))
		require.NoError(t, err)
		// 1000 received on day 0, 700 paid on day 1; pending and later rows excluded
		assert.True(t, sum.Equal(decimal.NewFromInt(300)), "got %s", sum)
	})

	t.Run("Stats splits pending and completed", func(t *testing.T) {
		stats, err := repo.Stats(ctx, tenantID, ledger.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalPayments)
		assert.Equal(t, int64(1), stats.PendingPayments)
		assert.Equal(t, int64(3), stats.CompletedPayments)
		assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(3000)))
		assert.True(t, stats.TotalPaid.Equal(decimal.NewFromInt(700)))
	})
}

func TestNumberGenerator_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	gen := persistence.NewGormNumberGenerator(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := gen.Next(ctx, tenantID, ledger.DocumentKindCreditNote)
	require.NoError(t, err)
	assert.Equal(t, "CN-00001", first)

	second, err := gen.Next(ctx, tenantID, ledger.DocumentKindCreditNote)
	require.NoError(t, err)
	assert.Equal(t, "CN-00002", second)

	// Series are independent per kind and per tenant
	pay, err := gen.Next(ctx, tenantID, ledger.DocumentKindPayment)
	require.NoError(t, err)
	assert.Equal(t, "PAY-00001", pay)

	otherFirst, err := gen.Next(ctx, uuid.New(), ledger.DocumentKindCreditNote)
	require.NoError(t, err)
	assert.Equal(t, "CN-00001", otherFirst)
}
