package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T, tenantID uuid.UUID, customer ledger.CustomerSnapshot, number string, amount float64, date time.Time, paymentType ledger.PaymentType, status ledger.PaymentStatus) *ledger.Payment {
	t.Helper()
	payment, err := ledger.NewPayment(
		tenantID,
		number,
		customer,
		valueobject.NewMoneyINRFromFloat(amount),
		date,
		ledger.PaymentMethodUPI,
		paymentType,
		status,
	)
	require.NoError(t, err)
	return payment
}

func TestGormPaymentRepository_SaveAndFind(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customer := testCustomerSnapshot()

	t.Run("saves and finds within tenant", func(t *testing.T) {
		payment := newTestPayment(t, tenantID, customer, "PAY-00001", 1200, time.Now(), ledger.PaymentTypeReceived, ledger.PaymentStatusPending)
		require.NoError(t, repo.Save(ctx, payment))

		found, err := repo.FindByIDForTenant(ctx, tenantID, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "PAY-00001", found.PaymentNumber)
		assert.Equal(t, ledger.PaymentStatusPending, found.Status)

		missing, err := repo.FindByIDForTenant(ctx, uuid.New(), payment.ID)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("settle persists through SaveWithLock", func(t *testing.T) {
		payment := newTestPayment(t, tenantID, customer, "PAY-00002", 800, time.Now(), ledger.PaymentTypeReceived, ledger.PaymentStatusPending)
		require.NoError(t, repo.Save(ctx, payment))

		require.NoError(t, payment.Settle())
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		found, err := repo.FindByIDForTenant(ctx, tenantID, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.PaymentStatusCompleted, found.Status)
		require.NotNil(t, found.CompletedAt)
	})

	t.Run("stale writer loses", func(t *testing.T) {
		payment := newTestPayment(t, tenantID, customer, "PAY-00003", 800, time.Now(), ledger.PaymentTypeReceived, ledger.PaymentStatusPending)
		require.NoError(t, repo.Save(ctx, payment))

		winner, err := repo.FindByIDForTenant(ctx, tenantID, payment.ID)
		require.NoError(t, err)
		loser, err := repo.FindByIDForTenant(ctx, tenantID, payment.ID)
		require.NoError(t, err)

		require.NoError(t, winner.Settle())
		require.NoError(t, repo.SaveWithLock(ctx, winner))

		require.NoError(t, loser.Cancel())
		err = repo.SaveWithLock(ctx, loser)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
	})
}

func TestGormPaymentRepository_StatementQueries(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customer := testCustomerSnapshot()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	// One completed receipt before the window, then window activity.
	seed := []struct {
		number string
		amount float64
		date   time.Time
		ptype  ledger.PaymentType
		status ledger.PaymentStatus
	}{
		{"PAY-00001", 1000, base.AddDate(0, 0, -10), ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted},
		{"PAY-00002", 400, base, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted},
		{"PAY-00003", 150, base.AddDate(0, 0, 1), ledger.PaymentTypePaid, ledger.PaymentStatusCompleted},
		{"PAY-00004", 9999, base.AddDate(0, 0, 2), ledger.PaymentTypeReceived, ledger.PaymentStatusPending},
	}
	for _, s := range seed {
		payment := newTestPayment(t, tenantID, customer, s.number, s.amount, s.date, s.ptype, s.status)
		require.NoError(t, repo.Save(ctx, payment))
	}

	// Another customer's activity must never bleed in.
	stranger := newTestPayment(t, tenantID, testCustomerSnapshot(), "PAY-00005", 7777, base, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted)
	require.NoError(t, repo.Save(ctx, stranger))

	t.Run("SumSignedBefore nets completed payments strictly before the instant", func(t *testing.T) {
		opening, err := repo.SumSignedBefore(ctx, tenantID, customer.CustomerID, base)
		require.NoError(t, err)
		assert.True(t, opening.Equal(decimal.NewFromInt(1000)), "got %s", opening)

		later, err := repo.SumSignedBefore(ctx, tenantID, customer.CustomerID, base.AddDate(0, 0, 5))
		require.NoError(t, err)
		assert.True(t, later.Equal(decimal.NewFromInt(1250)), "got %s", later)
	})

	t.Run("FindCompletedForCustomer returns window rows in date order", func(t *testing.T) {
		payments, err := repo.FindCompletedForCustomer(ctx, tenantID, customer.CustomerID, ledger.DateRange{
			From: base,
			To:   base.AddDate(0, 0, 7),
		})
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "PAY-00002", payments[0].PaymentNumber)
		assert.Equal(t, "PAY-00003", payments[1].PaymentNumber)
	})
}

func TestGormPaymentRepository_Stats(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customer := testCustomerSnapshot()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	seed := []struct {
		number string
		amount float64
		ptype  ledger.PaymentType
		status ledger.PaymentStatus
	}{
		{"PAY-00001", 500, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted},
		{"PAY-00002", 300, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted},
		{"PAY-00003", 200, ledger.PaymentTypePaid, ledger.PaymentStatusCompleted},
		{"PAY-00004", 100, ledger.PaymentTypeReceived, ledger.PaymentStatusPending},
	}
	for _, s := range seed {
		payment := newTestPayment(t, tenantID, customer, s.number, s.amount, base, s.ptype, s.status)
		require.NoError(t, repo.Save(ctx, payment))
	}

	stats, err := repo.Stats(ctx, tenantID, ledger.DateRange{})
	require.NoError(t, err)
	assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(800)), "got %s", stats.TotalReceived)
	assert.True(t, stats.TotalPaid.Equal(decimal.NewFromInt(200)), "got %s", stats.TotalPaid)
	assert.Equal(t, int64(4), stats.TotalPayments)
	assert.Equal(t, int64(1), stats.PendingPayments)
	assert.Equal(t, int64(3), stats.CompletedPayments)
}

func TestGormPaymentRepository_FindAllForTenant(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customer := testCustomerSnapshot()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	received := newTestPayment(t, tenantID, customer, "PAY-00001", 500, base, ledger.PaymentTypeReceived, ledger.PaymentStatusCompleted)
	require.NoError(t, repo.Save(ctx, received))
	paid := newTestPayment(t, tenantID, customer, "PAY-00002", 300, base.AddDate(0, 0, 1), ledger.PaymentTypePaid, ledger.PaymentStatusPending)
	require.NoError(t, repo.Save(ctx, paid))

	t.Run("filters by type and status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["type"] = ledger.PaymentTypePaid
		filter.Filters["status"] = ledger.PaymentStatusPending

		payments, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, "PAY-00002", payments[0].PaymentNumber)
	})

	t.Run("orders by payment date desc by default", func(t *testing.T) {
		payments, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "PAY-00002", payments[0].PaymentNumber)
	})
}
