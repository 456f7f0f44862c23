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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&ledger.CreditNote{}, &ledger.Payment{}, &ledger.DocumentSequence{})
	require.NoError(t, err)

	return db
}

func testCustomerSnapshot() ledger.CustomerSnapshot {
	return ledger.CustomerSnapshot{
		CustomerID:    uuid.New(),
		CustomerName:  "Mehta Textiles",
		CustomerEmail: "accounts@mehtatextiles.in",
		CustomerPhone: "+91 98200 12345",
	}
}

func newTestNote(t *testing.T, tenantID uuid.UUID, number string, amount float64, noteDate time.Time) *ledger.CreditNote {
	t.Helper()
	note, err := ledger.NewCreditNote(
		tenantID,
		number,
		testCustomerSnapshot(),
		valueobject.NewMoneyINRFromFloat(amount),
		"Damaged goods returned",
		noteDate,
	)
	require.NoError(t, err)
	return note
}

func TestGormCreditNoteRepository_SaveAndFind(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCreditNoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves and finds by id within tenant", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00001", 1500, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, note.ID, found.ID)
		assert.Equal(t, "CN-00001", found.NoteNumber)
		assert.Equal(t, ledger.CreditNoteStatusDraft, found.Status)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("does not leak across tenants", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00002", 900, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByIDForTenant(ctx, uuid.New(), note.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("finds by number", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00003", 450, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByNumber(ctx, tenantID, "CN-00003")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, note.ID, found.ID)

		missing, err := repo.FindByNumber(ctx, tenantID, "CN-99999")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestGormCreditNoteRepository_SaveWithLock(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCreditNoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("persists a transition with matching version", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00010", 2000, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		require.NoError(t, note.Issue())
		require.NoError(t, repo.SaveWithLock(ctx, note))

		found, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.CreditNoteStatusIssued, found.Status)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale writer", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00011", 2000, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		winner, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		loser, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)

		require.NoError(t, winner.Issue())
		require.NoError(t, repo.SaveWithLock(ctx, winner))

		require.NoError(t, loser.Cancel("duplicate"))
		err = repo.SaveWithLock(ctx, loser)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
	})
}

func TestGormCreditNoteRepository_Delete(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCreditNoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("soft deletes a draft", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00020", 300, time.Now())
		require.NoError(t, repo.Save(ctx, note))

		require.NoError(t, repo.Delete(ctx, note.ID))

		found, err := repo.FindByIDForTenant(ctx, tenantID, note.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		// The row survives as a soft-deleted record.
		var raw int64
		require.NoError(t, db.Unscoped().Model(&ledger.CreditNote{}).Where("id = ?", note.ID).Count(&raw).Error)
		assert.Equal(t, int64(1), raw)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		note := newTestNote(t, tenantID, "CN-00021", 300, time.Now())
		require.NoError(t, repo.Save(ctx, note))
		require.NoError(t, repo.Delete(ctx, note.ID))

		err := repo.Delete(ctx, note.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormCreditNoteRepository_FindAllForTenant(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCreditNoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, number := range []string{"CN-00001", "CN-00002", "CN-00003"} {
		note := newTestNote(t, tenantID, number, float64(100*(i+1)), base.AddDate(0, 0, i))
		require.NoError(t, repo.Save(ctx, note))
	}
	issued := newTestNote(t, tenantID, "CN-00004", 999, base.AddDate(0, 0, 10))
	require.NoError(t, issued.Issue())
	require.NoError(t, repo.Save(ctx, issued))

	t.Run("orders by note date desc by default", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = ""
		notes, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, notes, 4)
		assert.Equal(t, "CN-00004", notes[0].NoteNumber)
		assert.Equal(t, "CN-00003", notes[1].NoteNumber)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = ledger.CreditNoteStatusIssued

		notes, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "CN-00004", notes[0].NoteNumber)

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("filters by date range", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["from_date"] = base.AddDate(0, 0, 1)
		filter.Filters["to_date"] = base.AddDate(0, 0, 2)

		notes, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, notes, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.Page = 2

		notes, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "CN-00002", notes[0].NoteNumber)
	})
}

func TestGormCreditNoteRepository_Stats(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCreditNoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	draft := newTestNote(t, tenantID, "CN-00001", 100, base)
	require.NoError(t, repo.Save(ctx, draft))

	issued := newTestNote(t, tenantID, "CN-00002", 250, base.AddDate(0, 0, 1))
	require.NoError(t, issued.Issue())
	require.NoError(t, repo.Save(ctx, issued))

	other := newTestNote(t, uuid.New(), "CN-00001", 5000, base)
	require.NoError(t, repo.Save(ctx, other))

	t.Run("aggregates totals and breakdown per tenant", func(t *testing.T) {
		stats, err := repo.Stats(ctx, tenantID, ledger.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalCreditNotes)
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(350)), "got %s", stats.TotalAmount)
		require.Len(t, stats.StatusBreakdown, 2)
		assert.Equal(t, "draft", stats.StatusBreakdown[0].Status)
		assert.Equal(t, "issued", stats.StatusBreakdown[1].Status)
	})

	t.Run("restricts to the date range", func(t *testing.T) {
		stats, err := repo.Stats(ctx, tenantID, ledger.DateRange{
			From: base.AddDate(0, 0, 1),
			To:   base.AddDate(0, 0, 2),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalCreditNotes)
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(250)))
	})
}
