package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds customer within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "email", "status", "balance", "credit_limit"}).
			AddRow(customerID, tenantID, "Mehta Textiles", "accounts@mehtatextiles.in", "active", decimal.Zero, decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByIDForTenant(context.Background(), tenantID, customerID)

		assert.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "Mehta Textiles", customer.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByIDForTenant(context.Background(), tenantID, customerID)

		assert.NoError(t, err)
		assert.Nil(t, customer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindAllForTenant(t *testing.T) {
	t.Run("searches case-insensitively across contact fields", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "status", "balance", "credit_limit"}).
			AddRow(uuid.New(), tenantID, "Mehta Textiles", "active", decimal.Zero, decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE tenant_id = \$1 AND \(name ILIKE \$2 OR email ILIKE \$3 OR phone ILIKE \$4 OR gstin ILIKE \$5\) ORDER BY name ASC LIMIT .*`).
			WithArgs(tenantID, "%mehta%", "%mehta%", "%mehta%", "%mehta%", 10).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.OrderBy = ""
		filter.Search = "mehta"

		customers, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		assert.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Mehta Textiles", customers[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by status", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "status", "balance", "credit_limit"})

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE tenant_id = \$1 AND status = \$2 ORDER BY name ASC LIMIT .*`).
			WithArgs(tenantID, partner.CustomerStatusInactive, 10).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.OrderBy = ""
		filter.Filters["status"] = partner.CustomerStatusInactive

		customers, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		assert.NoError(t, err)
		assert.Empty(t, customers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_CountForTenant(t *testing.T) {
	t.Run("counts without paging clauses", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.CountForTenant(context.Background(), tenantID, shared.DefaultFilter())

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
