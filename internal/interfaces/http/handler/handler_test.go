package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerapp "github.com/Akhilesh2006s/gst-backend/internal/application/ledger"
	partnerapp "github.com/Akhilesh2006s/gst-backend/internal/application/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/partner"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/persistence"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/dto"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/middleware"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the full ledger stack against an in-memory database so
// handler tests exercise real services, repositories, and routing.
type testEnv struct {
	db       *gorm.DB
	engine   *gin.Engine
	tenantID uuid.UUID
	userID   uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ledger.CreditNote{},
		&ledger.Payment{},
		&ledger.DocumentSequence{},
		&partner.Customer{},
	))

	env := &testEnv{
		db:       db,
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}

	noteRepo := persistence.NewGormCreditNoteRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	numbers := persistence.NewGormNumberGenerator(db)

	noteService := ledgerapp.NewCreditNoteService(noteRepo, customerRepo, numbers)
	paymentService := ledgerapp.NewPaymentService(paymentRepo, customerRepo, numbers)
	statementService := ledgerapp.NewStatementService(paymentRepo, customerRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)

	engine := gin.New()
	// Tests bypass JWT validation and inject the principal directly.
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, env.tenantID.String())
		c.Set(middleware.UserIDKey, env.userID.String())
		c.Next()
	})

	router.NewRouter(engine).
		Register(NewCreditNoteHandler(noteService)).
		Register(NewPaymentHandler(paymentService, statementService)).
		Register(NewCustomerHandler(customerService)).
		Setup()

	env.engine = engine
	return env
}

func (env *testEnv) seedCustomer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	customer := &partner.Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(env.tenantID),
		Name:                name,
		Email:               "accounts@sharmatraders.in",
		Phone:               "+91 98765 43210",
		Status:              partner.CustomerStatusActive,
	}
	require.NoError(t, env.db.Create(customer).Error)
	return customer
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataField(t *testing.T, resp dto.Response, key string) interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object")
	return data[key]
}
