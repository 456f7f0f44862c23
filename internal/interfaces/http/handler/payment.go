package handler

import (
	"bytes"
	"net/http"
	"strconv"

	ledgerapp "github.com/Akhilesh2006s/gst-backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment and customer statement API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService   *ledgerapp.PaymentService
	statementService *ledgerapp.StatementService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentService *ledgerapp.PaymentService,
	statementService *ledgerapp.StatementService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:   paymentService,
		statementService: statementService,
	}
}

// RegisterRoutes registers payment routes on the API group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.List)
		payments.GET("/stats", h.Stats)
		payments.POST("", h.Record)
		payments.GET("/:id", h.GetByID)
		payments.POST("/:id/settle", h.Settle)
		payments.POST("/:id/fail", h.Fail)
		payments.POST("/:id/cancel", h.Cancel)
		payments.GET("/customer/:id/statement", h.Statement)
		payments.GET("/customer/:id/download", h.DownloadStatement)
	}
}

// List returns payments filtered and paginated
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter ledgerapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.paymentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Stats returns received/paid totals and the status breakdown
func (h *PaymentHandler) Stats(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter ledgerapp.PaymentStatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	stats, err := h.paymentService.Stats(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Record creates a payment
func (h *PaymentHandler) Record(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	payment, err := h.paymentService.Record(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID returns a single payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Settle marks a pending payment as completed
func (h *PaymentHandler) Settle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.Settle(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Fail marks a pending payment as failed
func (h *PaymentHandler) Fail(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	// The failure reason is optional; an empty body is a valid request.
	var req ledgerapp.FailPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	payment, err := h.paymentService.Fail(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Cancel cancels a pending payment
func (h *PaymentHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Statement returns the running-balance statement for a customer
func (h *PaymentHandler) Statement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var filter ledgerapp.StatementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	stmt, err := h.statementService.Build(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stmt)
}

// DownloadStatement streams the statement as a CSV attachment
func (h *PaymentHandler) DownloadStatement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var filter ledgerapp.StatementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	stmt, err := h.statementService.Build(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.statementService.WriteCSV(&buf, stmt); err != nil {
		h.InternalError(c, "Failed to generate statement CSV")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=\""+h.statementService.FileName(customerID)+"\"")
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
