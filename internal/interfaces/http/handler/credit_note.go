package handler

import (
	ledgerapp "github.com/Akhilesh2006s/gst-backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditNoteHandler handles credit note API endpoints
type CreditNoteHandler struct {
	BaseHandler
	noteService *ledgerapp.CreditNoteService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(noteService *ledgerapp.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{noteService: noteService}
}

// RegisterRoutes registers credit note routes on the API group
func (h *CreditNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/credit-notes")
	{
		notes.GET("", h.List)
		notes.GET("/stats", h.Stats)
		notes.POST("", h.Create)
		notes.GET("/:id", h.GetByID)
		notes.PUT("/:id", h.Update)
		notes.PATCH("/:id/status", h.ChangeStatus)
		notes.DELETE("/:id", h.Delete)
	}
}

// List returns credit notes filtered and paginated
func (h *CreditNoteHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter ledgerapp.CreditNoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.noteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Stats returns the status breakdown and totals for the window
func (h *CreditNoteHandler) Stats(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter ledgerapp.CreditNoteStatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	stats, err := h.noteService.Stats(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Create creates a credit note in draft status
func (h *CreditNoteHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	note, err := h.noteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, note)
}

// GetByID returns a single credit note
func (h *CreditNoteHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	note, err := h.noteService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// Update replaces the editable fields of a draft credit note
func (h *CreditNoteHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	var req ledgerapp.UpdateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// ChangeStatus moves a credit note through its lifecycle
func (h *CreditNoteHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	var req ledgerapp.ChangeCreditNoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	note, err := h.noteService.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// Delete removes a draft credit note
func (h *CreditNoteHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID")
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
