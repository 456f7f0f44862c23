package handler

import (
	"net/http"
	"time"

	analyticsapp "github.com/Akhilesh2006s/gst-backend/internal/application/analytics"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RefreshStatusReporter exposes the state of the background refresh loop
type RefreshStatusReporter interface {
	GetStatus() map[string]interface{}
}

// AnalyticsHandler handles dashboard analytics API endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.AnalyticsService
	refresher        *analyticsapp.Refresher
	scheduler        RefreshStatusReporter
}

// NewAnalyticsHandler creates a new AnalyticsHandler. The scheduler is
// optional; without one the update endpoint reports no scheduler status.
func NewAnalyticsHandler(
	analyticsService *analyticsapp.AnalyticsService,
	refresher *analyticsapp.Refresher,
	scheduler RefreshStatusReporter,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		refresher:        refresher,
		scheduler:        scheduler,
	}
}

// RegisterRoutes registers analytics routes on the API group
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/analytics")
	{
		group.GET("/overview", h.Overview)
		group.GET("/top-products", h.TopProducts)
		group.GET("/top-customers", h.TopCustomers)
		group.GET("/payments", h.Payments)
		group.POST("/update", h.Update)
	}
}

// sectionResponse wraps one snapshot section with its reporting window
type sectionResponse struct {
	Period     string      `json:"period"`
	From       time.Time   `json:"from"`
	To         time.Time   `json:"to"`
	ComputedAt time.Time   `json:"computed_at"`
	Section    interface{} `json:"section"`
}

func (h *AnalyticsHandler) serveSection(
	c *gin.Context,
	read func(query analyticsapp.AnalyticsQuery) (*analytics.Snapshot, error),
	pick func(snap *analytics.Snapshot) interface{},
) {
	var query analyticsapp.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	snap, err := read(query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := sectionResponse{
		Period:     snap.Period.String(),
		From:       snap.From,
		To:         snap.To,
		ComputedAt: snap.ComputedAt,
		Section:    pick(snap),
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithWarnings(resp, snap.Warnings))
}

// Overview serves the financial overview section
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	h.serveSection(c,
		func(q analyticsapp.AnalyticsQuery) (*analytics.Snapshot, error) {
			return h.analyticsService.Overview(c.Request.Context(), tenantID, q)
		},
		func(snap *analytics.Snapshot) interface{} { return snap.Overview },
	)
}

// TopProducts serves the product ranking section
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	h.serveSection(c,
		func(q analyticsapp.AnalyticsQuery) (*analytics.Snapshot, error) {
			return h.analyticsService.TopProducts(c.Request.Context(), tenantID, q)
		},
		func(snap *analytics.Snapshot) interface{} { return snap.TopProducts },
	)
}

// TopCustomers serves the customer ranking section
func (h *AnalyticsHandler) TopCustomers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	h.serveSection(c,
		func(q analyticsapp.AnalyticsQuery) (*analytics.Snapshot, error) {
			return h.analyticsService.TopCustomers(c.Request.Context(), tenantID, q)
		},
		func(snap *analytics.Snapshot) interface{} { return snap.TopCustomers },
	)
}

// Payments serves the payment analytics section
func (h *AnalyticsHandler) Payments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	h.serveSection(c,
		func(q analyticsapp.AnalyticsQuery) (*analytics.Snapshot, error) {
			return h.analyticsService.Payments(c.Request.Context(), tenantID, q)
		},
		func(snap *analytics.Snapshot) interface{} { return snap.Payments },
	)
}

// Update enqueues a recomputation of every period for the caller's tenant.
// The work happens on the refresh workers; the response only acknowledges
// the request.
func (h *AnalyticsHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	h.refresher.EnqueueAllPeriods(tenantID)

	ack := gin.H{
		"enqueued": true,
		"periods":  analytics.AllPeriods(),
	}
	if h.scheduler != nil {
		ack["scheduler"] = h.scheduler.GetStatus()
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(ack))
}
