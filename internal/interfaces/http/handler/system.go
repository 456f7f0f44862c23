package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
	"github.com/Akhilesh2006s/gst-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DBPinger reports whether the backing database is reachable
type DBPinger interface {
	Ping() error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        DBPinger
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DBPinger, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers ping and system info routes on the API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.Ping)
	rg.GET("/system/info", h.GetSystemInfo)
}

// RegisterHealthRoute registers the unversioned health probe
func (h *SystemHandler) RegisterHealthRoute(engine *gin.Engine) {
	engine.GET("/health", h.Health)
}

// Health reports liveness including database connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				shared.CodeUpstreamUnavailable,
				"Database is unreachable",
			))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status": "healthy",
	}))
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic service information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "GST Ledger API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a simple responsiveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
