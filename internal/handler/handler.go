package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bansos-dispatch/internal/auditlog"
	"bansos-dispatch/internal/service"
	"bansos-dispatch/internal/service/scheduler"
)

// Deps are the components served by the HTTP API. DB may be nil when the
// audit log is kept in memory only.
type Deps struct {
	DB                *gorm.DB
	Departments       *service.DepartmentService
	Settings          *service.SettingsStore
	Orchestrator      *service.Orchestrator
	Notifier          *service.Notifier
	Triage            *service.Triage
	Audit             *auditlog.Ring
	Scheduler         *scheduler.Scheduler
	WhatsAppSimulated bool
}

// Handlers contains all HTTP handlers
type Handlers struct {
	db                *gorm.DB
	departments       *service.DepartmentService
	settings          *service.SettingsStore
	orchestrator      *service.Orchestrator
	notifier          *service.Notifier
	triage            *service.Triage
	audit             *auditlog.Ring
	scheduler         *scheduler.Scheduler
	whatsappSimulated bool
}

// NewHandlers creates new HTTP handlers
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		db:                d.DB,
		departments:       d.Departments,
		settings:          d.Settings,
		orchestrator:      d.Orchestrator,
		notifier:          d.Notifier,
		triage:            d.Triage,
		audit:             d.Audit,
		scheduler:         d.Scheduler,
		whatsappSimulated: d.WhatsAppSimulated,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/departments", h.GetDepartments)
		api.POST("/departments", h.CreateDepartment)
		api.GET("/departments/resolve", h.ResolveDepartment)
		api.GET("/departments/:id", h.GetDepartment)
		api.PUT("/departments/:id", h.UpdateDepartment)
		api.DELETE("/departments/:id", h.DeleteDepartment)
		api.PATCH("/departments/:id/toggle", h.ToggleDepartment)

		api.GET("/settings/forwarding", h.GetSettings)
		api.PATCH("/settings/forwarding", h.PatchSettings)
		api.POST("/settings/refresh", h.RefreshSettings)

		api.POST("/complaints/forward", h.ForwardComplaint)
		api.GET("/forwarding/logs", h.GetLogs)
		api.GET("/forwarding/logs/:id", h.GetLog)

		api.POST("/admin/test/email", h.TestEmail)
		api.POST("/admin/test/whatsapp", h.TestWhatsApp)

		api.GET("/applications/pending", h.GetPendingApplications)
		api.GET("/applications/summary", h.GetApplicationSummary)
		api.POST("/applications/score", h.ScoreApplication)
		api.PATCH("/applications/:id/status", h.UpdateApplicationStatus)

		if h.scheduler != nil {
			api.POST("/scheduler/start", h.StartScheduler)
			api.POST("/scheduler/stop", h.StopScheduler)
			api.POST("/scheduler/run-once", h.RunOnce)
			api.GET("/scheduler/status", h.GetSchedulerStatus)
		}
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "disabled",
		Settings:  "ok",
		WhatsApp:  "live",
		Metrics:   make(map[string]string),
	}

	if h.db != nil {
		response.Database = "ok"
		if err := h.db.Exec("SELECT 1").Error; err != nil {
			response.Status = "error"
			response.Database = "error"
			logrus.Errorf("Database health check failed: %v", err)
		}
	}

	if h.settings.Degraded() {
		response.Settings = "degraded"
		if response.Status == "ok" {
			response.Status = "degraded"
		}
	}
	if at := h.settings.FetchedAt(); !at.IsZero() {
		response.Metrics["settings_fetched_at"] = at.Format(time.RFC3339)
	}

	if h.whatsappSimulated {
		response.WhatsApp = "simulated"
	}

	if h.scheduler != nil && h.scheduler.IsRunning() {
		response.Metrics["scheduler"] = "running"
		response.Metrics["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
	} else {
		response.Metrics["scheduler"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
