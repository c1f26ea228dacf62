package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartScheduler starts the triage scheduler
func (h *Handlers) StartScheduler(c *gin.Context) {
	if err := h.scheduler.Start(); err != nil {
		respondError(c, http.StatusInternalServerError, "scheduler_error", "Failed to start scheduler: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler started successfully",
		"status":  "running",
	})
}

// StopScheduler stops the triage scheduler
func (h *Handlers) StopScheduler(c *gin.Context) {
	if err := h.scheduler.Stop(); err != nil {
		respondError(c, http.StatusInternalServerError, "scheduler_error", "Failed to stop scheduler")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler stopped successfully",
		"status":  "stopped",
	})
}

// RunOnce runs the triage sweep once
func (h *Handlers) RunOnce(c *gin.Context) {
	summary, err := h.scheduler.RunOnce(c.Request.Context())
	if err != nil {
		respondRemoteError(c, err, "Failed to run triage sweep")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Triage sweep completed successfully",
		"summary": summary,
	})
}

// GetSchedulerStatus returns the current scheduler status
func (h *Handlers) GetSchedulerStatus(c *gin.Context) {
	status := "stopped"
	if h.scheduler.IsRunning() {
		status = "running"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"next_run":     h.scheduler.GetNextRun(),
		"last_run":     h.scheduler.GetLastRun(),
		"last_summary": h.scheduler.LastSummary(),
	})
}
