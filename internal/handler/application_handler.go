package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/scoring"
	"bansos-dispatch/internal/service"
)

// GetPendingApplications returns the scored pending applications in review order
func (h *Handlers) GetPendingApplications(c *gin.Context) {
	var filter service.Filter

	if raw := c.Query("priority"); raw != "" {
		p, ok := scoring.ParsePriority(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "validation_error", "priority must be high, medium or low")
			return
		}
		filter.Priority = p
	}
	if raw := c.Query("min_percentage"); raw != "" {
		minPct, err := strconv.Atoi(raw)
		if err != nil || minPct < 0 || minPct > 100 {
			respondError(c, http.StatusBadRequest, "validation_error", "min_percentage must be between 0 and 100")
			return
		}
		filter.MinPercentage = minPct
	}

	apps, err := h.triage.ListPending(c.Request.Context(), filter)
	if err != nil {
		respondRemoteError(c, err, "Failed to fetch pending applications")
		return
	}
	if apps == nil {
		apps = []service.ScoredApplication{}
	}
	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// ScoreApplication scores a posted application without storing it
func (h *Handlers) ScoreApplication(c *gin.Context) {
	var app model.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.triage.Score(app))
}

// UpdateApplicationStatus transitions an application
func (h *Handlers) UpdateApplicationStatus(c *gin.Context) {
	var req model.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	id := c.Param("id")
	err := h.triage.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"id":     id,
			"status": req.Status,
		})
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "invalid_transition", err.Error())
	default:
		respondRemoteError(c, err, "Failed to update application status")
	}
}

// GetApplicationSummary returns the pending counts per priority tier
func (h *Handlers) GetApplicationSummary(c *gin.Context) {
	summary, err := h.triage.Summary(c.Request.Context())
	if err != nil {
		respondRemoteError(c, err, "Failed to summarize applications")
		return
	}
	c.JSON(http.StatusOK, summary)
}
