package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/service"
)

// ForwardComplaint routes a complaint to its department. An unresolved
// destination answers 422 with the outcome so the operator can pick a
// department manually; a total transport failure still answers 200.
func (h *Handlers) ForwardComplaint(c *gin.Context) {
	var req ForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	outcome, err := h.orchestrator.ForwardComplaint(ctx, req.Complaint, service.ForwardOptions{
		DepartmentID:  req.DepartmentID,
		CustomMessage: req.CustomMessage,
		ForceEmail:    req.ForceEmail,
		ForceWhatsApp: req.ForceWhatsApp,
	})
	if err != nil {
		if errors.Is(err, service.ErrMalformedComplaint) {
			respondError(c, http.StatusBadRequest, "malformed_complaint", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "forward_error", err.Error())
		return
	}

	if outcome.Reason == model.ReasonNoDestination {
		c.JSON(http.StatusUnprocessableEntity, ForwardResponse{ForwardingOutcome: outcome})
		return
	}

	response := ForwardResponse{ForwardingOutcome: outcome}
	notify := req.Complaint.IsHighPriority()
	if req.NotifyAdmin != nil {
		notify = *req.NotifyAdmin
	}
	if notify && outcome.Department != nil {
		response.AdminAlerts = h.notifier.NotifyAdmin(ctx, req.Complaint, outcome.Department.Name, req.Complaint.Priority)
	}

	c.JSON(http.StatusOK, response)
}
