package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestEmail sends an email transport test
func (h *Handlers) TestEmail(c *gin.Context) {
	var req TestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.notifier.TestEmail(c.Request.Context(), req.To))
}

// TestWhatsApp sends a WhatsApp transport test
func (h *Handlers) TestWhatsApp(c *gin.Context) {
	var req TestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.notifier.TestWhatsApp(c.Request.Context(), req.To))
}
