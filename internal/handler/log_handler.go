package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetLogs returns the newest forwarding log entries
func (h *Handlers) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > h.audit.Capacity() {
		limit = h.audit.Capacity()
	}

	entries := h.audit.Entries(limit)
	c.JSON(http.StatusOK, gin.H{
		"logs":     entries,
		"total":    h.audit.Len(),
		"capacity": h.audit.Capacity(),
	})
}

// GetLog returns a specific forwarding log entry
func (h *Handlers) GetLog(c *gin.Context) {
	entry, ok, err := h.audit.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		logrus.Errorf("Failed to look up forwarding log: %v", err)
		respondError(c, http.StatusInternalServerError, "database_error", "Failed to fetch log")
		return
	}
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", "Log not found")
		return
	}
	c.JSON(http.StatusOK, entry)
}
