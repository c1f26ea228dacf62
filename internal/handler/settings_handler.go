package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bansos-dispatch/internal/model"
)

// GetSettings returns the forwarding settings in effect
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get(c.Request.Context()))
}

// PatchSettings updates any subset of the forwarding settings
func (h *Handlers) PatchSettings(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if patch.Mode != nil && *patch.Mode != model.ModeAuto && *patch.Mode != model.ModeManual {
		respondError(c, http.StatusBadRequest, "validation_error", "forwarding_mode must be auto or manual")
		return
	}

	settings, err := h.settings.Patch(c.Request.Context(), patch)
	if err != nil {
		respondRemoteError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RefreshSettings reloads the settings from the remote store
func (h *Handlers) RefreshSettings(c *gin.Context) {
	settings, err := h.settings.Refresh(c.Request.Context())
	if err != nil {
		respondRemoteError(c, err, "Failed to refresh settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}
