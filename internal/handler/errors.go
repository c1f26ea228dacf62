package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bansos-dispatch/internal/remote"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

// respondRemoteError maps a remote API failure onto the response. The remote
// detail is passed through verbatim.
func respondRemoteError(c *gin.Context, err error, fallback string) {
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, remote.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", fallback+": not found")
	case errors.As(err, &apiErr):
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		respondError(c, http.StatusBadGateway, "remote_error", message)
	default:
		respondError(c, http.StatusBadGateway, "remote_error", fallback+": "+err.Error())
	}
}
