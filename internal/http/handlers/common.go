package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/domain"
	"offsetsdb/internal/http/middleware"
	"offsetsdb/internal/services"
)

// API bundles the services behind the HTTP surface.
type API struct {
	Projects services.ProjectService
	Credits  services.CreditService
	Clips    services.ClipService
	Files    services.FileService
	Charts   services.ChartService
}

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// HandleError maps a service error onto the right status class.
func HandleError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsBadRequest(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		RespondError(c, http.StatusInternalServerError, "internal server error", err)
	}
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// respondPage wraps a listing result in the pagination envelope.
func respondPage(c *gin.Context, page any, data any) {
	c.JSON(http.StatusOK, gin.H{"pagination": page, "data": data})
}
