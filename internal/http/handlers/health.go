package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/repositories"
)

// Health reports service status plus the newest successful ingestion per
// data category.
type Health struct {
	Files   repositories.FileRepo
	Staging bool
}

func (h Health) Status(c *gin.Context) {
	latest, err := h.Files.LatestSuccessByCategory(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":                      "ok",
		"staging":                     h.Staging,
		"latest-successful-db-update": latest,
	})
}

// AuthorizedUser confirms the presented API key passed the auth middleware.
func (h Health) AuthorizedUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authorized_user": true})
}
