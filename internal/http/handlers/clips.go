package handlers

import (
	"github.com/gin-gonic/gin"

	"offsetsdb/internal/services"
)

// GetClips lists clips with their associated project ids.
func (a API) GetClips(c *gin.Context) {
	filters, err := clipFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	page, err := pageRequest(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	q := services.ListQuery{
		Filters: filters,
		Search:  c.Query("search"),
		Sort:    sortParams(c, "date"),
		Page:    page,
	}
	clips, total, err := a.Clips.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondPage(c, pageEnvelope(c, page, total), clips)
}
