package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/services"
)

// GetFiles lists ingestion records.
func (a API) GetFiles(c *gin.Context) {
	filters, err := fileFilters(c)
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
		Sort:    sortParams(c, "recorded_at"),
		Page:    page,
	}
	files, total, err := a.Files.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondPage(c, pageEnvelope(c, page, total), files)
}

// GetFileByID returns one ingestion record.
func (a API) GetFileByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file_id must be an integer", err)
		return
	}
	f, err := a.Files.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// SubmitFiles registers files for ingestion and returns the pending rows.
func (a API) SubmitFiles(c *gin.Context) {
	var payload []services.FileInput
	if !BindJSONOrError(c, &payload) {
		return
	}
	files, err := a.Files.Submit(c.Request.Context(), payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, files)
}
