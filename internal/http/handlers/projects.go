package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/services"
)

// GetProjects lists projects with filtering, search, sorting and pagination.
func (a API) GetProjects(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	term, fields, threshold, err := searchParams(c)
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
		Filters:      filters,
		Search:       term,
		SearchFields: fields,
		Threshold:    threshold,
		Sort:         sortParams(c, "project_id"),
		Page:         page,
	}
	projects, total, err := a.Projects.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondPage(c, pageEnvelope(c, page, total), projects)
}

// GetProjectByID returns one project with its clips.
func (a API) GetProjectByID(c *gin.Context) {
	project, err := a.Projects.Get(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
