package handlers

import (
	"github.com/gin-gonic/gin"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/services"
)

// GetCredits lists credits joined with their project context. Project-level
// filters apply through the join.
func (a API) GetCredits(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	creditSide, err := creditFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	filters = append(filters, creditSide...)
	if ids := listValues(c, "project_id"); ids != nil {
		filters = append(filters, query.Filter{
			Attribute: "project_id", Values: ids, Op: query.OpEquals, Entity: models.Projects,
		})
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
	credits, total, err := a.Credits.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondPage(c, pageEnvelope(c, page, total), credits)
}
