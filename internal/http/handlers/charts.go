package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/query"
	"offsetsdb/internal/services"
)

// chartQuery assembles the shared chart parameters. The frequency defaults
// to yearly bins unless num_bins takes over.
func chartQuery(c *gin.Context, filters []query.Filter) (services.ChartQuery, error) {
	term, fields, threshold, err := searchParams(c)
	if err != nil {
		return services.ChartQuery{}, err
	}
	numBins, err := intParam(c, "num_bins", 0)
	if err != nil {
		return services.ChartQuery{}, err
	}
	binWidth, err := floatParam(c, "bin_width", 0)
	if err != nil {
		return services.ChartQuery{}, err
	}
	freq := c.Query("freq")
	if freq == "" && numBins <= 0 {
		freq = "Y"
	}
	return services.ChartQuery{
		Filters:      filters,
		Search:       term,
		SearchFields: fields,
		Threshold:    threshold,
		Freq:         freq,
		NumBins:      numBins,
		BinWidth:     binWidth,
	}, nil
}

// respondChart wraps chart rows in the flat single-page envelope.
func respondChart(c *gin.Context, entries int, data any) {
	page := query.Page{TotalEntries: entries, CurrentPage: query.DefaultPage, TotalPages: 1}
	c.JSON(http.StatusOK, gin.H{"pagination": page, "data": data})
}

// GetProjectsByListingDate returns project counts binned by listing date.
func (a API) GetProjectsByListingDate(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	q, err := chartQuery(c, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := a.Charts.ProjectsByListingDate(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}

// GetCreditsByTransactionDate returns credit quantities binned by
// transaction date.
func (a API) GetCreditsByTransactionDate(c *gin.Context) {
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
	q, err := chartQuery(c, append(filters, creditSide...))
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := a.Charts.CreditsByTransactionDate(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}

// GetCreditsByProjectID is the single-project transaction chart.
func (a API) GetCreditsByProjectID(c *gin.Context) {
	filters, err := creditFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	q, err := chartQuery(c, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := a.Charts.CreditsByProjectTransactionDate(c.Request.Context(), c.Param("project_id"), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}

// GetProjectsByCreditTotals returns project counts binned by total issued
// or retired credits.
func (a API) GetProjectsByCreditTotals(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	q, err := chartQuery(c, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	creditType := c.DefaultQuery("credit_type", services.CreditTypeIssued)
	data, err := a.Charts.ProjectsByCreditTotals(c.Request.Context(), q, creditType)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}

// GetProjectsByCategory returns project counts per category.
func (a API) GetProjectsByCategory(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	q, err := chartQuery(c, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := a.Charts.ProjectsByCategory(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}

// GetCreditsByCategory returns issued/retired totals per category.
func (a API) GetCreditsByCategory(c *gin.Context) {
	filters, err := projectFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	q, err := chartQuery(c, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := a.Charts.CreditsByCategory(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondChart(c, len(data), data)
}
