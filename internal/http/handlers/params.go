package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"offsetsdb/internal/domain"
	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/utils"
)

// pageRequest reads current_page/per_page with their defaults. Range checks
// happen in PageRequest.Validate.
func pageRequest(c *gin.Context) (query.PageRequest, error) {
	req := query.PageRequest{CurrentPage: query.DefaultPage, PerPage: query.DefaultPerPage}
	if raw := c.Query("current_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.ValidationError{Field: "current_page", Msg: "must be an integer", Err: err}
		}
		req.CurrentPage = n
	}
	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.ValidationError{Field: "per_page", Msg: "must be an integer", Err: err}
		}
		req.PerPage = n
	}
	return req, nil
}

func sortParams(c *gin.Context, fallback string) []string {
	if s := c.QueryArray("sort"); len(s) > 0 {
		return s
	}
	return []string{fallback}
}

// pageEnvelope builds the pagination envelope from the request's own URL so
// next_page links round-trip.
func pageEnvelope(c *gin.Context, req query.PageRequest, total int) query.Page {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return query.NewPage(req, total, scheme, c.Request.Host, c.Request.URL.Path, c.Request.URL.Query())
}

// listValues returns repeated query values for name, nil when absent so the
// filter becomes a no-op.
func listValues(c *gin.Context, name string) any {
	vals := c.QueryArray(name)
	if len(vals) == 0 {
		return nil
	}
	return vals
}

func dateValue(c *gin.Context, name string) (any, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	if _, err := utils.ParseDate(raw); err != nil {
		return nil, domain.ValidationError{Field: name, Msg: "must be formatted YYYY-MM-DD", Err: err}
	}
	return raw, nil
}

func intValue(c *gin.Context, name string) (any, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.ValidationError{Field: name, Msg: "must be an integer", Err: err}
	}
	return n, nil
}

func boolValue(c *gin.Context, name string) (any, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.ValidationError{Field: name, Msg: "must be a boolean", Err: err}
	}
	return b, nil
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: name, Msg: "must be an integer", Err: err}
	}
	return n, nil
}

func floatParam(c *gin.Context, name string, fallback float64) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.ValidationError{Field: name, Msg: "must be a number", Err: err}
	}
	return f, nil
}

// filterSpec is one wire parameter bound to an entity attribute.
type filterSpec struct {
	param     string
	attribute string
	op        string
	kind      string // "list", "date", "int", "bool"
	entity    *query.Entity
}

func buildFilterList(c *gin.Context, specs []filterSpec) ([]query.Filter, error) {
	var filters []query.Filter
	for _, s := range specs {
		var value any
		var err error
		switch s.kind {
		case "date":
			value, err = dateValue(c, s.param)
		case "int":
			value, err = intValue(c, s.param)
		case "bool":
			value, err = boolValue(c, s.param)
		default:
			value = listValues(c, s.param)
		}
		if err != nil {
			return nil, err
		}
		filters = append(filters, query.Filter{Attribute: s.attribute, Values: value, Op: s.op, Entity: s.entity})
	}
	return filters, nil
}

// projectFilters mirrors the project listing's filter surface. List-valued
// parameters repeat the key; ranges split into _from/_to and _min/_max
// pairs.
func projectFilters(c *gin.Context) ([]query.Filter, error) {
	return buildFilterList(c, []filterSpec{
		{param: "registry", attribute: "registry", op: query.OpILike, kind: "list", entity: models.Projects},
		{param: "country", attribute: "country", op: query.OpILike, kind: "list", entity: models.Projects},
		{param: "protocol", attribute: "protocol", op: query.OpAny, kind: "list", entity: models.Projects},
		{param: "category", attribute: "category", op: query.OpAny, kind: "list", entity: models.Projects},
		{param: "is_compliance", attribute: "is_compliance", op: query.OpEquals, kind: "bool", entity: models.Projects},
		{param: "listed_at_from", attribute: "listed_at", op: query.OpGTE, kind: "date", entity: models.Projects},
		{param: "listed_at_to", attribute: "listed_at", op: query.OpLTE, kind: "date", entity: models.Projects},
		{param: "issued_min", attribute: "issued", op: query.OpGTE, kind: "int", entity: models.Projects},
		{param: "issued_max", attribute: "issued", op: query.OpLTE, kind: "int", entity: models.Projects},
		{param: "retired_min", attribute: "retired", op: query.OpGTE, kind: "int", entity: models.Projects},
		{param: "retired_max", attribute: "retired", op: query.OpLTE, kind: "int", entity: models.Projects},
	})
}

func creditFilters(c *gin.Context) ([]query.Filter, error) {
	return buildFilterList(c, []filterSpec{
		{param: "transaction_type", attribute: "transaction_type", op: query.OpILike, kind: "list", entity: models.Credits},
		{param: "vintage", attribute: "vintage", op: query.OpEquals, kind: "list", entity: models.Credits},
		{param: "transaction_date_from", attribute: "transaction_date", op: query.OpGTE, kind: "date", entity: models.Credits},
		{param: "transaction_date_to", attribute: "transaction_date", op: query.OpLTE, kind: "date", entity: models.Credits},
	})
}

func clipFilters(c *gin.Context) ([]query.Filter, error) {
	return buildFilterList(c, []filterSpec{
		{param: "type", attribute: "type", op: query.OpILike, kind: "list", entity: models.Clips},
		{param: "source", attribute: "source", op: query.OpILike, kind: "list", entity: models.Clips},
		{param: "tags", attribute: "tags", op: query.OpAny, kind: "list", entity: models.Clips},
		{param: "date_from", attribute: "date", op: query.OpGTE, kind: "date", entity: models.Clips},
		{param: "date_to", attribute: "date", op: query.OpLTE, kind: "date", entity: models.Clips},
		{param: "project_id", attribute: "project_id", op: query.OpEquals, kind: "list", entity: models.Clips},
	})
}

func fileFilters(c *gin.Context) ([]query.Filter, error) {
	return buildFilterList(c, []filterSpec{
		{param: "category", attribute: "category", op: query.OpEquals, kind: "list", entity: models.Files},
		{param: "status", attribute: "status", op: query.OpEquals, kind: "list", entity: models.Files},
		{param: "recorded_at_from", attribute: "recorded_at", op: query.OpGTE, kind: "date", entity: models.Files},
		{param: "recorded_at_to", attribute: "recorded_at", op: query.OpLTE, kind: "date", entity: models.Files},
	})
}

// searchParams reads the shared search parameter trio.
func searchParams(c *gin.Context) (string, []query.SearchField, float64, error) {
	fields, err := query.ParseSearchFields(c.Query("search_fields"))
	if err != nil {
		return "", nil, 0, err
	}
	threshold, err := floatParam(c, "similarity_threshold", 0)
	if err != nil {
		return "", nil, 0, err
	}
	return c.Query("search"), fields, threshold, nil
}
