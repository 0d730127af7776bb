// Package services composes the query building blocks into the operations
// the handlers expose: filtered listings and binned chart aggregations.
package services

import (
	"offsetsdb/internal/query"
)

// ListQuery is one validated listing request: declarative filters, an
// optional search term, sort tokens, and the page window.
type ListQuery struct {
	Filters      []query.Filter
	Search       string
	SearchFields []query.SearchField
	Threshold    float64
	Sort         []string
	Page         query.PageRequest
}

// buildClauses translates the query's filters plus its search term into
// predicate fragments against the given entity.
func buildClauses(q ListQuery, entity *query.Entity, aliases query.AliasExpander) ([]query.Clause, error) {
	clauses, err := query.BuildFilters(q.Filters)
	if err != nil {
		return nil, err
	}
	search, ok, err := query.BuildSearch(q.Search, q.SearchFields, q.Threshold, entity, aliases)
	if err != nil {
		return nil, err
	}
	if ok {
		clauses = append(clauses, search)
	}
	return clauses, nil
}
