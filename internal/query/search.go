package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"offsetsdb/internal/domain"
)

// SearchField is one weighted target for the extended search modes.
type SearchField struct {
	Field  string  `json:"field"`
	Weight float64 `json:"weight"`
}

// DefaultSearchFields covers the identifier and display-name pair the plain
// search mode is fixed to.
var DefaultSearchFields = []SearchField{
	{Field: "project_id", Weight: 1.0},
	{Field: "name", Weight: 0.9},
}

const DefaultSimilarityThreshold = 0.5

// ParseSearchFields decodes the search_fields query parameter, a JSON list
// of {field, weight} objects.
func ParseSearchFields(raw string) ([]SearchField, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var fields []SearchField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, domain.MalformedSearchFields{Msg: "not a JSON list of {field, weight} objects", Err: err}
	}
	for _, f := range fields {
		if f.Field == "" {
			return nil, domain.MalformedSearchFields{Msg: "entry missing required key: field"}
		}
		if f.Weight <= 0 {
			return nil, domain.MalformedSearchFields{Msg: fmt.Sprintf("field %s missing positive weight", f.Field)}
		}
	}
	return fields, nil
}

// BuildSearch turns a free-text search term into a single disjunctive
// clause. The default mode is case-insensitive containment over the fixed
// identifier/name pair; the "r:", "t:" and "w:" prefixes switch to regex,
// similarity-threshold and alias-expanded weighted fuzzy matching over the
// supplied weighted field list.
func BuildSearch(term string, fields []SearchField, threshold float64, entity *Entity, aliases AliasExpander) (Clause, bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Clause{}, false, nil
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	switch {
	case strings.HasPrefix(term, "r:"):
		return regexSearch(strings.TrimPrefix(term, "r:"), fields, entity)
	case strings.HasPrefix(term, "t:"):
		return similaritySearch(strings.TrimPrefix(term, "t:"), fields, threshold, entity)
	case strings.HasPrefix(term, "w:"):
		return weightedSearch(strings.TrimPrefix(term, "w:"), fields, threshold, entity, aliases)
	}

	var exprs []string
	var args []any
	for _, f := range DefaultSearchFields {
		col, err := searchColumn(entity, f.Field)
		if err != nil {
			return Clause{}, false, err
		}
		exprs = append(exprs, fmt.Sprintf("%s ILIKE ?", col))
		args = append(args, "%"+term+"%")
	}
	return Clause{Expr: "(" + strings.Join(exprs, " OR ") + ")", Args: args}, true, nil
}

func regexSearch(pattern string, fields []SearchField, entity *Entity) (Clause, bool, error) {
	var exprs []string
	var args []any
	for _, f := range fields {
		col, err := searchColumn(entity, f.Field)
		if err != nil {
			return Clause{}, false, err
		}
		exprs = append(exprs, fmt.Sprintf("regexp_matches(%s, ?, 'i')", col))
		args = append(args, pattern)
	}
	return Clause{Expr: "(" + strings.Join(exprs, " OR ") + ")", Args: args}, true, nil
}

func similaritySearch(term string, fields []SearchField, threshold float64, entity *Entity) (Clause, bool, error) {
	var exprs []string
	var args []any
	for _, f := range fields {
		col, err := searchColumn(entity, f.Field)
		if err != nil {
			return Clause{}, false, err
		}
		exprs = append(exprs, fmt.Sprintf("jaccard(lower(%s), ?) >= ?", col))
		args = append(args, strings.ToLower(term), threshold)
	}
	return Clause{Expr: "(" + strings.Join(exprs, " OR ") + ")", Args: args}, true, nil
}

// weightedSearch scores the term and each of its known alias/acronym
// expansions against every field; a field with weight w matches when
// w * similarity clears the threshold.
func weightedSearch(term string, fields []SearchField, threshold float64, entity *Entity, aliases AliasExpander) (Clause, bool, error) {
	variations := []string{term}
	if aliases != nil {
		variations = append(variations, aliases.Expand(term)...)
	}

	var exprs []string
	var args []any
	for _, f := range fields {
		col, err := searchColumn(entity, f.Field)
		if err != nil {
			return Clause{}, false, err
		}
		for _, v := range variations {
			exprs = append(exprs, fmt.Sprintf("(? * jaccard(lower(%s), ?)) >= ?", col))
			args = append(args, f.Weight, strings.ToLower(v), threshold)
		}
	}
	return Clause{Expr: "(" + strings.Join(exprs, " OR ") + ")", Args: args}, true, nil
}

func searchColumn(entity *Entity, field string) (string, error) {
	attr, ok := entity.Attribute(field)
	if !ok {
		return "", domain.MalformedSearchFields{Msg: fmt.Sprintf("unknown field: %s", field)}
	}
	return attr.Column, nil
}
