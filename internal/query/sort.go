package query

import (
	"fmt"
	"strings"

	"offsetsdb/internal/domain"
)

// OrderKey is one resolved sort criterion.
type OrderKey struct {
	Field  string
	Column string
	Desc   bool
	Kind   Kind
}

// PlanSort resolves sort tokens ("field", "+field", "-field") into an
// ordering plan. Every field is validated against the entity registry up
// front so a bad token fails before any part of the query executes. The
// primary key is appended ascending unless already requested, which makes
// the order total and pagination cursors stable.
func PlanSort(tokens []string, entity *Entity) ([]OrderKey, error) {
	pk := entity.PrimaryKey
	hasPK := false
	keys := make([]OrderKey, 0, len(tokens)+1)

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		desc := false
		field := token
		switch {
		case strings.HasPrefix(token, "-"):
			desc = true
			field = token[1:]
		case strings.HasPrefix(token, "+"):
			field = token[1:]
		}

		attr, ok := entity.Attribute(field)
		if !ok {
			return nil, domain.InvalidSortField{Field: field, Valid: entity.Fields()}
		}
		if field == pk {
			hasPK = true
		}
		keys = append(keys, OrderKey{Field: field, Column: attr.Column, Desc: desc, Kind: attr.Kind})
	}

	if !hasPK {
		attr, ok := entity.Attribute(pk)
		if !ok {
			return nil, domain.InternalError{Msg: fmt.Sprintf("entity %s has no primary key attribute", entity.Name)}
		}
		keys = append(keys, OrderKey{Field: pk, Column: attr.Column, Kind: attr.Kind})
	}

	return keys, nil
}

// OrderBySQL renders the plan. Text columns compare on a lower-cased
// projection so "Apple" and "apple" stay adjacent, and nulls always sort
// last regardless of direction.
func OrderBySQL(keys []OrderKey) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		col := k.Column
		if k.Kind == KindText {
			col = fmt.Sprintf("lower(%s)", col)
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s NULLS LAST", col, dir))
	}
	return strings.Join(parts, ", ")
}
