package query

import (
	"fmt"
	"reflect"
	"strings"

	"offsetsdb/internal/domain"
)

// Filter operators. These mirror the wire-level filter conventions: ilike is
// case-insensitive containment, ANY/ALL are array-membership tests.
const (
	OpEquals = "=="
	OpILike  = "ilike"
	OpGTE    = ">="
	OpLTE    = "<="
	OpAny    = "ANY"
	OpAll    = "ALL"
)

var allowedOps = []string{OpEquals, OpILike, OpGTE, OpLTE, OpAny, OpAll}

// Filter is one declarative constraint: apply Op to Entity's Attribute for
// the given Values. A nil Values contributes nothing (absence means "no
// filter", never "filter on empty").
type Filter struct {
	Attribute string
	Values    any
	Op        string
	Entity    *Entity
}

// Clause is a backend predicate fragment. Fragments built for one request
// are AND-ed together by the repository layer.
type Clause struct {
	Expr string
	Args []any
}

// And joins clauses into a single WHERE body. Empty input yields an
// always-true expression so callers can splice it in unconditionally.
func And(clauses []Clause) Clause {
	if len(clauses) == 0 {
		return Clause{Expr: "1=1"}
	}
	exprs := make([]string, 0, len(clauses))
	var args []any
	for _, c := range clauses {
		exprs = append(exprs, c.Expr)
		args = append(args, c.Args...)
	}
	return Clause{Expr: strings.Join(exprs, " AND "), Args: args}
}

// BuildFilters converts filter descriptors into clauses. Descriptors with
// nil values are skipped; an unsupported operator fails before anything is
// queried.
func BuildFilters(filters []Filter) ([]Clause, error) {
	var clauses []Clause
	for _, f := range filters {
		c, ok, err := buildFilter(f)
		if err != nil {
			return nil, err
		}
		if ok {
			clauses = append(clauses, c)
		}
	}
	return clauses, nil
}

func buildFilter(f Filter) (Clause, bool, error) {
	if f.Values == nil {
		return Clause{}, false, nil
	}

	attr, ok := f.Entity.Attribute(f.Attribute)
	if !ok {
		return Clause{}, false, domain.InternalError{
			Msg: fmt.Sprintf("filter on unknown attribute %s.%s", f.Entity.Name, f.Attribute),
		}
	}

	values, isList := valueList(f.Values)
	if isList && len(values) == 0 {
		return Clause{}, false, nil
	}

	if attr.Kind == KindTextArray && isList {
		return arrayClause(attr, values, f.Op)
	}

	switch f.Op {
	case OpEquals, OpILike, OpGTE, OpLTE:
	default:
		return Clause{}, false, domain.InvalidFilterOperator{Op: f.Op, Allowed: allowedOps}
	}

	if !isList {
		return scalarClause(attr, f.Values, f.Op), true, nil
	}

	// Multiple values for a scalar attribute match ANY of them.
	exprs := make([]string, 0, len(values))
	var args []any
	for _, v := range values {
		c := scalarClause(attr, v, f.Op)
		exprs = append(exprs, c.Expr)
		args = append(args, c.Args...)
	}
	return Clause{Expr: "(" + strings.Join(exprs, " OR ") + ")", Args: args}, true, nil
}

// arrayClause tests whether an array column contains some (ANY) or every
// (ALL) listed element; it is not whole-array equality. ANY is the default
// when the descriptor carries a non-array operator.
func arrayClause(attr Attribute, values []any, op string) (Clause, bool, error) {
	joiner := " OR "
	if op == OpAll {
		joiner = " AND "
	}
	exprs := make([]string, 0, len(values))
	var args []any
	for _, v := range values {
		exprs = append(exprs, fmt.Sprintf("list_contains(%s, ?)", attr.Column))
		args = append(args, v)
	}
	return Clause{Expr: "(" + strings.Join(exprs, joiner) + ")", Args: args}, true, nil
}

func scalarClause(attr Attribute, value any, op string) Clause {
	switch op {
	case OpILike:
		return Clause{
			Expr: fmt.Sprintf("%s ILIKE ?", attr.Column),
			Args: []any{"%" + fmt.Sprintf("%v", value) + "%"},
		}
	case OpGTE:
		return Clause{Expr: fmt.Sprintf("%s >= ?", attr.Column), Args: []any{value}}
	case OpLTE:
		return Clause{Expr: fmt.Sprintf("%s <= ?", attr.Column), Args: []any{value}}
	default:
		return Clause{Expr: fmt.Sprintf("%s = ?", attr.Column), Args: []any{value}}
	}
}

// valueList flattens slice values into []any. Strings are scalars even
// though they are ranges of bytes.
func valueList(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
