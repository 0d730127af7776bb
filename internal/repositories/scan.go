package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"offsetsdb/internal/query"
	"offsetsdb/internal/utils"
)

// whereSQL renders clauses into a WHERE segment. With no clauses it still
// emits a tautology so query assembly stays uniform.
func whereSQL(clauses []query.Clause) (string, []any) {
	c := query.And(clauses)
	return " WHERE " + c.Expr, c.Args
}

func orderSQL(keys []query.OrderKey) string {
	rendered := query.OrderBySQL(keys)
	if rendered == "" {
		return ""
	}
	return " ORDER BY " + rendered
}

// stringList converts a scanned list column into []string. The DuckDB
// driver hands LIST values back as []any; test doubles hand back native
// slices or JSON text.
func stringList(v any) []string {
	switch vals := v.(type) {
	case nil:
		return nil
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, e := range vals {
			if e == nil {
				continue
			}
			out = append(out, fmt.Sprintf("%v", e))
		}
		return out
	case string:
		return parseListLiteral(vals)
	case []byte:
		return parseListLiteral(string(vals))
	default:
		return []string{fmt.Sprintf("%v", vals)}
	}
}

func parseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}
	return []string{s}
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func nullBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	return &nb.Bool
}

// nullDate formats a nullable timestamp column as YYYY-MM-DD.
func nullDate(nt sql.NullTime) *string {
	if !nt.Valid {
		return nil
	}
	return utils.FormatDatePtr(&nt.Time)
}
