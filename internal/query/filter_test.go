package query

import (
	"errors"
	"testing"

	"offsetsdb/internal/domain"
)

func testEntity() *Entity {
	return NewEntity("project", "project", "project_id", map[string]Attribute{
		"project_id": {Column: "project.project_id", Kind: KindText},
		"name":       {Column: "project.name", Kind: KindText},
		"country":    {Column: "project.country", Kind: KindText},
		"category":   {Column: "project.category", Kind: KindTextArray},
		"issued":     {Column: "project.issued", Kind: KindNumber},
		"listed_at":  {Column: "project.listed_at", Kind: KindDate},
	})
}

func TestBuildFiltersScalarOperators(t *testing.T) {
	e := testEntity()
	cases := []struct {
		op       string
		wantExpr string
		wantArg  any
	}{
		{OpEquals, "project.country = ?", "US"},
		{OpILike, "project.country ILIKE ?", "%US%"},
		{OpGTE, "project.country >= ?", "US"},
		{OpLTE, "project.country <= ?", "US"},
	}
	for _, tc := range cases {
		clauses, err := BuildFilters([]Filter{{Attribute: "country", Values: "US", Op: tc.op, Entity: e}})
		if err != nil {
			t.Fatalf("op %s: unexpected error %v", tc.op, err)
		}
		if len(clauses) != 1 {
			t.Fatalf("op %s: expected 1 clause, got %d", tc.op, len(clauses))
		}
		if clauses[0].Expr != tc.wantExpr {
			t.Fatalf("op %s: expr = %q, want %q", tc.op, clauses[0].Expr, tc.wantExpr)
		}
		if len(clauses[0].Args) != 1 || clauses[0].Args[0] != tc.wantArg {
			t.Fatalf("op %s: args = %v", tc.op, clauses[0].Args)
		}
	}
}

func TestBuildFiltersNilAndEmptyAreNoOps(t *testing.T) {
	e := testEntity()
	clauses, err := BuildFilters([]Filter{
		{Attribute: "country", Values: nil, Op: OpEquals, Entity: e},
		{Attribute: "country", Values: []string{}, Op: OpEquals, Entity: e},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clauses) != 0 {
		t.Fatalf("expected no clauses, got %d", len(clauses))
	}
}

func TestBuildFiltersScalarListFansOutWithOR(t *testing.T) {
	e := testEntity()
	clauses, err := BuildFilters([]Filter{
		{Attribute: "country", Values: []string{"US", "CA"}, Op: OpILike, Entity: e},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(project.country ILIKE ? OR project.country ILIKE ?)"
	if clauses[0].Expr != want {
		t.Fatalf("expr = %q, want %q", clauses[0].Expr, want)
	}
	if len(clauses[0].Args) != 2 || clauses[0].Args[0] != "%US%" || clauses[0].Args[1] != "%CA%" {
		t.Fatalf("args = %v", clauses[0].Args)
	}
}

func TestBuildFiltersArrayMembership(t *testing.T) {
	e := testEntity()

	anyClauses, err := BuildFilters([]Filter{
		{Attribute: "category", Values: []string{"forest", "soil"}, Op: OpAny, Entity: e},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAny := "(list_contains(project.category, ?) OR list_contains(project.category, ?))"
	if anyClauses[0].Expr != wantAny {
		t.Fatalf("ANY expr = %q, want %q", anyClauses[0].Expr, wantAny)
	}

	allClauses, err := BuildFilters([]Filter{
		{Attribute: "category", Values: []string{"forest", "soil"}, Op: OpAll, Entity: e},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAll := "(list_contains(project.category, ?) AND list_contains(project.category, ?))"
	if allClauses[0].Expr != wantAll {
		t.Fatalf("ALL expr = %q, want %q", allClauses[0].Expr, wantAll)
	}
}

func TestBuildFiltersUnknownOperator(t *testing.T) {
	e := testEntity()
	_, err := BuildFilters([]Filter{
		{Attribute: "country", Values: "US", Op: "!=", Entity: e},
	})
	var opErr domain.InvalidFilterOperator
	if !errors.As(err, &opErr) {
		t.Fatalf("expected InvalidFilterOperator, got %v", err)
	}
	if opErr.Op != "!=" {
		t.Fatalf("operator not reported, got %q", opErr.Op)
	}
}

func TestAndEmptyIsTautology(t *testing.T) {
	c := And(nil)
	if c.Expr != "1=1" || len(c.Args) != 0 {
		t.Fatalf("And(nil) = %+v", c)
	}
}

func TestAndJoinsClauses(t *testing.T) {
	c := And([]Clause{
		{Expr: "a = ?", Args: []any{1}},
		{Expr: "b = ?", Args: []any{2}},
	})
	if c.Expr != "a = ? AND b = ?" {
		t.Fatalf("expr = %q", c.Expr)
	}
	if len(c.Args) != 2 {
		t.Fatalf("args = %v", c.Args)
	}
}
