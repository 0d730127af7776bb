package query

import (
	"errors"
	"strings"
	"testing"

	"offsetsdb/internal/domain"
)

func TestBuildSearchPlainModeTargetsIDAndName(t *testing.T) {
	e := testEntity()
	clause, ok, err := BuildSearch("bull run", nil, 0, e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a clause")
	}
	want := "(project.project_id ILIKE ? OR project.name ILIKE ?)"
	if clause.Expr != want {
		t.Fatalf("expr = %q, want %q", clause.Expr, want)
	}
	if clause.Args[0] != "%bull run%" || clause.Args[1] != "%bull run%" {
		t.Fatalf("args = %v", clause.Args)
	}
}

func TestBuildSearchEmptyTermIsNoOp(t *testing.T) {
	e := testEntity()
	_, ok, err := BuildSearch("   ", nil, 0, e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("blank term should produce no clause")
	}
}

func TestBuildSearchRegexMode(t *testing.T) {
	e := testEntity()
	clause, ok, err := BuildSearch("r:^VCS[0-9]+$", nil, 0, e, nil)
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(clause.Expr, "regexp_matches(project.project_id, ?, 'i')") {
		t.Fatalf("expr = %q", clause.Expr)
	}
	if clause.Args[0] != "^VCS[0-9]+$" {
		t.Fatalf("pattern not passed through: %v", clause.Args)
	}
}

func TestBuildSearchSimilarityModeUsesThreshold(t *testing.T) {
	e := testEntity()
	clause, ok, err := BuildSearch("t:Bull Run", nil, 0.8, e, nil)
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(clause.Expr, "jaccard(lower(project.project_id), ?) >= ?") {
		t.Fatalf("expr = %q", clause.Expr)
	}
	if clause.Args[0] != "bull run" || clause.Args[1] != 0.8 {
		t.Fatalf("args = %v", clause.Args)
	}
}

func TestBuildSearchSimilarityDefaultThreshold(t *testing.T) {
	e := testEntity()
	clause, _, err := BuildSearch("t:forest", nil, 0, e, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clause.Args[1] != DefaultSimilarityThreshold {
		t.Fatalf("threshold = %v, want %v", clause.Args[1], DefaultSimilarityThreshold)
	}
}

type fixedAliases map[string][]string

func (f fixedAliases) Expand(term string) []string { return f[strings.ToLower(term)] }

func TestBuildSearchWeightedModeExpandsAliases(t *testing.T) {
	e := testEntity()
	aliases := fixedAliases{"redd": {"reduced emissions from deforestation"}}
	fields := []SearchField{{Field: "name", Weight: 0.9}}

	clause, ok, err := BuildSearch("w:REDD", fields, 0.6, e, aliases)
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	// One scored predicate per (field, variation): the term plus one alias.
	if got := strings.Count(clause.Expr, "jaccard"); got != 2 {
		t.Fatalf("expected 2 scored predicates, got %d in %q", got, clause.Expr)
	}
	if clause.Args[0] != 0.9 || clause.Args[1] != "redd" || clause.Args[2] != 0.6 {
		t.Fatalf("first predicate args = %v", clause.Args[:3])
	}
	if clause.Args[4] != "reduced emissions from deforestation" {
		t.Fatalf("alias variation missing: %v", clause.Args)
	}
}

func TestBuildSearchUnknownFieldFails(t *testing.T) {
	e := testEntity()
	_, _, err := BuildSearch("t:x", []SearchField{{Field: "nope", Weight: 1}}, 0, e, nil)
	var searchErr domain.MalformedSearchFields
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected MalformedSearchFields, got %v", err)
	}
}

func TestParseSearchFields(t *testing.T) {
	fields, err := ParseSearchFields(`[{"field": "name", "weight": 0.9}, {"field": "project_id", "weight": 1}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 2 || fields[0].Field != "name" || fields[1].Weight != 1 {
		t.Fatalf("fields = %+v", fields)
	}

	if fields, err := ParseSearchFields("  "); err != nil || fields != nil {
		t.Fatalf("blank input should be a no-op, got %v %v", fields, err)
	}

	var searchErr domain.MalformedSearchFields
	if _, err := ParseSearchFields(`{"field": "name"}`); !errors.As(err, &searchErr) {
		t.Fatalf("non-list input should fail, got %v", err)
	}
	if _, err := ParseSearchFields(`[{"weight": 1}]`); !errors.As(err, &searchErr) {
		t.Fatalf("missing field key should fail, got %v", err)
	}
	if _, err := ParseSearchFields(`[{"field": "name"}]`); !errors.As(err, &searchErr) {
		t.Fatalf("missing weight should fail, got %v", err)
	}
}

func TestStaticAliasesExpand(t *testing.T) {
	aliases := NewStaticAliases()
	got := aliases.Expand(" REDD ")
	if len(got) == 0 {
		t.Fatalf("expected expansions for redd")
	}
	if got := aliases.Expand("no-such-term"); got != nil {
		t.Fatalf("unknown term should expand to nothing, got %v", got)
	}
}
