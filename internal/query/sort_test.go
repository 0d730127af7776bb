package query

import (
	"errors"
	"testing"

	"offsetsdb/internal/domain"
)

func TestPlanSortAppendsPrimaryKey(t *testing.T) {
	e := testEntity()
	keys, err := PlanSort([]string{"-listed_at", "+name"}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	if !keys[0].Desc || keys[0].Field != "listed_at" {
		t.Fatalf("first key wrong: %+v", keys[0])
	}
	if keys[1].Desc || keys[1].Field != "name" {
		t.Fatalf("second key wrong: %+v", keys[1])
	}
	if keys[2].Field != "project_id" || keys[2].Desc {
		t.Fatalf("tie-break key wrong: %+v", keys[2])
	}
}

func TestPlanSortKeepsExplicitPrimaryKey(t *testing.T) {
	e := testEntity()
	keys, err := PlanSort([]string{"-project_id"}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("primary key should not be appended twice: %+v", keys)
	}
	if !keys[0].Desc {
		t.Fatalf("direction lost: %+v", keys[0])
	}
}

func TestPlanSortRejectsUnknownFieldBeforeQuerying(t *testing.T) {
	e := testEntity()
	_, err := PlanSort([]string{"name", "bogus"}, e)
	var sortErr domain.InvalidSortField
	if !errors.As(err, &sortErr) {
		t.Fatalf("expected InvalidSortField, got %v", err)
	}
	if sortErr.Field != "bogus" {
		t.Fatalf("field not reported, got %q", sortErr.Field)
	}
	if len(sortErr.Valid) == 0 {
		t.Fatalf("valid field list missing")
	}
}

func TestOrderBySQLCaseInsensitiveAndNullsLast(t *testing.T) {
	keys := []OrderKey{
		{Field: "name", Column: "project.name", Desc: true, Kind: KindText},
		{Field: "issued", Column: "project.issued", Kind: KindNumber},
	}
	got := OrderBySQL(keys)
	want := "lower(project.name) DESC NULLS LAST, project.issued ASC NULLS LAST"
	if got != want {
		t.Fatalf("rendered %q, want %q", got, want)
	}
}

func TestOrderBySQLEmpty(t *testing.T) {
	if got := OrderBySQL(nil); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
