package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"offsetsdb/internal/repositories"
)

func chartColumns() []string {
	return []string{"project_id", "listed_at", "category", "issued", "retired"}
}

func TestChartServiceProjectsByListingDateYearly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(chartColumns()).
		AddRow("VCS1", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), `["forest"]`, 100.0, 10.0).
		AddRow("VCS2", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), `["forest"]`, 200.0, 20.0).
		AddRow("VCS3", nil, `["forest"]`, nil, nil)

	mock.ExpectQuery("(?s)SELECT .+ FROM project WHERE 1=1").WillReturnRows(rows)

	svc := ChartService{Repo: repositories.ChartRepo{DB: db}}
	got, err := svc.ProjectsByListingDate(context.Background(), ChartQuery{Freq: "Y"})
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows (null bin + 2 years), got %d: %+v", len(got), got)
	}

	// Sorted by bin: the null bin first with no interval.
	if got[0].Start != nil || got[0].End != nil || got[0].Value != 1 {
		t.Fatalf("null bin row wrong: %+v", got[0])
	}
	if got[1].Start != "2020-01-01" || got[1].End != "2020-12-31" || got[1].Value != 1 {
		t.Fatalf("2020 row wrong: %+v", got[1])
	}
	if got[2].Start != "2021-01-01" || got[2].End != "2021-12-31" || got[2].Value != 1 {
		t.Fatalf("2021 row wrong: %+v", got[2])
	}
	if got[1].Category == nil || *got[1].Category != "forest" {
		t.Fatalf("category lost: %+v", got[1])
	}
}

func TestChartServiceRejectsConflictingBinSpec(t *testing.T) {
	svc := ChartService{}
	if _, err := svc.ProjectsByListingDate(context.Background(), ChartQuery{Freq: "Y", NumBins: 4}); err == nil {
		t.Fatalf("expected error for freq together with num_bins")
	}
}

func TestChartServiceProjectsByCreditTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(chartColumns()).
		AddRow("VCS1", nil, `["forest"]`, 5.0, 0.0).
		AddRow("VCS2", nil, `["forest"]`, 47.0, 0.0)

	mock.ExpectQuery("(?s)SELECT .+ FROM project WHERE 1=1").WillReturnRows(rows)

	svc := ChartService{Repo: repositories.ChartRepo{DB: db}}
	got, err := svc.ProjectsByCreditTotals(context.Background(), ChartQuery{BinWidth: 10}, CreditTypeIssued)
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %+v", got)
	}
	if got[0].Start != 0.0 || got[0].End != 10.0 || got[0].Value != 1 {
		t.Fatalf("first bucket wrong: %+v", got[0])
	}
	if got[1].Start != 40.0 || got[1].End != 50.0 || got[1].Value != 1 {
		t.Fatalf("last bucket wrong: %+v", got[1])
	}
}

func TestChartServiceProjectsByCreditTotalsBadCreditType(t *testing.T) {
	svc := ChartService{}
	if _, err := svc.ProjectsByCreditTotals(context.Background(), ChartQuery{}, "bogus"); err == nil {
		t.Fatalf("expected validation error for unknown credit_type")
	}
}

func TestChartServiceCreditsByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(chartColumns()).
		AddRow("VCS1", nil, `["forest","soil"]`, 100.0, 10.0).
		AddRow("VCS2", nil, `["forest"]`, 50.0, 5.0).
		AddRow("VCS3", nil, nil, 7.0, 1.0)

	mock.ExpectQuery("(?s)SELECT .+ FROM project WHERE 1=1").WillReturnRows(rows)

	svc := ChartService{Repo: repositories.ChartRepo{DB: db}}
	got, err := svc.CreditsByCategory(context.Background(), ChartQuery{})
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected uncategorized + 2 categories, got %+v", got)
	}
	if got[0].Category != nil || got[0].Issued != 7 {
		t.Fatalf("uncategorized row wrong: %+v", got[0])
	}
	if *got[1].Category != "forest" || got[1].Issued != 150 || got[1].Retired != 15 {
		t.Fatalf("forest row wrong: %+v", got[1])
	}
	if *got[2].Category != "soil" || got[2].Issued != 100 {
		t.Fatalf("soil row wrong: %+v", got[2])
	}
}
