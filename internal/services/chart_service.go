package services

import (
	"context"
	"sort"
	"time"

	"offsetsdb/internal/binning"
	"offsetsdb/internal/domain"
	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
	"offsetsdb/internal/utils"
)

// ChartQuery is one chart request: the filters scoping the underlying rows
// and the bin specification. Freq carries the wire value (D/W/M/Y); exactly
// one of Freq or NumBins applies to date charts, BinWidth to numeric ones.
type ChartQuery struct {
	Filters      []query.Filter
	Search       string
	SearchFields []query.SearchField
	Threshold    float64
	Freq         string
	NumBins      int
	BinWidth     float64
}

type ChartService struct {
	Repo    repositories.ChartRepo
	Aliases query.AliasExpander
}

// clauses resolves the chart query's filters and search term. Chart search
// always targets the project identifier/name pair, which every chart row
// source joins in.
func (s ChartService) clauses(q ChartQuery) ([]query.Clause, error) {
	clauses, err := query.BuildFilters(q.Filters)
	if err != nil {
		return nil, err
	}
	search, ok, err := query.BuildSearch(q.Search, q.SearchFields, q.Threshold, models.Projects, s.Aliases)
	if err != nil {
		return nil, err
	}
	if ok {
		clauses = append(clauses, search)
	}
	return clauses, nil
}

const (
	CreditTypeIssued  = "issued"
	CreditTypeRetired = "retired"
)

// ProjectsByListingDate counts projects per listing-date bin, grouped by
// category.
func (s ChartService) ProjectsByListingDate(ctx context.Context, q ChartQuery) ([]models.BinnedValue, error) {
	freq, err := dateBinSpec(q)
	if err != nil {
		return nil, err
	}
	clauses, err := s.clauses(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ProjectRows(ctx, clauses)
	if err != nil {
		return nil, err
	}

	dates := make([]*time.Time, len(rows))
	samples := make([]binning.Sample, len(rows))
	for i, r := range rows {
		dates[i] = r.ListedAt
		samples[i] = binning.Sample{Key: r.ProjectID, Categories: r.Category}
	}
	return dateChart(dates, samples, freq, q.NumBins, binning.MetricCount)
}

// CreditsByTransactionDate sums transacted credit quantity per date bin,
// grouped by the issuing project's category.
func (s ChartService) CreditsByTransactionDate(ctx context.Context, q ChartQuery) ([]models.BinnedValue, error) {
	return s.creditsByDate(ctx, q, nil)
}

// CreditsByProjectTransactionDate is the single-project variant.
func (s ChartService) CreditsByProjectTransactionDate(ctx context.Context, projectID string, q ChartQuery) ([]models.BinnedValue, error) {
	scope := &query.Clause{Expr: "credit.project_id = ?", Args: []any{projectID}}
	return s.creditsByDate(ctx, q, scope)
}

func (s ChartService) creditsByDate(ctx context.Context, q ChartQuery, scope *query.Clause) ([]models.BinnedValue, error) {
	freq, err := dateBinSpec(q)
	if err != nil {
		return nil, err
	}
	clauses, err := s.clauses(q)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		clauses = append(clauses, *scope)
	}
	rows, err := s.Repo.CreditRows(ctx, clauses)
	if err != nil {
		return nil, err
	}

	dates := make([]*time.Time, len(rows))
	samples := make([]binning.Sample, len(rows))
	for i, r := range rows {
		dates[i] = r.TransactionDate
		samples[i] = binning.Sample{Value: r.Quantity}
		// The single-project variant reports plain totals per bin.
		if scope == nil {
			samples[i].Categories = r.Category
		}
	}
	return dateChart(dates, samples, freq, q.NumBins, binning.MetricSum)
}

// ProjectsByCreditTotals counts projects per fixed-width bucket of their
// total issued or retired credits.
func (s ChartService) ProjectsByCreditTotals(ctx context.Context, q ChartQuery, creditType string) ([]models.BinnedValue, error) {
	if creditType != CreditTypeIssued && creditType != CreditTypeRetired {
		return nil, domain.ValidationError{Field: "credit_type", Msg: "must be one of [issued, retired]"}
	}
	clauses, err := s.clauses(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ProjectRows(ctx, clauses)
	if err != nil {
		return nil, err
	}

	values := make([]*float64, len(rows))
	samples := make([]binning.Sample, len(rows))
	for i, r := range rows {
		v := r.Issued
		if creditType == CreditTypeRetired {
			v = r.Retired
		}
		values[i] = v
		samples[i] = binning.Sample{Key: r.ProjectID, Categories: r.Category}
	}

	minV, maxV, ok := floatRange(values)
	if !ok {
		return []models.BinnedValue{}, nil
	}
	boundaries := binning.NumericBins(minV, maxV, q.BinWidth)
	for i := range samples {
		if values[i] == nil {
			samples[i].Bin = binning.BinNull
		} else {
			samples[i].Bin = binning.AssignNumeric(boundaries, *values[i])
		}
	}

	out := make([]models.BinnedValue, 0)
	for _, m := range binning.Aggregate(samples, binning.MetricCount) {
		row := models.BinnedValue{Category: m.Category, Value: m.Value}
		if m.Bin >= 0 {
			row.Start = boundaries[m.Bin]
			if m.Bin+1 < len(boundaries) {
				row.End = boundaries[m.Bin+1]
			} else {
				row.End = boundaries[m.Bin]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ProjectsByCategory counts projects per category, no bin dimension.
func (s ChartService) ProjectsByCategory(ctx context.Context, q ChartQuery) ([]models.CategoryCount, error) {
	clauses, err := s.clauses(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ProjectRows(ctx, clauses)
	if err != nil {
		return nil, err
	}

	samples := make([]binning.Sample, len(rows))
	for i, r := range rows {
		samples[i] = binning.Sample{Key: r.ProjectID, Categories: r.Category}
	}
	out := make([]models.CategoryCount, 0)
	for _, m := range binning.Aggregate(samples, binning.MetricCount) {
		out = append(out, models.CategoryCount{Category: m.Category, Value: m.Value})
	}
	return out, nil
}

// CreditsByCategory sums issued and retired credit totals per project
// category.
func (s ChartService) CreditsByCategory(ctx context.Context, q ChartQuery) ([]models.CreditCategoryCount, error) {
	clauses, err := s.clauses(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ProjectRows(ctx, clauses)
	if err != nil {
		return nil, err
	}

	type totals struct{ issued, retired float64 }
	byCategory := map[string]*totals{}
	var uncategorized *totals
	for _, r := range rows {
		add := func(t *totals) {
			if r.Issued != nil {
				t.issued += *r.Issued
			}
			if r.Retired != nil {
				t.retired += *r.Retired
			}
		}
		if len(r.Category) == 0 {
			if uncategorized == nil {
				uncategorized = &totals{}
			}
			add(uncategorized)
			continue
		}
		for _, c := range r.Category {
			if byCategory[c] == nil {
				byCategory[c] = &totals{}
			}
			add(byCategory[c])
		}
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.CreditCategoryCount, 0, len(names)+1)
	if uncategorized != nil {
		out = append(out, models.CreditCategoryCount{Issued: uncategorized.issued, Retired: uncategorized.retired})
	}
	for _, name := range names {
		c := name
		t := byCategory[name]
		out = append(out, models.CreditCategoryCount{Category: &c, Issued: t.issued, Retired: t.retired})
	}
	return out, nil
}

// dateBinSpec validates the mutually exclusive bin parameters and parses
// the frequency when present.
func dateBinSpec(q ChartQuery) (binning.Freq, error) {
	if q.Freq != "" && q.NumBins > 0 {
		return "", domain.ConflictingBinSpec{}
	}
	if q.Freq == "" && q.NumBins <= 0 {
		return "", domain.ValidationError{Field: "freq", Msg: "either freq or num_bins is required"}
	}
	if q.Freq == "" {
		return "", nil
	}
	return binning.ParseFreq(q.Freq)
}

// dateChart assigns each sample's date to a bin, aggregates, and serializes
// the result. Bins that start in the future are dropped; they can only be
// the closing remainder of the final calendar period.
func dateChart(dates []*time.Time, samples []binning.Sample, freq binning.Freq, numBins int, metric binning.Metric) ([]models.BinnedValue, error) {
	minT, maxT, ok := dateRange(dates)

	var bins []binning.Interval
	if ok {
		var err error
		bins, err = binning.DateBins(minT, maxT, freq, numBins)
		if err != nil {
			return nil, err
		}
	}

	for i := range samples {
		if dates[i] == nil {
			samples[i].Bin = binning.BinNull
		} else {
			samples[i].Bin = binning.AssignDate(bins, *dates[i])
		}
	}

	now := utils.NowUTC()
	out := make([]models.BinnedValue, 0)
	for _, m := range binning.Aggregate(samples, metric) {
		row := models.BinnedValue{Category: m.Category, Value: m.Value}
		if m.Bin >= 0 {
			start := bins[m.Bin].Start
			if start.After(now) {
				continue
			}
			end := bins[m.Bin].End
			if freq != "" {
				end = binning.PeriodEnd(start, freq)
			}
			row.Start = utils.FormatDate(start)
			row.End = utils.FormatDate(end)
		}
		out = append(out, row)
	}
	return out, nil
}

func dateRange(dates []*time.Time) (time.Time, time.Time, bool) {
	var minT, maxT time.Time
	found := false
	for _, d := range dates {
		if d == nil {
			continue
		}
		if !found || d.Before(minT) {
			minT = *d
		}
		if !found || d.After(maxT) {
			maxT = *d
		}
		found = true
	}
	return minT, maxT, found
}

func floatRange(values []*float64) (float64, float64, bool) {
	var minV, maxV float64
	found := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if !found || *v < minV {
			minV = *v
		}
		if !found || *v > maxV {
			maxV = *v
		}
		found = true
	}
	return minV, maxV, found
}
