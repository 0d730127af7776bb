package binning

import (
	"errors"
	"testing"
	"time"

	"offsetsdb/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFreq(t *testing.T) {
	cases := map[string]Freq{"D": FreqDay, "W": FreqWeek, "M": FreqMonth, "Y": FreqYear}
	for wire, want := range cases {
		got, err := ParseFreq(wire)
		if err != nil || got != want {
			t.Fatalf("ParseFreq(%q) = %v, %v", wire, got, err)
		}
	}
	if _, err := ParseFreq("Q"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for Q, got %v", err)
	}
}

func TestDateBinsRejectsConflictingSpec(t *testing.T) {
	_, err := DateBins(day(2020, 1, 1), day(2021, 1, 1), FreqYear, 4)
	var binErr domain.ConflictingBinSpec
	if !errors.As(err, &binErr) {
		t.Fatalf("expected ConflictingBinSpec, got %v", err)
	}

	if _, err := DateBins(day(2020, 1, 1), day(2021, 1, 1), "", 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error when neither spec given, got %v", err)
	}
}

func TestDateBinsMonthlyCalendarAligned(t *testing.T) {
	bins, err := DateBins(day(2020, 3, 15), day(2020, 5, 10), FreqMonth, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Aligned to month starts; the last period closes at the next month
	// boundary instead of truncating at max.
	want := []Interval{
		{Start: day(2020, 3, 1), End: day(2020, 4, 1)},
		{Start: day(2020, 4, 1), End: day(2020, 5, 1)},
		{Start: day(2020, 5, 1), End: day(2020, 6, 1)},
	}
	if len(bins) != len(want) {
		t.Fatalf("expected %d bins, got %d: %v", len(want), len(bins), bins)
	}
	for i := range want {
		if !bins[i].Start.Equal(want[i].Start) || !bins[i].End.Equal(want[i].End) {
			t.Fatalf("bin %d = %v, want %v", i, bins[i], want[i])
		}
	}
	// Both extremes land inside the span.
	if AssignDate(bins, day(2020, 3, 15)) != 0 {
		t.Fatalf("min not in first bin")
	}
	if AssignDate(bins, day(2020, 5, 10)) != 2 {
		t.Fatalf("max not in last bin")
	}
}

func TestDateBinsWeeklyStartsOnMonday(t *testing.T) {
	// 2024-01-03 is a Wednesday; the first bin must open on Monday the 1st.
	bins, err := DateBins(day(2024, 1, 3), day(2024, 1, 20), FreqWeek, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bins[0].Start.Equal(day(2024, 1, 1)) {
		t.Fatalf("first bin starts %v, want Monday 2024-01-01", bins[0].Start)
	}
	for _, b := range bins {
		if b.Start.Weekday() != time.Monday {
			t.Fatalf("bin start %v is not a Monday", b.Start)
		}
		if b.End.Sub(b.Start) != 7*24*time.Hour {
			t.Fatalf("bin %v is not one week wide", b)
		}
	}
}

func TestDateBinsYearly(t *testing.T) {
	bins, err := DateBins(day(2019, 6, 1), day(2021, 2, 1), FreqYear, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 3 {
		t.Fatalf("expected 3 yearly bins, got %d: %v", len(bins), bins)
	}
	if !bins[0].Start.Equal(day(2019, 1, 1)) || !bins[2].End.Equal(day(2022, 1, 1)) {
		t.Fatalf("span wrong: %v", bins)
	}
}

func TestDateBinsCountModeCoversMax(t *testing.T) {
	bins, err := DateBins(day(2020, 1, 1), day(2020, 1, 10), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 3 {
		t.Fatalf("expected 3 bins, got %d: %v", len(bins), bins)
	}
	// Contiguous and non-overlapping.
	for i := 1; i < len(bins); i++ {
		if !bins[i].Start.Equal(bins[i-1].End) {
			t.Fatalf("gap between bin %d and %d: %v", i-1, i, bins)
		}
	}
	if got := AssignDate(bins, day(2020, 1, 10)); got != 2 {
		t.Fatalf("max assigned to bin %d, want last", got)
	}
	if got := AssignDate(bins, day(2020, 1, 1)); got != 0 {
		t.Fatalf("min assigned to bin %d, want first", got)
	}
}

func TestDateBinsDegenerateRange(t *testing.T) {
	v := day(2020, 7, 4)
	bins, err := DateBins(v, v, FreqMonth, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 1 || !bins[0].Start.Equal(v) || !bins[0].End.Equal(v) {
		t.Fatalf("degenerate bins = %v", bins)
	}
	if AssignDate(bins, v) != 0 {
		t.Fatalf("value should land in its own bin")
	}
	if AssignDate(bins, v.AddDate(0, 0, 1)) != BinOther {
		t.Fatalf("other value should not match the degenerate bin")
	}
}

func TestDateBinsSwapsReversedRange(t *testing.T) {
	bins, err := DateBins(day(2021, 1, 1), day(2020, 1, 1), FreqYear, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bins[0].Start.Equal(day(2020, 1, 1)) {
		t.Fatalf("range not swapped: %v", bins)
	}
}

func TestAssignDateOutsideSpan(t *testing.T) {
	bins, err := DateBins(day(2020, 1, 1), day(2020, 12, 1), FreqYear, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if AssignDate(bins, day(2019, 12, 31)) != BinOther {
		t.Fatalf("date before span should be other")
	}
	if AssignDate(bins, day(2022, 1, 1)) != BinOther {
		t.Fatalf("date after span should be other")
	}
}

func TestPeriodEnd(t *testing.T) {
	cases := []struct {
		start time.Time
		freq  Freq
		want  time.Time
	}{
		{day(2020, 3, 1), FreqMonth, day(2020, 3, 31)},
		{day(2020, 2, 1), FreqMonth, day(2020, 2, 29)},
		{day(2020, 1, 1), FreqYear, day(2020, 12, 31)},
		{day(2024, 1, 1), FreqWeek, day(2024, 1, 8)},
		{day(2024, 1, 1), FreqDay, day(2024, 1, 2)},
	}
	for _, c := range cases {
		if got := PeriodEnd(c.start, c.freq); !got.Equal(c.want) {
			t.Fatalf("PeriodEnd(%v, %s) = %v, want %v", c.start, c.freq, got, c.want)
		}
	}
}
