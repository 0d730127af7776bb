// Package binning buckets continuous attributes into calendar-aligned or
// fixed-width intervals and aggregates category-grouped metrics per bucket.
package binning

import (
	"time"

	"offsetsdb/internal/domain"
)

// Freq is a calendar bin frequency.
type Freq string

const (
	FreqDay   Freq = "day"
	FreqWeek  Freq = "week"
	FreqMonth Freq = "month"
	FreqYear  Freq = "year"
)

// ParseFreq maps the wire values D/W/M/Y.
func ParseFreq(s string) (Freq, error) {
	switch s {
	case "D":
		return FreqDay, nil
	case "W":
		return FreqWeek, nil
	case "M":
		return FreqMonth, nil
	case "Y":
		return FreqYear, nil
	default:
		return "", domain.ValidationError{Field: "freq", Msg: "must be one of [D, W, M, Y]"}
	}
}

// Interval is one date bin: Start inclusive, End exclusive.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Reserved assignment results: records with a null binning attribute land in
// the "null" bin, records outside every interval in "other". Neither appears
// in the chronological sequence.
const (
	BinOther = -1
	BinNull  = -2
)

// DateBins generates contiguous, non-overlapping intervals covering
// [min, max]. Exactly one of freq or numBins selects the mode: frequency
// bins are calendar-aligned and the final bin runs to the end of its
// calendar period rather than stopping at max; count-mode bins are
// equal-width with midnight-normalized boundaries.
func DateBins(min, max time.Time, freq Freq, numBins int) ([]Interval, error) {
	if freq != "" && numBins > 0 {
		return nil, domain.ConflictingBinSpec{}
	}
	if freq == "" && numBins <= 0 {
		return nil, domain.ValidationError{Field: "freq", Msg: "either freq or num_bins is required"}
	}
	if max.Before(min) {
		min, max = max, min
	}
	if min.Equal(max) {
		return []Interval{{Start: min, End: min}}, nil
	}

	if numBins > 0 {
		return countBins(min, max, numBins), nil
	}
	return frequencyBins(min, max, freq), nil
}

func frequencyBins(min, max time.Time, freq Freq) []Interval {
	start := alignStart(min, freq)
	var boundaries []time.Time
	for b := start; !b.After(max); b = step(b, freq) {
		boundaries = append(boundaries, b)
	}
	// One step past max closes the last calendar period instead of
	// truncating it at max.
	boundaries = append(boundaries, step(boundaries[len(boundaries)-1], freq))

	return pair(boundaries)
}

func countBins(min, max time.Time, numBins int) []Interval {
	width := max.Sub(min) / time.Duration(numBins)
	boundaries := make([]time.Time, 0, numBins+1)
	for i := 0; i <= numBins; i++ {
		boundaries = append(boundaries, midnight(min.Add(time.Duration(i)*width)))
	}
	// Normalization can collapse neighbors when the range is shorter than
	// the bin count in days.
	deduped := boundaries[:1]
	for _, b := range boundaries[1:] {
		if b.After(deduped[len(deduped)-1]) {
			deduped = append(deduped, b)
		}
	}
	// Keep max interior to the span.
	if last := deduped[len(deduped)-1]; !max.Before(last) {
		deduped = append(deduped[:len(deduped)-1], midnight(max).AddDate(0, 0, 1))
	}
	return pair(deduped)
}

func pair(boundaries []time.Time) []Interval {
	bins := make([]Interval, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		bins = append(bins, Interval{Start: boundaries[i], End: boundaries[i+1]})
	}
	return bins
}

// AssignDate returns the index of the interval containing t, BinOther when
// t falls outside every interval. The single degenerate bin [v, v] contains
// exactly v.
func AssignDate(bins []Interval, t time.Time) int {
	for i, b := range bins {
		if b.Start.Equal(b.End) {
			if t.Equal(b.Start) {
				return i
			}
			continue
		}
		if !t.Before(b.Start) && t.Before(b.End) {
			return i
		}
	}
	return BinOther
}

// PeriodEnd is the serialized end date for a bin starting at start: the last
// day of the month/year for those frequencies, the next natural boundary for
// days and weeks.
func PeriodEnd(start time.Time, freq Freq) time.Time {
	end := step(start, freq)
	if freq == FreqMonth || freq == FreqYear {
		end = end.AddDate(0, 0, -1)
	}
	return end
}

func alignStart(t time.Time, freq Freq) time.Time {
	t = midnight(t)
	switch freq {
	case FreqWeek:
		// ISO weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset)
	case FreqMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case FreqYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

func step(t time.Time, freq Freq) time.Time {
	switch freq {
	case FreqWeek:
		return t.AddDate(0, 0, 7)
	case FreqMonth:
		return t.AddDate(0, 1, 0)
	case FreqYear:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
