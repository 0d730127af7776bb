package binning

import "sort"

// Metric selects the per-group reduction.
type Metric int

const (
	MetricCount Metric = iota
	MetricSum
)

// Sample is one record prepared for aggregation: the bin it was assigned to
// (possibly BinNull/BinOther), the categories it belongs to, an identity key
// for distinct counting, and an optional numeric value for sums.
type Sample struct {
	Key        string
	Bin        int
	Categories []string
	Value      *float64
}

// BinnedMetric is one (bin, category) aggregate.
type BinnedMetric struct {
	Bin      int
	Category *string
	Value    float64
}

type groupKey struct {
	bin      int
	category string
	hasCat   bool
}

// Aggregate groups samples by (bin, category) and reduces each group.
// A sample with several categories contributes fully to every one of them;
// the fan-out is intentional, so per-category totals may overlap. Sums skip
// samples with no value rather than treating them as zero. Output is sorted
// by (bin, category) so identical input always yields identical output,
// though callers must not rely on any particular order.
func Aggregate(samples []Sample, metric Metric) []BinnedMetric {
	totals := map[groupKey]float64{}
	seen := map[groupKey]map[string]struct{}{}

	add := func(k groupKey, s Sample) {
		switch metric {
		case MetricSum:
			if s.Value == nil {
				return
			}
			totals[k] += *s.Value
		default:
			if s.Key == "" {
				totals[k]++
				return
			}
			if seen[k] == nil {
				seen[k] = map[string]struct{}{}
			}
			if _, dup := seen[k][s.Key]; dup {
				return
			}
			seen[k][s.Key] = struct{}{}
			totals[k]++
		}
	}

	for _, s := range samples {
		if len(s.Categories) == 0 {
			add(groupKey{bin: s.Bin}, s)
			continue
		}
		for _, c := range s.Categories {
			add(groupKey{bin: s.Bin, category: c, hasCat: true}, s)
		}
	}

	out := make([]BinnedMetric, 0, len(totals))
	for k, v := range totals {
		m := BinnedMetric{Bin: k.bin, Value: v}
		if k.hasCat {
			c := k.category
			m.Category = &c
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bin != out[j].Bin {
			return out[i].Bin < out[j].Bin
		}
		ci, cj := "", ""
		if out[i].Category != nil {
			ci = *out[i].Category
		}
		if out[j].Category != nil {
			cj = *out[j].Category
		}
		return ci < cj
	})
	return out
}
