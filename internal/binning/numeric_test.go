package binning

import "testing"

func TestNumericBinsDerivedWidth(t *testing.T) {
	// Range 42 has magnitude 1, so the derived width is 10^0 = 1.
	bins := NumericBins(5, 47, 0)
	if bins[0] != 5 || bins[len(bins)-1] != 47 {
		t.Fatalf("span = [%v, %v], want [5, 47]", bins[0], bins[len(bins)-1])
	}
	if len(bins) != 43 {
		t.Fatalf("expected 43 boundaries, got %d", len(bins))
	}
}

func TestNumericBinsRoundsToWidthMultiples(t *testing.T) {
	// Range 899 has magnitude 2, so width 10: 100 stays, 999 rounds to 1000.
	bins := NumericBins(100, 999, 0)
	if bins[0] != 100 || bins[len(bins)-1] != 1000 {
		t.Fatalf("span = [%v, %v], want [100, 1000]", bins[0], bins[len(bins)-1])
	}
	if bins[1]-bins[0] != 10 {
		t.Fatalf("width = %v, want 10", bins[1]-bins[0])
	}
}

func TestNumericBinsWidthClampedToOne(t *testing.T) {
	// A sub-decade range would derive a fractional width; it clamps to 1.
	bins := NumericBins(1, 5, 0)
	if bins[1]-bins[0] != 1 {
		t.Fatalf("width = %v, want 1", bins[1]-bins[0])
	}
	if len(bins) != 5 {
		t.Fatalf("expected boundaries 1..5, got %v", bins)
	}
}

func TestNumericBinsExplicitWidth(t *testing.T) {
	bins := NumericBins(12, 38, 10)
	want := []float64{10, 20, 30, 40}
	if len(bins) != len(want) {
		t.Fatalf("bins = %v, want %v", bins, want)
	}
	for i := range want {
		if bins[i] != want[i] {
			t.Fatalf("bins = %v, want %v", bins, want)
		}
	}
}

func TestNumericBinsDegenerate(t *testing.T) {
	bins := NumericBins(7, 7, 0)
	if len(bins) != 1 || bins[0] != 7 {
		t.Fatalf("bins = %v, want [7]", bins)
	}
	if AssignNumeric(bins, 7) != 0 {
		t.Fatalf("value should land in its own bin")
	}
	if AssignNumeric(bins, 8) != BinOther {
		t.Fatalf("other value should miss the degenerate bin")
	}
}

func TestAssignNumericRightOpenWithLastBoundaryFold(t *testing.T) {
	bins := []float64{0, 10, 20, 30}
	cases := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{9.99, 0},
		{10, 1},
		{29.99, 2},
		{30, 2}, // exactly the last boundary folds into the final bin
		{31, BinOther},
		{-1, BinOther},
	}
	for _, c := range cases {
		if got := AssignNumeric(bins, c.v); got != c.want {
			t.Fatalf("AssignNumeric(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}
