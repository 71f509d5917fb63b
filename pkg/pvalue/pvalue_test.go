package pvalue

import (
	"math"
	"testing"
)

func TestSidakBounds(t *testing.T) {
	if p := Sidak(0, 10); p != 0 {
		t.Fatalf("raw p=0 should give corrected p=0, got %v", p)
	}
	if p := Sidak(1, 10); p != 1 {
		t.Fatalf("raw p=1 should give corrected p=1, got %v", p)
	}
}

func TestSidakMonotonicInAlignments(t *testing.T) {
	p1 := Sidak(0.01, 1)
	p2 := Sidak(0.01, 10)
	if p2 < p1 {
		t.Fatalf("more alignments should not decrease corrected p: %v vs %v", p1, p2)
	}
}

func TestSidakMatchesDirectFormula(t *testing.T) {
	raw := 0.02
	n := 5
	want := 1 - math.Pow(1-raw, float64(n))
	got := Sidak(raw, n)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}
