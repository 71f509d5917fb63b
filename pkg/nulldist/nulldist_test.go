package nulldist

import (
	"math"
	"testing"

	"github.com/jmschrei/memesuite-lite/pkg/colscore"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
)

func oneHot(seq string) pwm.Matrix {
	idx := map[byte]int{'A': pwm.A, 'C': pwm.C, 'G': pwm.G, 'T': pwm.T}
	m := make(pwm.Matrix, len(seq))
	for i := 0; i < len(seq); i++ {
		m[i][idx[seq[i]]] = 1
	}
	return m
}

func TestRowsSumToOne(t *testing.T) {
	q := oneHot("ACGT")
	targets := []pwm.Matrix{oneHot("ACGT"), oneHot("TTAAAATT"), oneHot("GGGG")}

	quant, err := colscore.BuildQueryQuantizer(q, targets, 10)
	if err != nil {
		t.Fatal(err)
	}

	hist := ColumnHistograms(q, targets, quant)
	for j, row := range hist {
		var sum float64
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("column %d histogram sums to %v, want 1", j, sum)
		}
	}
}

func TestNullRowsSumToOne(t *testing.T) {
	q := oneHot("ACGT")
	targets := []pwm.Matrix{oneHot("ACGT"), oneHot("TTAAAATT"), oneHot("GGGG")}

	quant, err := colscore.BuildQueryQuantizer(q, targets, 10)
	if err != nil {
		t.Fatal(err)
	}
	hist := ColumnHistograms(q, targets, quant)

	null, err := Build(hist, quant.MaxBin(), 1000)
	if err != nil {
		t.Fatal(err)
	}

	for l := 1; l <= q.Len(); l++ {
		tail := null.ByLength[l].Tail
		if len(tail) == 0 {
			t.Fatalf("length %d: empty tail", l)
		}
		// tail[0] is the total probability mass and must be ~1.
		if math.Abs(tail[0]-1) > 1e-9 {
			t.Fatalf("length %d: tail[0] = %v, want 1", l, tail[0])
		}
		// Tail must be non-increasing.
		for i := 1; i < len(tail); i++ {
			if tail[i] > tail[i-1]+1e-12 {
				t.Fatalf("length %d: tail not monotone at %d: %v > %v", l, i, tail[i], tail[i-1])
			}
		}
	}
}

func TestRebinBoundsLength(t *testing.T) {
	dist := make([]float64, 500)
	for i := range dist {
		dist[i] = 1.0 / 500
	}
	out, ratio := rebin(dist, 100)
	if len(out) != 100 {
		t.Fatalf("expected 100 bins, got %d", len(out))
	}
	if ratio != 5 {
		t.Fatalf("expected ratio 5, got %v", ratio)
	}
	var sum float64
	for _, p := range out {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("mass not preserved: %v", sum)
	}
}
