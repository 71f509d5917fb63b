package tomtom

import (
	"context"
	"testing"

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

func TestRunRejectsEmptyInput(t *testing.T) {
	_, err := Run(context.Background(), nil, []pwm.Matrix{oneHot("ACGT")}, DefaultOptions())
	if err != ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestRunRejectsInvalidShape(t *testing.T) {
	_, err := Run(context.Background(), []pwm.Matrix{{}}, []pwm.Matrix{oneHot("ACGT")}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an empty-column PWM")
	}
}

func TestRunIdentity(t *testing.T) {
	q := []pwm.Matrix{oneHot("ACGT")}
	targets := []pwm.Matrix{oneHot("ACGT"), oneHot("TTTT"), oneHot("GGGG")}

	res, err := Run(context.Background(), q, targets, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if res.Offsets[0][0] != 0 || res.Overlaps[0][0] != 4 || res.Strands[0][0] != 0 {
		t.Fatalf("identity row: offset=%d overlap=%d strand=%d", res.Offsets[0][0], res.Overlaps[0][0], res.Strands[0][0])
	}

	// Self-identity: the diagonal p-value is the smallest (or tied) in its row.
	for j, p := range res.P[0] {
		if p < res.P[0][0]-1e-12 && j != 0 {
			t.Fatalf("target %d beats self-identity: %v < %v", j, p, res.P[0][0])
		}
	}
}

func TestRunPValuesInRange(t *testing.T) {
	queries := []pwm.Matrix{oneHot("ACGT"), oneHot("AAAA")}
	targets := []pwm.Matrix{oneHot("ACGT"), oneHot("TTAAAATT"), oneHot("GGGG")}

	res, err := Run(context.Background(), queries, targets, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	for i, row := range res.P {
		for j, p := range row {
			if p < 0 || p > 1 {
				t.Fatalf("p[%d][%d] = %v out of range", i, j, p)
			}
			if res.Overlaps[i][j] < 1 {
				t.Fatalf("overlap[%d][%d] = %d < 1", i, j, res.Overlaps[i][j])
			}
			lq, lt := queries[i].Len(), targets[j].Len()
			if res.Offsets[i][j] < -(lq-1) || res.Offsets[i][j] > lt-1 {
				t.Fatalf("offset[%d][%d] = %d out of range", i, j, res.Offsets[i][j])
			}
		}
	}
}

func TestRunTopKMatchesFullMode(t *testing.T) {
	queries := []pwm.Matrix{oneHot("ACGTAC")}
	targets := []pwm.Matrix{
		oneHot("ACGTAC"),
		oneHot("TTTTTT"),
		oneHot("GGACGT"),
		oneHot("AAACGG"),
	}

	full, err := Run(context.Background(), queries, targets, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	k := len(targets)
	opts := DefaultOptions()
	opts.NNearest = &k
	topk, err := Run(context.Background(), queries, targets, opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(topk.Idxs[0]) != len(targets) {
		t.Fatalf("expected %d rows, got %d", len(targets), len(topk.Idxs[0]))
	}
	for rank, ti := range topk.Idxs[0] {
		if topk.P[0][rank] != full.P[0][ti] {
			t.Fatalf("rank %d (target %d): top-K p=%v, full p=%v", rank, ti, topk.P[0][rank], full.P[0][ti])
		}
	}
}

func TestRunOverhang(t *testing.T) {
	queries := []pwm.Matrix{oneHot("AAAA")}
	targets := []pwm.Matrix{oneHot("TTAAAATT")}
	opts := DefaultOptions()
	opts.ReverseComplement = false

	res, err := Run(context.Background(), queries, targets, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Offsets[0][0] != 2 || res.Overlaps[0][0] != 4 {
		t.Fatalf("expected offset 2 overlap 4, got offset=%d overlap=%d", res.Offsets[0][0], res.Overlaps[0][0])
	}
}

func TestRunRejectsNonPositiveParameter(t *testing.T) {
	opts := DefaultOptions()
	opts.NScoreBins = -1
	_, err := Run(context.Background(), []pwm.Matrix{oneHot("ACGT")}, []pwm.Matrix{oneHot("ACGT")}, opts)
	if err != ErrInvalidParameter {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
