// Package colscore implements the column score and its quantization into a
// small integer range, shared by the null-distribution engine and the
// alignment scorer so that observed scores and null scores are always
// computed on the same bin edges.
package colscore

import (
	"errors"

	"github.com/jmschrei/memesuite-lite/pkg/numeric"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidParameter is returned when a non-positive bin count is supplied.
var ErrInvalidParameter = errors.New("colscore: n_score_bins must be positive")

// Column scores a single query column against a single target column as
// the bilinear (Pearson-like) inner product Σ_a q[a]·t[a].
func Column(q, t [4]float64) float64 {
	return q[0]*t[0] + q[1]*t[1] + q[2]*t[2] + q[3]*t[3]
}

// Quantizer maps real column scores to integers in [0, NBins) using fixed,
// equal-width bins spanning [Min, Max]. A Quantizer built for one query
// must be reused for every observed score and every null histogram entry
// computed against that query — the calibration in pkg/pvalue depends on
// this symmetry.
type Quantizer struct {
	Min, Max float64
	NBins    int
	// Degenerate is true when Max == Min across the scored database; every
	// score then quantizes to bin 0 rather than dividing by zero.
	Degenerate bool
}

// NewQuantizer builds a Quantizer from the observed min/max column scores.
func NewQuantizer(min, max float64, nBins int) (*Quantizer, error) {
	if nBins <= 0 {
		return nil, ErrInvalidParameter
	}
	return &Quantizer{Min: min, Max: max, NBins: nBins, Degenerate: max == min}, nil
}

// Quantize maps a real score to an integer bin index, clamped to
// [0, NBins-1]. Values at the upper bound fall into the last bin.
func (q *Quantizer) Quantize(s float64) int {
	if q.Degenerate {
		return 0
	}
	b := int((s - q.Min) * float64(q.NBins) / (q.Max - q.Min))
	return numeric.Clamp(b, 0, q.NBins-1)
}

// MaxBin is the highest quantized score a column can take, B_s - 1.
func (q *Quantizer) MaxBin() int {
	return q.NBins - 1
}

// BuildQueryQuantizer computes a single Quantizer shared across every
// column of the query by pooling column scores across all query and
// target columns.
func BuildQueryQuantizer(q pwm.Matrix, targets []pwm.Matrix, nBins int) (*Quantizer, error) {
	var all []float64
	for _, qCol := range q {
		all = append(all, collectColumnScores(qCol, targets)...)
	}
	if len(all) == 0 {
		return NewQuantizer(0, 0, nBins)
	}
	min, max := floats.Min(all), floats.Max(all)
	return NewQuantizer(min, max, nBins)
}

func collectColumnScores(qCol [4]float64, targets []pwm.Matrix) []float64 {
	n := 0
	for _, t := range targets {
		n += t.Len()
	}
	out := make([]float64, 0, n)
	for _, t := range targets {
		for _, tCol := range t {
			out = append(out, Column(qCol, tCol))
		}
	}
	return out
}
