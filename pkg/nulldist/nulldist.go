// Package nulldist builds, per query, the null distribution of gapless
// alignment scores against a target database: a per-column score
// histogram, convolved across alignment lengths into a per-overlap-length
// score distribution, with median-bin rebinning to bound memory.
package nulldist

import (
	"errors"

	"github.com/jmschrei/memesuite-lite/pkg/colscore"
	"github.com/jmschrei/memesuite-lite/pkg/numeric"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidParameter is returned for a non-positive n_median_bins.
var ErrInvalidParameter = errors.New("nulldist: n_median_bins must be positive")

// ColumnHistograms builds H_q[j][b]: the probability, for each query
// column j, that a random target column quantizes to score bin b, pooled
// over every column of every target in the database.
func ColumnHistograms(q pwm.Matrix, targets []pwm.Matrix, quant *colscore.Quantizer) [][]float64 {
	nCols := 0
	for _, t := range targets {
		nCols += t.Len()
	}

	dist := make([][]float64, q.Len())
	for j, qCol := range q {
		counts := make([]float64, quant.NBins)
		for _, t := range targets {
			for _, tCol := range t {
				b := quant.Quantize(colscore.Column(qCol, tCol))
				counts[b]++
			}
		}
		if nCols > 0 {
			floats.Scale(1/float64(nCols), counts)
		}
		dist[j] = counts
	}
	return dist
}

// PerLength holds the null for one overlap length L: the cumulative upper
// tail C_q[L,k] = P(sum >= k), in a possibly rebinned grid, plus the
// number of raw integer score units each grid slot represents.
type PerLength struct {
	Tail         []float64
	UnitsPerSlot float64
}

// Null is the full per-query null: one PerLength per overlap length
// 1..len(ColDist).
type Null struct {
	ColDist     [][]float64
	MaxBin      int
	NMedianBins int
	ByLength    []PerLength // index 0 unused, 1..Lq valid
}

// Build constructs the null for every overlap length 1..len(colDist),
// using the averaged-window convolution rule: for a given L, every
// contiguous window of length L in the query is convolved separately and
// the resulting distributions are averaged, yielding one
// position-independent null per L.
func Build(colDist [][]float64, maxBin, nMedianBins int) (*Null, error) {
	if nMedianBins <= 0 {
		return nil, ErrInvalidParameter
	}

	lq := len(colDist)
	n := &Null{ColDist: colDist, MaxBin: maxBin, NMedianBins: nMedianBins, ByLength: make([]PerLength, lq+1)}

	for l := 1; l <= lq; l++ {
		n.ByLength[l] = buildForLength(colDist, l, nMedianBins)
	}
	return n, nil
}

func buildForLength(colDist [][]float64, l, nMedianBins int) PerLength {
	nWindows := len(colDist) - l + 1

	var sum []float64
	unitsPerSlot := 1.0

	for s := 0; s < nWindows; s++ {
		dist, units := convolveWindow(colDist[s:s+l], nMedianBins)
		if sum == nil {
			sum = dist
			unitsPerSlot = units
		} else {
			// All windows of the same length grow through the same sequence
			// of convolution/rebin steps, so they share a length and scale.
			for i := range sum {
				sum[i] += dist[i]
			}
		}
	}
	if nWindows > 0 {
		floats.Scale(1/float64(nWindows), sum)
	}

	return PerLength{Tail: cumulativeUpperTail(sum), UnitsPerSlot: unitsPerSlot}
}

// convolveWindow convolves the column distributions of one contiguous
// window, rebinning into nMedianBins slots whenever the running
// distribution would otherwise exceed that size. It returns the resulting
// distribution and the number of raw score units each of its slots
// represents.
func convolveWindow(window [][]float64, nMedianBins int) ([]float64, float64) {
	dist := append([]float64(nil), window[0]...)
	unitsPerSlot := 1.0

	for _, next := range window[1:] {
		dist = convolve(dist, next)
		if len(dist) > nMedianBins {
			rebinned, ratio := rebin(dist, nMedianBins)
			dist = rebinned
			unitsPerSlot *= ratio
		}
	}
	return dist, unitsPerSlot
}

// convolve computes the discrete convolution (polynomial multiplication)
// of two probability vectors.
func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// rebin compresses dist into at most target equal-width super-bins,
// preserving total probability mass. It returns the compressed
// distribution and the ratio of new-slot-width to old-slot-width, so a
// caller tracking cumulative slot width can fold it in.
func rebin(dist []float64, target int) ([]float64, float64) {
	if len(dist) <= target {
		return dist, 1
	}
	ratio := float64(len(dist)) / float64(target)
	out := make([]float64, target)
	for i, p := range dist {
		j := int(float64(i) / ratio)
		if j >= target {
			j = target - 1
		}
		out[j] += p
	}
	return out, ratio
}

// cumulativeUpperTail turns a probability vector into C[k] = Σ_{k'≥k} p[k'].
func cumulativeUpperTail(dist []float64) []float64 {
	out := make([]float64, len(dist))
	running := 0.0
	for i := len(dist) - 1; i >= 0; i-- {
		running += dist[i]
		out[i] = running
	}
	return out
}

// Tail returns the upper-tail probability of an observed raw integer score
// sum S for overlap length L.
func (n *Null) Tail(length, score int) float64 {
	pl := n.ByLength[length]
	if len(pl.Tail) == 0 {
		return 1
	}
	idx := numeric.Clamp(int(float64(score)/pl.UnitsPerSlot), 0, len(pl.Tail)-1)
	return pl.Tail[idx]
}
