// Package bucket implements the approximate top-K target selector: targets
// are grouped into buckets by a cheap signature, buckets are visited in
// order of optimistic score bound, and whole buckets are pruned once they
// cannot possibly beat the running K-th-best p-value.
package bucket

import (
	"errors"
	"sort"

	"github.com/jmschrei/memesuite-lite/pkg/align"
	"github.com/jmschrei/memesuite-lite/pkg/colscore"
	"github.com/jmschrei/memesuite-lite/pkg/nulldist"
	"github.com/jmschrei/memesuite-lite/pkg/pvalue"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
)

// ErrInvalidParameter is returned for a non-positive n_target_bins.
var ErrInvalidParameter = errors.New("bucket: n_target_bins must be positive")

// Match is one row of the top-K output: the p-value-ranked result of a
// (query, target) comparison.
type Match struct {
	TargetIndex int
	P           float64
	Score       int
	Offset      int
	Overlap     int
	Strand      align.Strand
}

// Index groups targets into approximate buckets by the quantized mean
// column-score profile against a fixed reference column (the mean column
// across the whole target database), so that targets likely to score
// similarly against any query tend to land in the same bucket.
type Index struct {
	bucketOf   []int
	ceilingRaw []float64 // per bucket, the highest raw mean column score observed
	maxLen     []int     // per bucket, the longest target length observed
	members    [][]int   // per bucket, target indices
}

// NewIndex builds a bucket Index over targets.
func NewIndex(targets []pwm.Matrix, nBuckets int) (*Index, error) {
	if nBuckets <= 0 {
		return nil, ErrInvalidParameter
	}

	ref := referenceColumn(targets)
	meanScore := make([]float64, len(targets))
	for i, t := range targets {
		meanScore[i] = meanColumnScore(ref, t)
	}

	min, max := meanScore[0], meanScore[0]
	for _, s := range meanScore {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	quant, err := colscore.NewQuantizer(min, max, nBuckets)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		bucketOf:   make([]int, len(targets)),
		ceilingRaw: make([]float64, nBuckets),
		maxLen:     make([]int, nBuckets),
		members:    make([][]int, nBuckets),
	}
	for i := range idx.ceilingRaw {
		idx.ceilingRaw[i] = min // will be raised below
	}
	for i, t := range targets {
		b := quant.Quantize(meanScore[i])
		idx.bucketOf[i] = b
		idx.members[b] = append(idx.members[b], i)
		if meanScore[i] > idx.ceilingRaw[b] {
			idx.ceilingRaw[b] = meanScore[i]
		}
		if t.Len() > idx.maxLen[b] {
			idx.maxLen[b] = t.Len()
		}
	}
	return idx, nil
}

func referenceColumn(targets []pwm.Matrix) [4]float64 {
	var sum [4]float64
	n := 0
	for _, t := range targets {
		for _, col := range t {
			sum[0] += col[0]
			sum[1] += col[1]
			sum[2] += col[2]
			sum[3] += col[3]
			n++
		}
	}
	if n == 0 {
		return sum
	}
	return [4]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n), sum[3] / float64(n)}
}

func meanColumnScore(ref [4]float64, t pwm.Matrix) float64 {
	if t.Len() == 0 {
		return 0
	}
	var sum float64
	for _, col := range t {
		sum += colscore.Column(ref, col)
	}
	return sum / float64(t.Len())
}

// orderedBuckets returns non-empty bucket ids sorted by descending
// optimistic ceiling, so the most promising buckets are visited first.
func (idx *Index) orderedBuckets() []int {
	order := make([]int, 0, len(idx.members))
	for b, members := range idx.members {
		if len(members) > 0 {
			order = append(order, b)
		}
	}
	sort.Slice(order, func(i, j int) bool { return idx.ceilingRaw[order[i]] > idx.ceilingRaw[order[j]] })
	return order
}

// TopK computes the K smallest p-values between query and the indexed
// targets, pruning buckets whose optimistic bound cannot beat the current
// K-th best. It always returns min(k, len(targets)) matches, sorted
// ascending by p. Because the bucket bound is approximate, this is "K
// nearest with high probability" rather than an exact top-K; callers
// that need exactness omit bucketing entirely and score every target.
func TopK(query pwm.Matrix, targets []pwm.Matrix, idx *Index, quant *colscore.Quantizer, null *nulldist.Null, k int, rc bool) []Match {
	if k > len(targets) {
		k = len(targets)
	}

	var catchment []Match
	full := func() bool { return len(catchment) >= k }
	kthBest := func() float64 { return catchment[len(catchment)-1].P }

	insert := func(m Match) {
		catchment = append(catchment, m)
		sort.Slice(catchment, func(i, j int) bool { return catchment[i].P < catchment[j].P })
		if len(catchment) > k {
			catchment = catchment[:k]
		}
	}

	lq := query.Len()

	for _, b := range idx.orderedBuckets() {
		if full() {
			overlap := lq
			if idx.maxLen[b] < overlap {
				overlap = idx.maxLen[b]
			}
			optimisticScore := quant.Quantize(idx.ceilingRaw[b]) * overlap
			alignments := lq + idx.maxLen[b] - 1
			if rc {
				alignments *= 2
			}
			bound := pvalue.Sidak(null.Tail(overlap, optimisticScore), alignments)
			if bound >= kthBest() {
				continue
			}
		}

		for _, ti := range idx.members[b] {
			best := align.Pair(query, targets[ti], quant, rc)
			p := pvalue.Sidak(null.Tail(best.Overlap, best.Score), best.Alignments)
			insert(Match{TargetIndex: ti, P: p, Score: best.Score, Offset: best.Offset, Overlap: best.Overlap, Strand: best.Strand})
		}
	}

	return catchment
}
