// Package tomtom is the public entry point of the motif-comparison core:
// it validates inputs, builds each query's null distribution, scores every
// (query, target) pair (or the approximate top-K), and assembles
// calibrated p-values. Queries are farmed across a fixed pool of worker
// goroutines draining a shared channel, joined by a sync.WaitGroup, each
// writing disjoint rows of the output.
package tomtom

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jmschrei/memesuite-lite/pkg/align"
	"github.com/jmschrei/memesuite-lite/pkg/bucket"
	"github.com/jmschrei/memesuite-lite/pkg/colscore"
	"github.com/jmschrei/memesuite-lite/pkg/nulldist"
	"github.com/jmschrei/memesuite-lite/pkg/pvalue"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
	"github.com/jmschrei/memesuite-lite/pkg/qcache"
)

// Result is the aggregate output of a Run call: five (or six, in top-K
// mode) Nq×Nt (or Nq×K) matrices plus any non-fatal diagnostics.
type Result struct {
	P        [][]float64
	Scores   [][]int
	Offsets  [][]int
	Overlaps [][]int
	Strands  [][]int
	Idxs     [][]int // nil unless NNearest was set

	Diagnostics []string
}

type cachedNull struct {
	Quant *colscore.Quantizer
	Null  *nulldist.Null
}

// Run scores every (query, target) pair and returns calibrated p-values,
// implementing the core entry point of the motif-comparison pipeline.
func Run(ctx context.Context, queries, targets []pwm.Matrix, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if err := validate(queries, targets, opts); err != nil {
		return nil, err
	}

	var diagMu sync.Mutex
	var diagnostics []string
	warn := func(msg string) {
		diagMu.Lock()
		diagnostics = append(diagnostics, msg)
		fmt.Fprintln(opts.Progress, msg)
		diagMu.Unlock()
	}

	nNearest := 0
	topK := opts.NNearest != nil
	if topK {
		nNearest = *opts.NNearest
		if nNearest > len(targets) {
			warn(fmt.Sprintf("n_nearest %d exceeds target count %d; clamping", nNearest, len(targets)))
			nNearest = len(targets)
		}
	}

	nq := len(queries)
	res := &Result{
		P:        make([][]float64, nq),
		Scores:   make([][]int, nq),
		Offsets:  make([][]int, nq),
		Overlaps: make([][]int, nq),
		Strands:  make([][]int, nq),
	}
	if topK {
		res.Idxs = make([][]int, nq)
	}

	var idx *bucket.Index
	if topK {
		var err error
		idx, err = bucket.NewIndex(targets, opts.NTargetBins)
		if err != nil {
			return nil, err
		}
	}

	cache := qcache.New[cachedNull](opts.NCache)

	nWorkers := opts.NJobs
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}

	work := make(chan int)
	var wg sync.WaitGroup
	wg.Add(nWorkers)
	for w := 0; w < nWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				processQuery(i, queries[i], targets, opts, cache, idx, nNearest, topK, res, warn)
				diagMu.Lock()
				fmt.Fprintf(opts.Progress, "query %d of %d done\n", i+1, nq)
				diagMu.Unlock()
			}
		}()
	}

feed:
	for i := range queries {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Diagnostics = diagnostics
	return res, nil
}

func processQuery(
	i int,
	q pwm.Matrix,
	targets []pwm.Matrix,
	opts Options,
	cache *qcache.Cache[cachedNull],
	idx *bucket.Index,
	nNearest int,
	topK bool,
	res *Result,
	warn func(string),
) {
	key := qcache.NewKey(q, opts.NScoreBins, opts.NMedianBins)

	cn, hit := cache.Get(key)
	if !hit {
		quant, err := colscore.BuildQueryQuantizer(q, targets, opts.NScoreBins)
		if err != nil {
			// Parameters were already validated; this cannot happen.
			panic(err)
		}
		if quant.Degenerate {
			warn(fmt.Sprintf("query %d: all column scores identical; every p-value for this query is 1", i))
		}

		hist := nulldist.ColumnHistograms(q, targets, quant)
		null, err := nulldist.Build(hist, quant.MaxBin(), opts.NMedianBins)
		if err != nil {
			panic(err)
		}

		cn = cachedNull{Quant: quant, Null: null}
		cache.Put(key, cn)
	}

	if topK {
		matches := bucket.TopK(q, targets, idx, cn.Quant, cn.Null, nNearest, opts.ReverseComplement)
		p := make([]float64, len(matches))
		scores := make([]int, len(matches))
		offsets := make([]int, len(matches))
		overlaps := make([]int, len(matches))
		strands := make([]int, len(matches))
		idxs := make([]int, len(matches))
		for j, m := range matches {
			p[j] = m.P
			scores[j] = m.Score
			offsets[j] = m.Offset
			overlaps[j] = m.Overlap
			strands[j] = int(m.Strand)
			idxs[j] = m.TargetIndex
		}
		res.P[i], res.Scores[i], res.Offsets[i] = p, scores, offsets
		res.Overlaps[i], res.Strands[i], res.Idxs[i] = overlaps, strands, idxs
		return
	}

	nt := len(targets)
	p := make([]float64, nt)
	scores := make([]int, nt)
	offsets := make([]int, nt)
	overlaps := make([]int, nt)
	strands := make([]int, nt)
	for j, t := range targets {
		best := align.Pair(q, t, cn.Quant, opts.ReverseComplement)
		p[j] = pvalue.Sidak(cn.Null.Tail(best.Overlap, best.Score), best.Alignments)
		scores[j] = best.Score
		offsets[j] = best.Offset
		overlaps[j] = best.Overlap
		strands[j] = int(best.Strand)
	}
	res.P[i], res.Scores[i], res.Offsets[i] = p, scores, offsets
	res.Overlaps[i], res.Strands[i] = overlaps, strands
}

func validate(queries, targets []pwm.Matrix, opts Options) error {
	if len(queries) == 0 || len(targets) == 0 {
		return ErrEmptyInput
	}
	for i, q := range queries {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("tomtom: queries[%d]: %w", i, ErrInvalidShape)
		}
	}
	for i, t := range targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tomtom: targets[%d]: %w", i, ErrInvalidShape)
		}
	}
	if opts.NScoreBins < 0 || opts.NMedianBins < 0 || opts.NTargetBins < 0 {
		return ErrInvalidParameter
	}
	if opts.NNearest != nil && *opts.NNearest <= 0 {
		return ErrInvalidParameter
	}
	return nil
}
