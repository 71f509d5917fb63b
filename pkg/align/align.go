// Package align enumerates every gapless offset (and, optionally, the
// reverse-complement strand) between a query and a target PWM, scoring
// each with the shared quantized column score, and selects the best
// alignment under the documented tie-break rule.
package align

import (
	"github.com/jmschrei/memesuite-lite/pkg/colscore"
	"github.com/jmschrei/memesuite-lite/pkg/pwm"
)

// Strand identifies which orientation of the query produced the winning
// alignment.
type Strand int

const (
	Plus  Strand = 0
	Minus Strand = 1
)

// Best is the winning alignment for one (query, target) pair.
type Best struct {
	Score      int
	Offset     int
	Overlap    int
	Strand     Strand
	Alignments int // number of offsets considered, ×2 if both strands were scored
}

// Pair finds the best gapless alignment between q and t. When rc is true,
// the reverse complement of q is scored as well and strand records which
// variant won; ties between strands go to Plus.
func Pair(q, t pwm.Matrix, quant *colscore.Quantizer, rc bool) Best {
	plus := bestOffset(q, t, quant)
	plus.Strand = Plus

	if !rc {
		plus.Alignments = numOffsets(q.Len(), t.Len())
		return plus
	}

	minus := bestOffset(q.ReverseComplement(), t, quant)
	minus.Strand = Minus

	best := plus
	if better(minus, plus) {
		best = minus
	}
	best.Alignments = 2 * numOffsets(q.Len(), t.Len())
	return best
}

// better reports whether b beats a under the tie-break rule: higher
// score first, then smaller |offset|, then Plus over Minus.
func better(b, a Best) bool {
	if b.Score != a.Score {
		return b.Score > a.Score
	}
	if abs(b.Offset) != abs(a.Offset) {
		return abs(b.Offset) < abs(a.Offset)
	}
	return a.Strand == Minus && b.Strand == Plus
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func numOffsets(lq, lt int) int {
	return lq + lt - 1
}

// bestOffset scans every offset o in [-(Lq-1), Lt-1] and returns the one
// with the highest integer score sum, breaking ties by smaller |offset|.
func bestOffset(q, t pwm.Matrix, quant *colscore.Quantizer) Best {
	lq, lt := q.Len(), t.Len()

	var best Best
	first := true

	for o := -(lq - 1); o <= lt-1; o++ {
		jStart := 0
		if o < 0 {
			jStart = -o
		}
		jEnd := lq
		if lt-o < jEnd {
			jEnd = lt - o
		}
		overlap := jEnd - jStart
		if overlap < 1 {
			continue
		}

		score := 0
		for j := jStart; j < jEnd; j++ {
			score += quant.Quantize(colscore.Column(q[j], t[j+o]))
		}

		cand := Best{Score: score, Offset: o, Overlap: overlap}
		if first || betterSameStrand(cand, best) {
			best = cand
			first = false
		}
	}
	return best
}

// betterSameStrand is the within-strand half of the tie-break rule: higher
// score, then smaller |offset|.
func betterSameStrand(b, a Best) bool {
	if b.Score != a.Score {
		return b.Score > a.Score
	}
	return abs(b.Offset) < abs(a.Offset)
}
