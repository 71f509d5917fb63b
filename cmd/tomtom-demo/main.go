// tomtom-demo exercises the tomtom core against a handful of built-in PWMs
// and prints the resulting p-values as CSV. It performs no MEME or FASTA
// parsing — those are external collaborators outside the core's scope.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmschrei/memesuite-lite/pkg/pwm"
	"github.com/jmschrei/memesuite-lite/pkg/tomtom"
)

var (
	nNearest          int
	nScoreBins        int
	nMedianBins       int
	nTargetBins       int
	nCache            int
	reverseComplement bool
	threads           int
)

func init() {
	rootCmd.Flags().IntVarP(&nNearest, "n-nearest", "k", 0, "Keep only the K nearest targets per query (0 = full matrix)")
	rootCmd.Flags().IntVar(&nScoreBins, "n-score-bins", 100, "Number of column-score quantization bins")
	rootCmd.Flags().IntVar(&nMedianBins, "n-median-bins", 1000, "Number of super-bins for null-distribution rebinning")
	rootCmd.Flags().IntVar(&nTargetBins, "n-target-bins", 100, "Number of approximate target buckets for top-K pruning")
	rootCmd.Flags().IntVar(&nCache, "n-cache", 100, "Number of per-query null distributions to cache")
	rootCmd.Flags().BoolVar(&reverseComplement, "reverse-complement", true, "Also score the reverse-complement strand")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of worker goroutines (0 = all cores)")
}

var rootCmd = &cobra.Command{
	Use:   "tomtom-demo",
	Short: "Run the tomtom motif-comparison core against built-in example PWMs",
	Long:  `Run the tomtom motif-comparison core against built-in example PWMs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, targets := exampleMotifs()

		opts := tomtom.DefaultOptions()
		opts.NScoreBins = nScoreBins
		opts.NMedianBins = nMedianBins
		opts.NTargetBins = nTargetBins
		opts.NCache = nCache
		opts.ReverseComplement = reverseComplement
		opts.NJobs = threads
		opts.Progress = os.Stderr
		if nNearest > 0 {
			opts.NNearest = &nNearest
		}

		res, err := tomtom.Run(cmd.Context(), queries, targets, opts)
		if err != nil {
			return err
		}

		return writeCSV(os.Stdout, res)
	},
}

func writeCSV(w *os.File, res *tomtom.Result) error {
	topK := res.Idxs != nil

	header := "query,target,p,score,offset,overlap,strand\n"
	if _, err := w.WriteString(header); err != nil {
		return err
	}

	for qi, row := range res.P {
		for j, p := range row {
			target := j
			if topK {
				target = res.Idxs[qi][j]
			}
			strand := "+"
			if res.Strands[qi][j] == 1 {
				strand = "-"
			}
			line := fmt.Sprintf("%d,%d,%s,%d,%d,%d,%s\n",
				qi, target, strconv.FormatFloat(p, 'g', 6, 64),
				res.Scores[qi][j], res.Offsets[qi][j], res.Overlaps[qi][j], strand)
			if _, err := w.WriteString(line); err != nil {
				return err
			}
		}
	}
	return nil
}

func oneHot(seq string) pwm.Matrix {
	idx := map[byte]int{'A': pwm.A, 'C': pwm.C, 'G': pwm.G, 'T': pwm.T}
	m := make(pwm.Matrix, len(seq))
	for i := 0; i < len(seq); i++ {
		m[i][idx[seq[i]]] = 1
	}
	return m
}

// exampleMotifs returns a small built-in set of PWMs standing in for
// MEME-parsed queries/targets, so the demo needs no input files.
func exampleMotifs() (queries, targets []pwm.Matrix) {
	queries = []pwm.Matrix{
		oneHot("ACGT"),
		oneHot("AAAA"),
		oneHot("GATTACA"),
	}
	targets = []pwm.Matrix{
		oneHot("ACGT"),
		oneHot("TTAAAATT"),
		oneHot("GGGG"),
		oneHot("GATTACA"),
		oneHot("TGTAATC"),
	}
	return
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
