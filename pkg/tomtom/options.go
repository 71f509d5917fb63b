package tomtom

import "io"

// Options configures a Run call. DefaultOptions returns the documented
// defaults. Run replaces a zero NScoreBins, NMedianBins, NTargetBins or
// NCache and a nil Progress with those defaults; ReverseComplement is used
// as given, and negative bin counts are rejected with ErrInvalidParameter
// rather than replaced.
type Options struct {
	// NNearest, when non-nil, truncates each query's row to the N_nearest
	// smallest p-values via approximate target bucketing. Nil means: return
	// the full Nq×Nt matrix.
	NNearest *int

	NScoreBins  int // default 100
	NMedianBins int // default 1000
	NTargetBins int // default 100
	NCache      int // default 100

	ReverseComplement bool // default true

	// NJobs is the number of worker goroutines. Zero or negative means
	// "all available cores".
	NJobs int

	// Progress, if non-nil, receives one line per completed query and one
	// line per diagnostic. Defaults to io.Discard.
	Progress io.Writer
}

// DefaultOptions returns the documented default Options.
func DefaultOptions() Options {
	return Options{
		NScoreBins:        100,
		NMedianBins:       1000,
		NTargetBins:       100,
		NCache:            100,
		ReverseComplement: true,
		NJobs:             0,
		Progress:          io.Discard,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NScoreBins == 0 {
		o.NScoreBins = d.NScoreBins
	}
	if o.NMedianBins == 0 {
		o.NMedianBins = d.NMedianBins
	}
	if o.NTargetBins == 0 {
		o.NTargetBins = d.NTargetBins
	}
	if o.NCache == 0 {
		o.NCache = d.NCache
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	return o
}
