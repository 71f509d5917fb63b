package tomtom

import "errors"

// The degenerate-quantizer case is deliberately not in this set: it is a
// recoverable condition, not a fatal one (see Options.Progress and
// Result.Diagnostics).
var (
	// ErrEmptyInput is returned when queries or targets is empty.
	ErrEmptyInput = errors.New("tomtom: queries and targets must be non-empty")

	// ErrInvalidShape is returned when a PWM has zero columns.
	ErrInvalidShape = errors.New("tomtom: pwm must have at least one column")

	// ErrInvalidParameter is returned when a bin-count parameter is
	// negative (a zero bin count selects the default) or when NNearest
	// points at a non-positive value.
	ErrInvalidParameter = errors.New("tomtom: n_score_bins, n_median_bins and n_target_bins must be positive")
)
