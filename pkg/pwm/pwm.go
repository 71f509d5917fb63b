// Package pwm defines the position-weight matrix type shared by every
// stage of the motif-comparison pipeline.
package pwm

import "errors"

// ErrInvalidShape is returned when a matrix does not have exactly 4 rows
// (the A, C, G, T alphabet) or has zero columns.
var ErrInvalidShape = errors.New("pwm: matrix must have 4 rows and at least 1 column")

// Alphabet size: rows are always ordered A, C, G, T.
const Alphabet = 4

// Row indices into a Matrix, fixed by convention.
const (
	A = 0
	C = 1
	G = 2
	T = 3
)

// Matrix is a 4×L position-weight matrix. Rows follow the fixed A, C, G, T
// order; columns index positions along the motif. No normalization is
// assumed — column sums need not equal 1.
type Matrix [][4]float64

// Validate reports whether m has the required shape: exactly 4 rows is
// implicit in the type, so the only check left is a non-empty column set.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return ErrInvalidShape
	}
	return nil
}

// Len returns the motif length (number of columns).
func (m Matrix) Len() int {
	return len(m)
}

// ReverseComplement returns the reverse complement of m: columns in
// reverse order, with A swapped with T and C swapped with G within each
// column.
func (m Matrix) ReverseComplement() Matrix {
	rc := make(Matrix, len(m))
	for i, col := range m {
		j := len(m) - 1 - i
		rc[j] = [4]float64{col[T], col[G], col[C], col[A]}
	}
	return rc
}

// Clone returns an independent copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	copy(out, m)
	return out
}
