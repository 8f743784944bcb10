// Package convert translates between block-valued nested sparse matrices
// (mapmap.Matrix) and compressed sparse row matrices (utils.CSR).
//
// A nested entry (r, c) holding block b of size B maps onto compressed
// entries (r, c*B+k) = b[k] for k in [0, B).
package convert

import "errors"

var (
	ErrBlockSize       = errors.New("block size must be positive")
	ErrDimension       = errors.New("invalid matrix dimension")
	ErrRowRange        = errors.New("row index exceeds row count")
	ErrColumnRange     = errors.New("block exceeds column count")
	ErrPartialBlock    = errors.New("block scalars are not stored contiguously")
	ErrMisalignedBlock = errors.New("block does not start on a block boundary")
	ErrUnsortedColumns = errors.New("columns not strictly increasing within row")
)

type options struct {
	fillPartial bool
	name        string
}

type Option func(*options)

// WithFillPartialBlocks makes ToMapMap zero-fill block members that are not
// stored, instead of rejecting the input.
func WithFillPartialBlocks() Option {
	return func(o *options) { o.fillPartial = true }
}

// WithName names the CSR produced by ToCSR.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func newOptions(opts []Option) (o options) {
	o.name = "unnamed"
	for _, opt := range opts {
		opt(&o)
	}
	return
}
