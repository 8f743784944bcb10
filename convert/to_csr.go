package convert

import (
	"fmt"

	"github.com/notargets/mapmap/mapmap"
	"github.com/notargets/mapmap/utils"
)

// ToCSR expands every block of M into blockSize consecutive scalar entries
// of an nRows x nCols CSR matrix. The whole of M is checked against the
// dimensions before any entry is emitted.
func ToCSR(M *mapmap.Matrix, nRows, nCols int, opts ...Option) (R utils.CSR, err error) {
	if M == nil {
		err = fmt.Errorf("nil nested matrix: %w", ErrDimension)
		return
	}
	if nRows < 0 || nCols < 0 {
		err = fmt.Errorf("%dx%d: %w", nRows, nCols, ErrDimension)
		return
	}
	if err = checkBounds(M, nRows, nCols); err != nil {
		return
	}
	var (
		o  = newOptions(opts)
		B  = M.BlockSize()
		tl = utils.NewTripletList(nRows, nCols)
	)
	tl.Grow(B * M.NumEntries())
	for i, row := range M.Rows() {
		for j, block := range row.Cols() {
			for k, v := range block {
				if err = tl.Append(i, j*B+k, v); err != nil {
					return
				}
			}
		}
	}
	R = tl.Compress().Named(o.name)
	return
}

// ToCSRInferRows is ToCSR with the row count taken as the index of the last
// row holding a block, plus one. Trailing rows without blocks do not count.
func ToCSRInferRows(M *mapmap.Matrix, nCols int, opts ...Option) (R utils.CSR, err error) {
	if M == nil {
		err = fmt.Errorf("nil nested matrix: %w", ErrDimension)
		return
	}
	return ToCSR(M, M.LastRowIndex()+1, nCols, opts...)
}

// MinCols is the narrowest column count that holds every block of M.
func MinCols(M *mapmap.Matrix) int {
	return (M.MaxColIndex() + 1) * M.BlockSize()
}

func checkBounds(M *mapmap.Matrix, nRows, nCols int) (err error) {
	// (j+1)*B can overflow int
	maxCol := nCols / M.BlockSize()
	for i, row := range M.Rows() {
		if row.Len() == 0 {
			continue
		}
		if i >= nRows {
			err = fmt.Errorf("row %d, have %d rows: %w", i, nRows, ErrRowRange)
			return
		}
		for j := range row.Cols() {
			if j >= maxCol {
				err = fmt.Errorf("row %d, block column %d of size %d, have %d columns: %w",
					i, j, M.BlockSize(), nCols, ErrColumnRange)
				return
			}
		}
	}
	return
}
