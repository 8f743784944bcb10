package convert

import (
	"fmt"

	"github.com/notargets/mapmap/mapmap"
	"github.com/notargets/mapmap/utils"
)

// ToMapMap groups the stored entries of each CSR row into blocks of
// blockSize consecutive columns. Rows without stored entries are absent from
// the result.
//
// By default every block must be stored whole: blockSize entries, the first
// on a column that is a multiple of blockSize, the rest on the following
// columns. With WithFillPartialBlocks, stored entries are grouped by
// column/blockSize and the missing members of a block read as zero.
func ToMapMap(m utils.CSR, blockSize int, opts ...Option) (M *mapmap.Matrix, err error) {
	if blockSize < 1 {
		err = fmt.Errorf("%d: %w", blockSize, ErrBlockSize)
		return
	}
	if m.M == nil {
		err = fmt.Errorf("CSR \"%s\" has no storage: %w", m.Name(), ErrDimension)
		return
	}
	var (
		o      = newOptions(opts)
		raw    = m.RawMatrix()
		nr, _  = m.Dims()
		result = mapmap.NewMatrix(blockSize)
	)
	for i := 0; i < nr; i++ {
		var (
			start = raw.Indptr[i]
			end   = raw.Indptr[i+1]
			cols  = raw.Ind[start:end]
			vals  = raw.Data[start:end]
		)
		if len(cols) == 0 {
			continue
		}
		for k := 1; k < len(cols); k++ {
			if cols[k] <= cols[k-1] {
				err = fmt.Errorf("row %d, column %d follows %d: %w", i, cols[k], cols[k-1], ErrUnsortedColumns)
				return
			}
		}
		if o.fillPartial {
			err = fillRow(result, i, blockSize, cols, vals)
		} else {
			err = strictRow(result, i, blockSize, cols, vals)
		}
		if err != nil {
			return
		}
	}
	M = result
	return
}

func strictRow(M *mapmap.Matrix, row, B int, cols []int, vals []float64) (err error) {
	line := M.WriteLine(row)
	for k := 0; k < len(cols); k += B {
		first := cols[k]
		if first%B != 0 {
			err = fmt.Errorf("row %d, column %d, block size %d: %w", row, first, B, ErrMisalignedBlock)
			return
		}
		if k+B > len(cols) {
			err = fmt.Errorf("row %d, block at column %d: %d of %d scalars stored: %w",
				row, first, len(cols)-k, B, ErrPartialBlock)
			return
		}
		block := mapmap.NewBlock(B)
		for n := 0; n < B; n++ {
			if cols[k+n] != first+n {
				err = fmt.Errorf("row %d, block at column %d: expected column %d, found %d: %w",
					row, first, first+n, cols[k+n], ErrPartialBlock)
				return
			}
			block[n] = vals[k+n]
		}
		if err = line.SetCol(first/B, block); err != nil {
			return
		}
	}
	return
}

func fillRow(M *mapmap.Matrix, row, B int, cols []int, vals []float64) (err error) {
	var (
		line  = M.WriteLine(row)
		col   = -1
		block mapmap.Block
	)
	for k, j := range cols {
		if j/B != col {
			if block != nil {
				if err = line.SetCol(col, block); err != nil {
					return
				}
			}
			col = j / B
			block = mapmap.NewBlock(B)
		}
		block[j%B] = vals[k]
	}
	err = line.SetCol(col, block)
	return
}
