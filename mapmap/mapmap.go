// Package mapmap holds a sparse matrix of fixed size value blocks, stored as
// an ordered map of rows, each an ordered map of columns.
package mapmap

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
)

var (
	ErrBlockLength   = errors.New("block length does not match matrix block size")
	ErrNegativeIndex = errors.New("negative index")
)

// Block is one logical entry of the matrix, exactly BlockSize scalars long.
type Block []float64

func NewBlock(n int) Block { return make(Block, n) }

// Matrix is a row-sparse, column-sparse matrix of blocks. Rows are created
// on first write and kept in increasing row index order.
//
// Matrix is not safe for concurrent mutation.
type Matrix struct {
	blockSize int
	rows      []*Row
}

func NewMatrix(blockSize int) *Matrix {
	if blockSize < 1 {
		panic(fmt.Sprintf("block size must be positive, have %d", blockSize))
	}
	return &Matrix{blockSize: blockSize}
}

func (m *Matrix) BlockSize() int { return m.blockSize }

// NumRows is the number of stored rows, including rows with no columns.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumEntries is the total count of (row, column) blocks.
func (m *Matrix) NumEntries() (n int) {
	for _, r := range m.rows {
		n += len(r.cols)
	}
	return
}

// MaxRowIndex returns -1 for an empty matrix.
func (m *Matrix) MaxRowIndex() int {
	if len(m.rows) == 0 {
		return -1
	}
	return m.rows[len(m.rows)-1].index
}

// LastRowIndex is the largest index of a row holding at least one column,
// -1 when there is none.
func (m *Matrix) LastRowIndex() int {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if len(m.rows[i].cols) != 0 {
			return m.rows[i].index
		}
	}
	return -1
}

// MaxColIndex returns -1 when no row holds a column.
func (m *Matrix) MaxColIndex() (maxCol int) {
	maxCol = -1
	for _, r := range m.rows {
		if n := len(r.cols); n != 0 && r.cols[n-1] > maxCol {
			maxCol = r.cols[n-1]
		}
	}
	return
}

func (m *Matrix) search(row int) int {
	return sort.Search(len(m.rows), func(i int) bool { return m.rows[i].index >= row })
}

// WriteLine returns the row at index row, creating an empty one if absent.
// Repeated calls with the same index return the same *Row.
func (m *Matrix) WriteLine(row int) *Row {
	if row < 0 {
		panic(fmt.Sprintf("WriteLine: row index %d: %v", row, ErrNegativeIndex))
	}
	i := m.search(row)
	if i < len(m.rows) && m.rows[i].index == row {
		return m.rows[i]
	}
	r := &Row{index: row, blockSize: m.blockSize}
	m.rows = append(m.rows, nil)
	copy(m.rows[i+1:], m.rows[i:])
	m.rows[i] = r
	return r
}

func (m *Matrix) ReadLine(row int) (r *Row, ok bool) {
	i := m.search(row)
	if i < len(m.rows) && m.rows[i].index == row {
		return m.rows[i], true
	}
	return nil, false
}

// Rows iterates rows in strictly increasing row index order.
func (m *Matrix) Rows() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		for _, r := range m.rows {
			if !yield(r.index, r) {
				return
			}
		}
	}
}

// Equal reports whether both matrices have the same block size and hold the
// same blocks at the same coordinates. Rows without columns are ignored.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.blockSize != o.blockSize {
		return false
	}
	a, b := m.nonEmptyRows(), o.nonEmptyRows()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].index != b[i].index || len(a[i].cols) != len(b[i].cols) {
			return false
		}
		for j := range a[i].cols {
			if a[i].cols[j] != b[i].cols[j] {
				return false
			}
			for k, v := range a[i].vals[j] {
				if b[i].vals[j][k] != v {
					return false
				}
			}
		}
	}
	return true
}

func (m *Matrix) nonEmptyRows() (rows []*Row) {
	for _, r := range m.rows {
		if len(r.cols) != 0 {
			rows = append(rows, r)
		}
	}
	return
}

func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MapMap[B=%d] %d rows, %d entries\n", m.blockSize, len(m.rows), m.NumEntries())
	for ri, r := range m.Rows() {
		fmt.Fprintf(&sb, "row %d:", ri)
		for ci, b := range r.Cols() {
			fmt.Fprintf(&sb, " %d:%v", ci, []float64(b))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Row is a handle to one row of a Matrix.
type Row struct {
	index     int
	blockSize int
	cols      []int
	vals      []Block
}

func (r *Row) Index() int { return r.index }

func (r *Row) Len() int { return len(r.cols) }

func (r *Row) search(col int) int {
	return sort.SearchInts(r.cols, col)
}

// SetCol inserts or overwrites the block at col. The block is copied.
func (r *Row) SetCol(col int, b Block) (err error) {
	if col < 0 {
		err = fmt.Errorf("row %d, column %d: %w", r.index, col, ErrNegativeIndex)
		return
	}
	if len(b) != r.blockSize {
		err = fmt.Errorf("row %d, column %d: have %d scalars, want %d: %w",
			r.index, col, len(b), r.blockSize, ErrBlockLength)
		return
	}
	val := make(Block, r.blockSize)
	copy(val, b)
	i := r.search(col)
	if i < len(r.cols) && r.cols[i] == col {
		r.vals[i] = val
		return
	}
	r.cols = append(r.cols, 0)
	copy(r.cols[i+1:], r.cols[i:])
	r.cols[i] = col
	r.vals = append(r.vals, nil)
	copy(r.vals[i+1:], r.vals[i:])
	r.vals[i] = val
	return
}

// Col returns the stored block at col. The returned block aliases the row's
// storage.
func (r *Row) Col(col int) (b Block, ok bool) {
	i := r.search(col)
	if i < len(r.cols) && r.cols[i] == col {
		return r.vals[i], true
	}
	return nil, false
}

// Cols iterates the row's blocks in strictly increasing column order.
func (r *Row) Cols() iter.Seq2[int, Block] {
	return func(yield func(int, Block) bool) {
		for i, c := range r.cols {
			if !yield(c, r.vals[i]) {
				return
			}
		}
	}
}
