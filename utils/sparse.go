package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrTripletRange   = errors.New("triplet index out of range")
	ErrDuplicateEntry = errors.New("duplicate column index within row")
)

type Triplet struct {
	Row, Col int
	Value    float64
}

// TripletList accumulates (row, column, value) entries for bulk construction
// of a CSR matrix.
type TripletList struct {
	nr, nc int
	data   []Triplet
}

func NewTripletList(nr, nc int) *TripletList {
	if nr < 0 || nc < 0 {
		panic(fmt.Sprintf("negative dimensions: nr, nc = %d, %d", nr, nc))
	}
	return &TripletList{nr: nr, nc: nc}
}

func (tl *TripletList) Dims() (r, c int) { return tl.nr, tl.nc }
func (tl *TripletList) Len() int         { return len(tl.data) }

func (tl *TripletList) Grow(n int) {
	if free := cap(tl.data) - len(tl.data); free < n {
		data := make([]Triplet, len(tl.data), len(tl.data)+n)
		copy(data, tl.data)
		tl.data = data
	}
}

func (tl *TripletList) Append(i, j int, v float64) (err error) {
	if i < 0 || i >= tl.nr || j < 0 || j >= tl.nc {
		err = fmt.Errorf("(%d, %d) outside %dx%d: %w", i, j, tl.nr, tl.nc, ErrTripletRange)
		return
	}
	tl.data = append(tl.data, Triplet{Row: i, Col: j, Value: v})
	return
}

// Compress finalizes the list into a CSR matrix. Entries are ordered by row,
// then by column; duplicate coordinates are summed. Entries with an explicit
// zero value are kept as stored entries.
func (tl *TripletList) Compress() CSR {
	var (
		indptr = make([]int, tl.nr+1)
		order  = make([]int, len(tl.data))
	)
	// Counting sort by row, stable with respect to insertion order
	for _, t := range tl.data {
		indptr[t.Row+1]++
	}
	for i := 0; i < tl.nr; i++ {
		indptr[i+1] += indptr[i]
	}
	next := make([]int, tl.nr)
	copy(next, indptr[:tl.nr])
	for k, t := range tl.data {
		order[next[t.Row]] = k
		next[t.Row]++
	}
	var (
		ind  = make([]int, 0, len(tl.data))
		data = make([]float64, 0, len(tl.data))
		ptr  = make([]int, tl.nr+1)
	)
	for i := 0; i < tl.nr; i++ {
		row := order[indptr[i]:indptr[i+1]]
		sort.SliceStable(row, func(a, b int) bool {
			return tl.data[row[a]].Col < tl.data[row[b]].Col
		})
		start := len(ind)
		for _, k := range row {
			t := tl.data[k]
			if n := len(ind); n > start && ind[n-1] == t.Col {
				data[n-1] += t.Value
				continue
			}
			ind = append(ind, t.Col)
			data = append(data, t.Value)
		}
		ptr[i+1] = len(ind)
	}
	return CSR{
		M:    sparse.NewCSR(tl.nr, tl.nc, ptr, ind, data),
		name: "unnamed",
	}
}

// CSR is a finalized compressed sparse row matrix with columns in increasing
// order within each row.
type CSR struct {
	M    *sparse.CSR
	name string
}

// WrapCSR canonicalizes a matrix built by the sparse package, whose column
// order within a row is not guaranteed, into a CSR.
func WrapCSR(m *sparse.CSR) (R CSR, err error) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
		tl     = NewTripletList(nr, nc)
	)
	tl.Grow(len(raw.Data))
	for i := 0; i < nr; i++ {
		seen := make(map[int]struct{}, raw.Indptr[i+1]-raw.Indptr[i])
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			j := raw.Ind[k]
			if _, dup := seen[j]; dup {
				err = fmt.Errorf("row %d, column %d: %w", i, j, ErrDuplicateEntry)
				return
			}
			seen[j] = struct{}{}
			if err = tl.Append(i, j, raw.Data[k]); err != nil {
				return
			}
		}
	}
	R = tl.Compress()
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m CSR) Name() string { return m.name }

// Named returns m carrying name, used in messages and printed output.
func (m CSR) Named(name string) CSR {
	m.name = name
	return m
}

// Coeff is the value at (i, j), zero when no entry is stored there.
func (m CSR) Coeff(i, j int) float64 { return m.At(i, j) }

// NNZ counts stored entries, including explicitly stored zeros.
func (m CSR) NNZ() int { return len(m.RawMatrix().Data) }

func (m CSR) RowNNZ(i int) int {
	ptr := m.RawMatrix().Indptr
	return ptr[i+1] - ptr[i]
}

// OuterIndex, InnerIndex and Values expose the compressed arrays; they alias
// the matrix storage.
func (m CSR) OuterIndex() []int { return m.RawMatrix().Indptr }
func (m CSR) InnerIndex() []int { return m.RawMatrix().Ind }
func (m CSR) Values() []float64 { return m.RawMatrix().Data }
func (m CSR) Data() []float64   { return m.Values() }

// Equal compares dimensions, structure and values exactly.
func (m CSR) Equal(o CSR) bool {
	return csrEqual(m.RawMatrix(), o.RawMatrix())
}

func (m CSR) ToDense() *mat.Dense {
	return toDense(m)
}

// DoNonZero calls fn for every stored entry in row-major, then column order.
func (m CSR) DoNonZero(fn func(i, j int, v float64)) {
	raw := m.RawMatrix()
	for i := 0; i+1 < len(raw.Indptr); i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			fn(i, raw.Ind[k], raw.Data[k])
		}
	}
}

func (m CSR) String() string {
	var (
		sb     strings.Builder
		nr, nc = m.Dims()
	)
	fmt.Fprintf(&sb, "CSR \"%s\" %dx%d, nnz = %d\n", m.name, nr, nc, m.NNZ())
	fmt.Fprintf(&sb, "OuterIndex = %v\n", m.OuterIndex())
	fmt.Fprintf(&sb, "InnerIndex = %v\n", m.InnerIndex())
	fmt.Fprintf(&sb, "Values     = %v\n", m.Values())
	return sb.String()
}

func toDense(m CSR) (D *mat.Dense) {
	nr, nc := m.Dims()
	if nr == 0 || nc == 0 {
		return &mat.Dense{}
	}
	D = mat.NewDense(nr, nc, nil)
	m.DoNonZero(func(i, j int, v float64) {
		D.Set(i, j, v)
	})
	return
}

func csrEqual(a, b *blas.SparseMatrix) bool {
	if a.I != b.I || a.J != b.J || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Indptr {
		if a.Indptr[i] != b.Indptr[i] {
			return false
		}
	}
	for k := range a.Data {
		if a.Ind[k] != b.Ind[k] || a.Data[k] != b.Data[k] {
			return false
		}
	}
	return true
}
