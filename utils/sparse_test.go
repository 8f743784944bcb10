package utils

import (
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var scenarioTriplets = []Triplet{
	{0, 0, 0}, {0, 1, 3},
	{1, 0, 22}, {1, 4, 17},
	{2, 0, 5}, {2, 1, 5}, {2, 4, 1},
	{4, 2, 14}, {4, 4, 8},
}

func TestTripletListCompress(t *testing.T) {
	// Compressed arrays for the 5x5 reference matrix
	{
		tl := NewTripletList(5, 5)
		for _, tr := range scenarioTriplets {
			require.NoError(t, tl.Append(tr.Row, tr.Col, tr.Value))
		}
		assert.Equal(t, 9, tl.Len())
		m := tl.Compress()
		nr, nc := m.Dims()
		assert.Equal(t, 5, nr)
		assert.Equal(t, 5, nc)
		assert.Equal(t, []int{0, 2, 4, 7, 7, 9}, m.OuterIndex())
		assert.Equal(t, []int{2, 2, 3, 0, 2}, []int{m.RowNNZ(0), m.RowNNZ(1), m.RowNNZ(2), m.RowNNZ(3), m.RowNNZ(4)})
		assert.Equal(t, []int{0, 1, 0, 4, 0, 1, 4, 2, 4}, m.InnerIndex())
		// The explicit zero at (0,0) is a stored entry
		assert.Equal(t, len(scenarioTriplets), m.NNZ())
		for k, tr := range scenarioTriplets {
			assert.Equal(t, tr.Value, m.Values()[k])
			assert.Equal(t, tr.Value, m.Coeff(tr.Row, tr.Col))
		}
		assert.Equal(t, 0., m.Coeff(3, 3))
		assert.Equal(t, 0., m.Coeff(0, 4))
	}
	// Insertion order does not matter, duplicates are summed
	{
		tl := NewTripletList(2, 3)
		require.NoError(t, tl.Append(1, 2, 1))
		require.NoError(t, tl.Append(0, 1, 2))
		require.NoError(t, tl.Append(1, 0, 3))
		require.NoError(t, tl.Append(1, 2, 4))
		m := tl.Compress()
		assert.Equal(t, []int{0, 1, 3}, m.OuterIndex())
		assert.Equal(t, []int{1, 0, 2}, m.InnerIndex())
		assert.Equal(t, []float64{2, 3, 5}, m.Values())
	}
	// Empty
	{
		m := NewTripletList(3, 4).Compress()
		assert.Equal(t, 0, m.NNZ())
		assert.Equal(t, []int{0, 0, 0, 0}, m.OuterIndex())
		assert.Equal(t, 0., m.At(2, 3))
	}
	// Range checking
	{
		tl := NewTripletList(2, 2)
		assert.ErrorIs(t, tl.Append(2, 0, 1), ErrTripletRange)
		assert.ErrorIs(t, tl.Append(0, -1, 1), ErrTripletRange)
		assert.Equal(t, 0, tl.Len())
		assert.Panics(t, func() { NewTripletList(-1, 2) })
	}
}

func TestCSRDense(t *testing.T) {
	tl := NewTripletList(2, 3)
	_ = tl.Append(0, 0, 1)
	_ = tl.Append(0, 2, 2)
	_ = tl.Append(1, 1, 3)
	m := tl.Compress().Named("A")
	assert.Equal(t, "A", m.Name())
	assert.True(t, mat.Equal(m.ToDense(), mat.NewDense(2, 3, []float64{
		1, 0, 2,
		0, 3, 0,
	})))
	assert.True(t, mat.Equal(m.T(), mat.NewDense(3, 2, []float64{
		1, 0,
		0, 3,
		2, 0,
	})))
	assert.Contains(t, m.String(), `CSR "A" 2x3, nnz = 3`)
	assert.Equal(t, []float64{1, 2, 3}, m.Data())

	var visited []Triplet
	m.DoNonZero(func(i, j int, v float64) {
		visited = append(visited, Triplet{i, j, v})
	})
	assert.Equal(t, []Triplet{{0, 0, 1}, {0, 2, 2}, {1, 1, 3}}, visited)
}

func TestWrapCSR(t *testing.T) {
	// A matrix assembled through the sparse package's DOK format
	{
		dok := sparse.NewDOK(3, 4)
		dok.Set(2, 3, 9)
		dok.Set(0, 2, 1)
		dok.Set(0, 0, 2)
		dok.Set(2, 1, 7)
		m, err := WrapCSR(dok.ToCSR())
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2, 2, 4}, m.OuterIndex())
		assert.Equal(t, []int{0, 2, 1, 3}, m.InnerIndex())
		assert.Equal(t, []float64{2, 1, 7, 9}, m.Values())
	}
	// Duplicate columns within a row are rejected
	{
		raw := sparse.NewCSR(1, 3, []int{0, 2}, []int{1, 1}, []float64{1, 2})
		_, err := WrapCSR(raw)
		assert.ErrorIs(t, err, ErrDuplicateEntry)
	}
	// Equal compares structure and values
	{
		a := sparse.NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{4, 5})
		wa, err := WrapCSR(a)
		require.NoError(t, err)
		tl := NewTripletList(2, 2)
		_ = tl.Append(1, 0, 5)
		_ = tl.Append(0, 1, 4)
		assert.True(t, wa.Equal(tl.Compress()))
		_ = tl.Append(0, 0, 0)
		assert.False(t, wa.Equal(tl.Compress()))
	}
}
