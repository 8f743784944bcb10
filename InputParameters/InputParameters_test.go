package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/mapmap/mapmap"
)

func TestParseMapMapToCSR(t *testing.T) {
	fileInput := []byte(`
Title: Vec3 constraint
Direction: mapmap-to-csr
BlockSize: 3
Cols: 12
Entries:
  3:
    1: [0.1, 0.2, 0.3]
  0:
    2: [1, 0, 0]
    0: [0, 0, 1]
`)
	var ip ConversionParameters
	require.NoError(t, ip.Parse(fileInput))
	require.NoError(t, ip.Validate())
	assert.Equal(t, MapMapToCSR, ip.Direction)
	assert.Equal(t, 3, ip.BlockSize)
	assert.Equal(t, 0, ip.Rows)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, ip.Entries[3][1])

	M, err := ip.MapMap()
	require.NoError(t, err)
	assert.Equal(t, 3, M.NumEntries())
	assert.Equal(t, 3, M.MaxRowIndex())
	row, ok := M.ReadLine(0)
	require.True(t, ok)
	var cols []int
	for j := range row.Cols() {
		cols = append(cols, j)
	}
	assert.Equal(t, []int{0, 2}, cols)

	var buf bytes.Buffer
	ip.Fprint(&buf)
	assert.Contains(t, buf.String(), "\"Vec3 constraint\"")
	assert.Contains(t, buf.String(), "Entries[3] = map[1:[0.1 0.2 0.3]]")
}

func TestParseCSRToMapMap(t *testing.T) {
	fileInput := []byte(`
Title: Scalar
Direction: csr-to-mapmap
BlockSize: 1
Rows: 5
Cols: 5
Triplets:
  - {Row: 0, Col: 1, Value: 3}
  - {Row: 4, Col: 4, Value: 8}
  - {Row: 1, Col: 0, Value: 22}
`)
	var ip ConversionParameters
	require.NoError(t, ip.Parse(fileInput))
	require.NoError(t, ip.Validate())
	tl, err := ip.TripletList()
	require.NoError(t, err)
	assert.Equal(t, 3, tl.Len())
	A := tl.Compress()
	assert.Equal(t, []int{1, 0, 4}, A.InnerIndex())
	assert.Equal(t, 22., A.Coeff(1, 0))

	ip.Triplets = append(ip.Triplets, TripletInput{Row: 5, Col: 0, Value: 1})
	_, err = ip.TripletList()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	{
		ip := ConversionParameters{Direction: "sideways", BlockSize: 1, Rows: 1, Cols: 1}
		assert.Error(t, ip.Validate())
	}
	{
		ip := ConversionParameters{Direction: CSRToMapMap, BlockSize: 1, Cols: 1}
		assert.Error(t, ip.Validate())
	}
	{
		ip := ConversionParameters{Direction: MapMapToCSR, BlockSize: 0, Cols: 4}
		assert.Error(t, ip.Validate())
		_, err := ip.MapMap()
		assert.Error(t, err)
	}
	{
		ip := ConversionParameters{Direction: MapMapToCSR, BlockSize: 2, Cols: 4,
			Triplets: []TripletInput{{Row: 0, Col: 0, Value: 1}}}
		assert.Error(t, ip.Validate())
	}
	// Wrong block length surfaces from the nested matrix
	{
		ip := ConversionParameters{Direction: MapMapToCSR, BlockSize: 2, Cols: 4,
			Entries: map[int]map[int][]float64{0: {0: {1, 2, 3}}}}
		require.NoError(t, ip.Validate())
		_, err := ip.MapMap()
		assert.ErrorIs(t, err, mapmap.ErrBlockLength)
	}
}
