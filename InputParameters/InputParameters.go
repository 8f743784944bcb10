package InputParameters

import (
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/mapmap/mapmap"
	"github.com/notargets/mapmap/utils"
)

type Direction string

const (
	CSRToMapMap Direction = "csr-to-mapmap"
	MapMapToCSR Direction = "mapmap-to-csr"
)

type TripletInput struct {
	Row   int     `json:"Row"`
	Col   int     `json:"Col"`
	Value float64 `json:"Value"`
}

// Parameters obtained from the YAML job file
type ConversionParameters struct {
	Title             string                    `json:"Title"`
	Direction         Direction                 `json:"Direction"`
	BlockSize         int                       `json:"BlockSize"`
	Rows              int                       `json:"Rows"` // Zero for mapmap-to-csr infers from the last row holding a block
	Cols              int                       `json:"Cols"`
	FillPartialBlocks bool                      `json:"FillPartialBlocks"`
	Triplets          []TripletInput            `json:"Triplets"` // Input for csr-to-mapmap
	Entries           map[int]map[int][]float64 `json:"Entries"`  // Input for mapmap-to-csr, row -> column -> block
}

func (ip *ConversionParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *ConversionParameters) Validate() (err error) {
	switch ip.Direction {
	case CSRToMapMap:
		if ip.Rows <= 0 || ip.Cols <= 0 {
			err = fmt.Errorf("%s requires positive Rows and Cols, have %d, %d", ip.Direction, ip.Rows, ip.Cols)
			return
		}
		if len(ip.Entries) != 0 {
			err = fmt.Errorf("%s reads Triplets, Entries must be empty", ip.Direction)
			return
		}
	case MapMapToCSR:
		if ip.Rows < 0 || ip.Cols <= 0 {
			err = fmt.Errorf("%s requires non negative Rows and positive Cols, have %d, %d", ip.Direction, ip.Rows, ip.Cols)
			return
		}
		if len(ip.Triplets) != 0 {
			err = fmt.Errorf("%s reads Entries, Triplets must be empty", ip.Direction)
			return
		}
	default:
		err = fmt.Errorf("unknown Direction \"%s\", want %s or %s", ip.Direction, CSRToMapMap, MapMapToCSR)
		return
	}
	if ip.BlockSize < 1 {
		err = fmt.Errorf("BlockSize must be positive, have %d", ip.BlockSize)
	}
	return
}

// TripletList loads Triplets for a Rows x Cols matrix.
func (ip *ConversionParameters) TripletList() (tl *utils.TripletList, err error) {
	tl = utils.NewTripletList(ip.Rows, ip.Cols)
	tl.Grow(len(ip.Triplets))
	for _, tr := range ip.Triplets {
		if err = tl.Append(tr.Row, tr.Col, tr.Value); err != nil {
			return
		}
	}
	return
}

// MapMap loads Entries into a nested matrix of BlockSize blocks.
func (ip *ConversionParameters) MapMap() (M *mapmap.Matrix, err error) {
	if ip.BlockSize < 1 {
		err = fmt.Errorf("BlockSize must be positive, have %d", ip.BlockSize)
		return
	}
	M = mapmap.NewMatrix(ip.BlockSize)
	for _, i := range sortedKeys(ip.Entries) {
		if i < 0 {
			err = fmt.Errorf("Entries: negative row index %d", i)
			return
		}
		line := M.WriteLine(i)
		for j, block := range ip.Entries[i] {
			if err = line.SetCol(j, block); err != nil {
				return
			}
		}
	}
	return
}

func (ip *ConversionParameters) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t= Direction\n", ip.Direction)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Block Size\n", ip.BlockSize)
	fmt.Fprintf(w, "[%d x %d]\t\t\t= Rows x Cols\n", ip.Rows, ip.Cols)
	fmt.Fprintf(w, "[%v]\t\t\t= Fill Partial Blocks\n", ip.FillPartialBlocks)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Triplets\n", len(ip.Triplets))
	for _, i := range sortedKeys(ip.Entries) {
		fmt.Fprintf(w, "Entries[%d] = %v\n", i, ip.Entries[i])
	}
}

func sortedKeys[V any](m map[int]V) (keys []int) {
	keys = make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return
}
