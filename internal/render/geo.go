package render

import (
	"math"

	"hstin/lidarcmap/internal/bounds"
)

// Scale maps a fraction t in [0,1) of a colorbar, measured from its low end,
// back onto a data value.
type Scale interface {
	Value(t float64) float64
}

type LinearScale struct {
	Lo, Hi float64
}

func (s LinearScale) Value(t float64) float64 {
	return s.Lo + t*(s.Hi-s.Lo)
}

// LogScale requires 0 < Lo < Hi.
type LogScale struct {
	Lo, Hi float64
}

func (s LogScale) Value(t float64) float64 {
	return math.Exp(math.Log(s.Lo) + t*(math.Log(s.Hi)-math.Log(s.Lo)))
}

// UniformBins gives every bin of a boundary set the same height, as a
// colorbar for a discrete map does.
type UniformBins struct {
	Bounds bounds.Set
}

func (s UniformBins) Value(t float64) float64 {
	n := s.Bounds.Bins()
	i := int(math.Floor(t * float64(n)))
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	return s.Bounds[i]
}

// CellAt returns the grid cell drawn at image pixel (px, py) of a mesh with
// the given number of rows and cell size. Row 0 is drawn at the bottom.
func CellAt(px, py, rows, cellSize int) (row, col int) {
	return rows - 1 - py/cellSize, px / cellSize
}
