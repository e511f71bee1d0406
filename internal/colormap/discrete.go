package colormap

import (
	"image/color"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/lucasb-eyer/go-colorful"

	"hstin/lidarcmap/internal/bounds"
)

// Discrete pairs a colormap with a boundary set so that physical values are
// quantized into hard color steps.
type Discrete struct {
	Map    *Colormap
	Bounds bounds.Set
}

// NewDiscrete validates b and pairs it with cm.
func NewDiscrete(cm *Colormap, b bounds.Set) (*Discrete, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Discrete{Map: cm, Bounds: b.Clone()}, nil
}

// Color returns the color of the bin holding v. Values outside the boundary
// set take the under or over color. When the bin count equals the number of
// interior rows, bin i takes row i exactly; otherwise bins are spread evenly
// over the map.
func (d *Discrete) Color(v float64) (colorful.Color, bounds.Range) {
	i, rng := d.Bounds.Bin(v)
	switch rng {
	case bounds.Below:
		return d.Map.Under(), rng
	case bounds.Above:
		return d.Map.Over(), rng
	case bounds.Invalid:
		return colorful.Color{}, rng
	}

	n := d.Bounds.Bins()
	if n == d.Map.Len() {
		return d.Map.Index(i), rng
	}
	if n == 1 {
		return d.Map.At(0), rng
	}
	return d.Map.At(float64(i) / float64(n-1)), rng
}

func (d *Discrete) RGBA(v float64) color.RGBA {
	c, rng := d.Color(v)
	if rng == bounds.Invalid {
		return transparent
	}
	return toRGBA(c)
}

// Linear normalizes [Min, Max] onto [0,1].
type Linear struct {
	Min, Max float64
}

// Auto scales to the finite extremes of values, ignoring NaN. It falls back
// to [0,1] when no finite value is present.
func Auto(values []float64) Linear {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Linear{Min: 0, Max: 1}
	}
	lo, hi := stats.Bounds(finite)
	return Linear{Min: lo, Max: hi}
}

func (l Linear) Normalize(v float64) float64 {
	if l.Max == l.Min {
		return 0
	}
	return (v - l.Min) / (l.Max - l.Min)
}

// Scaled applies a Linear normalization before looking up a continuous map.
type Scaled struct {
	Map  *Colormap
	Norm Linear
}

func (s *Scaled) Color(v float64) colorful.Color {
	return s.Map.At(s.Norm.Normalize(v))
}

func (s *Scaled) RGBA(v float64) color.RGBA {
	return s.Map.RGBA(s.Norm.Normalize(v))
}
