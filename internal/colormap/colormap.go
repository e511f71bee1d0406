// Package colormap builds value-to-color mappings from RGB tables.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ReversedSuffix marks the reversed variant of a colormap.
const ReversedSuffix = "_r"

var transparent = color.RGBA{}

// Colormap maps a normalized position in [0,1] onto a color by linear
// interpolation between interior rows placed at equal intervals. Positions
// below 0 return the under color and positions above 1 the over color.
//
// A Colormap is immutable once built.
type Colormap struct {
	name   string
	colors []colorful.Color
	under  colorful.Color
	over   colorful.Color
}

// New splits table into under color (first row), over color (last row) and
// interior rows.
func New(name string, table Table) (*Colormap, error) {
	if len(table) < 3 {
		return nil, fmt.Errorf("%s: %w (got %d rows)", name, ErrTooFewRows, len(table))
	}
	interior := make([]colorful.Color, len(table)-2)
	copy(interior, table[1:len(table)-1])
	return &Colormap{
		name:   name,
		colors: interior,
		under:  table[0],
		over:   table[len(table)-1],
	}, nil
}

func (cm *Colormap) Name() string { return cm.name }

// Under is returned for positions below 0.
func (cm *Colormap) Under() colorful.Color { return cm.under }

// Over is returned for positions above 1.
func (cm *Colormap) Over() colorful.Color { return cm.over }

// Len is the number of interior rows.
func (cm *Colormap) Len() int { return len(cm.colors) }

func (cm *Colormap) Index(i int) colorful.Color { return cm.colors[i] }

func (cm *Colormap) String() string {
	return cm.name
}

// Colors returns a copy of the interior rows.
func (cm *Colormap) Colors() []colorful.Color {
	return append([]colorful.Color(nil), cm.colors...)
}

// Table returns the full table the map was built from, sentinels included.
func (cm *Colormap) Table() Table {
	t := make(Table, 0, len(cm.colors)+2)
	t = append(t, cm.under)
	t = append(t, cm.colors...)
	return append(t, cm.over)
}

// At returns the color for normalized position x. NaN has no color and
// yields the zero Color; use RGBA to get a transparent pixel instead.
func (cm *Colormap) At(x float64) colorful.Color {
	switch {
	case math.IsNaN(x):
		return colorful.Color{}
	case x < 0:
		return cm.under
	case x > 1:
		return cm.over
	}

	n := len(cm.colors)
	if n == 1 {
		return cm.colors[0]
	}
	f := x * float64(n-1)
	i := int(math.Floor(f))
	if i >= n-1 {
		return cm.colors[n-1]
	}
	return cm.colors[i].BlendRgb(cm.colors[i+1], f-float64(i))
}

// RGBA is At as an opaque 8-bit color. NaN maps to a transparent pixel.
func (cm *Colormap) RGBA(x float64) color.RGBA {
	if math.IsNaN(x) {
		return transparent
	}
	return toRGBA(cm.At(x))
}

func toRGBA(c colorful.Color) color.RGBA {
	return color.RGBA{Denormalize(c.R), Denormalize(c.G), Denormalize(c.B), 255}
}

// Reversed returns the map with interior rows in opposite order and the
// under and over colors swapped. Its name carries ReversedSuffix; reversing a
// reversed map strips it again.
func (cm *Colormap) Reversed() *Colormap {
	name := cm.name + ReversedSuffix
	if strings.HasSuffix(cm.name, ReversedSuffix) {
		name = strings.TrimSuffix(cm.name, ReversedSuffix)
	}
	colors := make([]colorful.Color, len(cm.colors))
	for i, c := range cm.colors {
		colors[len(colors)-1-i] = c
	}
	return &Colormap{
		name:   name,
		colors: colors,
		under:  cm.over,
		over:   cm.under,
	}
}

// WithName returns a copy of the map registered under another name.
func (cm *Colormap) WithName(name string) *Colormap {
	c := *cm
	c.name = name
	return &c
}
