package colormap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrResourceNotFound = errors.New("colormap resource not found")
	ErrMalformed        = errors.New("malformed rgb table")
	ErrTooFewRows       = errors.New("rgb table needs an under row, an over row and at least one interior row")
)

// Table is an ordered list of colors with channels in [0,1]. Row order runs
// from the low end of the mapped range to the high end.
type Table []colorful.Color

// Normalize maps an 8-bit channel value onto [0,1].
func Normalize(v uint8) float64 {
	return float64(v) / 255
}

// Denormalize is the inverse of Normalize, rounding to the nearest channel
// value and clamping outside [0,1].
func Denormalize(f float64) uint8 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(math.Round(f * 255))
}

// FileName is the resource name holding the table for a colormap.
func FileName(name string) string {
	return name + "-rgb.csv"
}

// ReadTable parses comma separated "R,G,B" rows of integers in 0..255.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var table Table
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		var ch [3]uint8
		for i, field := range rec {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q is not an integer", ErrMalformed, row, i+1, field)
			}
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: row %d column %d: %d out of range 0..255", ErrMalformed, row, i+1, v)
			}
			ch[i] = uint8(v)
		}
		table = append(table, colorful.Color{R: Normalize(ch[0]), G: Normalize(ch[1]), B: Normalize(ch[2])})
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformed)
	}
	return table, nil
}

// LoadTable reads the table for name from fsys. Both a missing and a
// malformed resource report ErrResourceNotFound; the latter also matches
// ErrMalformed.
func LoadTable(fsys fs.FS, name string) (Table, error) {
	file, err := fsys.Open(FileName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, name, err)
	}
	defer file.Close()

	table, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, name, err)
	}
	return table, nil
}

// RGB255 returns the 8-bit channel values of every row.
func (t Table) RGB255() [][3]uint8 {
	out := make([][3]uint8, len(t))
	for i, c := range t {
		out[i] = [3]uint8{Denormalize(c.R), Denormalize(c.G), Denormalize(c.B)}
	}
	return out
}

// Reversed returns a copy of t in opposite row order.
func (t Table) Reversed() Table {
	out := make(Table, len(t))
	for i, c := range t {
		out[len(t)-1-i] = c
	}
	return out
}
