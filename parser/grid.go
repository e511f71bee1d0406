package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// Grid is a 2-D field of lidar measurements, for example a curtain of
// backscatter with one row per altitude bin and one column per profile.
// Values are stored row-major; missing cells hold NaN.
type Grid struct {
	Rows   int
	Cols   int
	Values []float64
}

func (g Grid) GetData(row, col int) float64 {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return math.NaN()
	}
	return g.Values[row*g.Cols+col]
}

// Summary holds the finite extremes and mean of a grid.
type Summary struct {
	Min, Max, Mean float64
	Missing        int
}

func (g Grid) Summary() Summary {
	finite := make([]float64, 0, len(g.Values))
	for _, v := range g.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	s := Summary{Missing: len(g.Values) - len(finite)}
	if len(finite) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min, s.Max = stats.Bounds(finite)
	s.Mean = stats.Mean(finite)
	return s
}

func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		return fields
	}
	return strings.Fields(line)
}

// ProcessGrid parses one grid row per line. Values are separated by commas
// or whitespace; "nan" or an empty field marks a missing cell. Blank lines
// and lines starting with '#' are skipped.
func ProcessGrid(content []byte) (Grid, error) {
	var g Grid
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		if g.Rows == 0 {
			g.Cols = len(fields)
		} else if len(fields) != g.Cols {
			return Grid{}, fmt.Errorf("line %d: %d values, expected %d", lineNo, len(fields), g.Cols)
		}

		for _, f := range fields {
			if f == "" || strings.EqualFold(f, "nan") {
				g.Values = append(g.Values, math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Grid{}, fmt.Errorf("line %d: invalid value %q", lineNo, f)
			}
			g.Values = append(g.Values, v)
		}
		g.Rows++
	}
	if err := scanner.Err(); err != nil {
		return Grid{}, err
	}
	if g.Rows == 0 {
		return Grid{}, fmt.Errorf("no data rows")
	}
	return g, nil
}

// Random fills a rows x cols grid with values drawn uniformly from [lo, hi).
// The same seed always produces the same grid.
func Random(rows, cols int, lo, hi float64, seed int64) Grid {
	r := rand.New(rand.NewSource(seed))
	g := Grid{Rows: rows, Cols: cols, Values: make([]float64, rows*cols)}
	for i := range g.Values {
		g.Values[i] = lo + (hi-lo)*r.Float64()
	}
	return g
}
