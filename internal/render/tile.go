package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"hstin/lidarcmap/parser"
)

// Mapper turns a physical value into a pixel color. Both discrete and scaled
// colormaps implement it.
type Mapper interface {
	RGBA(v float64) color.RGBA
}

// RenderMesh draws one cellSize x cellSize square per grid cell, with grid
// row 0 at the bottom of the image. Missing cells are left transparent.
func RenderMesh(grid parser.Grid, m Mapper, cellSize int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, grid.Cols, grid.Rows))

	for row := 0; row < grid.Rows; row++ {
		rowOffset := (grid.Rows - 1 - row) * src.Stride
		for col := 0; col < grid.Cols; col++ {
			val := grid.GetData(row, col)
			if math.IsNaN(val) {
				continue
			}
			c := m.RGBA(val)

			idx := rowOffset + col*4
			src.Pix[idx] = c.R
			src.Pix[idx+1] = c.G
			src.Pix[idx+2] = c.B
			src.Pix[idx+3] = c.A
		}
	}

	if cellSize <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, grid.Cols*cellSize, grid.Rows*cellSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes img as "webp" (lossy, quality 1-100) or "png".
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: float32(quality)})
	case "png":
		return png.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}
