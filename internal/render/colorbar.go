package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"hstin/lidarcmap/parser"
)

var background = color.RGBA{255, 255, 255, 255}

// RenderColorbar draws a vertical colorbar of the given size. The top and
// bottom width pixels are triangles filled with the over and under colors;
// the bar between them samples m along s, high values at the top.
func RenderColorbar(m Mapper, s Scale, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	tri := width
	if 2*tri >= height {
		tri = height / 4
	}
	over := m.RGBA(math.Inf(1))
	under := m.RGBA(math.Inf(-1))

	for i := 0; i < tri; i++ {
		// Half width of the triangle at distance i from its tip.
		half := float64(width) * float64(i+1) / float64(2*tri)
		for px := 0; px < width; px++ {
			if math.Abs(float64(px)+0.5-float64(width)/2) > half {
				continue
			}
			img.SetRGBA(px, i, over)
			img.SetRGBA(px, height-1-i, under)
		}
	}

	bar := height - 2*tri
	for py := 0; py < bar; py++ {
		t := (float64(bar-1-py) + 0.5) / float64(bar)
		c := m.RGBA(s.Value(t))
		for px := 0; px < width; px++ {
			img.SetRGBA(px, tri+py, c)
		}
	}
	return img
}

// PanelOptions controls the layout of a mesh plus colorbar panel.
type PanelOptions struct {
	CellSize      int
	ColorbarWidth int
	Scale         Scale
}

// RenderPanel places the mesh of grid and its colorbar side by side on a
// white background.
func RenderPanel(grid parser.Grid, m Mapper, opts PanelOptions) *image.RGBA {
	mesh := RenderMesh(grid, m, opts.CellSize)
	mb := mesh.Bounds()
	gap := opts.ColorbarWidth

	img := image.NewRGBA(image.Rect(0, 0, mb.Dx()+gap+opts.ColorbarWidth+gap, mb.Dy()))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(img, mb, mesh, image.Point{}, draw.Over)

	if opts.ColorbarWidth > 0 {
		bar := RenderColorbar(m, opts.Scale, opts.ColorbarWidth, mb.Dy())
		r := image.Rect(mb.Dx()+gap, 0, mb.Dx()+gap+opts.ColorbarWidth, mb.Dy())
		draw.Draw(img, r, bar, image.Point{}, draw.Src)
	}
	return img
}
