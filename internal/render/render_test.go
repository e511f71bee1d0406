package render

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hstin/lidarcmap/internal/bounds"
	"hstin/lidarcmap/internal/colormap"
	"hstin/lidarcmap/internal/config"
	"hstin/lidarcmap/internal/preset"
	"hstin/lidarcmap/parser"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(format string) *config.Config {
	return &config.Config{Format: format, Quality: 80, CellSize: 4, NumWorkers: 3}
}

func testRegistry(t *testing.T) *colormap.Registry {
	t.Helper()
	reg, err := preset.Default()
	require.NoError(t, err)
	return reg
}

func TestRenderMesh(t *testing.T) {
	reg := testRegistry(t)
	d, err := reg.Discrete("depol_8")
	require.NoError(t, err)

	grid := parser.Grid{Rows: 2, Cols: 3, Values: []float64{
		0.05, 0.15, math.NaN(),
		0.35, 0.7, -0.1,
	}}
	img := RenderMesh(grid, d, 5)
	require.Equal(t, 15, img.Bounds().Dx())
	require.Equal(t, 10, img.Bounds().Dy())

	for py := 0; py < 10; py++ {
		for px := 0; px < 15; px++ {
			row, col := CellAt(px, py, grid.Rows, 5)
			v := grid.GetData(row, col)
			want := d.RGBA(v)
			assert.Equal(t, want, img.RGBAAt(px, py), "pixel %d,%d", px, py)
		}
	}

	// Row 0 is drawn at the bottom; NaN stays transparent.
	assert.Equal(t, d.RGBA(0.05), img.RGBAAt(0, 9))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(12, 9))
	assert.Equal(t, d.RGBA(math.Inf(1)), img.RGBAAt(7, 0))
}

func TestUniformBins(t *testing.T) {
	s := UniformBins{Bounds: bounds.Set{0, 1, 10, 100}}
	assert.Equal(t, 0.0, s.Value(0))
	assert.Equal(t, 1.0, s.Value(0.5))
	assert.Equal(t, 10.0, s.Value(0.99))
	assert.Equal(t, 10.0, s.Value(1))
}

func TestScales(t *testing.T) {
	assert.InDelta(t, 0.4, LinearScale{Lo: 0, Hi: 0.8}.Value(0.5), 1e-12)
	assert.InDelta(t, 1e-3, LogScale{Lo: 1e-5, Hi: 1e-1}.Value(0.5), 1e-12)
}

func TestRenderColorbar(t *testing.T) {
	reg := testRegistry(t)
	d, err := reg.Discrete("depol_8")
	require.NoError(t, err)

	img := RenderColorbar(d, UniformBins{Bounds: d.Bounds}, 10, 100)
	assert.Equal(t, d.RGBA(math.Inf(1)), img.RGBAAt(5, 9))
	assert.Equal(t, d.RGBA(math.Inf(-1)), img.RGBAAt(5, 90))

	// The bar runs from the lowest bin at the bottom to the highest at the top.
	assert.Equal(t, d.RGBA(0), img.RGBAAt(5, 89))
	assert.Equal(t, d.RGBA(0.5), img.RGBAAt(5, 10))
}

func TestEncode(t *testing.T) {
	reg := testRegistry(t)
	cm, ok := reg.Lookup("backscatter")
	require.True(t, ok)
	grid := parser.Random(4, 4, 0, 1, 1)
	img := RenderMesh(grid, &colormap.Scaled{Map: cm, Norm: colormap.Linear{Min: 0, Max: 1}}, 8)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "png", 0))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "webp", 90))
	cfg, err := webp.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)

	assert.Error(t, Encode(&buf, img, "gif", 90))
}

func TestMapperFor(t *testing.T) {
	reg := testRegistry(t)
	grid := parser.Random(3, 3, 0, 0.8, 3)

	m, s, err := MapperFor(reg, "depol_8", grid)
	require.NoError(t, err)
	assert.IsType(t, &colormap.Discrete{}, m)
	assert.IsType(t, UniformBins{}, s)

	m, s, err = MapperFor(reg, "depol", grid)
	require.NoError(t, err)
	assert.IsType(t, &colormap.Scaled{}, m)
	assert.IsType(t, LinearScale{}, s)

	_, _, err = MapperFor(reg, "unknown", grid)
	assert.ErrorIs(t, err, colormap.ErrResourceNotFound)
}

type memSink struct {
	mu     sync.Mutex
	panels map[string][]byte
}

func (s *memSink) WritePanel(name, format string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panels == nil {
		s.panels = make(map[string][]byte)
	}
	s.panels[name+"."+format] = data
	return nil
}

func TestGenerateGallery(t *testing.T) {
	reg := testRegistry(t)
	sink := &memSink{}

	jobs := GalleryPanels()
	require.Len(t, jobs, 7)
	require.NoError(t, Generate(context.Background(), reg, testConfig("png"), jobs, sink, quietLogger()))

	assert.Len(t, sink.panels, 7)
	for _, job := range jobs {
		data, ok := sink.panels[job.Name+".png"]
		require.True(t, ok, job.Name)
		_, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err, job.Name)
	}
}

func TestGenerateUnknownMap(t *testing.T) {
	reg := testRegistry(t)
	jobs := []PanelJob{{Name: "bad", Map: "nope", Grid: parser.Random(2, 2, 0, 1, 1)}}

	err := Generate(context.Background(), reg, testConfig("png"), jobs, &memSink{}, quietLogger())
	assert.ErrorIs(t, err, colormap.ErrResourceNotFound)
}

func TestGenerateCancelled(t *testing.T) {
	reg := testRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Generate(ctx, reg, testConfig("png"), GalleryPanels(), &memSink{}, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSinkAndRenderFile(t *testing.T) {
	reg := testRegistry(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "depol.csv")
	require.NoError(t, os.WriteFile(input, []byte("0.05,0.25\n0.45,nan\n"), 0644))

	cfg := testConfig("png")
	cfg.InputFile = input
	cfg.OutputFile = filepath.Join(dir, "out", "depol.png")
	cfg.ColorMap = "depol_8"
	require.NoError(t, RenderFile(reg, cfg, quietLogger()))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	sink := DirSink{Dir: filepath.Join(dir, "gallery")}
	require.NoError(t, sink.WritePanel("x", "png", []byte("data")))
	data, err := os.ReadFile(filepath.Join(dir, "gallery", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
