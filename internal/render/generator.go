package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"hstin/lidarcmap/internal/colormap"
	"hstin/lidarcmap/internal/config"
	"hstin/lidarcmap/parser"
)

// Sink receives encoded panels.
type Sink interface {
	WritePanel(name, format string, data []byte) error
}

// DirSink writes each panel to <Dir>/<name>.<format>.
type DirSink struct {
	Dir string
}

func (s DirSink) WritePanel(name, format string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, name+"."+format), data, 0644)
}

// PanelJob is one panel of the gallery: a colormap name and the data drawn
// with it.
type PanelJob struct {
	Name string
	Map  string
	Grid parser.Grid
}

type PanelResult struct {
	Name string
	Data []byte
}

// GalleryPanels returns the panels of the example gallery: the four discrete
// presets followed by the three continuous maps, each drawn over uniform
// random data spanning its axis.
func GalleryPanels() []PanelJob {
	depol := parser.Random(config.GalleryRows, config.GalleryCols, 0, 0.8, config.GallerySeed)
	colorratio := parser.Random(config.GalleryRows, config.GalleryCols, 0, 1.6, config.GallerySeed+1)
	backscatter := parser.Random(config.GalleryRows, config.GalleryCols, 1.0e-6, 6.0e-2, config.GallerySeed+2)

	return []PanelJob{
		{Name: "depol_8", Map: "depol_8", Grid: depol},
		{Name: "colorratio_9", Map: "colorratio_9", Grid: colorratio},
		{Name: "backscatter_18", Map: "backscatter_18", Grid: backscatter},
		{Name: "backscatter_242", Map: "backscatter_242", Grid: backscatter},
		{Name: "depol", Map: "depol", Grid: depol},
		{Name: "colorratio", Map: "colorratio", Grid: colorratio},
		{Name: "backscatter", Map: "backscatter", Grid: backscatter},
	}
}

// MapperFor returns the discrete mapping of name when the registry holds a
// boundary set for it, and otherwise the continuous map scaled to the data.
func MapperFor(reg *colormap.Registry, name string, grid parser.Grid) (Mapper, Scale, error) {
	if d, err := reg.Discrete(name); err == nil {
		return d, UniformBins{Bounds: d.Bounds}, nil
	}
	cm, ok := reg.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", colormap.ErrResourceNotFound, name)
	}
	norm := colormap.Auto(grid.Values)
	return &colormap.Scaled{Map: cm, Norm: norm}, LinearScale{Lo: norm.Min, Hi: norm.Max}, nil
}

// RenderPanelData renders grid with the named colormap and encodes it.
func RenderPanelData(reg *colormap.Registry, mapName string, grid parser.Grid, cfg *config.Config) ([]byte, error) {
	m, s, err := MapperFor(reg, mapName, grid)
	if err != nil {
		return nil, err
	}
	img := RenderPanel(grid, m, PanelOptions{
		CellSize:      cfg.CellSize,
		ColorbarWidth: config.DefaultColorbarWidth,
		Scale:         s,
	})

	var buf bytes.Buffer
	if err := Encode(&buf, img, cfg.Format, cfg.Quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderFile renders cfg.InputFile with cfg.ColorMap into cfg.OutputFile.
func RenderFile(reg *colormap.Registry, cfg *config.Config, log *slog.Logger) error {
	content, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read grid file: %w", err)
	}
	grid, err := parser.ProcessGrid(content)
	if err != nil {
		return fmt.Errorf("failed to parse grid file: %w", err)
	}

	sum := grid.Summary()
	log.Debug("grid loaded", "rows", grid.Rows, "cols", grid.Cols,
		"min", sum.Min, "max", sum.Max, "mean", sum.Mean, "missing", sum.Missing)

	data, err := RenderPanelData(reg, cfg.ColorMap, grid, cfg)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(cfg.OutputFile)
	if outputDir != "." && outputDir != "" {
		os.MkdirAll(outputDir, 0755)
	}
	if err := os.WriteFile(cfg.OutputFile, data, 0644); err != nil {
		return err
	}
	log.Info("panel written", "file", cfg.OutputFile, "colormap", cfg.ColorMap, "bytes", len(data))
	return nil
}

// Generate renders jobs on cfg.NumWorkers workers and hands every encoded
// panel to sink. The first render or sink error is returned after all
// workers have stopped.
func Generate(ctx context.Context, reg *colormap.Registry, cfg *config.Config, jobs []PanelJob, sink Sink, log *slog.Logger) error {
	startTime := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	jobQueue := make(chan PanelJob)
	resultQueue := make(chan PanelResult, len(jobs))

	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				data, err := RenderPanelData(reg, job.Map, job.Grid, cfg)
				if err != nil {
					fail(fmt.Errorf("panel %s: %w", job.Name, err))
					continue
				}
				resultQueue <- PanelResult{Name: job.Name, Data: data}
			}
		}()
	}

	var completed int64
	total := int64(len(jobs))

	ticker := time.NewTicker(2 * time.Second)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				current := atomic.LoadInt64(&completed)
				log.Info("rendering", "done", current, "total", total,
					"elapsed", time.Since(startTime).Round(time.Millisecond))
			}
		}
	}()

	var sinkWg sync.WaitGroup
	sinkWg.Add(1)
	go func() {
		defer sinkWg.Done()
		for result := range resultQueue {
			if err := sink.WritePanel(result.Name, cfg.Format, result.Data); err != nil {
				fail(fmt.Errorf("write panel %s: %w", result.Name, err))
				continue
			}
			atomic.AddInt64(&completed, 1)
			log.Debug("panel written", "name", result.Name, "bytes", len(result.Data))
		}
	}()

feed:
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobQueue <- job:
		}
	}

	close(jobQueue)
	wg.Wait()

	close(resultQueue)
	sinkWg.Wait()

	close(done)

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil && atomic.LoadInt64(&completed) < total {
		return err
	}

	log.Info("gallery complete", "panels", atomic.LoadInt64(&completed),
		"took", time.Since(startTime).Round(time.Millisecond))
	return nil
}
