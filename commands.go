package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"hstin/lidarcmap/internal/bounds"
	"hstin/lidarcmap/internal/colormap"
	"hstin/lidarcmap/internal/config"
	"hstin/lidarcmap/internal/db"
	"hstin/lidarcmap/internal/logger"
	"hstin/lidarcmap/internal/preset"
	"hstin/lidarcmap/internal/render"
)

type globalOptions struct {
	envFile  string
	verbose  bool
	logLevel string
}

// app is what every command runs against: the loaded configuration, a
// logger and the fully built registry.
type app struct {
	cfg *config.Config
	log *slog.Logger
	reg *colormap.Registry
}

func (o *globalOptions) setup(cmd *cobra.Command) (*app, error) {
	cfg := config.Load(o.envFile)
	if o.verbose {
		cfg.Verbose = true
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	} else if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(cmd.ErrOrStderr(), level)

	reg, err := preset.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load colormaps: %w", err)
	}
	log.Debug("colormaps loaded", "maps", len(reg.Names()), "bounds", len(reg.BoundsNames()))

	return &app{cfg: cfg, log: log, reg: reg}, nil
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered colormaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOLORS\tBINS")
			for _, name := range a.reg.Names() {
				cm, _ := a.reg.Lookup(name)
				bins := "-"
				if d, err := a.reg.Discrete(name); err == nil {
					bins = fmt.Sprint(d.Bounds.Bins())
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, cm.Len(), bins)
			}
			return w.Flush()
		},
	}
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the colors of a colormap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			cm, ok := a.reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", colormap.ErrResourceNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "under %s\n", cm.Under().Hex())
			for i, c := range cm.Colors() {
				fmt.Fprintf(out, "%5d %s\n", i, c.Hex())
			}
			fmt.Fprintf(out, "over  %s\n", cm.Over().Hex())
			return nil
		},
	}
}

func newBoundsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds [NAME]",
		Short: "Print a boundary set, or list them all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, name := range a.reg.BoundsNames() {
					b, _ := a.reg.Bounds(name)
					fmt.Fprintf(out, "%s\t%d bins\t%g..%g\n", name, b.Bins(), b.Min(), b.Max())
				}
				return nil
			}

			b, ok := a.reg.Bounds(args[0])
			if !ok {
				return fmt.Errorf("%w: no boundary set %s", colormap.ErrResourceNotFound, args[0])
			}
			values := make([]string, len(b))
			for i, v := range b {
				values[i] = fmt.Sprintf("%g", v)
			}
			fmt.Fprintln(out, strings.Join(values, ", "))

			// Colorbar labels for positive, hand-labelled sets.
			if minor, major, err := bounds.LogTicks(b); err == nil && len(b) <= 32 {
				for _, tk := range minor {
					fmt.Fprintf(out, "minor %g %s\n", tk.Value, tk.Label)
				}
				for _, tk := range major {
					fmt.Fprintf(out, "major %g %s\n", tk.Value, tk.Label)
				}
			}
			return nil
		},
	}
}

func imageFlags(cmd *cobra.Command, format *string, quality, cellSize, workers *int) {
	cmd.Flags().StringVarP(format, "format", "f", "", "Image format (webp or png)")
	cmd.Flags().IntVarP(quality, "quality", "q", 0, "WebP quality (1-100)")
	cmd.Flags().IntVar(cellSize, "cell", 0, "Pixel size of one grid cell")
	if workers != nil {
		cmd.Flags().IntVarP(workers, "workers", "w", 0, "Number of parallel workers (default: all available CPUs)")
	}
}

func applyImageFlags(cfg *config.Config, format string, quality, cellSize, workers int) {
	if format != "" {
		cfg.Format = format
	}
	if quality != 0 {
		cfg.Quality = quality
	}
	if cellSize != 0 {
		cfg.CellSize = cellSize
	}
	if workers != 0 {
		cfg.NumWorkers = workers
	}
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		cmapName          string
		format            string
		quality, cellSize int
	)

	cmd := &cobra.Command{
		Use:   "render -c NAME input.csv output.{webp,png}",
		Short: "Render a data grid with a colormap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				return fmt.Errorf("input file not found: %s", args[0])
			}

			a.cfg.InputFile = args[0]
			a.cfg.OutputFile = args[1]
			a.cfg.ColorMap = cmapName
			if format == "" && strings.HasSuffix(strings.ToLower(args[1]), ".png") {
				format = "png"
			}
			applyImageFlags(a.cfg, format, quality, cellSize, 0)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return render.RenderFile(a.reg, a.cfg, a.log)
		},
	}

	cmd.Flags().StringVarP(&cmapName, "cmap", "c", "backscatter", "Colormap name")
	imageFlags(cmd, &format, &quality, &cellSize, nil)
	return cmd
}

func newGalleryCmd(opts *globalOptions) *cobra.Command {
	var (
		outDir, dbPath             string
		format                     string
		quality, cellSize, workers int
	)

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Render the example panels of every lidar preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			applyImageFlags(a.cfg, format, quality, cellSize, workers)
			if outDir != "" {
				a.cfg.OutputDir = outDir
			}
			a.cfg.Database = dbPath
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			var sink render.Sink = render.DirSink{Dir: a.cfg.OutputDir}
			if a.cfg.Database != "" {
				database, err := db.InitDB(a.cfg.Database)
				if err != nil {
					return fmt.Errorf("failed to initialize database: %w", err)
				}
				defer database.Close()
				if err := db.ExportRegistry(database, a.reg); err != nil {
					return fmt.Errorf("failed to export colormaps: %w", err)
				}
				if err := db.UpdateMetadata(database, time.Now()); err != nil {
					return err
				}
				sink = db.PanelSink{DB: database}
			}

			if !a.cfg.Verbose {
				s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = " rendering gallery"
				s.Start()
				defer s.Stop()
			}

			return render.Generate(cmd.Context(), a.reg, a.cfg, render.GalleryPanels(), sink, a.log)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for panel images")
	cmd.Flags().StringVar(&dbPath, "db", "", "Store panels and the colormap catalogue in this SQLite file instead")
	imageFlags(cmd, &format, &quality, &cellSize, &workers)
	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export output.db",
		Short: "Export every colormap and boundary set to SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			database, err := db.InitDB(args[0])
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			if err := db.ExportRegistry(database, a.reg); err != nil {
				return err
			}
			if err := db.UpdateMetadata(database, time.Now()); err != nil {
				return err
			}
			a.log.Info("catalogue exported", "file", args[0], "maps", len(a.reg.Names()))
			return nil
		},
	}
}
