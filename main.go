package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "lidarcmap",
		Short: "Standardized colormaps for cloud and aerosol lidar plots",
		Long: `Standardized colormaps for attenuated backscatter, depolarization ratio
and color ratio lidar measurements.

Examples:
  lidarcmap list
  lidarcmap show depol_8
  lidarcmap bounds backscatter_18
  lidarcmap render -c backscatter_18 curtain.csv curtain.webp
  lidarcmap gallery -o examples
  lidarcmap export colormaps.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "dotenv file with LIDARCMAP_* settings (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newBoundsCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newGalleryCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}
