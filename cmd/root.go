package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "wfc3d",
	Short: "Generate 3D tile grids with wave function collapse",
	Long: `wfc3d fills a 3D grid with cube tiles whose faces must match their
neighbors. Tiles, faces and session settings are read from an HCL catalog.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress and backtracking details")
}

// Execute runs the command line with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
