package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rybkr/wfc3d/internal/catalog"
	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/generator"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/tiles"
)

func init() {
	inspectCmd := &cobra.Command{
		Use:   "inspect <catalog>",
		Short: "Show the tiles of a catalog and how they expand",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	rootCmd.AddCommand(inspectCmd)
}

// placementCount builds a one-cell generator to count the distinct
// (tile, permutation) placements the grid would search over.
func placementCount(input *tiles.InputData, base *generator.Options, expand bool) (tileCount, placements int, err error) {
	opts := *base
	opts.Size = mathx.Splat(1)
	opts.Wrap.X, opts.Wrap.Y, opts.Wrap.Z = false, false, false
	opts.Constants = nil
	opts.Boundary = nil
	opts.ExpandPermutations = expand

	gen, err := generator.New(input, &opts)
	if err != nil {
		return 0, 0, err
	}
	gridTiles := gen.Runner().Grid().Tiles()
	return len(gridTiles), tiles.PermutationCount(gridTiles), nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TILE\tWEIGHT\tPERMUTATIONS\tSYMMETRIES")
	for _, t := range c.Tiles {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", t.Name, t.Weight, t.Permutations.Len(), cube.FindSymmetries(t.Faces).Len())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	input := c.Input()
	fmt.Fprintf(out, "\n%d tiles, %d distinct faces\n", len(c.Tiles), input.DistinctFaces())

	nTiles, nPlacements, err := placementCount(input, c.Options, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "grid-native: %d tiles, %d placements\n", nTiles, nPlacements)

	nTiles, nPlacements, err = placementCount(input, c.Options, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "expanded:    %d tiles, %d placements\n", nTiles, nPlacements)
	return nil
}
