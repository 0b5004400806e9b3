package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"

	"github.com/rybkr/wfc3d/internal/catalog"
	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/generator"
	"github.com/rybkr/wfc3d/internal/mathx"
)

var (
	catalogPath string
	numGrids    int
	seed        uint64
	sizeFlag    string
	wrapFlag    string
	maxTicks    int
	timeout     time.Duration
	expand      bool
	outputFile  string
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate tile grids",
		Long: `Generate one or more grids from a tile catalog. Flags override the
catalog's session block.

Examples:
  wfc3d gen --catalog pipes.hcl
  wfc3d gen -c pipes.hcl -n 3 --seed 7 --size 8,8,4
  wfc3d gen -c pipes.hcl --wrap xy --timeout 1m -o pipes.html`,
		RunE: runGen,
	}

	genCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Tile catalog (HCL)")
	genCmd.Flags().IntVarP(&numGrids, "number", "n", 1, "Number of grids to generate")
	genCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the first grid; later grids count up from it (0 = random)")
	genCmd.Flags().StringVar(&sizeFlag, "size", "", "Grid size as X,Y,Z or a single number for a cube")
	genCmd.Flags().StringVar(&wrapFlag, "wrap", "", "Axes that wrap around, e.g. xy")
	genCmd.Flags().IntVar(&maxTicks, "max-ticks", generator.DefaultMaxTicks, "Runner iterations allowed per grid")
	genCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Generation timeout per grid")
	genCmd.Flags().BoolVar(&expand, "expand", false, "Expand every orientation into its own tile")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (e.g., grid.html)")
	_ = genCmd.MarkFlagRequired("catalog")

	rootCmd.AddCommand(genCmd)
}

// parseSize parses a grid size, which can be:
// - A single number: "8"
// - Three numbers: "8,8,4"
func parseSize(s string) (mathx.Vec3, error) {
	parts := strings.Split(s, ",")
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return mathx.Vec3{}, fmt.Errorf("invalid size: %w", err)
		}
		if v < 1 {
			return mathx.Vec3{}, fmt.Errorf("invalid size: %d is not positive", v)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return mathx.Splat(vals[0]), nil
	case 3:
		return mathx.V3(vals[0], vals[1], vals[2]), nil
	}
	return mathx.Vec3{}, fmt.Errorf("invalid size format: %s (use format like '8' or '8,8,4')", s)
}

// parseWrap reads a set of axis letters such as "xz".
func parseWrap(s string, opts *generator.Options) error {
	opts.Wrap.X, opts.Wrap.Y, opts.Wrap.Z = false, false, false
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'x':
			opts.Wrap.X = true
		case 'y':
			opts.Wrap.Y = true
		case 'z':
			opts.Wrap.Z = true
		case ',', ' ':
		default:
			return fmt.Errorf("invalid wrap axis %q", r)
		}
	}
	return nil
}

// applyFlags overrides session settings with the flags the user set.
func applyFlags(cmd *cobra.Command, opts *generator.Options) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		opts.Seed = seed
	}
	if flags.Changed("size") {
		size, err := parseSize(sizeFlag)
		if err != nil {
			return err
		}
		opts.Size = size
	}
	if flags.Changed("wrap") {
		if err := parseWrap(wrapFlag, opts); err != nil {
			return err
		}
	}
	if flags.Changed("max-ticks") {
		opts.MaxTicks = maxTicks
	}
	if flags.Changed("timeout") {
		opts.Timeout = timeout
	}
	if flags.Changed("expand") {
		opts.ExpandPermutations = expand
	}
	return nil
}

// cellLabel names a cell as tile or tile@transform.
func cellLabel(c generator.Cell) string {
	if !c.IsSet() {
		return "."
	}
	if c.Transform == cube.Identity {
		return c.Name
	}
	return c.Name + "@" + c.Transform.String()
}

// writeText prints a result one Z layer at a time, with Y rows and X columns.
func writeText(w io.Writer, index int, res *generator.Result) error {
	if _, err := fmt.Fprintf(w, "Grid #%d (run %s, seed %d, %d ticks, %v):\n",
		index, res.RunID, res.Seed, res.Ticks, res.Elapsed.Round(time.Millisecond)); err != nil {
		return err
	}

	width := 1
	for _, c := range res.Cells {
		width = max(width, len(cellLabel(c)))
	}
	for z := range res.Size.Z {
		if _, err := fmt.Fprintf(w, "z=%d\n", z); err != nil {
			return err
		}
		for y := range res.Size.Y {
			var sb strings.Builder
			for x := range res.Size.X {
				if x > 0 {
					sb.WriteString(" ")
				}
				fmt.Fprintf(&sb, "%-*s", width, cellLabel(res.At(mathx.V3(x, y, z))))
			}
			if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// generateHTML creates an HTML file with one page per grid and one table per Z layer.
func generateHTML(filename string, results []*generator.Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	// Write HTML header
	_, err = fmt.Fprintf(file, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Tile Grids</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            max-width: 1000px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .page {
            page-break-after: always;
            background-color: white;
            padding: 40px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .page:last-child {
            page-break-after: auto;
        }
        h1 {
            color: #333;
            margin-bottom: 10px;
            text-align: center;
        }
        .meta {
            color: #666;
            text-align: center;
            font-size: 0.9em;
        }
        h2 {
            color: #666;
            margin-top: 20px;
            margin-bottom: 15px;
            font-size: 1.2em;
        }
        .layer table {
            border-collapse: collapse;
            font-family: 'Courier New', monospace;
            font-size: 12px;
        }
        .layer td {
            min-width: 60px;
            height: 40px;
            text-align: center;
            vertical-align: middle;
            border: 1px solid #333;
            padding: 2px;
        }
        .layer td.empty {
            color: #ccc;
        }
        .layer td .transform {
            display: block;
            color: #888;
            font-size: 10px;
        }
        @media print {
            body {
                background-color: white;
            }
            .page {
                margin-bottom: 0;
                box-shadow: none;
            }
        }
    </style>
</head>
<body>
`)
	if err != nil {
		return err
	}

	// Write each grid on its own page
	for i, res := range results {
		_, err = fmt.Fprintf(file, `    <div class="page">
        <h1>Grid #%d</h1>
        <p class="meta">%v cells, seed %d, %d ticks, run %s</p>
`, i+1, res.Size, res.Seed, res.Ticks, res.RunID)
		if err != nil {
			return err
		}
		for z := range res.Size.Z {
			_, err = fmt.Fprintf(file, "        <h2>Layer z=%d</h2>\n        %s\n", z, layerToHTML(res, z))
			if err != nil {
				return err
			}
		}
		if _, err = fmt.Fprintf(file, "    </div>\n"); err != nil {
			return err
		}
	}

	// Write HTML footer
	_, err = fmt.Fprintf(file, `</body>
</html>
`)
	return err
}

// layerToHTML converts one Z layer to an HTML table. Each cell gets a CSS
// class derived from its tile name so catalogs can be styled.
func layerToHTML(res *generator.Result, z int) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"layer\"><table>")

	for y := range res.Size.Y {
		sb.WriteString("<tr>")
		for x := range res.Size.X {
			c := res.At(mathx.V3(x, y, z))
			if !c.IsSet() {
				sb.WriteString("<td class=\"empty\">·</td>")
				continue
			}
			fmt.Fprintf(&sb, "<td class=\"tile-%s\">%s<span class=\"transform\">%v</span></td>",
				strcase.ToKebab(c.Name), c.Name, c.Transform)
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</table></div>")
	return sb.String()
}

func runGen(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	opts := c.Options
	if err := applyFlags(cmd, opts); err != nil {
		return err
	}
	opts.Logger = log

	var results []*generator.Result
	outputHTML := outputFile != ""

	for i := range numGrids {
		runOpts := *opts
		if opts.Seed != 0 {
			runOpts.Seed = opts.Seed + uint64(i)
		}

		gen, err := generator.New(c.Input(), &runOpts)
		if err != nil {
			return err
		}
		res, err := gen.Generate(cmd.Context())
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		if outputHTML {
			results = append(results, res)
		} else if err := writeText(cmd.OutOrStdout(), i+1, res); err != nil {
			return err
		}
	}

	if outputHTML {
		filename := outputFile
		if filepath.Ext(filename) != ".html" {
			filename = filename + ".html"
		}

		if err := generateHTML(filename, results); err != nil {
			return fmt.Errorf("failed to write HTML file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d grid(s) in %s\n", len(results), filename)
	}

	return nil
}
