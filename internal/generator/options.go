package generator

import (
	"time"

	"go.uber.org/zap"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/runner"
)

const (
	DefaultMaxTicks = 1_000_000
	DefaultSize     = 8
)

// Constant forces an original tile, in a given orientation, into a cell.
type Constant struct {
	Pos       mathx.Vec3
	Tile      int
	Transform cube.Transform
}

// Options configures a generation session.
type Options struct {
	Size mathx.Vec3 // Size of the grid in cells
	Wrap grid.Wrap  // Wrap makes the given axes periodic
	Seed uint64     // Seed for reproducible output (0 = random)

	Timeout  time.Duration // Timeout limits generation time (0 = none)
	MaxTicks int           // MaxTicks limits runner iterations

	// Transforms are the orientations generated for every tile, further
	// limited by each tile's own Permutations.
	Transforms cube.TransformSet
	// ExpandPermutations turns every orientation into its own tile before
	// solving, instead of letting the grid track orientations per tile.
	ExpandPermutations bool

	// Boundary, if set, is required on every outer face of a non-wrapping axis.
	Boundary  *cube.FaceIdentifiers
	Constants []Constant

	// Runner tunes the search. nil means runner.DefaultOptions.
	Runner *runner.Options
	Logger *zap.Logger
	// ProgressInterval is the minimum time between progress log lines.
	ProgressInterval time.Duration
}

// DefaultOptions returns standard generator options.
func DefaultOptions() *Options {
	return &Options{
		Size:             mathx.Splat(DefaultSize),
		Seed:             0,
		Timeout:          30 * time.Second,
		MaxTicks:         DefaultMaxTicks,
		Transforms:       cube.AllTransformSet(),
		Runner:           nil, // nil → runner.DefaultOptions inside New
		ProgressInterval: 2 * time.Second,
	}
}
