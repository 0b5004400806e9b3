// Package generator runs a complete generation session: it prepares the
// tile set, builds a runner, applies boundary and constant constraints,
// and ticks until the grid is solved or a budget runs out.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/runner"
	"github.com/rybkr/wfc3d/internal/tiles"
)

// tickBatch is how many ticks run between cancellation checks.
const tickBatch = 256

var (
	ErrGenerationFailed = errors.New("failed to generate grid")
	ErrBudgetExceeded   = errors.New("tick budget exhausted before the grid was solved")
	ErrInvalidConstant  = errors.New("invalid constant")
)

// Generator fills a grid from a tile set.
type Generator struct {
	options   *Options
	log       *zap.Logger
	originals []tiles.Tile
	// permutator is nil unless orientations were expanded into tiles.
	permutator *tiles.Permutator
	constants  map[mathx.Vec3]grid.Placement
	runner     *runner.Runner
}

// New prepares a generator for the given original tiles.
func New(input *tiles.InputData, options *Options) (*Generator, error) {
	if options == nil {
		options = DefaultOptions()
	}
	originals := input.Tiles()
	if err := tiles.Validate(originals); err != nil {
		return nil, err
	}
	if options.MaxTicks <= 0 {
		return nil, fmt.Errorf("%w: max ticks must be positive, got %d", ErrGenerationFailed, options.MaxTicks)
	}

	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{
		options:   options,
		log:       log,
		originals: originals,
	}

	requested := options.Transforms
	requested.Add(cube.Identity)

	var gridTiles []tiles.Tile
	if options.ExpandPermutations {
		symmetries := make([]cube.TransformSet, len(originals))
		for i, t := range originals {
			symmetries[i] = cube.FindSymmetries(t.Faces)
		}
		p, err := tiles.NewPermutator(originals, symmetries, requested)
		if err != nil {
			return nil, err
		}
		g.permutator = p
		gridTiles = p.Tiles()
	} else {
		gridTiles = make([]tiles.Tile, len(originals))
		for i, t := range originals {
			allowed := t.Permutations
			allowed.Intersect(requested)
			allowed.Add(cube.Identity)
			t.Permutations = tiles.ReducePermutations(t.Faces, allowed)
			gridTiles[i] = t
		}
	}

	runnerOptions := runner.DefaultOptions()
	if options.Runner != nil {
		copied := *options.Runner
		runnerOptions = &copied
	}
	runnerOptions.Seed = options.Seed
	if runnerOptions.Logger == nil {
		runnerOptions.Logger = log
	}

	r, err := runner.New(gridTiles, options.Size, options.Wrap, runnerOptions)
	if err != nil {
		return nil, err
	}
	g.runner = r

	g.constants = make(map[mathx.Vec3]grid.Placement, len(options.Constants))
	for _, c := range options.Constants {
		placement, err := g.resolve(c)
		if err != nil {
			return nil, err
		}
		if _, dup := g.constants[c.Pos]; dup {
			return nil, fmt.Errorf("%w: two constants at %v", ErrInvalidConstant, c.Pos)
		}
		g.constants[c.Pos] = placement
	}

	if options.Boundary != nil {
		g.applyBoundary(*options.Boundary)
	}
	if err := r.ResetWithConstants(g.constants); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConstant, err)
	}
	return g, nil
}

// Runner exposes the underlying runner, e.g. to observe its frontier.
func (g *Generator) Runner() *runner.Runner { return g.runner }

// PermutedTileCount is the number of tiles the grid works with.
func (g *Generator) PermutedTileCount() int { return len(g.runner.Grid().Tiles()) }

// resolve turns an original tile and orientation into a grid placement.
// An orientation that was dropped as a duplicate resolves to the kept one
// producing the same geometry.
func (g *Generator) resolve(c Constant) (grid.Placement, error) {
	if c.Tile < 0 || c.Tile >= len(g.originals) {
		return grid.Placement{}, fmt.Errorf("%w: tile %d out of range [0, %d)", ErrInvalidConstant, c.Tile, len(g.originals))
	}
	target := c.Transform.ApplyToCube(g.originals[c.Tile].Faces)
	gridTiles := g.runner.Grid().Tiles()

	if g.permutator != nil {
		for _, id := range g.permutator.Permutations(c.Tile) {
			if gridTiles[id].Faces == target {
				return grid.Placement{Tile: id, Permutation: cube.Identity}, nil
			}
		}
	} else {
		for t := range gridTiles[c.Tile].Permutations.All() {
			if t.ApplyToCube(g.originals[c.Tile].Faces) == target {
				return grid.Placement{Tile: c.Tile, Permutation: t}, nil
			}
		}
	}
	return grid.Placement{}, fmt.Errorf("%w: tile %d (%q) is not generated as %v",
		ErrInvalidConstant, c.Tile, g.originals[c.Tile].Name, c.Transform)
}

// applyBoundary pins every outer face of each non-wrapping axis.
func (g *Generator) applyBoundary(points cube.FaceIdentifiers) {
	bounds := g.runner.Grid().Bounds()
	wrap := [3]bool{g.options.Wrap.X, g.options.Wrap.Y, g.options.Wrap.Z}
	for _, dir := range cube.Directions() {
		axis := dir.Axis()
		if wrap[axis] {
			continue
		}
		layer := bounds
		if dir.IsMin() {
			layer.Max = layer.Max.With(axis, 1)
		} else {
			layer.Min = layer.Min.With(axis, bounds.Max.Get(axis)-1)
		}
		for p := range layer.Cells() {
			g.runner.SetFaceConstraint(p, dir, points, false)
		}
	}
}

// Generate runs the session until the grid is solved. It fails when the
// tick budget runs out, the timeout passes, or ctx is cancelled.
// Calling it again starts over from the constants.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.options.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := g.log.With(zap.String("run", runID))
	r := g.runner

	if err := r.ResetWithConstants(g.constants); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConstant, err)
	}

	start := time.Now()
	startTick := r.Ticks()
	limiter := rate.NewLimiter(rate.Every(g.options.ProgressInterval), 1)
	log.Info("generation started",
		zap.Stringer("size", g.options.Size),
		zap.Uint64("seed", r.Seed()),
		zap.Int("tiles", len(g.originals)),
		zap.Int("permuted", r.Grid().NumPermutedTiles()))

	for {
		ticks := r.Ticks() - startTick
		if err := ctx.Err(); err != nil {
			log.Warn("generation stopped", zap.Int("ticks", ticks), zap.Error(err))
			return nil, fmt.Errorf("%w after %d ticks: %w", ErrGenerationFailed, ticks, err)
		}
		if ticks >= g.options.MaxTicks {
			log.Warn("generation over budget",
				zap.Int("ticks", ticks),
				zap.Int("unsolvable", len(r.UnsolvableCells())))
			return nil, fmt.Errorf("%w: %d ticks", ErrBudgetExceeded, ticks)
		}

		if r.TickN(min(tickBatch, g.options.MaxTicks-ticks)) {
			break
		}

		if limiter.Allow() {
			log.Info("generation progress",
				zap.Int("ticks", r.Ticks()-startTick),
				zap.Float64("progress", r.Grid().Progress()),
				zap.Stringer("action", r.LastAction()))
		}
	}

	result := g.collect(runID, r.Ticks()-startTick, time.Since(start))
	log.Info("generation finished",
		zap.Int("ticks", result.Ticks),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (g *Generator) collect(runID string, ticks int, elapsed time.Duration) *Result {
	gr := g.runner.Grid()
	res := &Result{
		RunID:   runID,
		Seed:    g.runner.Seed(),
		Size:    gr.Size(),
		Ticks:   ticks,
		Elapsed: elapsed,
		Cells:   make([]Cell, 0, gr.Size().Volume()),
	}

	for p := range gr.Bounds().Cells() {
		state := gr.Cell(p)
		if !state.IsSet() {
			res.Cells = append(res.Cells, Cell{Tile: grid.NoTile})
			continue
		}
		cell := Cell{Tile: state.Tile, Transform: state.Permutation}
		if g.permutator != nil {
			parent := g.permutator.FindOriginal(state.Tile)
			cell = Cell{Tile: parent.Original, Transform: parent.Transform.Then(state.Permutation)}
		}
		cell.Name = g.originals[cell.Tile].Name
		res.Cells = append(res.Cells, cell)
	}
	return res
}
