// Package runner drives a grid to a full solution one placement at a time,
// backing off with undo and region clearing when cells become unsolvable.
package runner

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/prng"
	"github.com/rybkr/wfc3d/internal/tiles"
)

// Runner schedules placements on a Grid.
//
// It keeps a frontier of narrowed cells, always sets the most urgent one,
// and reacts to failures by first undoing recent placements and, when that
// keeps failing, clearing a temperature-sized region around the failure.
// A Runner is not safe for concurrent use.
type Runner struct {
	grid *grid.Grid
	opts *Options
	log  *zap.Logger

	seed     uint64
	hashSeed uint32
	rng      *rand.Rand

	tick    int
	history []cellHistory

	nextCells  grid.CellSet
	unsolvable grid.CellSet
	report     *grid.Report
	lastAction Action

	// Set to -1 when not replaying unwound placements.
	unwindingCount int
	// Placements left before the last unwind counts as replayed.
	placementsTillRewound int

	candidates []candidate
	weights    []float64
}

// New creates a runner over a fresh grid built from a flat tile list.
func New(tileList []tiles.Tile, size mathx.Vec3, wrap grid.Wrap, options *Options) (*Runner, error) {
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.New(tileList, size, wrap)
	if err != nil {
		return nil, err
	}

	seed := options.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		grid:                  g,
		opts:                  options,
		log:                   log,
		seed:                  seed,
		hashSeed:              uint32(seed ^ seed>>32),
		rng:                   rand.New(prng.New(seed)),
		history:               make([]cellHistory, size.Volume()),
		nextCells:             make(grid.CellSet),
		unsolvable:            make(grid.CellSet),
		report:                grid.NewReport(),
		unwindingCount:        -1,
		placementsTillRewound: -1,
	}
	r.resetHistory()
	return r, nil
}

func (r *Runner) Grid() *grid.Grid { return r.grid }

// Seed is the seed actually used, which differs from Options.Seed when that was 0.
func (r *Runner) Seed() uint64 { return r.seed }

// Ticks is the number of Tick calls since construction.
func (r *Runner) Ticks() int { return r.tick }

func (r *Runner) LastAction() Action { return r.lastAction }

// NextCells returns the frontier of narrowed, solvable cells in sorted order.
func (r *Runner) NextCells() []mathx.Vec3 { return r.nextCells.Sorted() }

// UnsolvableCells returns the cells waiting to be cleared in sorted order.
func (r *Runner) UnsolvableCells() []mathx.Vec3 { return r.unsolvable.Sorted() }

// Tick runs one step of the algorithm and reports whether every cell is
// now set.
func (r *Runner) Tick() bool {
	r.tick++

	if len(r.unsolvable) > 0 {
		r.recover()
		return false
	}

	if len(r.nextCells) == 0 && r.rescan() {
		r.lastAction = Action{Kind: ActionFinish}
		return true
	}

	p := r.pickNextCell()
	placement, ok := r.randomTile(r.grid.PossibilitiesAt(p))
	if !ok {
		r.unsolvable.Add(p)
		r.nextCells.Remove(p)
		r.lastAction = Action{Kind: ActionFailedOnCell, Cell: p}
		return false
	}

	r.SetCell(p, placement.Tile, placement.Permutation, false)
	r.lastAction = Action{Kind: ActionSetCell, Cell: p, Placement: placement}

	r.placementsTillRewound--
	if r.placementsTillRewound < 1 {
		r.unwindingCount = -1
	}

	if len(r.nextCells) == 0 && len(r.unsolvable) == 0 && r.grid.IsSolved() {
		r.lastAction = Action{Kind: ActionFinish, Cell: p, Placement: placement}
		return true
	}
	return false
}

// TickN runs Tick up to n times, stopping early once the grid is solved.
func (r *Runner) TickN(n int) bool {
	for range n {
		if r.Tick() {
			return true
		}
	}
	return false
}

// recover undoes recent placements, doubling the amount each time the
// previous undo failed again before it was replayed halfway. Once undoing
// grows too large it clears regions around every unsolvable cell instead.
func (r *Runner) recover() {
	if r.unwindingCount < 1 {
		r.unwindingCount = r.opts.InitialUnwindingCount
	} else if r.placementsTillRewound <= r.unwindingCount/2 {
		r.unwindingCount *= 2
	}

	if r.unwindingCount >= r.opts.MaxUnwindingCount || r.unwindingCount < 1 ||
		r.unwindingCount >= r.grid.HistoryLen() {
		r.unwindingCount = -1

		failed := r.unsolvable.Sorted()
		clear(r.unsolvable)
		for _, p := range failed {
			r.clearAround(p)
		}
		// Clearing never creates failures, but a cell that was already
		// reported stays unsolvable if no clear reached it.
		for p := range r.unsolvable {
			if c := r.grid.Cell(p); c.IsSet() || c.NPossibilities > 0 {
				r.unsolvable.Remove(p)
				if !c.IsSet() {
					r.nextCells.Add(p)
				}
			}
		}
		r.lastAction = Action{Kind: ActionClearCells, Count: len(failed)}
		r.log.Debug("cleared unsolvable cells", zap.Int("tick", r.tick), zap.Int("cells", len(failed)))
		return
	}

	r.placementsTillRewound = 2 * r.unwindingCount
	r.UnwindCells(r.unwindingCount)
	// A cell still stuck after the undo is found again by the next rescan.
	clear(r.unsolvable)
	r.lastAction = Action{Kind: ActionUndoCells, Count: r.unwindingCount}
	r.log.Debug("unwound placements", zap.Int("tick", r.tick), zap.Int("count", r.unwindingCount))
}

// rescan rebuilds the frontier from the grid. It reports whether every
// cell is already set.
func (r *Runner) rescan() bool {
	nSet := 0
	unconstrained := r.grid.NumPermutedTiles()
	for p := range r.grid.Bounds().Cells() {
		c := r.grid.Cell(p)
		switch {
		case c.IsSet():
			nSet++
		case c.NPossibilities < unconstrained:
			r.nextCells.Add(p)
		}
	}
	if nSet == r.grid.Size().Volume() {
		return true
	}

	// With no information to prioritize by, start anywhere. Set cells can
	// still exist here when every tile shares the faces between them and
	// the unset cells.
	if len(r.nextCells) == 0 {
		size := r.grid.Size()
		for {
			p := mathx.V3(r.rng.IntN(size.X), r.rng.IntN(size.Y), r.rng.IntN(size.Z))
			if !r.grid.Cell(p).IsSet() {
				r.nextCells.Add(p)
				break
			}
		}
	}
	return false
}

// absorbReport folds r.report into the frontier. The report's sets
// overlap, so the order matters.
func (r *Runner) absorbReport() {
	for p := range r.report.GotBoring {
		r.nextCells.Remove(p)
	}
	for p := range r.report.GotInteresting {
		r.nextCells.Add(p)
	}
	for p := range r.report.GotUnsolvable {
		r.unsolvable.Add(p)
		r.nextCells.Remove(p)
	}
}

// SetCell places a tile and updates the frontier. Permanent placements
// survive Reset and are never undone.
func (r *Runner) SetCell(p mathx.Vec3, tile int, permutation cube.Transform, isPermanent bool) {
	p = r.grid.FilterPos(p)
	r.report.Clear()
	r.grid.SetCell(p, tile, permutation, isPermanent, r.report, false)
	r.nextCells.Remove(p)
	r.unsolvable.Remove(p)
	r.absorbReport()

	// Replaying unwound placements should not cool anything down.
	if r.unwindingCount < 1 {
		r.coolOnSet(p)
	}
}

// UnwindCells undoes the last n placements.
func (r *Runner) UnwindCells(n int) {
	r.report.Clear()
	r.grid.UnwindActionHistories(n, r.report)
	r.absorbReport()
}

// SetCellConstraintNot permanently forbids the given permutations of a tile at p.
func (r *Runner) SetCellConstraintNot(p mathx.Vec3, tile int, permutations cube.TransformSet) {
	r.report.Clear()
	r.grid.SetCellNot(p, tile, permutations, r.report)
	r.absorbReport()
}

// SetFaceConstraint permanently requires the face on side dir of p to carry
// points. With invert it forbids that face instead.
func (r *Runner) SetFaceConstraint(p mathx.Vec3, dir cube.Direction, points cube.FaceIdentifiers, invert bool) {
	if invert {
		r.SetFaceConstraintNot(p, dir, points)
		return
	}
	r.report.Clear()
	r.grid.SetFace(p, dir, points, r.report)
	r.absorbReport()
}

// SetFaceConstraintNot permanently forbids the face on side dir of p from carrying points.
func (r *Runner) SetFaceConstraintNot(p mathx.Vec3, dir cube.Direction, points cube.FaceIdentifiers) {
	r.report.Clear()
	r.grid.SetFaceNot(p, dir, points, r.report)
	r.absorbReport()
}

// Reset clears every changeable cell, the temperature history and the frontier.
// Permanent placements and standing constraints remain.
func (r *Runner) Reset() {
	r.report.Clear()
	r.grid.ClearCells(r.grid.Bounds(), r.report, false, false)
	r.resetState()
}

// ResetWithConstants clears the whole grid, permanent placements included,
// then places each constant permanently. Constants are applied in position
// order; the first one that conflicts with the tile set or an earlier
// constant is returned as an error.
func (r *Runner) ResetWithConstants(constants map[mathx.Vec3]grid.Placement) error {
	r.report.Clear()
	r.grid.ClearCells(r.grid.Bounds(), r.report, true, true)
	r.resetState()

	positions := make([]mathx.Vec3, 0, len(constants))
	for p := range constants {
		positions = append(positions, p)
	}
	slices.SortFunc(positions, func(a, b mathx.Vec3) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})

	for _, p := range positions {
		c := constants[p]
		if err := r.grid.CheckPlacement(p, c.Tile, c.Permutation); err != nil {
			return fmt.Errorf("constant at %v: %w", p, err)
		}
		r.SetCell(p, c.Tile, c.Permutation, true)
	}
	return nil
}

func (r *Runner) resetState() {
	r.resetHistory()
	r.report.Clear()
	clear(r.nextCells)
	clear(r.unsolvable)
	r.unwindingCount = -1
	r.placementsTillRewound = -1
	r.lastAction = Action{}
}
