package grid

import (
	"errors"
	"fmt"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/mathx"
)

var (
	ErrInvalidSize      = errors.New("grid size must be positive on every axis")
	ErrInvalidPosition  = errors.New("position out of bounds")
	ErrInvalidTile      = errors.New("tile index out of range")
	ErrIllegalPlacement = errors.New("placement violates a neighboring face")
	ErrInconsistent     = errors.New("grid bookkeeping is inconsistent")
)

// CheckPlacement reports, as an error, why a placement at p would be
// rejected by SetCell with legality checking on.
func (g *Grid) CheckPlacement(p mathx.Vec3, tile int, permutation cube.Transform) error {
	p = g.FilterPos(p)
	if !g.IsValid(p) {
		return fmt.Errorf("%w: %v outside %v", ErrInvalidPosition, p, g.size)
	}
	if tile < 0 || tile >= len(g.tiles) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidTile, tile, len(g.tiles))
	}
	if !g.tiles[tile].Permutations.Contains(permutation) {
		return fmt.Errorf("%w: tile %d does not allow permutation %v", ErrIllegalPlacement, tile, permutation)
	}
	if !g.IsLegalPlacement(p, tile, permutation) {
		return fmt.Errorf("%w: tile %d as %v at %v", ErrIllegalPlacement, tile, permutation, p)
	}
	return nil
}

// Validate checks the grid's internal invariants: set cells count one
// possibility, unset cells count exactly their remaining permutations,
// and every set cell agrees with its set neighbors.
func (g *Grid) Validate() error {
	nTiles := len(g.tiles)
	for p := range g.Bounds().Cells() {
		ci := g.index(p)
		cell := g.cells[ci]

		if cell.IsSet() {
			if cell.NPossibilities != 1 {
				return fmt.Errorf("%w: set cell %v counts %d possibilities", ErrInconsistent, p, cell.NPossibilities)
			}
			if !g.IsLegalPlacement(p, cell.Tile, cell.Permutation) {
				return fmt.Errorf("%w: set cell %v conflicts with a neighbor", ErrInconsistent, p)
			}
			continue
		}

		sum := 0
		for _, s := range g.possible[ci*nTiles : (ci+1)*nTiles] {
			sum += s.Len()
		}
		if sum != cell.NPossibilities {
			return fmt.Errorf("%w: cell %v counts %d possibilities but holds %d", ErrInconsistent, p, cell.NPossibilities, sum)
		}
	}

	if want := len(g.history) * len(historyNeighbors) * nTiles; len(g.historyState) != want {
		return fmt.Errorf("%w: undo log holds %d snapshots, want %d", ErrInconsistent, len(g.historyState), want)
	}
	return nil
}
