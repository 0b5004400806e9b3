package generator

import (
	"time"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// Cell is one solved cell, expressed in terms of the original tiles.
type Cell struct {
	// Tile is the original tile index, or grid.NoTile.
	Tile      int
	Name      string
	Transform cube.Transform
}

func (c Cell) IsSet() bool { return c.Tile != grid.NoTile }

// Result is the outcome of a successful Generate call.
type Result struct {
	RunID   string
	Seed    uint64
	Size    mathx.Vec3
	Ticks   int
	Elapsed time.Duration
	// Cells are stored with X varying fastest, then Y, then Z.
	Cells []Cell
}

// At returns the cell at p.
func (r *Result) At(p mathx.Vec3) Cell {
	return r.Cells[p.X+r.Size.X*(p.Y+r.Size.Y*p.Z)]
}

// Counts returns how many cells hold each original tile, keyed by name.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range r.Cells {
		if c.IsSet() {
			counts[c.Name]++
		}
	}
	return counts
}
