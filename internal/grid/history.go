package grid

import (
	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// UnwindActionHistory undoes the most recent non-permanent placement,
// restoring the possibilities it removed from the cell and its neighbors.
// It does nothing when the undo log is empty.
func (g *Grid) UnwindActionHistory(report *Report) {
	if len(g.history) == 0 {
		return
	}

	nTiles := len(g.tiles)
	entry := len(g.history) - 1
	pos := g.history[entry]
	start := entry * len(historyNeighbors) * nTiles

	for i, offset := range historyNeighbors {
		p := g.FilterPos(pos.Add(offset))
		if !g.IsValid(p) {
			continue
		}
		ci := g.index(p)
		cell := &g.cells[ci]
		// Set neighbors keep their frozen state; only the unwound cell is unset.
		if i > 0 && cell.IsSet() {
			continue
		}

		snapshot := g.historyState[start+i*nTiles : start+(i+1)*nTiles]
		copy(g.possible[ci*nTiles:(ci+1)*nTiles], snapshot)

		before := cell.NPossibilities
		cell.NPossibilities = 0
		for _, s := range snapshot {
			cell.NPossibilities += s.Len()
		}

		switch {
		case cell.NPossibilities == 0 && before > 0:
			report.unsolvable(p)
		case cell.NPossibilities == g.nPermuted && before < g.nPermuted:
			report.boring(p)
		case cell.NPossibilities < before:
			report.interesting(p)
		}
	}

	cell := &g.cells[g.index(pos)]
	cell.Tile = NoTile
	cell.Permutation = cube.Identity
	report.interesting(pos)

	g.history = g.history[:entry]
	g.historyState = g.historyState[:start]
}

// UnwindActionHistories undoes up to n of the most recent placements.
func (g *Grid) UnwindActionHistories(n int, report *Report) {
	n = min(n, len(g.history))
	if n <= 0 {
		return
	}

	unwound := make([]mathx.Vec3, 0, n)
	for range n {
		unwound = append(unwound, g.history[len(g.history)-1])
		g.UnwindActionHistory(report)
	}

	// A cell may look unsolvable partway through a multi-step unwind and
	// recover by the end.
	if report != nil {
		for _, p := range unwound {
			if g.cells[g.index(p)].NPossibilities > 0 {
				report.GotUnsolvable.Remove(p)
			}
		}
	}
}
