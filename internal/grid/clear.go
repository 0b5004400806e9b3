package grid

import (
	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// ClearCells unsets every cell in region and recomputes the possibilities
// around it. The region is clamped to the grid.
//
// Immutable cells are kept unless includeImmutable is set; makeMutable
// turns the immutable cells it does clear into ordinary ones.
//
// When the most recent undo entries are exactly the region's cells, they
// are unwound instead, which keeps the rest of the undo log. Otherwise the
// undo log is dropped.
func (g *Grid) ClearCells(region mathx.Region, report *Report, includeImmutable, makeMutable bool) {
	region = region.Clamp(g.Bounds())
	n := region.Len()
	if n == 0 {
		return
	}
	if g.canUnwindRegion(region, includeImmutable) {
		g.UnwindActionHistories(n, report)
		return
	}
	g.ClearHistory()

	g.leftovers = g.leftovers[:0]
	for p := range region.Cells() {
		cell := &g.cells[g.index(p)]
		if !cell.Changeable && !includeImmutable {
			if cell.IsSet() {
				g.leftovers = append(g.leftovers, p)
			}
			continue
		}
		if makeMutable {
			cell.Changeable = true
		}
		g.resetCell(p, report)
	}

	// Walk the region's border. Set cells outside re-apply their face onto
	// the cleared cell next to them; unset cells outside may have lost a
	// constraint, so they are recomputed from scratch.
	for axis := range 3 {
		a1, a2 := (axis+1)%3, (axis+2)%3
		for _, isMin := range []bool{true, false} {
			outsideCoord, insideCoord := region.Min.Get(axis)-1, region.Min.Get(axis)
			if !isMin {
				outsideCoord, insideCoord = region.Max.Get(axis), region.Max.Get(axis)-1
			}
			// The side of the outside cell that faces into the region.
			inward := cube.MakeDirection(!isMin, axis)

			for u := region.Min.Get(a1); u < region.Max.Get(a1); u++ {
				for v := region.Min.Get(a2); v < region.Max.Get(a2); v++ {
					base := mathx.Vec3{}.With(a1, u).With(a2, v)
					outside := g.FilterPos(base.With(axis, outsideCoord))
					if !g.IsValid(outside) {
						continue
					}
					if g.cells[g.index(outside)].IsSet() {
						g.applyFilterFrom(outside, base.With(axis, insideCoord), inward, report, false)
					} else {
						g.RecalculateCellPossibilities(outside, report)
					}
				}
			}
		}
	}

	// Immutable cells left in the region constrain their cleared neighbors.
	for _, p := range g.leftovers {
		for _, side := range cube.Directions() {
			if nb, ok := g.neighbor(p, side); ok && region.Contains(nb) {
				g.applyFilterFrom(p, nb, side, report, false)
			}
		}
	}
}

func (g *Grid) canUnwindRegion(region mathx.Region, includeImmutable bool) bool {
	n := region.Len()
	if len(g.history) < n {
		return false
	}
	seen := make(map[mathx.Vec3]bool, n)
	for _, p := range g.history[len(g.history)-n:] {
		if seen[p] || !region.Contains(p) {
			return false
		}
		if !includeImmutable && !g.cells[g.index(p)].Changeable {
			return false
		}
		seen[p] = true
	}
	return true
}

// ClearCell unsets a single cell, including an immutable one.
func (g *Grid) ClearCell(p mathx.Vec3, report *Report, makeMutable bool) {
	p = g.FilterPos(p)
	g.mustIndex(p)
	g.ClearCells(mathx.CellRegion(p), report, true, makeMutable)
}

// ResetCellPossibilities unsets the cell at p and restores its initial
// possibilities without looking at its neighbors.
func (g *Grid) ResetCellPossibilities(p mathx.Vec3, report *Report) {
	p = g.FilterPos(p)
	g.mustIndex(p)
	g.resetCell(p, report)
}

func (g *Grid) resetCell(p mathx.Vec3, report *Report) {
	ci := g.index(p)
	cell := &g.cells[ci]
	if !cell.IsSet() && cell.NPossibilities == g.nPermuted {
		return
	}

	cell.Tile = NoTile
	cell.Permutation = cube.Identity
	report.boring(p)

	nTiles := len(g.tiles)
	copy(g.possible[ci*nTiles:(ci+1)*nTiles], g.initial[ci*nTiles:(ci+1)*nTiles])
	cell.NPossibilities = 0
	for _, s := range g.initial[ci*nTiles : (ci+1)*nTiles] {
		cell.NPossibilities += s.Len()
	}
}

// RecalculateCellPossibilities resets the cell at p and filters it by
// every set neighbor.
func (g *Grid) RecalculateCellPossibilities(p mathx.Vec3, report *Report) {
	p = g.FilterPos(p)
	g.mustIndex(p)
	g.resetCell(p, report)
	for _, side := range cube.Directions() {
		if nb, ok := g.neighbor(p, side); ok {
			g.applyFilterFrom(nb, p, side.Opposite(), report, false)
		}
	}
}

// SetCellNot permanently forbids the given permutations of tile at p.
// A cell already holding one of them is cleared. The undo log is dropped.
func (g *Grid) SetCellNot(p mathx.Vec3, tile int, permutations cube.TransformSet, report *Report) {
	p = g.FilterPos(p)
	ci := g.mustIndex(p)
	g.mustTile(tile)
	g.ClearHistory()

	key := ci*len(g.tiles) + tile
	g.initial[key].Remove(permutations)

	cell := &g.cells[ci]
	if cell.IsSet() {
		if cell.Tile == tile && permutations.Contains(cell.Permutation) {
			g.ClearCell(p, report, false)
		}
		return
	}

	removed := g.possible[key].Remove(permutations)
	if removed == 0 {
		return
	}
	cell.NPossibilities -= removed
	if cell.NPossibilities < 1 {
		report.unsolvable(p)
	} else {
		report.interesting(p)
	}
}

// SetFace permanently requires the face on side dir of cell p, and the
// matching face of the neighbor across it, to carry points.
// The undo log is dropped.
func (g *Grid) SetFace(p mathx.Vec3, dir cube.Direction, points cube.FaceIdentifiers, report *Report) {
	g.setFace(p, dir, points, report, false)
}

// SetFaceNot permanently forbids the face on side dir of cell p, and the
// matching face of the neighbor across it, from carrying points.
// The undo log is dropped.
func (g *Grid) SetFaceNot(p mathx.Vec3, dir cube.Direction, points cube.FaceIdentifiers, report *Report) {
	g.setFace(p, dir, points, report, true)
}

func (g *Grid) setFace(p mathx.Vec3, dir cube.Direction, points cube.FaceIdentifiers, report *Report, isForbidding bool) {
	g.ClearHistory()
	p = g.FilterPos(p)
	g.mustIndex(p)

	type faceCell struct {
		pos  mathx.Vec3
		side cube.Direction
	}
	targets := []faceCell{{p, dir}}
	if nb, ok := g.neighbor(p, dir); ok {
		targets = append(targets, faceCell{nb, dir.Opposite()})
	}

	for _, fc := range targets {
		face := cube.FacePermutation{Side: fc.side, Points: points}
		cell := g.cells[g.index(fc.pos)]

		needsFiltering := true
		if cell.IsSet() {
			chosen := g.GetFace(cell.Tile, cell.Permutation, fc.side)
			if (chosen.Points == points) == isForbidding {
				g.ClearCell(fc.pos, report, false)
			} else {
				needsFiltering = false
			}
		}

		if needsFiltering {
			g.ApplyFilter(fc.pos, face, report, isForbidding)
		}
		g.applyInitialFilter(fc.pos, face, isForbidding)
	}
}
