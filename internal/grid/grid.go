package grid

import (
	"fmt"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/tiles"
)

// NoTile marks an unset cell.
const NoTile = -1

// historyNeighbors are the cells snapshotted for each undoable placement:
// the cell itself first, then its neighbors in Direction order.
var historyNeighbors = [cube.NumDirections + 1]mathx.Vec3{
	{},
	{X: -1}, {X: 1},
	{Y: -1}, {Y: 1},
	{Z: -1}, {Z: 1},
}

// Placement is a tile in a specific orientation.
type Placement struct {
	Tile        int
	Permutation cube.Transform
}

// CellState is the current state of one grid cell.
type CellState struct {
	// Tile is the chosen tile, or NoTile.
	Tile        int
	Permutation cube.Transform
	// Changeable is false for permanent placements, which survive clears.
	Changeable bool
	// NPossibilities is 1 for a set cell; otherwise the number of
	// (tile, permutation) pairs still allowed here.
	NPossibilities int
}

func (c CellState) IsSet() bool { return c.Tile != NoTile }

// Wrap says which axes are periodic. Neighbors across a wrapped boundary
// come from the other side of the grid.
type Wrap struct {
	X, Y, Z bool
}

func (w Wrap) axis(i int) bool {
	switch i {
	case 0:
		return w.X
	case 1:
		return w.Y
	default:
		return w.Z
	}
}

// Grid tracks which tile permutations remain possible in every cell of a
// 3D volume and propagates face constraints between neighbors.
//
// A Grid is not safe for concurrent use.
type Grid struct {
	tiles     []tiles.Tile
	size      mathx.Vec3
	wrap      Wrap
	nPermuted int

	cells []CellState
	// possible and initial hold one TransformSet per (cell, tile), at cellIndex*len(tiles)+tile.
	// initial is what a cell resets to; standing face and cell constraints narrow it.
	possible []cube.TransformSet
	initial  []cube.TransformSet

	faceIndices map[cube.FacePermutation]int
	// matching holds, at tile*nFaces+faceIndex, the permutations of tile that present that face.
	matching []cube.TransformSet
	nFaces   int

	// history is the undo log of non-permanent placements. Each entry owns
	// len(historyNeighbors)*len(tiles) snapshot sets in historyState.
	history      []mathx.Vec3
	historyState []cube.TransformSet

	leftovers []mathx.Vec3
}

// New creates a grid of the given size over a tile list.
func New(tileList []tiles.Tile, size mathx.Vec3, wrap Wrap) (*Grid, error) {
	if err := tiles.Validate(tileList); err != nil {
		return nil, err
	}
	if size.X < 1 || size.Y < 1 || size.Z < 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}

	g := &Grid{
		tiles:       tileList,
		size:        size,
		wrap:        wrap,
		nPermuted:   tiles.PermutationCount(tileList),
		cells:       make([]CellState, size.Volume()),
		possible:    make([]cube.TransformSet, size.Volume()*len(tileList)),
		initial:     make([]cube.TransformSet, size.Volume()*len(tileList)),
		faceIndices: make(map[cube.FacePermutation]int),
	}

	for _, t := range tileList {
		for tr := range t.Permutations.All() {
			for _, f := range t.Faces.Faces {
				key := tr.ApplyToFace(f)
				if _, ok := g.faceIndices[key]; !ok {
					g.faceIndices[key] = len(g.faceIndices)
				}
			}
		}
	}
	g.nFaces = len(g.faceIndices)

	g.matching = make([]cube.TransformSet, len(tileList)*g.nFaces)
	for ti, t := range tileList {
		for tr := range t.Permutations.All() {
			for _, f := range t.Faces.Faces {
				g.matching[ti*g.nFaces+g.faceIndices[tr.ApplyToFace(f)]].Add(tr)
			}
		}
	}

	for ci := range g.cells {
		for ti, t := range tileList {
			g.initial[ci*len(tileList)+ti] = t.Permutations
		}
	}

	g.Reset()
	return g, nil
}

// Reset unsets every cell, restores the initial possibilities and drops the undo log.
// Standing constraints from SetFace, SetFaceNot and SetCellNot are kept.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = CellState{Tile: NoTile, Changeable: true, NPossibilities: 0}
		for ti := range g.tiles {
			g.cells[i].NPossibilities += g.initial[i*len(g.tiles)+ti].Len()
		}
	}
	copy(g.possible, g.initial)
	g.ClearHistory()
}

func (g *Grid) Size() mathx.Vec3     { return g.size }
func (g *Grid) Wrap() Wrap           { return g.wrap }
func (g *Grid) Tiles() []tiles.Tile  { return g.tiles }
func (g *Grid) Bounds() mathx.Region { return mathx.RegionOf(g.size) }

// NumPermutedTiles is the number of possibilities an unconstrained cell has.
func (g *Grid) NumPermutedTiles() int { return g.nPermuted }

// NumFaces is the number of distinct faces the tile set can present.
func (g *Grid) NumFaces() int { return g.nFaces }

// HistoryLen is the number of placements that can currently be unwound.
func (g *Grid) HistoryLen() int { return len(g.history) }

// ClearHistory drops the undo log.
func (g *Grid) ClearHistory() {
	g.history = g.history[:0]
	g.historyState = g.historyState[:0]
}

// IsValid reports whether p lies inside the grid.
func (g *Grid) IsValid(p mathx.Vec3) bool {
	return g.Bounds().Contains(p)
}

// FilterPos wraps p around every periodic axis. Positions on other axes
// are returned unchanged and may still be out of bounds.
func (g *Grid) FilterPos(p mathx.Vec3) mathx.Vec3 {
	for axis := range 3 {
		if g.wrap.axis(axis) {
			p = p.With(axis, mathx.PositiveMod(p.Get(axis), g.size.Get(axis)))
		}
	}
	return p
}

func (g *Grid) index(p mathx.Vec3) int {
	return p.X + g.size.X*(p.Y+g.size.Y*p.Z)
}

func (g *Grid) mustIndex(p mathx.Vec3) int {
	if !g.IsValid(p) {
		panic(fmt.Sprintf("grid: %v: %v outside %v", ErrInvalidPosition, p, g.size))
	}
	return g.index(p)
}

func (g *Grid) mustTile(tile int) {
	if tile < 0 || tile >= len(g.tiles) {
		panic(fmt.Sprintf("grid: %v: tile %d outside [0, %d)", ErrInvalidTile, tile, len(g.tiles)))
	}
}

// Cell returns the state of the cell at p.
func (g *Grid) Cell(p mathx.Vec3) CellState {
	return g.cells[g.mustIndex(g.FilterPos(p))]
}

// Possibilities returns the permutations of tile still allowed at p.
// The value is stale once the cell is set.
func (g *Grid) Possibilities(p mathx.Vec3, tile int) cube.TransformSet {
	g.mustTile(tile)
	return g.possible[g.mustIndex(g.FilterPos(p))*len(g.tiles)+tile]
}

// PossibilitiesAt returns every tile's allowed permutations at p, indexed
// by tile. The slice aliases grid storage and must not be modified.
func (g *Grid) PossibilitiesAt(p mathx.Vec3) []cube.TransformSet {
	i := g.mustIndex(g.FilterPos(p)) * len(g.tiles)
	return g.possible[i : i+len(g.tiles)]
}

// SetCount is the number of cells that hold a tile.
func (g *Grid) SetCount() int {
	n := 0
	for _, c := range g.cells {
		if c.IsSet() {
			n++
		}
	}
	return n
}

// Progress is the fraction of cells that are set.
func (g *Grid) Progress() float64 {
	return float64(g.SetCount()) / float64(len(g.cells))
}

// IsSolved reports whether every cell holds a tile.
func (g *Grid) IsSolved() bool {
	return g.SetCount() == len(g.cells)
}

// GetFace returns the face a tile in the given orientation presents on side.
func (g *Grid) GetFace(tile int, permutation cube.Transform, side cube.Direction) cube.FacePermutation {
	orig := permutation.Inverse().ApplyToSide(side)
	return permutation.ApplyToFace(g.tiles[tile].Faces.Faces[orig])
}

// neighbor returns the cell across side from p, after wrapping, and whether it exists.
func (g *Grid) neighbor(p mathx.Vec3, side cube.Direction) (mathx.Vec3, bool) {
	n := g.FilterPos(p.Add(side.Offset()))
	return n, g.IsValid(n)
}

// IsLegalPlacement reports whether every set neighbor of p accepts the
// given tile and permutation.
func (g *Grid) IsLegalPlacement(p mathx.Vec3, tile int, permutation cube.Transform) bool {
	p = g.FilterPos(p)
	for _, side := range cube.Directions() {
		n, ok := g.neighbor(p, side)
		if !ok {
			continue
		}
		nc := g.cells[g.index(n)]
		if !nc.IsSet() {
			continue
		}

		required := g.GetFace(nc.Tile, nc.Permutation, side.Opposite()).Flipped()
		fi, ok := g.faceIndices[required]
		if !ok || !g.matching[tile*g.nFaces+fi].Contains(permutation) {
			return false
		}
	}
	return true
}

// SetCell places a tile at p and filters its neighbors.
//
// A cell that is already set is cleared first. Permanent placements cannot
// be unwound and survive ClearCells unless immutable cells are included;
// they also drop the undo log. With assertLegal, an illegal placement panics.
func (g *Grid) SetCell(p mathx.Vec3, tile int, permutation cube.Transform, isPermanent bool, report *Report, assertLegal bool) {
	p = g.FilterPos(p)
	ci := g.mustIndex(p)
	g.mustTile(tile)
	if assertLegal {
		if !g.tiles[tile].Permutations.Contains(permutation) {
			panic(fmt.Sprintf("grid: %v: tile %d has no permutation %v", ErrIllegalPlacement, tile, permutation))
		}
		if !g.IsLegalPlacement(p, tile, permutation) {
			panic(fmt.Sprintf("grid: %v: tile %d as %v at %v", ErrIllegalPlacement, tile, permutation, p))
		}
	}

	if g.cells[ci].IsSet() {
		g.ClearCells(mathx.CellRegion(p), report, true, !isPermanent)
	}

	if isPermanent {
		g.ClearHistory()
	} else {
		g.pushHistory(p)
	}

	g.cells[ci] = CellState{
		Tile:           tile,
		Permutation:    permutation,
		Changeable:     !isPermanent,
		NPossibilities: 1,
	}
	for _, side := range cube.Directions() {
		if n, ok := g.neighbor(p, side); ok {
			g.applyFilterFrom(p, n, side, report, false)
		}
	}
}

func (g *Grid) pushHistory(p mathx.Vec3) {
	g.history = append(g.history, p)
	nTiles := len(g.tiles)
	for _, offset := range historyNeighbors {
		n := g.FilterPos(p.Add(offset))
		if g.IsValid(n) {
			i := g.index(n) * nTiles
			g.historyState = append(g.historyState, g.possible[i:i+nTiles]...)
		} else {
			for range nTiles {
				g.historyState = append(g.historyState, cube.TransformSet{})
			}
		}
	}
}

// ApplyFilter narrows an unset cell at p to the permutations that present
// face, or, when forbidding, to those that do not. Set cells are ignored.
func (g *Grid) ApplyFilter(p mathx.Vec3, face cube.FacePermutation, report *Report, isForbidding bool) {
	p = g.FilterPos(p)
	ci := g.mustIndex(p)
	cell := &g.cells[ci]
	if cell.IsSet() {
		return
	}
	before := cell.NPossibilities
	sets := g.possible[ci*len(g.tiles) : (ci+1)*len(g.tiles)]

	if fi, ok := g.faceIndices[face]; !ok {
		// No tile can present this face at all.
		if !isForbidding {
			clear(sets)
			cell.NPossibilities = 0
		}
	} else {
		for ti := range sets {
			supported := g.matching[ti*g.nFaces+fi]
			var lost int
			if isForbidding {
				lost = sets[ti].Remove(supported)
			} else {
				lost = sets[ti].Intersect(supported)
			}
			cell.NPossibilities -= lost
		}
	}

	if cell.NPossibilities != before {
		if cell.NPossibilities < 1 {
			report.unsolvable(p)
		} else {
			report.interesting(p)
		}
	}
}

// applyFilterFrom filters dst by the face that the set cell src presents towards it.
func (g *Grid) applyFilterFrom(src, dst mathx.Vec3, sideTowardsDst cube.Direction, report *Report, isForbidding bool) {
	sc := g.cells[g.index(src)]
	if !sc.IsSet() {
		return
	}
	face := g.GetFace(sc.Tile, sc.Permutation, sideTowardsDst).Flipped()
	g.ApplyFilter(dst, face, report, isForbidding)
}

func (g *Grid) applyInitialFilter(p mathx.Vec3, face cube.FacePermutation, isForbidding bool) {
	ci := g.index(p)
	sets := g.initial[ci*len(g.tiles) : (ci+1)*len(g.tiles)]
	fi, ok := g.faceIndices[face]
	if !ok {
		if !isForbidding {
			clear(sets)
		}
		return
	}
	for ti := range sets {
		if isForbidding {
			sets[ti].Remove(g.matching[ti*g.nFaces+fi])
		} else {
			sets[ti].Intersect(g.matching[ti*g.nFaces+fi])
		}
	}
}
