package grid

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(id cube.PointID) cube.FaceIdentifiers {
	return cube.Corners(id, id, id, id)
}

func uniformTile(id cube.PointID) tiles.Tile {
	f := solid(id)
	return tiles.Tile{
		Faces:        cube.NewCube([cube.NumDirections]cube.FaceIdentifiers{f, f, f, f, f, f}),
		Weight:       100,
		Permutations: cube.AllTransformSet(),
	}
}

// rodTiles is a small tile set where rods of 2-faces run through a field of 1-faces,
// capped by a tile with a unique 3-face.
func rodTiles() []tiles.Tile {
	p0, p1, p2 := solid(1), solid(2), solid(3)
	mk := func(weight uint32, faces ...cube.FaceIdentifiers) tiles.Tile {
		return tiles.Tile{
			Faces:        cube.NewCube([cube.NumDirections]cube.FaceIdentifiers(faces)),
			Weight:       weight,
			Permutations: cube.AllTransformSet(),
		}
	}
	return []tiles.Tile{
		mk(100, p1, p1, p0, p0, p1, p1),
		mk(100, p1, p0, p1, p0, p0, p0),
		mk(20, p0, p0, p0, p0, p2, p1),
	}
}

func newGrid(t *testing.T, list []tiles.Tile, size mathx.Vec3, wrap Wrap) *Grid {
	t.Helper()
	g, err := New(list, size, wrap)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	return g
}

var equalSets = cmp.Comparer(func(a, b cube.TransformSet) bool { return a == b })

type cellSnapshot struct {
	Cells    []CellState
	Possible []cube.TransformSet
}

func snapshot(g *Grid) cellSnapshot {
	return cellSnapshot{Cells: slices.Clone(g.cells), Possible: slices.Clone(g.possible)}
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := New(rodTiles(), mathx.V3(0, 2, 2), Wrap{})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = New(nil, mathx.V3(2, 2, 2), Wrap{})
	assert.ErrorIs(t, err, tiles.ErrNoTiles)
}

func TestNewGridIsUnconstrained(t *testing.T) {
	t.Parallel()

	g := newGrid(t, rodTiles(), mathx.V3(2, 3, 4), Wrap{})
	assert.Equal(t, 3*cube.NumTransforms, g.NumPermutedTiles())
	for p := range g.Bounds().Cells() {
		c := g.Cell(p)
		assert.False(t, c.IsSet())
		assert.True(t, c.Changeable)
		assert.Equal(t, g.NumPermutedTiles(), c.NPossibilities)
	}
	assert.Zero(t, g.Progress())
	assert.Equal(t, 18, g.NumFaces(), "three solid signatures on six sides")
}

func TestSingleTileSingleCell(t *testing.T) {
	t.Parallel()

	g := newGrid(t, []tiles.Tile{uniformTile(0)}, mathx.Splat(1), Wrap{})
	for tr := range cube.AllTransformSet().All() {
		assert.True(t, g.IsLegalPlacement(mathx.V3(0, 0, 0), 0, tr))
	}

	report := NewReport()
	g.SetCell(mathx.V3(0, 0, 0), 0, cube.Identity, false, report, true)
	assert.True(t, g.IsSolved())
	assert.Equal(t, 1.0, g.Progress())
	assert.Empty(t, report.GotUnsolvable)
	require.NoError(t, g.Validate())
}

func TestIncompatibleTileIsNeverLegal(t *testing.T) {
	t.Parallel()

	a, b := uniformTile(1), uniformTile(2)
	g := newGrid(t, []tiles.Tile{a, b}, mathx.V3(2, 1, 1), Wrap{})

	report := NewReport()
	g.SetCell(mathx.V3(0, 0, 0), 0, cube.Identity, false, report, true)
	for tr := range cube.AllTransformSet().All() {
		assert.False(t, g.IsLegalPlacement(mathx.V3(1, 0, 0), 1, tr), "b as %v next to a", tr)
		assert.True(t, g.IsLegalPlacement(mathx.V3(1, 0, 0), 0, tr))
	}

	assert.True(t, g.Possibilities(mathx.V3(1, 0, 0), 1).IsEmpty())
	assert.Equal(t, cube.NumTransforms, g.Cell(mathx.V3(1, 0, 0)).NPossibilities)
	assert.True(t, report.GotInteresting.Has(mathx.V3(1, 0, 0)))

	assert.ErrorIs(t, g.CheckPlacement(mathx.V3(1, 0, 0), 1, cube.Identity), ErrIllegalPlacement)
	assert.NoError(t, g.CheckPlacement(mathx.V3(1, 0, 0), 0, cube.Identity))
	assert.ErrorIs(t, g.CheckPlacement(mathx.V3(5, 0, 0), 0, cube.Identity), ErrInvalidPosition)
	assert.ErrorIs(t, g.CheckPlacement(mathx.V3(1, 0, 0), 7, cube.Identity), ErrInvalidTile)

	assert.Panics(t, func() {
		g.SetCell(mathx.V3(1, 0, 0), 1, cube.Identity, false, nil, true)
	})
}

func TestFilterMakesCellUnsolvable(t *testing.T) {
	t.Parallel()

	a, b := uniformTile(1), uniformTile(2)
	g := newGrid(t, []tiles.Tile{a, b}, mathx.V3(3, 1, 1), Wrap{})

	report := NewReport()
	g.SetCell(mathx.V3(0, 0, 0), 0, cube.Identity, false, report, true)
	g.SetCell(mathx.V3(2, 0, 0), 1, cube.Identity, false, report, true)

	mid := mathx.V3(1, 0, 0)
	assert.Zero(t, g.Cell(mid).NPossibilities)
	assert.True(t, report.GotUnsolvable.Has(mid))
	require.NoError(t, g.Validate())
}

func TestPermanentPlacementCannotBeUnwound(t *testing.T) {
	t.Parallel()

	g := newGrid(t, rodTiles(), mathx.V3(3, 3, 3), Wrap{})
	center := mathx.V3(1, 1, 1)

	g.SetCell(mathx.V3(0, 0, 0), 1, cube.Identity, false, nil, true)
	g.SetCell(center, 0, cube.Identity, true, nil, true)
	assert.Zero(t, g.HistoryLen())

	before := snapshot(g)
	g.UnwindActionHistories(1, NewReport())
	if diff := cmp.Diff(before, snapshot(g), equalSets); diff != "" {
		t.Errorf("unwinding past a permanent placement changed the grid (-before +after):\n%s", diff)
	}
	assert.True(t, g.Cell(center).IsSet())
	assert.False(t, g.Cell(center).Changeable)
}

func TestUnwindRestoresSnapshot(t *testing.T) {
	t.Parallel()

	g := newGrid(t, rodTiles(), mathx.V3(3, 3, 3), Wrap{})
	g.SetCell(mathx.V3(0, 1, 1), 0, cube.Identity, false, nil, true)
	before := snapshot(g)

	center := mathx.V3(1, 1, 1)
	perms := g.Possibilities(center, 1)
	require.False(t, perms.IsEmpty())
	g.SetCell(center, 1, perms.Nth(0), false, nil, true)
	require.Equal(t, 2, g.HistoryLen())

	report := NewReport()
	g.UnwindActionHistories(1, report)
	if diff := cmp.Diff(before, snapshot(g), equalSets); diff != "" {
		t.Errorf("unwind did not restore the grid (-want +got):\n%s", diff)
	}
	assert.True(t, report.GotInteresting.Has(center))
	assert.Empty(t, report.GotUnsolvable)
	assert.Equal(t, 1, g.HistoryLen())

	g.UnwindActionHistories(10, report)
	assert.Zero(t, g.HistoryLen())
	assert.Zero(t, g.SetCount())
	require.NoError(t, g.Validate())
}

func TestClearCellsUsesUndoLogWhenPossible(t *testing.T) {
	t.Parallel()

	g := newGrid(t, []tiles.Tile{uniformTile(0)}, mathx.V3(4, 1, 1), Wrap{})
	g.SetCell(mathx.V3(0, 0, 0), 0, cube.Identity, false, nil, true)
	g.SetCell(mathx.V3(3, 0, 0), 0, cube.Identity, false, nil, true)

	g.ClearCells(mathx.CellRegion(mathx.V3(3, 0, 0)), NewReport(), false, false)
	assert.Equal(t, 1, g.HistoryLen(), "clearing the newest placement only pops it")
	assert.False(t, g.Cell(mathx.V3(3, 0, 0)).IsSet())

	g.SetCell(mathx.V3(2, 0, 0), 0, cube.Identity, false, nil, true)
	g.ClearCells(mathx.CellRegion(mathx.V3(0, 0, 0)), NewReport(), false, false)
	assert.Zero(t, g.HistoryLen(), "clearing an older placement drops the log")
	assert.False(t, g.Cell(mathx.V3(0, 0, 0)).IsSet())
	assert.True(t, g.Cell(mathx.V3(2, 0, 0)).IsSet())
	require.NoError(t, g.Validate())
}

func TestClearCellsKeepsImmutableCells(t *testing.T) {
	t.Parallel()

	g := newGrid(t, rodTiles(), mathx.V3(3, 3, 1), Wrap{})
	center := mathx.V3(1, 1, 0)
	g.SetCell(center, 2, cube.Identity, true, nil, true)
	constrained := snapshot(g)

	g.SetCell(mathx.V3(0, 0, 0), 1, g.Possibilities(mathx.V3(0, 0, 0), 1).Nth(0), false, nil, true)

	report := NewReport()
	g.ClearCells(g.Bounds(), report, false, false)
	assert.Empty(t, report.GotUnsolvable)
	if diff := cmp.Diff(constrained, snapshot(g), equalSets); diff != "" {
		t.Errorf("clearing around an immutable cell lost its constraints (-want +got):\n%s", diff)
	}

	g.ClearCells(g.Bounds(), report, true, true)
	assert.False(t, g.Cell(center).IsSet())
	assert.True(t, g.Cell(center).Changeable)
	for p := range g.Bounds().Cells() {
		assert.Equal(t, g.NumPermutedTiles(), g.Cell(p).NPossibilities)
	}
	require.NoError(t, g.Validate())
}

func TestReplacingSetCell(t *testing.T) {
	t.Parallel()

	g := newGrid(t, rodTiles(), mathx.V3(3, 1, 1), Wrap{})
	p := mathx.V3(1, 0, 0)
	g.SetCell(p, 0, cube.Identity, false, nil, true)
	g.SetCell(p, 2, cube.Identity, false, nil, true)

	assert.Equal(t, Placement{Tile: 2, Permutation: cube.Identity}, Placement{Tile: g.Cell(p).Tile, Permutation: g.Cell(p).Permutation})
	assert.Equal(t, 1, g.HistoryLen())
	require.NoError(t, g.Validate())

	fresh := newGrid(t, rodTiles(), mathx.V3(3, 1, 1), Wrap{})
	fresh.SetCell(p, 2, cube.Identity, false, nil, true)
	assert.Equal(t, fresh.possible, g.possible)
}

func TestSetFaceConstraints(t *testing.T) {
	t.Parallel()

	origin := mathx.V3(0, 0, 0)

	t.Run("pin", func(t *testing.T) {
		t.Parallel()
		g := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})
		report := NewReport()
		g.SetFace(origin, cube.MinZ, solid(3), report)

		// Eight of the 48 symmetries keep a face on its side.
		assert.Equal(t, 8, g.Cell(origin).NPossibilities)
		assert.Equal(t, 8, g.Possibilities(origin, 2).Len())
		assert.True(t, report.GotInteresting.Has(origin))

		g.Reset()
		assert.Equal(t, 8, g.Cell(origin).NPossibilities, "face constraints survive Reset")
		require.NoError(t, g.Validate())
	})

	t.Run("forbid", func(t *testing.T) {
		t.Parallel()
		g := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})
		g.SetFaceNot(origin, cube.MinZ, solid(3), nil)
		assert.Equal(t, g.NumPermutedTiles()-8, g.Cell(origin).NPossibilities)
		require.NoError(t, g.Validate())
	})

	t.Run("unknown face", func(t *testing.T) {
		t.Parallel()
		g := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})
		report := NewReport()
		g.SetFace(origin, cube.MaxX, solid(99), report)
		assert.Zero(t, g.Cell(origin).NPossibilities)
		assert.True(t, report.GotUnsolvable.Has(origin))

		other := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})
		other.SetFaceNot(origin, cube.MaxX, solid(99), nil)
		assert.Equal(t, other.NumPermutedTiles(), other.Cell(origin).NPossibilities)
	})

	t.Run("both cells", func(t *testing.T) {
		t.Parallel()
		g := newGrid(t, rodTiles(), mathx.V3(1, 1, 2), Wrap{})
		g.SetFace(origin, cube.MaxZ, solid(3), nil)
		assert.Equal(t, 8, g.Cell(origin).NPossibilities)
		assert.Equal(t, 8, g.Cell(mathx.V3(0, 0, 1)).NPossibilities)
		require.NoError(t, g.Validate())
	})

	t.Run("clears a conflicting cell", func(t *testing.T) {
		t.Parallel()
		g := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})
		g.SetCell(origin, 0, cube.Identity, false, nil, true)
		g.SetFace(origin, cube.MinZ, solid(3), nil)
		assert.False(t, g.Cell(origin).IsSet())
		assert.Equal(t, 8, g.Cell(origin).NPossibilities)
		assert.Zero(t, g.HistoryLen())
	})
}

func TestSetCellNot(t *testing.T) {
	t.Parallel()

	origin := mathx.V3(0, 0, 0)
	g := newGrid(t, rodTiles(), mathx.Splat(1), Wrap{})

	report := NewReport()
	g.SetCellNot(origin, 0, cube.AllTransformSet(), report)
	assert.Equal(t, 2*cube.NumTransforms, g.Cell(origin).NPossibilities)
	assert.True(t, report.GotInteresting.Has(origin))

	g.SetCell(origin, 1, cube.Identity, false, nil, true)
	g.SetCellNot(origin, 1, cube.NewTransformSet(cube.Identity), nil)
	assert.False(t, g.Cell(origin).IsSet())
	assert.Equal(t, 2*cube.NumTransforms-1, g.Cell(origin).NPossibilities)
	require.NoError(t, g.Validate())
}

func TestWrappedNeighbors(t *testing.T) {
	t.Parallel()

	a, b := uniformTile(1), uniformTile(2)
	g := newGrid(t, []tiles.Tile{a, b}, mathx.V3(3, 1, 1), Wrap{X: true})

	assert.Equal(t, mathx.V3(2, 0, 0), g.FilterPos(mathx.V3(-1, 0, 0)))
	assert.Equal(t, mathx.V3(0, 0, 0), g.FilterPos(mathx.V3(3, 0, 0)))
	assert.Equal(t, mathx.V3(0, 5, 0), g.FilterPos(mathx.V3(0, 5, 0)))

	g.SetCell(mathx.V3(0, 0, 0), 0, cube.Identity, false, nil, true)
	assert.True(t, g.Possibilities(mathx.V3(2, 0, 0), 1).IsEmpty(), "the far cell wraps around to touch the set cell")
	assert.False(t, g.IsLegalPlacement(mathx.V3(-1, 0, 0), 1, cube.Identity))
	require.NoError(t, g.Validate())
}

// TestRandomOperationsKeepInvariants drives the grid with a seeded mix of
// placements, clears and unwinds and checks the bookkeeping after each step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	t.Parallel()

	for _, wrap := range []Wrap{{}, {X: true, Z: true}} {
		g := newGrid(t, rodTiles(), mathx.V3(4, 3, 3), wrap)
		rng := rand.New(rand.NewPCG(1, 2))
		report := NewReport()

		hasUnsolvable := func() bool {
			for p := range g.Bounds().Cells() {
				if c := g.Cell(p); !c.IsSet() && c.NPossibilities == 0 {
					return true
				}
			}
			return false
		}

		for step := range 400 {
			report.Clear()
			p := mathx.V3(rng.IntN(4), rng.IntN(3), rng.IntN(3))

			switch op := rng.IntN(10); {
			case op < 6:
				c := g.Cell(p)
				if c.IsSet() || c.NPossibilities == 0 {
					continue
				}
				var options []Placement
				for ti, perms := range g.PossibilitiesAt(p) {
					for tr := range perms.All() {
						options = append(options, Placement{ti, tr})
					}
				}
				pick := options[rng.IntN(len(options))]
				g.SetCell(p, pick.Tile, pick.Permutation, false, report, true)
			case op < 8:
				if hasUnsolvable() {
					g.ClearCells(g.Bounds(), report, true, false)
					continue
				}
				r := mathx.Region{Min: p.Sub(mathx.Splat(1)), Max: p.Add(mathx.Splat(2))}
				g.ClearCells(r, report, false, false)
				assert.Empty(t, report.GotUnsolvable, "step %d: clearing created an impossibility", step)
			default:
				g.UnwindActionHistories(1+rng.IntN(3), report)
			}

			require.NoError(t, g.Validate(), "step %d", step)
		}
	}
}
