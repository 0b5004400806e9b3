package tiles

import (
	"testing"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTile(name string, id cube.PointID) Tile {
	f := cube.Corners(id, id, id, id)
	return Tile{
		Name:         name,
		Faces:        cube.NewCube([cube.NumDirections]cube.FaceIdentifiers{f, f, f, f, f, f}),
		Weight:       100,
		Permutations: cube.AllTransformSet(),
	}
}

// armyTile has no symmetry at all.
func armyTile() Tile {
	x, y, z := cube.Corners(0, 1, 1, 2), cube.Corners(4, 5, 6, 7), cube.Corners(3, 3, 3, 3)
	return Tile{
		Name:         "army",
		Faces:        cube.NewCube([cube.NumDirections]cube.FaceIdentifiers{x, x, y, y, z, z}),
		Weight:       100,
		Permutations: cube.AllTransformSet(),
	}
}

func rodTile() Tile {
	p0, p1 := cube.Corners(1, 1, 1, 1), cube.Corners(2, 2, 2, 2)
	return Tile{
		Name:         "rod",
		Faces:        cube.NewCube([cube.NumDirections]cube.FaceIdentifiers{p1, p1, p0, p0, p1, p1}),
		Weight:       100,
		Permutations: cube.AllTransformSet(),
	}
}

var zTurns = cube.NewTransformSet(
	cube.Transform{Rot: cube.AxisZ90},
	cube.Transform{Rot: cube.AxisZ180},
	cube.Transform{Rot: cube.AxisZ270},
)

func TestPermutatorSkipsSymmetricTiles(t *testing.T) {
	t.Parallel()

	originals := []Tile{uniformTile("blank", 0), armyTile()}
	syms := []cube.TransformSet{cube.FindSymmetries(originals[0].Faces), cube.FindSymmetries(originals[1].Faces)}

	p, err := NewPermutator(originals, syms, zTurns)
	require.NoError(t, err)
	require.Len(t, p.Tiles(), 5)
	assert.Equal(t, 2, p.OriginalCount())

	assert.Equal(t, originals[0].Faces, p.Tiles()[0].Faces)
	assert.Equal(t, originals[1].Faces, p.Tiles()[1].Faces)

	z180 := cube.Transform{Rot: cube.AxisZ180}
	id := p.FindPermutation(1, z180)
	assert.Equal(t, 3, id)
	assert.Equal(t, Parent{Original: 1, Transform: z180}, p.FindOriginal(id))
	assert.Equal(t, z180.ApplyToCube(originals[1].Faces), p.Tiles()[id].Faces)

	assert.Equal(t, InvalidIndex, p.FindPermutation(0, cube.Transform{Rot: cube.AxisZ90}))
	assert.Equal(t, 0, p.FindPermutation(0, cube.Identity))
	assert.Equal(t, []int{1, 2, 3, 4}, p.Permutations(1))

	for _, tile := range p.Tiles() {
		assert.Equal(t, cube.NewTransformSet(cube.Identity), tile.Permutations)
	}
	assert.Panics(t, func() { p.FindPermutation(2, cube.Identity) })
}

func TestPermutatorHonorsTilePermutations(t *testing.T) {
	t.Parallel()

	army := armyTile()
	army.Permutations = cube.NewTransformSet(cube.Identity, cube.Transform{Rot: cube.AxisZ90})

	p, err := NewPermutator([]Tile{army}, []cube.TransformSet{cube.NewTransformSet(cube.Identity)}, zTurns)
	require.NoError(t, err)
	assert.Len(t, p.Tiles(), 2)
	assert.Equal(t, InvalidIndex, p.FindPermutation(0, cube.Transform{Rot: cube.AxisZ180}))
}

func TestPermutatorRejectsBadSymmetry(t *testing.T) {
	t.Parallel()

	originals := []Tile{armyTile()}

	_, err := NewPermutator(originals, []cube.TransformSet{cube.NewTransformSet(cube.Transform{Rot: cube.AxisZ90})}, zTurns)
	assert.ErrorIs(t, err, ErrInvalidSymmetry)

	_, err = NewPermutator(originals, nil, zTurns)
	assert.ErrorIs(t, err, ErrInvalidSymmetry)
}

func TestReducePermutations(t *testing.T) {
	t.Parallel()

	all := cube.AllTransformSet()
	assert.Equal(t, 1, ReducePermutations(uniformTile("blank", 3).Faces, all).Len())
	assert.Equal(t, 3, ReducePermutations(rodTile().Faces, all).Len())
	assert.Equal(t, 48, ReducePermutations(armyTile().Faces, all).Len())

	reduced := ReducePermutations(rodTile().Faces, all)
	assert.True(t, reduced.Contains(cube.Identity))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Validate(nil), ErrNoTiles)

	noWeight := armyTile()
	noWeight.Weight = 0
	assert.ErrorIs(t, Validate([]Tile{noWeight}), ErrInvalidTile)

	noPerms := armyTile()
	noPerms.Permutations = cube.TransformSet{}
	assert.ErrorIs(t, Validate([]Tile{armyTile(), noPerms}), ErrInvalidTile)

	assert.NoError(t, Validate([]Tile{armyTile(), rodTile()}))
	assert.Equal(t, 96, PermutationCount([]Tile{armyTile(), rodTile()}))
}

func TestInputDataTilesWithFace(t *testing.T) {
	t.Parallel()

	rod := rodTile()
	rod.Permutations = cube.NewTransformSet(cube.Identity)
	data := NewInputData([]Tile{uniformTile("blank", 1), rod, uniformTile("other", 9)})

	ones := cube.FacePermutation{Side: cube.MinY, Points: cube.Corners(1, 1, 1, 1)}
	assert.Equal(t, []int{0, 1}, data.TilesWithFace(ones))

	twosOnY := cube.FacePermutation{Side: cube.MaxY, Points: cube.Corners(2, 2, 2, 2)}
	assert.Empty(t, data.TilesWithFace(twosOnY))

	nines := cube.FacePermutation{Side: cube.MaxZ, Points: cube.Corners(9, 9, 9, 9)}
	assert.Equal(t, []int{2}, data.TilesWithFace(nines))

	// blank: 6 faces of 1s; rod: 2s on X and Z, 1s on Y; other: 6 faces of 9s.
	assert.Equal(t, 6+4+6, data.DistinctFaces())
}
