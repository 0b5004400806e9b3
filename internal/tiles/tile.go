package tiles

import (
	"errors"
	"fmt"

	"github.com/rybkr/wfc3d/internal/cube"
)

var (
	ErrNoTiles         = errors.New("tile set is empty")
	ErrInvalidTile     = errors.New("invalid tile")
	ErrInvalidSymmetry = errors.New("invalid tile symmetry")
)

// Tile is one placeable cube with its face signature.
type Tile struct {
	Name   string
	Faces  cube.CubePermutation
	Weight uint32
	// Permutations are the orientations this tile may be placed in.
	Permutations cube.TransformSet
}

// Validate checks that a tile list can drive a grid: it must be non-empty,
// and every tile needs a positive weight and at least one permutation.
func Validate(list []Tile) error {
	if len(list) == 0 {
		return ErrNoTiles
	}
	for i, t := range list {
		if t.Weight == 0 {
			return fmt.Errorf("%w: tile %d (%q) has zero weight", ErrInvalidTile, i, t.Name)
		}
		if t.Permutations.IsEmpty() {
			return fmt.Errorf("%w: tile %d (%q) has no permutations", ErrInvalidTile, i, t.Name)
		}
	}
	return nil
}

// PermutationCount is the total number of (tile, permutation) pairs.
func PermutationCount(list []Tile) int {
	n := 0
	for _, t := range list {
		n += t.Permutations.Len()
	}
	return n
}

// ReducePermutations drops requested transforms that would reproduce
// geometry an earlier transform in the set already produces. The first
// transform of each group of equivalent orientations is kept.
func ReducePermutations(faces cube.CubePermutation, requested cube.TransformSet) cube.TransformSet {
	var kept cube.TransformSet
	seen := make(map[cube.CubePermutation]bool, requested.Len())
	for t := range requested.All() {
		c := t.ApplyToCube(faces)
		if seen[c] {
			continue
		}
		seen[c] = true
		kept.Add(t)
	}
	return kept
}
