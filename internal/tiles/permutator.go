package tiles

import (
	"fmt"

	"github.com/rybkr/wfc3d/internal/cube"
)

// InvalidIndex is returned by lookups that find nothing.
const InvalidIndex = -1

// Parent records which original tile a permuted tile came from.
type Parent struct {
	Original  int
	Transform cube.Transform
}

// Permutator expands a list of tiles into a flat list with one entry per
// distinct orientation. The first entries are the originals, in order.
type Permutator struct {
	tiles    []Tile
	parents  []Parent
	children [][]int
	nOrig    int
}

// NewPermutator builds the expanded tile list.
//
// symmetries[i] lists the transforms under which original i is unchanged;
// those are not generated again. A transform is only applied to a tile when
// it is in requested and in the tile's own Permutations. Every output tile
// carries exactly the Identity permutation, so the list can drive a grid
// directly.
func NewPermutator(originals []Tile, symmetries []cube.TransformSet, requested cube.TransformSet) (*Permutator, error) {
	if len(symmetries) != len(originals) {
		return nil, fmt.Errorf("%w: got %d symmetry sets for %d tiles", ErrInvalidSymmetry, len(symmetries), len(originals))
	}
	for i, syms := range symmetries {
		for t := range syms.All() {
			if t.ApplyToCube(originals[i].Faces) != originals[i].Faces {
				return nil, fmt.Errorf("%w: tile %d (%q) is not symmetric under %v",
					ErrInvalidSymmetry, i, originals[i].Name, t)
			}
		}
	}
	requested.Delete(cube.Identity)

	p := &Permutator{
		tiles:    make([]Tile, 0, len(originals)*(1+requested.Len())),
		parents:  make([]Parent, 0, len(originals)*(1+requested.Len())),
		children: make([][]int, len(originals)),
		nOrig:    len(originals),
	}
	identityOnly := cube.NewTransformSet(cube.Identity)

	for i, t := range originals {
		t.Permutations = identityOnly
		p.tiles = append(p.tiles, t)
		p.parents = append(p.parents, Parent{Original: i, Transform: cube.Identity})
		p.children[i] = append(p.children[i], i)
	}

	for tr := range requested.All() {
		for i, orig := range originals {
			if symmetries[i].Contains(tr) || !orig.Permutations.Contains(tr) {
				continue
			}
			child := orig
			child.Faces = tr.ApplyToCube(orig.Faces)
			child.Permutations = identityOnly

			id := len(p.tiles)
			p.tiles = append(p.tiles, child)
			p.parents = append(p.parents, Parent{Original: i, Transform: tr})
			p.children[i] = append(p.children[i], id)
		}
	}
	return p, nil
}

// Tiles returns the expanded list.
func (p *Permutator) Tiles() []Tile { return p.tiles }

// OriginalCount is the number of tiles the permutator was built from.
func (p *Permutator) OriginalCount() int { return p.nOrig }

// FindPermutation returns the index of original transformed by t, or InvalidIndex
// if that orientation was not generated.
func (p *Permutator) FindPermutation(original int, t cube.Transform) int {
	p.checkOriginal(original)
	for _, id := range p.children[original] {
		if p.parents[id].Transform == t {
			return id
		}
	}
	return InvalidIndex
}

// FindOriginal maps an expanded tile back to its source.
func (p *Permutator) FindOriginal(id int) Parent {
	if id < 0 || id >= len(p.parents) {
		panic(fmt.Sprintf("tiles: permuted tile %d out of range [0, %d)", id, len(p.parents)))
	}
	return p.parents[id]
}

// Permutations lists every expanded tile generated from original, starting with itself.
func (p *Permutator) Permutations(original int) []int {
	p.checkOriginal(original)
	return p.children[original]
}

func (p *Permutator) checkOriginal(original int) {
	if original < 0 || original >= p.nOrig {
		panic(fmt.Sprintf("tiles: original tile %d out of range [0, %d)", original, p.nOrig))
	}
}
