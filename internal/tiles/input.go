package tiles

import (
	"github.com/rybkr/wfc3d/internal/cube"
)

// InputData indexes a tile list by the faces its permutations expose.
type InputData struct {
	tiles    []Tile
	withFace map[cube.FacePermutation][]int
}

// NewInputData builds the face index for a tile list.
func NewInputData(list []Tile) *InputData {
	d := &InputData{
		tiles:    list,
		withFace: make(map[cube.FacePermutation][]int),
	}
	for i, t := range list {
		for tr := range t.Permutations.All() {
			for _, f := range t.Faces.Faces {
				key := tr.ApplyToFace(f)
				ids := d.withFace[key]
				if len(ids) == 0 || ids[len(ids)-1] != i {
					d.withFace[key] = append(ids, i)
				}
			}
		}
	}
	return d
}

func (d *InputData) Tiles() []Tile      { return d.tiles }
func (d *InputData) Tile(id int) Tile   { return d.tiles[id] }
func (d *InputData) DistinctFaces() int { return len(d.withFace) }

// TilesWithFace returns the tiles, in index order, that can present face
// in at least one of their permutations. The result must not be modified.
func (d *InputData) TilesWithFace(face cube.FacePermutation) []int {
	return d.withFace[face]
}
