package cube

// CubePermutation is the full face signature of one oriented tile, indexed by Direction.
type CubePermutation struct {
	Faces [NumDirections]FacePermutation
}

// NewCube builds a cube from per-side signatures, filling in each face's side.
func NewCube(points [NumDirections]FaceIdentifiers) CubePermutation {
	var c CubePermutation
	for _, d := range Directions() {
		c.Faces[d] = FacePermutation{Side: d, Points: points[d]}
	}
	return c
}

// Face returns the face on the given side.
func (c CubePermutation) Face(side Direction) FacePermutation {
	return c.Faces[side]
}

// FindSymmetries returns every transform under which the cube's signature
// is unchanged. The result always contains Identity.
func FindSymmetries(c CubePermutation) TransformSet {
	var set TransformSet
	for _, t := range AllTransforms() {
		if t.ApplyToCube(c) == c {
			set.Add(t)
		}
	}
	return set
}
