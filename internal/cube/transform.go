package cube

import (
	"fmt"
	"strings"

	"github.com/rybkr/wfc3d/internal/mathx"
)

// Transform is one of the 48 symmetries of a cube: an optional point
// inversion through the center, followed by a rotation.
type Transform struct {
	Invert bool
	Rot    Rotation
}

// NumTransforms is the size of the full cube symmetry group.
const NumTransforms = NumRotations * 2

// Identity leaves everything in place.
var Identity = Transform{}

// TransformFromIndex is the inverse of Transform.Index.
func TransformFromIndex(i int) Transform {
	if i < 0 || i >= NumTransforms {
		panic(fmt.Sprintf("cube: transform index %d out of range", i))
	}
	return Transform{Invert: i >= NumRotations, Rot: Rotation(i % NumRotations)}
}

// AllTransforms lists the 48 transforms in index order.
func AllTransforms() []Transform {
	out := make([]Transform, NumTransforms)
	for i := range out {
		out[i] = TransformFromIndex(i)
	}
	return out
}

// Index is the transform's position in [0, 48); rotations first, then their inverted forms.
func (t Transform) Index() int {
	t.Rot.mustBeValid()
	i := int(t.Rot)
	if t.Invert {
		i += NumRotations
	}
	return i
}

// Inverse returns the transform that undoes t.
// Inversion commutes with every rotation, so only the rotation part changes.
func (t Transform) Inverse() Transform {
	return Transform{Invert: t.Invert, Rot: t.Rot.Inverse()}
}

// Then returns the transform equivalent to applying t and then next.
func (t Transform) Then(next Transform) Transform {
	return compositions()[t.Index()][next.Index()]
}

// ApplyToSide returns the face that side ends up on.
func (t Transform) ApplyToSide(side Direction) Direction {
	t.Rot.mustBeValid()
	if t.Invert {
		side = side.Opposite()
	}
	return rotatedSides[side][t.Rot]
}

// ApplyToPos transforms a position inside the box [0, max].
func (t Transform) ApplyToPos(pos, max mathx.Vec3) mathx.Vec3 {
	if t.Invert {
		pos = max.Sub(pos)
	}

	x, y, z := pos.X, pos.Y, pos.Z
	ix, iy, iz := max.X-x, max.Y-y, max.Z-z
	v := mathx.V3
	switch t.Rot {
	case RotNone:
		return pos
	case AxisX90:
		return v(x, iz, y)
	case AxisX180:
		return v(x, iy, iz)
	case AxisX270:
		return v(x, z, iy)
	case AxisY90:
		return v(z, y, ix)
	case AxisY180:
		return v(ix, y, iz)
	case AxisY270:
		return v(iz, y, x)
	case AxisZ90:
		return v(iy, x, z)
	case AxisZ180:
		return v(ix, iy, z)
	case AxisZ270:
		return v(y, ix, z)
	case EdgesXa:
		return v(ix, z, y)
	case EdgesXb:
		return v(ix, iz, iy)
	case EdgesYa:
		return v(z, iy, x)
	case EdgesYb:
		return v(iz, iy, ix)
	case EdgesZa:
		return v(y, x, iz)
	case EdgesZb:
		return v(iy, ix, iz)
	case CornerAAA120:
		return v(y, z, x)
	case CornerAAA240:
		return v(z, x, y)
	case CornerABA120:
		return v(z, ix, iy)
	case CornerABA240:
		return v(iy, iz, x)
	case CornerBAA120:
		return v(iz, ix, y)
	case CornerBAA240:
		return v(iy, z, ix)
	case CornerBBA120:
		return v(y, iz, ix)
	case CornerBBA240:
		return v(iz, x, iy)
	default:
		panic(fmt.Sprintf("cube: invalid rotation %d", uint8(t.Rot)))
	}
}

// ApplyToFace moves a face to its new side and re-orders its points to match.
func (t Transform) ApplyToFace(f FacePermutation) FacePermutation {
	m := &faceMaps()[t.Index()][f.Side]
	out := FacePermutation{Side: m.side}
	for i := range FacePointCount {
		out.Points.Corners[i] = f.Points.Corners[m.corners[i]]
		out.Points.Edges[i] = f.Points.Edges[m.edges[i]]
	}
	return out
}

// ApplyToCube transforms every face of a cube.
func (t Transform) ApplyToCube(c CubePermutation) CubePermutation {
	var out CubePermutation
	for _, f := range c.Faces {
		moved := t.ApplyToFace(f)
		out.Faces[moved.Side] = moved
	}
	return out
}

// String renders the transform as its rotation name, prefixed with "inv:" when inverted.
func (t Transform) String() string {
	if t.Invert {
		return "inv:" + t.Rot.String()
	}
	return t.Rot.String()
}

// ParseTransform reads the output of Transform.String.
func ParseTransform(s string) (Transform, error) {
	var t Transform
	if rest, ok := strings.CutPrefix(s, "inv:"); ok {
		t.Invert = true
		s = rest
	}
	rot, err := ParseRotation(s)
	if err != nil {
		return Transform{}, err
	}
	t.Rot = rot
	return t, nil
}
