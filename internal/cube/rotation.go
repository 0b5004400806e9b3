package cube

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Rotation is one of the 24 proper rotations of a cube.
// The numeric order is fixed; the lookup tables below are indexed by it.
type Rotation uint8

const (
	RotNone Rotation = iota

	AxisX90
	AxisX180
	AxisX270
	AxisY90
	AxisY180
	AxisY270
	AxisZ90
	AxisZ180
	AxisZ270

	// 180 degree turns around the axes through opposite edge midpoints.
	EdgesXa
	EdgesXb
	EdgesYa
	EdgesYb
	EdgesZa
	EdgesZb

	// 120 and 240 degree turns around the main diagonals.
	CornerAAA120
	CornerAAA240
	CornerABA120
	CornerABA240
	CornerBAA120
	CornerBAA240
	CornerBBA120
	CornerBBA240
)

// NumRotations is the size of the cube's rotation group.
const NumRotations = 24

var rotationNames = [NumRotations]string{
	"none",
	"axis_x_90", "axis_x_180", "axis_x_270",
	"axis_y_90", "axis_y_180", "axis_y_270",
	"axis_z_90", "axis_z_180", "axis_z_270",
	"edges_xa", "edges_xb", "edges_ya", "edges_yb", "edges_za", "edges_zb",
	"corner_aaa_120", "corner_aaa_240",
	"corner_aba_120", "corner_aba_240",
	"corner_baa_120", "corner_baa_240",
	"corner_bba_120", "corner_bba_240",
}

var inverseRotations = [NumRotations]Rotation{
	RotNone,
	AxisX270, AxisX180, AxisX90,
	AxisY270, AxisY180, AxisY90,
	AxisZ270, AxisZ180, AxisZ90,
	EdgesXa, EdgesXb, EdgesYa, EdgesYb, EdgesZa, EdgesZb,
	CornerAAA240, CornerAAA120,
	CornerABA240, CornerABA120,
	CornerBAA240, CornerBAA120,
	CornerBBA240, CornerBBA120,
}

// rotatedSides[dir][rot] is the side that dir ends up on after rot.
var rotatedSides = [NumDirections][NumRotations]Direction{
	MinX: {MinX, MinX, MinX, MinX, MaxZ, MaxX, MinZ, MinY, MaxX, MaxY, MaxX, MaxX,
		MinZ, MaxZ, MinY, MaxY, MinZ, MinY, MaxY, MinZ, MaxY, MaxZ, MaxZ, MinY},
	MaxX: {MaxX, MaxX, MaxX, MaxX, MinZ, MinX, MaxZ, MaxY, MinX, MinY, MinX, MinX,
		MaxZ, MinZ, MaxY, MinY, MaxZ, MaxY, MinY, MaxZ, MinY, MinZ, MinZ, MaxY},
	MinY: {MinY, MinZ, MaxY, MaxZ, MinY, MinY, MinY, MaxX, MaxY, MinX, MinZ, MaxZ,
		MaxY, MaxY, MinX, MaxX, MinX, MinZ, MaxZ, MaxX, MinZ, MaxX, MinX, MaxZ},
	MaxY: {MaxY, MaxZ, MinY, MinZ, MaxY, MaxY, MaxY, MinX, MinY, MaxX, MaxZ, MinZ,
		MinY, MinY, MaxX, MinX, MaxX, MaxZ, MinZ, MinX, MaxZ, MinX, MaxX, MinZ},
	MinZ: {MinZ, MaxY, MaxZ, MinY, MinX, MaxZ, MaxX, MinZ, MinZ, MinZ, MinY, MaxY,
		MinX, MaxX, MaxZ, MaxZ, MinY, MinX, MinX, MaxY, MaxX, MinY, MaxY, MaxX},
	MaxZ: {MaxZ, MinY, MinZ, MaxY, MaxX, MinZ, MinX, MaxZ, MaxZ, MaxZ, MaxY, MinY,
		MaxX, MinX, MinZ, MinZ, MaxY, MaxX, MaxX, MinY, MinX, MaxY, MinY, MinX},
}

func (r Rotation) valid() bool { return r < NumRotations }

func (r Rotation) mustBeValid() {
	if !r.valid() {
		panic(fmt.Sprintf("cube: invalid rotation %d", uint8(r)))
	}
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	r.mustBeValid()
	return inverseRotations[r]
}

// IsAxisRotation reports whether r turns around a face axis.
// axis is 0, 1 or 2; pass -1 to accept any axis.
func (r Rotation) IsAxisRotation(axis int) bool {
	if r < AxisX90 || r > AxisZ270 {
		return false
	}
	return axis < 0 || int(r-AxisX90)/3 == axis
}

// IsEdgeRotation reports whether r turns around an edge axis perpendicular to the given axis.
// Pass -1 to accept any family.
func (r Rotation) IsEdgeRotation(axis int) bool {
	if r < EdgesXa || r > EdgesZb {
		return false
	}
	return axis < 0 || int(r-EdgesXa)/2 == axis
}

// IsCornerRotation reports whether r turns around a main diagonal.
func (r Rotation) IsCornerRotation() bool {
	return r >= CornerAAA120 && r <= CornerBBA240
}

func (r Rotation) String() string {
	if !r.valid() {
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
	return rotationNames[r]
}

// ParseRotation accepts any casing of a rotation name, e.g. "axis_z_90" or "AxisZ90".
func ParseRotation(s string) (Rotation, error) {
	key := strcase.ToSnake(s)
	for i, name := range rotationNames {
		if name == key {
			return Rotation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rotation %q", s)
}
