package cube

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// Direction is one of the six axis-aligned faces of a cube.
// Opposite faces differ only in the lowest bit.
type Direction uint8

const (
	MinX Direction = iota
	MaxX
	MinY
	MaxY
	MinZ
	MaxZ
)

// NumDirections is the number of cube faces.
const NumDirections = 6

var directionNames = [NumDirections]string{"min_x", "max_x", "min_y", "max_y", "min_z", "max_z"}

// Directions lists every face in enum order.
func Directions() [NumDirections]Direction {
	return [NumDirections]Direction{MinX, MaxX, MinY, MaxY, MinZ, MaxZ}
}

// MakeDirection returns the face on the given axis (0=X, 1=Y, 2=Z).
func MakeDirection(isMin bool, axis int) Direction {
	d := Direction(axis * 2)
	if !isMin {
		d++
	}
	return d
}

func (d Direction) Opposite() Direction { return d ^ 1 }
func (d Direction) Axis() int           { return int(d) / 2 }
func (d Direction) IsMin() bool         { return d%2 == 0 }

// Offset is the unit step from a cell towards its neighbor across this face.
func (d Direction) Offset() mathx.Vec3 {
	step := 1
	if d.IsMin() {
		step = -1
	}
	return mathx.Vec3{}.With(d.Axis(), step)
}

// planeAxes returns the face's normal axis and its two in-plane axes in ascending order.
func (d Direction) planeAxes() (main, a1, a2 int) {
	main = d.Axis()
	a1, a2 = (main+1)%3, (main+2)%3
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	return main, a1, a2
}

func (d Direction) String() string {
	if int(d) >= NumDirections {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// ParseDirection accepts any casing of a face name, e.g. "min_x", "MinX" or "maxY".
func ParseDirection(s string) (Direction, error) {
	key := strcase.ToSnake(s)
	for i, name := range directionNames {
		if name == key {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
