package mathx

import "fmt"

// Vec3 is an integer position or extent on a 3D grid.
type Vec3 struct {
	X, Y, Z int
}

// V3 is shorthand for building a Vec3.
func V3(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Splat returns a vector with every component set to v.
func Splat(v int) Vec3 {
	return Vec3{v, v, v}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Get returns the component on the given axis (0=X, 1=Y, 2=Z).
func (v Vec3) Get(axis int) int {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic(fmt.Sprintf("mathx: invalid axis %d", axis))
	}
}

// With returns a copy of v with one component replaced.
func (v Vec3) With(axis, value int) Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	default:
		panic(fmt.Sprintf("mathx: invalid axis %d", axis))
	}
	return v
}

// Min returns the component-wise minimum.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

// Volume is the product of the components.
func (v Vec3) Volume() int {
	return v.X * v.Y * v.Z
}

// Less orders vectors by X, then Y, then Z.
func (v Vec3) Less(o Vec3) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// PositiveMod wraps a into [0, n).
func PositiveMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
