package mathx

import "iter"

// Region is an axis-aligned box of cells. Min is inclusive, Max is exclusive.
type Region struct {
	Min, Max Vec3
}

// RegionOf returns the region covering a whole grid of the given size.
func RegionOf(size Vec3) Region {
	return Region{Max: size}
}

// CellRegion returns the single-cell region at p.
func CellRegion(p Vec3) Region {
	return Region{Min: p, Max: p.Add(Splat(1))}
}

// Size returns the extent of the region, clamped at zero.
func (r Region) Size() Vec3 {
	return r.Max.Sub(r.Min).Max(Vec3{})
}

// Len returns the number of cells in the region.
func (r Region) Len() int {
	return r.Size().Volume()
}

func (r Region) Contains(p Vec3) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y &&
		p.Z >= r.Min.Z && p.Z < r.Max.Z
}

// Clamp shrinks the region to fit inside bounds.
func (r Region) Clamp(bounds Region) Region {
	return Region{Min: r.Min.Max(bounds.Min), Max: r.Max.Min(bounds.Max)}
}

// Cells iterates the region with X varying fastest.
func (r Region) Cells() iter.Seq[Vec3] {
	return func(yield func(Vec3) bool) {
		for z := r.Min.Z; z < r.Max.Z; z++ {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					if !yield(Vec3{x, y, z}) {
						return
					}
				}
			}
		}
	}
}
