package cube

import (
	"iter"
	"math/bits"
	"strings"
)

// TransformSet is a set of cube transforms stored as a 48-bit mask.
// The zero value is the empty set.
type TransformSet struct {
	bits uint64
	size uint8
}

const allTransformBits = uint64(1)<<NumTransforms - 1

// NewTransformSet returns a set holding the given transforms.
func NewTransformSet(ts ...Transform) TransformSet {
	var s TransformSet
	for _, t := range ts {
		s.Add(t)
	}
	return s
}

// AllTransformSet returns the set of all 48 transforms.
func AllTransformSet() TransformSet {
	return TransformSet{bits: allTransformBits, size: NumTransforms}
}

// AllRotationSet returns the 24 proper rotations.
func AllRotationSet() TransformSet {
	return TransformSet{bits: uint64(1)<<NumRotations - 1, size: NumRotations}
}

// TransformSetFromBits builds a set from a raw mask; bits past the 48th are dropped.
func TransformSetFromBits(mask uint64) TransformSet {
	mask &= allTransformBits
	return TransformSet{bits: mask, size: uint8(bits.OnesCount64(mask))}
}

func (s TransformSet) Bits() uint64  { return s.bits }
func (s TransformSet) Len() int      { return int(s.size) }
func (s TransformSet) IsEmpty() bool { return s.size == 0 }

func (s TransformSet) Contains(t Transform) bool {
	return s.bits&(1<<t.Index()) != 0
}

// Add inserts t and reports whether it was new.
func (s *TransformSet) Add(t Transform) bool {
	bit := uint64(1) << t.Index()
	if s.bits&bit != 0 {
		return false
	}
	s.bits |= bit
	s.size++
	return true
}

// Delete removes t and reports whether it was present.
func (s *TransformSet) Delete(t Transform) bool {
	bit := uint64(1) << t.Index()
	if s.bits&bit == 0 {
		return false
	}
	s.bits &^= bit
	s.size--
	return true
}

// Union adds every member of o and returns how many were new.
func (s *TransformSet) Union(o TransformSet) int {
	return s.setBits(s.bits | o.bits)
}

// Intersect keeps only the members shared with o and returns how many were removed.
func (s *TransformSet) Intersect(o TransformSet) int {
	return -s.setBits(s.bits & o.bits)
}

// Remove drops every member of o and returns how many were removed.
func (s *TransformSet) Remove(o TransformSet) int {
	return -s.setBits(s.bits &^ o.bits)
}

func (s *TransformSet) setBits(mask uint64) int {
	oldSize := int(s.size)
	s.bits = mask
	s.size = uint8(bits.OnesCount64(mask))
	return int(s.size) - oldSize
}

// AddInvertedVersions adds the inverted form of every uninverted member.
func (s *TransformSet) AddInvertedVersions() {
	rotations := s.bits & (uint64(1)<<NumRotations - 1)
	s.setBits(s.bits | rotations<<NumRotations)
}

// All iterates the members in index order.
func (s TransformSet) All() iter.Seq[Transform] {
	return func(yield func(Transform) bool) {
		for mask := s.bits; mask != 0; mask &= mask - 1 {
			if !yield(TransformFromIndex(bits.TrailingZeros64(mask))) {
				return
			}
		}
	}
}

// Slice returns the members in index order.
func (s TransformSet) Slice() []Transform {
	out := make([]Transform, 0, s.size)
	for t := range s.All() {
		out = append(out, t)
	}
	return out
}

// Nth returns the i-th member in index order. It panics if i is out of range.
func (s TransformSet) Nth(i int) Transform {
	if i < 0 || i >= int(s.size) {
		panic("cube: TransformSet.Nth index out of range")
	}
	mask := s.bits
	for range i {
		mask &= mask - 1
	}
	return TransformFromIndex(bits.TrailingZeros64(mask))
}

func (s TransformSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for t := range s.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(t.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
