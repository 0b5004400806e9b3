package cube

import (
	"fmt"

	"github.com/rybkr/wfc3d/internal/mathx"
)

// PointID tags a corner or edge midpoint of a face. Two faces join only
// when their IDs agree slot for slot.
type PointID uint32

// FacePoint names one of the four slots on a face, by whether the point sits
// on the low (A) or high (B) end of the face's first and second in-plane axes.
// For edge midpoints, AA and AB lie on the edges parallel to the first
// axis and BA and BB on the edges parallel to the second.
type FacePoint uint8

const (
	AA FacePoint = iota
	AB
	BA
	BB
)

// FacePointCount is the number of corner (or edge) slots per face.
const FacePointCount = 4

// FaceIdentifiers is the signature of one face.
type FaceIdentifiers struct {
	Corners [FacePointCount]PointID
	Edges   [FacePointCount]PointID
}

// Corners builds a signature with the given corner IDs and no edge IDs.
func Corners(aa, ab, ba, bb PointID) FaceIdentifiers {
	return FaceIdentifiers{Corners: [FacePointCount]PointID{aa, ab, ba, bb}}
}

// FacePermutation is a face signature placed on a particular side of a cube.
// It is comparable and can be used as a map key.
type FacePermutation struct {
	Side   Direction
	Points FaceIdentifiers
}

// Flipped returns the face a neighbor must present to join this one.
// Both faces share the same in-plane axes, so the points stay put.
func (f FacePermutation) Flipped() FacePermutation {
	return FacePermutation{Side: f.Side.Opposite(), Points: f.Points}
}

func (f FacePermutation) String() string {
	return fmt.Sprintf("%v%v/%v", f.Side, f.Points.Corners, f.Points.Edges)
}

// faceMap describes what a transform does to one side:
// out.Corners[i] = in.Corners[corners[i]], likewise for edges.
type faceMap struct {
	side    Direction
	corners [FacePointCount]uint8
	edges   [FacePointCount]uint8
}

// Canonical in-plane coordinates of each slot. Corners live on the unit
// cube, edge midpoints on the cube of side 2.
var (
	cornerCoords = [FacePointCount][2]int{AA: {0, 0}, AB: {0, 1}, BA: {1, 0}, BB: {1, 1}}
	edgeCoords   = [FacePointCount][2]int{AA: {1, 0}, AB: {1, 2}, BA: {0, 1}, BB: {2, 1}}
)

func facePointPos(side Direction, coords [2]int, max int) mathx.Vec3 {
	main, a1, a2 := side.planeAxes()
	depth := 0
	if !side.IsMin() {
		depth = max
	}
	return mathx.Vec3{}.With(main, depth).With(a1, coords[0]).With(a2, coords[1])
}

func cornerSlot(q mathx.Vec3, n1, n2 int) int {
	slot := 0
	if q.Get(n1) != 0 {
		slot += 2
	}
	if q.Get(n2) != 0 {
		slot++
	}
	return slot
}

func edgeSlot(q mathx.Vec3, n1, n2 int) int {
	// An edge midpoint is centered on exactly one in-plane axis; the
	// other coordinate says which end of that axis it sits on.
	alongFirst := q.Get(n1) == 1
	offAxis := n1
	if alongFirst {
		offAxis = n2
	}
	slot := 0
	if !alongFirst {
		slot += 2
	}
	if q.Get(offAxis) != 0 {
		slot++
	}
	return slot
}

// rebucketFace computes a faceMap by moving each canonical point and
// sorting it into a slot on the destination side.
func rebucketFace(t Transform, side Direction) faceMap {
	newSide := t.ApplyToSide(side)
	_, n1, n2 := newSide.planeAxes()
	m := faceMap{side: newSide}

	var usedCorners, usedEdges [FacePointCount]bool
	for src := range FacePointCount {
		q := t.ApplyToPos(facePointPos(side, cornerCoords[src], 1), mathx.Splat(1))
		dst := cornerSlot(q, n1, n2)
		if usedCorners[dst] {
			panic(fmt.Sprintf("cube: %v maps two corners of %v onto slot %d", t, side, dst))
		}
		usedCorners[dst] = true
		m.corners[dst] = uint8(src)

		q = t.ApplyToPos(facePointPos(side, edgeCoords[src], 2), mathx.Splat(2))
		dst = edgeSlot(q, n1, n2)
		if usedEdges[dst] {
			panic(fmt.Sprintf("cube: %v maps two edges of %v onto slot %d", t, side, dst))
		}
		usedEdges[dst] = true
		m.edges[dst] = uint8(src)
	}
	return m
}

func faceMaps() *[NumTransforms][NumDirections]faceMap {
	faceMapOnce.Do(func() {
		for _, t := range AllTransforms() {
			for _, side := range Directions() {
				faceMapTable[t.Index()][side] = rebucketFace(t, side)
			}
		}
	})
	return &faceMapTable
}
