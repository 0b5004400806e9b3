package cube

import (
	"fmt"
	"sync"

	"github.com/rybkr/wfc3d/internal/mathx"
)

var (
	compositionOnce  sync.Once
	compositionTable [NumTransforms][NumTransforms]Transform

	faceMapOnce  sync.Once
	faceMapTable [NumTransforms][NumDirections]faceMap
)

// cornerArrangement records where each of the unit cube's 8 corners lands
// after a sequence of transforms, packed 3 bits per corner.
func cornerArrangement(ts ...Transform) uint32 {
	var key uint32
	for i := range 8 {
		p := mathx.V3(i&1, (i>>1)&1, (i>>2)&1)
		for _, t := range ts {
			p = t.ApplyToPos(p, mathx.Splat(1))
		}
		key |= uint32(p.X|p.Y<<1|p.Z<<2) << (3 * i)
	}
	return key
}

func compositions() *[NumTransforms][NumTransforms]Transform {
	compositionOnce.Do(func() {
		byArrangement := make(map[uint32]Transform, NumTransforms)
		for _, t := range AllTransforms() {
			key := cornerArrangement(t)
			if prev, ok := byArrangement[key]; ok {
				panic(fmt.Sprintf("cube: transforms %v and %v move corners identically", prev, t))
			}
			byArrangement[key] = t
		}

		for _, a := range AllTransforms() {
			for _, b := range AllTransforms() {
				c, ok := byArrangement[cornerArrangement(a, b)]
				if !ok {
					panic(fmt.Sprintf("cube: %v then %v is not a cube symmetry", a, b))
				}
				compositionTable[a.Index()][b.Index()] = c
			}
		}
	})
	return &compositionTable
}
