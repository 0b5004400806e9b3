package runner

import (
	"math"
	"math/rand/v2"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// PickWeightedIndex draws an index with probability proportional to its
// weight. Non-positive weights are never chosen. It returns -1 when no
// weight is positive.
func PickWeightedIndex[W constraints.Integer | constraints.Float](r *rand.Rand, weights []W) int {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += float64(w)
			last = i
		}
	}
	if total <= 0 {
		return -1
	}

	target := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= float64(w)
		if target < 0 {
			return i
		}
	}
	// Rounding can leave a sliver past the final bucket.
	return last
}

type candidate struct {
	pos      mathx.Vec3
	hash     uint32
	priority float64
}

// Priority scores how urgently a cell should be set. Higher goes first.
// With PriorityWeightRandomness above zero each call draws fresh jitter.
func (r *Runner) Priority(p mathx.Vec3) float64 {
	cell := r.grid.Cell(p)
	entropy := 1 - float64(cell.NPossibilities)/float64(r.grid.NumPermutedTiles())
	priority := r.opts.PriorityWeightEntropy*entropy +
		r.opts.PriorityWeightTemperature*r.Temperature(p)
	if r.opts.PriorityWeightRandomness > 0 {
		priority += r.rng.Float64() * r.opts.PriorityWeightRandomness
	}
	return priority
}

// pickNextCell chooses uniformly among the highest-priority frontier cells.
func (r *Runner) pickNextCell() mathx.Vec3 {
	if len(r.nextCells) == 0 {
		panic("runner: no frontier cell to pick from")
	}

	// Map iteration order is random; fix an order before any draws.
	r.candidates = r.candidates[:0]
	for p := range r.nextCells {
		r.candidates = append(r.candidates, candidate{pos: p, hash: mathx.Hash3(r.hashSeed, p)})
	}
	slices.SortFunc(r.candidates, func(a, b candidate) int {
		switch {
		case a.hash != b.hash:
			if a.hash < b.hash {
				return -1
			}
			return 1
		case a.pos.Less(b.pos):
			return -1
		case b.pos.Less(a.pos):
			return 1
		default:
			return 0
		}
	})

	best := math.Inf(-1)
	for i := range r.candidates {
		c := &r.candidates[i]
		c.priority = r.Priority(c.pos)
		best = max(best, c.priority)
	}

	top := r.candidates[:0]
	for _, c := range r.candidates {
		if c.priority >= best {
			top = append(top, c)
		}
	}
	return top[r.rng.IntN(len(top))].pos
}

// randomTile picks a tile weighted by its remaining permutation count and
// its own weight, then one of its remaining permutations uniformly.
func (r *Runner) randomTile(allowed []cube.TransformSet) (grid.Placement, bool) {
	tileList := r.grid.Tiles()
	r.weights = r.weights[:0]
	for i, s := range allowed {
		r.weights = append(r.weights, float64(s.Len())*float64(tileList[i].Weight))
	}

	tile := PickWeightedIndex(r.rng, r.weights)
	if tile < 0 {
		return grid.Placement{}, false
	}
	perms := allowed[tile]
	return grid.Placement{
		Tile:        tile,
		Permutation: perms.Nth(r.rng.IntN(perms.Len())),
	}, true
}
