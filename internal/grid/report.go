package grid

import (
	"slices"

	"github.com/rybkr/wfc3d/internal/mathx"
)

// CellSet is an unordered set of cell positions.
type CellSet map[mathx.Vec3]struct{}

func (s CellSet) Add(p mathx.Vec3)    { s[p] = struct{}{} }
func (s CellSet) Remove(p mathx.Vec3) { delete(s, p) }

func (s CellSet) Has(p mathx.Vec3) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members ordered by X, then Y, then Z.
func (s CellSet) Sorted() []mathx.Vec3 {
	out := make([]mathx.Vec3, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b mathx.Vec3) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// Report collects the cells whose possibilities changed during one grid
// operation. A cell may appear in more than one set; consumers should
// apply GotBoring, then GotInteresting, then GotUnsolvable.
type Report struct {
	// GotBoring cells went back to their unconstrained state.
	GotBoring CellSet
	// GotInteresting cells were narrowed down but can still be solved.
	GotInteresting CellSet
	// GotUnsolvable cells have no possibilities left.
	GotUnsolvable CellSet
}

// NewReport returns an empty report ready to be filled.
func NewReport() *Report {
	return &Report{
		GotBoring:      make(CellSet),
		GotInteresting: make(CellSet),
		GotUnsolvable:  make(CellSet),
	}
}

// Clear empties the report, keeping its storage.
func (r *Report) Clear() {
	clear(r.GotBoring)
	clear(r.GotInteresting)
	clear(r.GotUnsolvable)
}

func (r *Report) boring(p mathx.Vec3) {
	if r != nil {
		r.GotBoring.Add(p)
	}
}

func (r *Report) interesting(p mathx.Vec3) {
	if r != nil {
		r.GotInteresting.Add(p)
	}
}

func (r *Report) unsolvable(p mathx.Vec3) {
	if r != nil {
		r.GotUnsolvable.Add(p)
	}
}
