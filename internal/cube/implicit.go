package cube

// ImplicitTransformSet describes a transform set by the families of
// rotations it allows instead of listing them. Explicit expands it.
type ImplicitTransformSet struct {
	// Initial is the starting set the allowed transforms act on. An empty
	// set is treated as {Identity}.
	Initial TransformSet

	AllowInversion    bool
	AllowAllRotations bool

	AllowAxisRots   bool
	AllowCornerRots bool
	AllowEdgeRots   bool

	AllowAxisXRots bool
	AllowAxisYRots bool
	AllowAxisZRots bool
	AllowEdgeXRots bool
	AllowEdgeYRots bool
	AllowEdgeZRots bool

	// Specific transforms are added as-is, without closure.
	Specific TransformSet
}

func (s ImplicitTransformSet) generators() []Transform {
	axisAllowed := [3]bool{s.AllowAxisXRots, s.AllowAxisYRots, s.AllowAxisZRots}
	edgeAllowed := [3]bool{s.AllowEdgeXRots, s.AllowEdgeYRots, s.AllowEdgeZRots}

	var gens []Transform
	for r := Rotation(1); r < NumRotations; r++ {
		ok := s.AllowAllRotations
		switch {
		case r.IsAxisRotation(-1):
			ok = ok || s.AllowAxisRots || axisAllowed[int(r-AxisX90)/3]
		case r.IsEdgeRotation(-1):
			ok = ok || s.AllowEdgeRots || edgeAllowed[int(r-EdgesXa)/2]
		case r.IsCornerRotation():
			ok = ok || s.AllowCornerRots
		}
		if ok {
			gens = append(gens, Transform{Rot: r})
		}
	}
	if s.AllowInversion {
		gens = append(gens, Transform{Invert: true})
	}
	return gens
}

// Explicit returns the closure of Initial under the allowed transforms,
// plus the Specific ones.
func (s ImplicitTransformSet) Explicit() TransformSet {
	result := s.Initial
	if result.IsEmpty() {
		result.Add(Identity)
	}

	gens := s.generators()
	frontier := result.Slice()
	for len(frontier) > 0 {
		t := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, g := range gens {
			if next := t.Then(g); result.Add(next) {
				frontier = append(frontier, next)
			}
		}
	}

	result.Union(s.Specific)
	return result
}
