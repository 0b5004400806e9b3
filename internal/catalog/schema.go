package catalog

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes the top-level blocks. Tile and session bodies refer to
// named faces, so they are kept raw and decoded once the faces are known.
type fileRoot struct {
	Session   *rawBlock        `hcl:"session,block"`
	Faces     []*faceBlock     `hcl:"face,block"`
	Tiles     []*tileBlock     `hcl:"tile,block"`
	Constants []*constantBlock `hcl:"constant,block"`
}

type rawBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// faceBlock names a reusable face signature.
type faceBlock struct {
	Name    string   `hcl:"name,label"`
	Corners []uint32 `hcl:"corners"`
	Edges   []uint32 `hcl:"edges,optional"`
}

type tileBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// tileBody is a tile's content. Each side is either a list of four corner
// IDs or a face object such as face.ground.
type tileBody struct {
	Weight *uint32 `hcl:"weight,optional"`

	MinX cty.Value `hcl:"min_x"`
	MaxX cty.Value `hcl:"max_x"`
	MinY cty.Value `hcl:"min_y"`
	MaxY cty.Value `hcl:"max_y"`
	MinZ cty.Value `hcl:"min_z"`
	MaxZ cty.Value `hcl:"max_z"`

	Edges        *edgesBody        `hcl:"edges,block"`
	Permutations *permutationsBody `hcl:"permutations,block"`
}

// edgesBody overrides the edge midpoint IDs of individual sides.
type edgesBody struct {
	MinX []uint32 `hcl:"min_x,optional"`
	MaxX []uint32 `hcl:"max_x,optional"`
	MinY []uint32 `hcl:"min_y,optional"`
	MaxY []uint32 `hcl:"max_y,optional"`
	MinZ []uint32 `hcl:"min_z,optional"`
	MaxZ []uint32 `hcl:"max_z,optional"`
}

// permutationsBody describes a transform set by rotation families plus
// individually listed transforms.
type permutationsBody struct {
	Rotations       []string `hcl:"rotations,optional"`
	AllRotations    bool     `hcl:"all_rotations,optional"`
	AxisRotations   bool     `hcl:"axis_rotations,optional"`
	EdgeRotations   bool     `hcl:"edge_rotations,optional"`
	CornerRotations bool     `hcl:"corner_rotations,optional"`
	Axes            []string `hcl:"axes,optional"`
	EdgeAxes        []string `hcl:"edge_axes,optional"`
	Inversion       bool     `hcl:"inversion,optional"`
}

type sessionBody struct {
	Size               []int      `hcl:"size,optional"`
	Seed               *uint64    `hcl:"seed,optional"`
	Wrap               []bool     `hcl:"wrap,optional"`
	MaxTicks           *int       `hcl:"max_ticks,optional"`
	Timeout            *string    `hcl:"timeout,optional"`
	ExpandPermutations *bool      `hcl:"expand_permutations,optional"`
	Boundary           *cty.Value `hcl:"boundary,optional"`

	Transforms *permutationsBody `hcl:"transforms,block"`
}

type constantBlock struct {
	Pos       []int  `hcl:"pos"`
	Tile      string `hcl:"tile"`
	Transform string `hcl:"transform,optional"`
}
