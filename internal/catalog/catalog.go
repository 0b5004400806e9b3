// Package catalog loads tile sets and session settings from HCL files.
//
// A catalog declares named faces, tiles whose six sides use those faces or
// literal corner IDs, forced constant placements, and an optional session
// block with generator settings:
//
//	face "ground" { corners = [1, 1, 1, 1] }
//	tile "block" {
//	  weight = 100
//	  min_x  = face.ground
//	  ...
//	  permutations { axes = ["z"] }
//	}
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/generator"
	"github.com/rybkr/wfc3d/internal/mathx"
	"github.com/rybkr/wfc3d/internal/tiles"
)

// DefaultWeight is used for tiles that do not declare one.
const DefaultWeight = 100

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is a decoded catalog file.
type Catalog struct {
	Tiles []tiles.Tile
	Faces map[string]cube.FaceIdentifiers
	// Options holds generator.DefaultOptions overridden by the session
	// block, with the catalog's constants filled in.
	Options *generator.Options
}

// Input indexes the catalog's tiles.
func (c *Catalog) Input() *tiles.InputData { return tiles.NewInputData(c.Tiles) }

// TileIndex returns the index of the named tile, or -1.
func (c *Catalog) TileIndex(name string) int {
	for i, t := range c.Tiles {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Load reads and decodes a catalog file.
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(src, path)
}

// Parse decodes catalog source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", ErrInvalidCatalog, filename, diags.Error())
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %s", ErrInvalidCatalog, filename, diags.Error())
	}

	c := &Catalog{
		Faces:   make(map[string]cube.FaceIdentifiers, len(root.Faces)),
		Options: generator.DefaultOptions(),
	}

	faceVars := make(map[string]cty.Value, len(root.Faces))
	for _, fb := range root.Faces {
		if _, dup := c.Faces[fb.Name]; dup {
			return nil, fmt.Errorf("%w: face %q declared twice", ErrInvalidCatalog, fb.Name)
		}
		face, err := faceFromLists(fb.Corners, fb.Edges)
		if err != nil {
			return nil, fmt.Errorf("%w: face %q: %w", ErrInvalidCatalog, fb.Name, err)
		}
		c.Faces[fb.Name] = face
		faceVars[fb.Name] = faceValue(face)
	}

	// Tiles and the session can refer to faces as face.<name>.
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"face": cty.ObjectVal(faceVars)},
	}

	for _, tb := range root.Tiles {
		if c.TileIndex(tb.Name) >= 0 {
			return nil, fmt.Errorf("%w: tile %q declared twice", ErrInvalidCatalog, tb.Name)
		}
		t, err := decodeTile(tb, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: tile %q: %w", ErrInvalidCatalog, tb.Name, err)
		}
		c.Tiles = append(c.Tiles, t)
	}
	if err := tiles.Validate(c.Tiles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if root.Session != nil {
		if err := decodeSession(root.Session.Body, evalCtx, c.Options); err != nil {
			return nil, fmt.Errorf("%w: session: %w", ErrInvalidCatalog, err)
		}
	}

	for i, cb := range root.Constants {
		constant, err := c.decodeConstant(cb)
		if err != nil {
			return nil, fmt.Errorf("%w: constant %d: %w", ErrInvalidCatalog, i, err)
		}
		c.Options.Constants = append(c.Options.Constants, constant)
	}
	return c, nil
}

func decodeTile(tb *tileBlock, evalCtx *hcl.EvalContext) (tiles.Tile, error) {
	var body tileBody
	if diags := gohcl.DecodeBody(tb.Body, evalCtx, &body); diags.HasErrors() {
		return tiles.Tile{}, errors.New(diags.Error())
	}

	t := tiles.Tile{
		Name:         tb.Name,
		Weight:       DefaultWeight,
		Permutations: cube.NewTransformSet(cube.Identity),
	}
	if body.Weight != nil {
		t.Weight = *body.Weight
	}

	var sides [cube.NumDirections]cube.FaceIdentifiers
	for i, v := range []cty.Value{body.MinX, body.MaxX, body.MinY, body.MaxY, body.MinZ, body.MaxZ} {
		face, err := faceFromValue(v)
		if err != nil {
			return tiles.Tile{}, fmt.Errorf("%v: %w", cube.Direction(i), err)
		}
		sides[i] = face
	}
	if e := body.Edges; e != nil {
		for i, ids := range [][]uint32{e.MinX, e.MaxX, e.MinY, e.MaxY, e.MinZ, e.MaxZ} {
			if ids == nil {
				continue
			}
			if len(ids) != cube.FacePointCount {
				return tiles.Tile{}, fmt.Errorf("edges %v: want %d IDs, got %d", cube.Direction(i), cube.FacePointCount, len(ids))
			}
			sides[i].Edges = toPoints(ids)
		}
	}
	t.Faces = cube.NewCube(sides)

	if body.Permutations != nil {
		set, err := body.Permutations.transformSet()
		if err != nil {
			return tiles.Tile{}, err
		}
		t.Permutations = set
	}
	return t, nil
}

func decodeSession(body hcl.Body, evalCtx *hcl.EvalContext, opts *generator.Options) error {
	var s sessionBody
	if diags := gohcl.DecodeBody(body, evalCtx, &s); diags.HasErrors() {
		return errors.New(diags.Error())
	}

	if s.Size != nil {
		if len(s.Size) != 3 {
			return fmt.Errorf("size: want 3 values, got %d", len(s.Size))
		}
		opts.Size = mathx.V3(s.Size[0], s.Size[1], s.Size[2])
	}
	if s.Wrap != nil {
		if len(s.Wrap) != 3 {
			return fmt.Errorf("wrap: want 3 values, got %d", len(s.Wrap))
		}
		opts.Wrap.X, opts.Wrap.Y, opts.Wrap.Z = s.Wrap[0], s.Wrap[1], s.Wrap[2]
	}
	if s.Seed != nil {
		opts.Seed = *s.Seed
	}
	if s.MaxTicks != nil {
		opts.MaxTicks = *s.MaxTicks
	}
	if s.Timeout != nil {
		d, err := time.ParseDuration(*s.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		opts.Timeout = d
	}
	if s.ExpandPermutations != nil {
		opts.ExpandPermutations = *s.ExpandPermutations
	}
	if s.Boundary != nil && !s.Boundary.IsNull() {
		face, err := faceFromValue(*s.Boundary)
		if err != nil {
			return fmt.Errorf("boundary: %w", err)
		}
		opts.Boundary = &face
	}
	if s.Transforms != nil {
		set, err := s.Transforms.transformSet()
		if err != nil {
			return fmt.Errorf("transforms: %w", err)
		}
		opts.Transforms = set
	}
	return nil
}

func (c *Catalog) decodeConstant(cb *constantBlock) (generator.Constant, error) {
	if len(cb.Pos) != 3 {
		return generator.Constant{}, fmt.Errorf("pos: want 3 values, got %d", len(cb.Pos))
	}
	tile := c.TileIndex(cb.Tile)
	if tile < 0 {
		return generator.Constant{}, fmt.Errorf("unknown tile %q", cb.Tile)
	}
	transform := cube.Identity
	if cb.Transform != "" {
		t, err := cube.ParseTransform(cb.Transform)
		if err != nil {
			return generator.Constant{}, err
		}
		transform = t
	}
	return generator.Constant{
		Pos:       mathx.V3(cb.Pos[0], cb.Pos[1], cb.Pos[2]),
		Tile:      tile,
		Transform: transform,
	}, nil
}

// transformSet expands the block into the transforms it allows, always
// including Identity.
func (p *permutationsBody) transformSet() (cube.TransformSet, error) {
	implicit := cube.ImplicitTransformSet{
		AllowInversion:    p.Inversion,
		AllowAllRotations: p.AllRotations,
		AllowAxisRots:     p.AxisRotations,
		AllowEdgeRots:     p.EdgeRotations,
		AllowCornerRots:   p.CornerRotations,
	}
	for _, a := range p.Axes {
		switch strings.ToLower(a) {
		case "x":
			implicit.AllowAxisXRots = true
		case "y":
			implicit.AllowAxisYRots = true
		case "z":
			implicit.AllowAxisZRots = true
		default:
			return cube.TransformSet{}, fmt.Errorf("unknown axis %q", a)
		}
	}
	for _, a := range p.EdgeAxes {
		switch strings.ToLower(a) {
		case "x":
			implicit.AllowEdgeXRots = true
		case "y":
			implicit.AllowEdgeYRots = true
		case "z":
			implicit.AllowEdgeZRots = true
		default:
			return cube.TransformSet{}, fmt.Errorf("unknown edge axis %q", a)
		}
	}
	for _, name := range p.Rotations {
		t, err := cube.ParseTransform(name)
		if err != nil {
			return cube.TransformSet{}, err
		}
		implicit.Specific.Add(t)
	}
	return implicit.Explicit(), nil
}

// faceValue exposes a face to expressions as {corners = [...], edges = [...]}.
func faceValue(f cube.FaceIdentifiers) cty.Value {
	list := func(ids [cube.FacePointCount]cube.PointID) cty.Value {
		vals := make([]cty.Value, len(ids))
		for i, id := range ids {
			vals[i] = cty.NumberUIntVal(uint64(id))
		}
		return cty.ListVal(vals)
	}
	return cty.ObjectVal(map[string]cty.Value{
		"corners": list(f.Corners),
		"edges":   list(f.Edges),
	})
}

// faceFromValue accepts either a face object or a plain list of corner IDs.
func faceFromValue(v cty.Value) (cube.FaceIdentifiers, error) {
	if v.IsNull() || !v.IsKnown() {
		return cube.FaceIdentifiers{}, errors.New("face is missing")
	}

	ty := v.Type()
	if ty.IsObjectType() || ty.IsMapType() {
		cv, ok := member(v, "corners")
		if !ok {
			return cube.FaceIdentifiers{}, errors.New("face object has no corners")
		}
		corners, err := pointList(cv)
		if err != nil {
			return cube.FaceIdentifiers{}, fmt.Errorf("corners: %w", err)
		}
		var edges []uint32
		if ev, ok := member(v, "edges"); ok && !ev.IsNull() {
			if edges, err = pointList(ev); err != nil {
				return cube.FaceIdentifiers{}, fmt.Errorf("edges: %w", err)
			}
		}
		return faceFromLists(corners, edges)
	}

	corners, err := pointList(v)
	if err != nil {
		return cube.FaceIdentifiers{}, fmt.Errorf("corners: %w", err)
	}
	return faceFromLists(corners, nil)
}

// member looks up a key of an object or map value.
func member(v cty.Value, name string) (cty.Value, bool) {
	if v.Type().IsObjectType() {
		if !v.Type().HasAttribute(name) {
			return cty.NilVal, false
		}
		return v.GetAttr(name), true
	}
	key := cty.StringVal(name)
	if !v.HasIndex(key).True() {
		return cty.NilVal, false
	}
	return v.Index(key), true
}

// pointList converts a list or tuple literal of IDs.
func pointList(v cty.Value) ([]uint32, error) {
	v, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return nil, err
	}
	var ids []uint32
	if err := gocty.FromCtyValue(v, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func faceFromLists(corners, edges []uint32) (cube.FaceIdentifiers, error) {
	if len(corners) != cube.FacePointCount {
		return cube.FaceIdentifiers{}, fmt.Errorf("want %d corner IDs, got %d", cube.FacePointCount, len(corners))
	}
	f := cube.FaceIdentifiers{Corners: toPoints(corners)}
	if edges != nil {
		if len(edges) != cube.FacePointCount {
			return cube.FaceIdentifiers{}, fmt.Errorf("want %d edge IDs, got %d", cube.FacePointCount, len(edges))
		}
		f.Edges = toPoints(edges)
	}
	return f, nil
}

func toPoints(ids []uint32) [cube.FacePointCount]cube.PointID {
	var out [cube.FacePointCount]cube.PointID
	for i, id := range ids {
		out[i] = cube.PointID(id)
	}
	return out
}
