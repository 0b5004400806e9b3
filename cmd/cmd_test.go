package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rybkr/wfc3d/internal/cube"
	"github.com/rybkr/wfc3d/internal/generator"
	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
)

const pipesCatalog = "../internal/catalog/testdata/pipes.hcl"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    mathx.Vec3
		wantErr bool
	}{
		{"8", mathx.V3(8, 8, 8), false},
		{"8,8,4", mathx.V3(8, 8, 4), false},
		{" 3, 2 ,1", mathx.V3(3, 2, 1), false},
		{"8,8", mathx.Vec3{}, true},
		{"0", mathx.Vec3{}, true},
		{"a,b,c", mathx.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWrap(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.Wrap.Z = true
	require.NoError(t, parseWrap("XY", opts))
	assert.Equal(t, grid.Wrap{X: true, Y: true}, opts.Wrap)

	require.NoError(t, parseWrap("", opts))
	assert.Equal(t, grid.Wrap{}, opts.Wrap)

	assert.Error(t, parseWrap("xw", opts))
}

func TestCellLabel(t *testing.T) {
	assert.Equal(t, ".", cellLabel(generator.Cell{Tile: grid.NoTile}))
	assert.Equal(t, "pipe", cellLabel(generator.Cell{Tile: 0, Name: "pipe"}))
	assert.Equal(t, "pipe@axis_z_90", cellLabel(generator.Cell{
		Tile: 0, Name: "pipe", Transform: cube.Transform{Rot: cube.AxisZ90},
	}))
}

func sampleResult() *generator.Result {
	res := &generator.Result{RunID: "run", Seed: 3, Size: mathx.V3(2, 1, 2), Ticks: 4}
	res.Cells = []generator.Cell{
		{Tile: 0, Name: "Straight Pipe"},
		{Tile: grid.NoTile},
		{Tile: 1, Name: "bend", Transform: cube.Transform{Rot: cube.AxisZ90}},
		{Tile: 0, Name: "Straight Pipe"},
	}
	return res
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, 1, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Grid #1 (run run, seed 3, 4 ticks")
	assert.Contains(t, out, "z=0\nStraight Pipe  .\n")
	assert.Contains(t, out, "z=1\nbend@axis_z_90 Straight Pipe\n")
}

func TestLayerToHTML(t *testing.T) {
	html := layerToHTML(sampleResult(), 0)
	assert.True(t, strings.HasPrefix(html, "<div class=\"layer\"><table>"))
	assert.Contains(t, html, "class=\"tile-straight-pipe\"")
	assert.Contains(t, html, "class=\"empty\"")
	assert.Equal(t, 1, strings.Count(html, "<tr>"))
}

func TestGenerateHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grids.html")
	require.NoError(t, generateHTML(path, []*generator.Result{sampleResult(), sampleResult()}))
	assert.FileExists(t, path)
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", pipesCatalog})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(context.Background()))
	assert.Contains(t, out.String(), "straight")
	assert.Contains(t, out.String(), "grid-native: 3 tiles")
	assert.Contains(t, out.String(), "expanded:")
}
