package mathx

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionCellsOrder(t *testing.T) {
	t.Parallel()

	r := Region{Min: V3(1, 0, 0), Max: V3(3, 2, 1)}
	got := slices.Collect(r.Cells())
	want := []Vec3{V3(1, 0, 0), V3(2, 0, 0), V3(1, 1, 0), V3(2, 1, 0)}
	assert.Equal(t, want, got)
	assert.Equal(t, 4, r.Len())
}

func TestRegionClampAndContains(t *testing.T) {
	t.Parallel()

	bounds := RegionOf(V3(4, 4, 4))
	r := Region{Min: V3(-2, 1, 3), Max: V3(2, 9, 5)}.Clamp(bounds)
	assert.Equal(t, Region{Min: V3(0, 1, 3), Max: V3(2, 4, 4)}, r)
	assert.True(t, r.Contains(V3(1, 3, 3)))
	assert.False(t, r.Contains(V3(2, 3, 3)))

	empty := Region{Min: V3(3, 3, 3), Max: V3(1, 1, 1)}
	assert.Equal(t, 0, empty.Len())
}

func TestPositiveMod(t *testing.T) {
	t.Parallel()

	tests := []struct{ a, n, want int }{
		{5, 3, 2},
		{-1, 3, 2},
		{-3, 3, 0},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PositiveMod(tt.a, tt.n), "PositiveMod(%d, %d)", tt.a, tt.n)
	}
}

func TestHash3Stable(t *testing.T) {
	t.Parallel()

	a := Hash3(7, V3(1, 2, 3))
	assert.Equal(t, a, Hash3(7, V3(1, 2, 3)))
	assert.NotEqual(t, a, Hash3(7, V3(3, 2, 1)))
	assert.NotEqual(t, a, Hash3(8, V3(1, 2, 3)))
}

func TestVecHelpers(t *testing.T) {
	t.Parallel()

	v := V3(1, 2, 3)
	assert.Equal(t, 2, v.Get(1))
	assert.Equal(t, V3(1, 9, 3), v.With(1, 9))
	assert.True(t, V3(0, 5, 5).Less(V3(1, 0, 0)))
	assert.True(t, V3(1, 0, 4).Less(V3(1, 1, 0)))
	assert.Equal(t, 6, v.Volume())
}
