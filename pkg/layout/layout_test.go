package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

func box(t *testing.T, x, y, z float64) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Box(geometry.NewVector3(x, y, z))
	require.NoError(t, err)
	return m
}

func TestShape(t *testing.T) {
	tests := []struct {
		n, columns int
		rows, cols int
	}{
		{1, 0, 1, 1},
		{4, 0, 2, 2},
		{5, 0, 2, 3},
		{6, 0, 2, 3},
		{9, 0, 3, 3},
		{10, 0, 3, 4},
		{7, 2, 4, 2},
		{3, 5, 1, 3},
	}

	for _, tt := range tests {
		rows, cols, err := Shape(tt.n, tt.columns)
		require.NoError(t, err)
		assert.Equal(t, tt.rows, rows, "rows for n=%d columns=%d", tt.n, tt.columns)
		assert.Equal(t, tt.cols, cols, "cols for n=%d columns=%d", tt.n, tt.columns)
	}
}

func TestShapeErrors(t *testing.T) {
	_, _, err := Shape(0, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeLayout))

	_, _, err = Shape(3, -1)
	assert.True(t, errors.Is(err, errors.ErrCodeLayout))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"grid": Grid, "Linear": Linear, " stack ": Stack, "": Grid} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("spiral")
	assert.True(t, errors.Is(err, errors.ErrCodeLayout))
}

func TestComputeFourCubesCentered(t *testing.T) {
	cube := mesh.UnitCube()
	placements, err := Compute(
		[]Item{{Mesh: cube, Count: 4, Name: "cube"}},
		Spec{Mode: Grid, Columns: 2, SpacingFactor: 1.2, Center: true},
	)
	require.NoError(t, err)
	require.Len(t, placements, 4)

	expected := []geometry.Vector3{
		{X: -0.6, Y: -0.6},
		{X: 0.6, Y: -0.6},
		{X: -0.6, Y: 0.6},
		{X: 0.6, Y: 0.6},
	}
	for i, p := range placements {
		b := p.Bounds()
		c := b.Center()
		assert.InDelta(t, expected[i].X, c.X, 1e-9, "center X of %d", i)
		assert.InDelta(t, expected[i].Y, c.Y, 1e-9, "center Y of %d", i)
		assert.InDelta(t, 0, b.Min.Z, 1e-12, "cube %d must rest on z=0", i)
		assert.Same(t, cube, p.Mesh)
		assert.Equal(t, i, p.Copy)
	}
	assert.Empty(t, Overlaps(placements))
}

func TestComputeCenteringLaw(t *testing.T) {
	placements, err := Compute(
		[]Item{
			{Mesh: box(t, 2, 1, 1), Count: 3, Name: "a"},
			{Mesh: box(t, 1, 3, 2).Translated(geometry.NewVector3(5, -4, 7)), Count: 2, Name: "b"},
		},
		Spec{Mode: Grid, SpacingFactor: 1.5, Center: true},
	)
	require.NoError(t, err)

	union := geometry.NewBoundingBox()
	for _, p := range placements {
		union = union.Union(p.Bounds())
	}
	assert.InDelta(t, 0, union.Min.X+union.Max.X, 1e-9)
	assert.InDelta(t, 0, union.Min.Y+union.Max.Y, 1e-9)
	assert.InDelta(t, 0, union.Min.Z, 1e-9)
}

func TestComputeNonOverlapping(t *testing.T) {
	items := []Item{
		{Mesh: box(t, 3, 1, 1), Count: 4, Name: "long"},
		{Mesh: box(t, 1, 2, 5), Count: 3, Name: "tall"},
		{Mesh: mesh.UnitCube().Translated(geometry.NewVector3(-10, 3, 2)), Count: 2, Name: "offset"},
	}

	for _, mode := range []Mode{Grid, Linear, Stack} {
		for _, center := range []bool{true, false} {
			for _, spacing := range []float64{1.0, 1.1, 2.0} {
				placements, err := Compute(items, Spec{Mode: mode, SpacingFactor: spacing, Center: center})
				require.NoError(t, err)
				assert.Len(t, placements, 9)
				assert.Empty(t, Overlaps(placements), "mode=%v center=%v spacing=%v", mode, center, spacing)
			}
		}
	}
}

func TestComputeGroupOrder(t *testing.T) {
	a, b := mesh.UnitCube(), box(t, 2, 2, 2)
	placements, err := Compute(
		[]Item{{Mesh: a, Count: 2, Name: "a"}, {Mesh: b, Count: 3, Name: "b"}},
		DefaultSpec(),
	)
	require.NoError(t, err)

	names := make([]string, len(placements))
	for i, p := range placements {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"a", "a", "b", "b", "b"}, names)
	assert.Equal(t, 1, placements[4].Group)
	assert.Equal(t, 2, placements[4].Copy)
}

func TestComputeDeterministic(t *testing.T) {
	items := []Item{{Mesh: box(t, 1.5, 0.7, 2), Count: 7}}
	spec := Spec{Mode: Grid, SpacingFactor: 1.3, Center: true}

	first, err := Compute(items, spec)
	require.NoError(t, err)
	second, err := Compute(items, spec)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Transform, second[i].Transform)
	}
}

func TestComputeSingleInstanceAtOrigin(t *testing.T) {
	m := mesh.UnitCube().Translated(geometry.NewVector3(4, 5, 6))
	for _, center := range []bool{true, false} {
		placements, err := Compute([]Item{{Mesh: m, Count: 1}}, Spec{SpacingFactor: 1.1, Center: center})
		require.NoError(t, err)
		require.Len(t, placements, 1)
		assert.Equal(t, geometry.NewVector3(0, 0, 0), placements[0].Bounds().Min)
	}
}

func TestComputeLinear(t *testing.T) {
	placements, err := Compute(
		[]Item{{Mesh: mesh.UnitCube(), Count: 3}},
		Spec{Mode: Linear, SpacingFactor: 2, Center: false},
	)
	require.NoError(t, err)

	for i, p := range placements {
		b := p.Bounds()
		assert.InDelta(t, float64(i)*2, b.Min.X, 1e-12)
		assert.InDelta(t, 0, b.Min.Y, 1e-12)
	}
}

func TestComputeStack(t *testing.T) {
	placements, err := Compute(
		[]Item{{Mesh: box(t, 2, 2, 1), Count: 1}, {Mesh: box(t, 1, 1, 3), Count: 2}},
		Spec{Mode: Stack, SpacingFactor: 1.5, Center: true},
	)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	expectedZ := []float64{0, 1.5, 6}
	for i, p := range placements {
		b := p.Bounds()
		assert.InDelta(t, expectedZ[i], b.Min.Z, 1e-9, "z of %d", i)
		c := b.Center()
		assert.InDelta(t, 0, c.X, 1e-12)
		assert.InDelta(t, 0, c.Y, 1e-12)
	}
}

func TestComputeErrors(t *testing.T) {
	cube := mesh.UnitCube()
	tests := []struct {
		name  string
		items []Item
		spec  Spec
	}{
		{"no items", nil, DefaultSpec()},
		{"zero count", []Item{{Mesh: cube, Count: 0}}, DefaultSpec()},
		{"negative count", []Item{{Mesh: cube, Count: 2}, {Mesh: cube, Count: -1}}, DefaultSpec()},
		{"nil mesh", []Item{{Count: 1}}, DefaultSpec()},
		{"spacing below one", []Item{{Mesh: cube, Count: 2}}, Spec{SpacingFactor: 0.9}},
		{"spacing NaN", []Item{{Mesh: cube, Count: 2}}, Spec{SpacingFactor: math.NaN()}},
		{"spacing Inf", []Item{{Mesh: cube, Count: 4}}, Spec{SpacingFactor: math.Inf(1), Center: true}},
		{"stack spacing Inf", []Item{{Mesh: cube, Count: 2}}, Spec{Mode: Stack, SpacingFactor: math.Inf(1)}},
		{"negative columns", []Item{{Mesh: cube, Count: 2}}, Spec{SpacingFactor: 1.1, Columns: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.items, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeLayout), "got %v", err)
		})
	}
}

func flatMesh(t *testing.T, vertices ...geometry.Vector3) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(vertices, []mesh.Face{{0, 1, 2}})
	require.NoError(t, err)
	return m
}

func TestComputeZeroExtentItems(t *testing.T) {
	planar := flatMesh(t, geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0))

	_, err := Compute([]Item{{Mesh: planar, Count: 3, Name: "plate"}}, Spec{Mode: Stack, SpacingFactor: 1.5})
	assert.True(t, errors.Is(err, errors.ErrCodeLayout), "got %v", err)

	// a flat item on top of the stack has nothing above it
	placements, err := Compute([]Item{{Mesh: box(t, 1, 1, 1), Count: 1}, {Mesh: planar, Count: 1}}, Spec{Mode: Stack, SpacingFactor: 1.5})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, placements[1].Bounds().Min.Z, 1e-12)

	placements, err = Compute([]Item{{Mesh: planar, Count: 4}}, DefaultSpec())
	require.NoError(t, err)
	assert.Empty(t, Overlaps(placements))
	assert.NotEqual(t, placements[0].Bounds(), placements[3].Bounds())

	line := flatMesh(t, geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(2, 0, 1))
	_, err = Compute([]Item{{Mesh: line, Count: 4}}, DefaultSpec())
	assert.True(t, errors.Is(err, errors.ErrCodeLayout), "got %v", err)

	_, err = Compute([]Item{{Mesh: line, Count: 4}}, Spec{Mode: Linear, SpacingFactor: 1.1})
	assert.NoError(t, err)
}
