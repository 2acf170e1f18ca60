package thumbnail

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/h2non/filetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
)

func cubeModel(t *testing.T, offsets ...geometry.Vector3) *threemf.Model {
	t.Helper()
	m := threemf.NewModel("")
	for _, o := range offsets {
		_, err := m.Add(mesh.UnitCube(), geometry.Translation(o))
		require.NoError(t, err)
	}
	return m
}

func TestCameraFramesBoundingBox(t *testing.T) {
	bbox := geometry.BoundsOf(geometry.NewVector3(-5, -5, 0), geometry.NewVector3(5, 5, 10))
	c := NewCamera(bbox)

	x, y, z := c.Project(bbox.Center(), 100, 100)
	assert.InDelta(t, 50, x, 1e-6)
	assert.InDelta(t, 50, y, 1e-6)
	assert.Greater(t, z, 0.0)

	for _, corner := range bbox.Corners() {
		x, y, _ := c.Project(corner, 100, 100)
		assert.True(t, x >= 0 && x <= 100 && y >= 0 && y <= 100, "corner %v projected outside: %.1f,%.1f", corner, x, y)
	}
}

func TestRenderCube(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 64

	img, err := Render(cubeModel(t, geometry.Vector3{}).Objects(), opts)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	center := img.RGBAAt(32, 32)
	assert.NotEqual(t, opts.Background, center, "cube should cover the center")

	corner := img.RGBAAt(0, 0)
	assert.InDelta(t, opts.Background.R, corner.R, 2)
	assert.InDelta(t, opts.Background.G, corner.G, 2)
	assert.InDelta(t, opts.Background.B, corner.B, 2)
}

func TestModelProducesPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 32

	data, err := Model(cubeModel(t, geometry.Vector3{}, geometry.NewVector3(2, 0, 0)), opts)
	require.NoError(t, err)
	assert.True(t, filetype.Is(data, "png"))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	_, err := Render(nil, DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))

	opts := DefaultOptions()
	opts.Size = 0
	_, err = Render(cubeModel(t, geometry.Vector3{}).Objects(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}
