// Package thumbnail renders a shaded preview of a build plate as PNG.
//
// Triangles are rasterized in software at a multiple of the requested size
// and downsampled, which gives smooth edges without a GPU.
package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
)

// DefaultSize is the edge length of a thumbnail in pixels
const DefaultSize = 256

const supersample = 2

// Options control thumbnail rendering
type Options struct {
	Size       int
	Background color.RGBA
	Color      color.RGBA
}

// DefaultOptions returns a light background with a blue-grey model
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Background: color.RGBA{240, 240, 240, 255},
		Color:      color.RGBA{70, 130, 180, 255},
	}
}

// Render draws the objects and returns the image
func Render(objects []threemf.PlacedObject, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, errors.Validation("thumbnail size must be positive, got %d", opts.Size)
	}
	if len(objects) == 0 {
		return nil, errors.Validation("nothing to render")
	}

	bbox := geometry.NewBoundingBox()
	for _, o := range objects {
		bbox = bbox.Union(o.WorldBounds())
	}
	camera := NewCamera(bbox)

	size := opts.Size * supersample
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	zbuffer := make([]float64, size*size)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	light := camera.Forward().Mul(-1)
	w, h := float64(size), float64(size)
	for _, o := range objects {
		for i := 0; i < o.Mesh.TriangleCount(); i++ {
			tri := o.Mesh.Triangle(i)
			tri.V1 = o.Transform.Apply(tri.V1)
			tri.V2 = o.Transform.Apply(tri.V2)
			tri.V3 = o.Transform.Apply(tri.V3)

			// Absolute value keeps inverted windings visible
			intensity := 0.3 + 0.7*math.Abs(tri.CalculateNormal().Dot(light))

			var pts [3]screenPoint
			for j, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
				x, y, z := camera.Project(v, w, h)
				pts[j] = screenPoint{x, y, z}
			}
			fillTriangle(canvas, zbuffer, pts[0], pts[1], pts[2], shade(opts.Color, intensity))
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out, nil
}

// PNG renders the objects and encodes the result
func PNG(objects []threemf.PlacedObject, opts Options) ([]byte, error) {
	img, err := Render(objects, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode thumbnail")
	}
	return buf.Bytes(), nil
}

// Model renders every object of a model
func Model(m *threemf.Model, opts Options) ([]byte, error) {
	return PNG(m.Objects(), opts)
}
