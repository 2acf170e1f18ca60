package thumbnail

import (
	"image"
	"image/color"
	"math"
)

type screenPoint struct {
	x, y, z float64
}

// fillTriangle fills a triangle with depth testing
func fillTriangle(img *image.RGBA, zbuffer []float64, p1, p2, p3 screenPoint, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}
	if p2.y > p3.y {
		p2, p3 = p3, p2
	}
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	// Scanline algorithm with depth interpolation
	for y := int(math.Max(0, math.Ceil(p1.y))); y <= int(math.Min(float64(bounds.Max.Y-1), p3.y)); y++ {
		fy := float64(y)

		var spans [2]screenPoint
		found := 0
		for i, edge := range [3][2]screenPoint{{p1, p2}, {p2, p3}, {p1, p3}} {
			a, b := edge[0], edge[1]
			if found == 2 || a.y == b.y || fy < a.y || fy > b.y {
				continue
			}
			// at the middle vertex the upper edge and the lower edge meet;
			// take the lower one so the long edge still bounds the span
			if i == 0 && fy == p2.y && p2.y < p3.y {
				continue
			}
			t := (fy - a.y) / (b.y - a.y)
			spans[found] = screenPoint{x: a.x + t*(b.x-a.x), z: a.z + t*(b.z-a.z)}
			found++
		}
		if found < 2 {
			continue
		}

		start, end := spans[0], spans[1]
		if start.x > end.x {
			start, end = end, start
		}

		// Clamp to image bounds
		xStart := int(math.Max(0, math.Ceil(start.x)))
		xEnd := int(math.Min(float64(bounds.Max.X-1), end.x))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if end.x != start.x {
				t = (float64(x) - start.x) / (end.x - start.x)
			}
			z := start.z + t*(end.z-start.z)

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// shade scales a base color by a light intensity in [0, 1]
func shade(base color.RGBA, intensity float64) color.RGBA {
	scale := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * intensity))
	}
	return color.RGBA{scale(base.R), scale(base.G), scale(base.B), base.A}
}
