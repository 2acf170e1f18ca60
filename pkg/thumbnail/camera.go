package thumbnail

import (
	"math"

	"github.com/philipparndt/gostl3mf/pkg/geometry"
)

// Camera looks at a build plate from above and in front, Z up
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	Elevation float64 // Angle above the XY plane
	Azimuth   float64 // Angle around the Z axis
}

// NewCamera creates a camera that frames the whole bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Target:    bbox.Center(),
		Up:        geometry.NewVector3(0, 0, 1),
		FOV:       math.Pi / 6, // 30 degrees
		Elevation: math.Pi / 6,
		Azimuth:   -math.Pi / 4,
	}

	// Fit the bounding sphere into the view cone with a small margin
	radius := bbox.Diagonal() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = radius / math.Sin(c.FOV/2) * 1.1
	c.UpdatePosition()
	return c
}

// UpdatePosition updates camera position based on the view angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.Elevation) * math.Cos(c.Azimuth)
	y := c.Distance * math.Cos(c.Elevation) * math.Sin(c.Azimuth)
	z := c.Distance * math.Sin(c.Elevation)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Forward returns the unit view direction
func (c *Camera) Forward() geometry.Vector3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Project projects a 3D point to 2D screen coordinates and view depth
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	// View transformation
	forward := c.Forward()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	// Perspective projection
	if z <= 0.01 {
		z = 0.01 // Prevent division by zero
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
