package mesh

import "github.com/philipparndt/gostl3mf/pkg/geometry"

// boxFaces lists the 12 triangles of a box with outward (counter-clockwise
// seen from outside) winding over the corner order used by Box.
var boxFaces = []Face{
	{0, 2, 1}, {0, 3, 2}, // bottom
	{4, 5, 6}, {4, 6, 7}, // top
	{0, 1, 5}, {0, 5, 4}, // front
	{1, 2, 6}, {1, 6, 5}, // right
	{2, 3, 7}, {2, 7, 6}, // back
	{3, 0, 4}, {3, 4, 7}, // left
}

// Box returns a closed box spanning from the origin to size.
func Box(size geometry.Vector3) (*Mesh, error) {
	vertices := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: size.X, Y: 0, Z: 0},
		{X: size.X, Y: size.Y, Z: 0},
		{X: 0, Y: size.Y, Z: 0},
		{X: 0, Y: 0, Z: size.Z},
		{X: size.X, Y: 0, Z: size.Z},
		{X: size.X, Y: size.Y, Z: size.Z},
		{X: 0, Y: size.Y, Z: size.Z},
	}
	return New(vertices, boxFaces)
}

// UnitCube returns the closed unit cube [0,1]^3.
func UnitCube() *Mesh {
	m, err := Box(geometry.NewVector3(1, 1, 1))
	if err != nil {
		panic(err)
	}
	return m
}
