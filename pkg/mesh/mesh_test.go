package mesh

import (
	"testing"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
)

func TestNewRejectsEmpty(t *testing.T) {
	verts := []geometry.Vector3{{X: 0}, {X: 1}, {Y: 1}}

	if _, err := New(nil, []Face{{0, 1, 2}}); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error for missing vertices, got %v", err)
	}
	if _, err := New(verts, nil); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error for missing triangles, got %v", err)
	}
}

func TestNewRejectsOutOfRangeIndex(t *testing.T) {
	verts := []geometry.Vector3{{X: 0}, {X: 1}, {Y: 1}}
	_, err := New(verts, []Face{{0, 1, 3}})
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRejectsNonFiniteVertex(t *testing.T) {
	inf := geometry.NewVector3(1, 0, 0)
	inf.Y = inf.Y / zero()
	verts := []geometry.Vector3{{X: 0}, inf, {Y: 1}}
	if _, err := New(verts, []Face{{0, 1, 2}}); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error for non-finite vertex, got %v", err)
	}
}

func zero() float64 { return 0 }

func TestNewCountsDegenerateTriangles(t *testing.T) {
	verts := []geometry.Vector3{{X: 0}, {X: 1}, {X: 2}, {Y: 1}}
	m, err := New(verts, []Face{{0, 1, 2}, {0, 1, 3}})
	if err != nil {
		t.Fatalf("degenerate triangles must be tolerated: %v", err)
	}
	if m.DegenerateCount() != 1 {
		t.Errorf("DegenerateCount: expected 1, got %d", m.DegenerateCount())
	}
}

func TestNewCopiesInput(t *testing.T) {
	verts := []geometry.Vector3{{X: 0}, {X: 1}, {Y: 1}}
	faces := []Face{{0, 1, 2}}
	m, err := New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}

	verts[1] = geometry.NewVector3(100, 0, 0)
	faces[0] = Face{2, 1, 0}

	if m.Vertex(1) != geometry.NewVector3(1, 0, 0) {
		t.Error("mesh must not alias caller's vertex slice")
	}
	if m.Face(0) != (Face{0, 1, 2}) {
		t.Error("mesh must not alias caller's face slice")
	}
}

func TestFromSoupWeldsVertices(t *testing.T) {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(1, 0, 0)
	c := geometry.NewVector3(1, 1, 0)
	d := geometry.NewVector3(0, 1, 0)

	m, err := FromSoup([]geometry.Triangle{
		{V1: a, V2: b, V3: c},
		{V1: a, V2: c, V3: d},
	})
	if err != nil {
		t.Fatal(err)
	}

	if m.VertexCount() != 4 {
		t.Errorf("VertexCount: expected 4, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount: expected 2, got %d", m.TriangleCount())
	}
	if m.Face(1) != (Face{0, 2, 3}) {
		t.Errorf("second face: expected {0 2 3}, got %v", m.Face(1))
	}
}

func TestUnitCube(t *testing.T) {
	m := UnitCube()
	if m.VertexCount() != 8 || m.TriangleCount() != 12 {
		t.Fatalf("unexpected cube size: %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}

	bbox := m.BoundingBox()
	if bbox.Min != geometry.NewVector3(0, 0, 0) || bbox.Max != geometry.NewVector3(1, 1, 1) {
		t.Errorf("unexpected cube bounds: %v", bbox)
	}

	// every face normal points away from the cube center
	center := geometry.NewVector3(0.5, 0.5, 0.5)
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		if tri.Normal.Dot(tri.Center().Sub(center)) <= 0 {
			t.Errorf("triangle %d is wound inward", i)
		}
	}
}

func TestTranslatedReturnsNewMesh(t *testing.T) {
	m := UnitCube()
	moved := m.Translated(geometry.NewVector3(2, 0, 0))

	if m.BoundingBox().Min.X != 0 {
		t.Error("Translated must not modify the original mesh")
	}
	if moved.BoundingBox().Min.X != 2 || moved.BoundingBox().Max.X != 3 {
		t.Errorf("unexpected translated bounds: %v", moved.BoundingBox())
	}
}

func TestMerge(t *testing.T) {
	cube := UnitCube()
	merged, err := Merge(
		[]*Mesh{cube, cube},
		[]geometry.Transform{geometry.Identity(), geometry.Translation(geometry.NewVector3(0, 0, 1))},
	)
	if err != nil {
		t.Fatal(err)
	}

	if merged.VertexCount() != 16 || merged.TriangleCount() != 24 {
		t.Errorf("unexpected merged size: %d vertices, %d triangles", merged.VertexCount(), merged.TriangleCount())
	}
	if merged.BoundingBox().Max.Z != 2 {
		t.Errorf("unexpected merged bounds: %v", merged.BoundingBox())
	}
	if merged.Face(12) != (Face{8, 10, 9}) {
		t.Errorf("second part indices must be offset, got %v", merged.Face(12))
	}
}
