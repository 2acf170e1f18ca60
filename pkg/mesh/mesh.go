// Package mesh holds the immutable indexed triangle mesh shared by layouts,
// 3MF objects and the analyzer.
//
// A Mesh is created once and never modified. Several placed objects may
// point at the same Mesh; repositioning happens through transforms, and
// geometric edits produce a new Mesh.
package mesh

import (
	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
)

// Face is a triangle given as three vertex indices.
type Face [3]uint32

// Mesh is an immutable indexed triangle mesh.
type Mesh struct {
	vertices   []geometry.Vector3
	faces      []Face
	bounds     geometry.BoundingBox
	degenerate int
}

// New validates and copies the given geometry into a new Mesh. It fails
// with a VALIDATION error if there are no vertices or triangles, if any
// index is out of range, or if any vertex is not finite. Zero-area
// triangles are accepted and counted (see DegenerateCount).
func New(vertices []geometry.Vector3, faces []Face) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, errors.Validation("mesh has no vertices")
	}
	if len(faces) == 0 {
		return nil, errors.Validation("mesh has no triangles")
	}

	bounds := geometry.NewBoundingBox()
	for i, v := range vertices {
		if !v.IsFinite() {
			return nil, errors.Validation("vertex %d is not finite: %v", i, v)
		}
		bounds.Extend(v)
	}

	n := uint32(len(vertices))
	degenerate := 0
	for i, f := range faces {
		for _, idx := range f {
			if idx >= n {
				return nil, errors.Validation("triangle %d references vertex %d, mesh has %d vertices", i, idx, n)
			}
		}
		if isDegenerate(vertices, f) {
			degenerate++
		}
	}

	m := &Mesh{
		vertices:   make([]geometry.Vector3, len(vertices)),
		faces:      make([]Face, len(faces)),
		bounds:     bounds,
		degenerate: degenerate,
	}
	copy(m.vertices, vertices)
	copy(m.faces, faces)
	return m, nil
}

// FromSoup builds a Mesh from unindexed triangles, welding vertices with
// identical coordinates into a single shared index.
func FromSoup(triangles []geometry.Triangle) (*Mesh, error) {
	index := make(map[geometry.Vector3]uint32, len(triangles))
	vertices := make([]geometry.Vector3, 0, len(triangles)/2+3)
	faces := make([]Face, 0, len(triangles))

	lookup := func(v geometry.Vector3) uint32 {
		if i, ok := index[v]; ok {
			return i
		}
		i := uint32(len(vertices))
		index[v] = i
		vertices = append(vertices, v)
		return i
	}

	for _, t := range triangles {
		faces = append(faces, Face{lookup(t.V1), lookup(t.V2), lookup(t.V3)})
	}

	return New(vertices, faces)
}

// isDegenerate reports whether the face has (numerically) zero area
func isDegenerate(vertices []geometry.Vector3, f Face) bool {
	if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
		return true
	}
	a, b, c := vertices[f[0]], vertices[f[1]], vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a)).Length() == 0
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.faces)
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) geometry.Vector3 {
	return m.vertices[i]
}

// Face returns the indices of triangle i.
func (m *Mesh) Face(i int) Face {
	return m.faces[i]
}

// Triangle returns triangle i with its computed normal.
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.faces[i]
	t := geometry.Triangle{V1: m.vertices[f[0]], V2: m.vertices[f[1]], V3: m.vertices[f[2]]}
	t.Normal = t.CalculateNormal()
	return t
}

// Vertices returns a copy of the vertex list.
func (m *Mesh) Vertices() []geometry.Vector3 {
	out := make([]geometry.Vector3, len(m.vertices))
	copy(out, m.vertices)
	return out
}

// Faces returns a copy of the triangle index list.
func (m *Mesh) Faces() []Face {
	out := make([]Face, len(m.faces))
	copy(out, m.faces)
	return out
}

// BoundingBox returns the bounds of all vertices.
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return m.bounds
}

// DegenerateCount returns the number of zero-area triangles.
func (m *Mesh) DegenerateCount() int {
	return m.degenerate
}

// Transformed returns a new Mesh with every vertex mapped through t.
func (m *Mesh) Transformed(t geometry.Transform) *Mesh {
	out := &Mesh{
		vertices: make([]geometry.Vector3, len(m.vertices)),
		faces:    m.faces,
		bounds:   geometry.NewBoundingBox(),
	}
	for i, v := range m.vertices {
		p := t.Apply(v)
		out.vertices[i] = p
		out.bounds.Extend(p)
	}
	for _, f := range out.faces {
		if isDegenerate(out.vertices, f) {
			out.degenerate++
		}
	}
	return out
}

// Translated returns a new Mesh moved by offset.
func (m *Mesh) Translated(offset geometry.Vector3) *Mesh {
	return m.Transformed(geometry.Translation(offset))
}

// Merge concatenates meshes, each mapped through its transform, into a new
// Mesh. It is used to flatten 3MF component objects.
func Merge(parts []*Mesh, transforms []geometry.Transform) (*Mesh, error) {
	if len(parts) != len(transforms) {
		return nil, errors.New(errors.ErrCodeInternal, "merge: %d meshes but %d transforms", len(parts), len(transforms))
	}
	var vertices []geometry.Vector3
	var faces []Face
	for i, p := range parts {
		if p == nil {
			return nil, errors.Validation("merge: mesh %d is nil", i)
		}
		base := uint32(len(vertices))
		for _, v := range p.vertices {
			vertices = append(vertices, transforms[i].Apply(v))
		}
		for _, f := range p.faces {
			faces = append(faces, Face{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return New(vertices, faces)
}
