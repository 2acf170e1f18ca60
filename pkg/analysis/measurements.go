package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// MeshProperties contains the mass properties and edge statistics of a mesh
type MeshProperties struct {
	TriangleCount   int
	VertexCount     int
	DegenerateCount int
	BoundingBox     geometry.BoundingBox
	Dimensions      geometry.Vector3
	// SignedVolume is negative for inward facing (inverted) winding
	SignedVolume float64
	Volume       float64
	SurfaceArea  float64
	// Centroid is the area weighted centroid of the triangles
	Centroid      geometry.Vector3
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// AnalyzeMesh computes volume, surface area, centroid and edge statistics.
// Volume uses the divergence theorem and is only meaningful for closed
// meshes.
func AnalyzeMesh(m *mesh.Mesh) MeshProperties {
	result := MeshProperties{
		TriangleCount:   m.TriangleCount(),
		VertexCount:     m.VertexCount(),
		DegenerateCount: m.DegenerateCount(),
		BoundingBox:     m.BoundingBox(),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	var weighted geometry.Vector3

	for i := 0; i < m.TriangleCount(); i++ {
		triangle := m.Triangle(i)

		area := triangle.Area()
		result.SurfaceArea += area
		result.SignedVolume += triangle.SignedVolume()
		weighted = weighted.Add(triangle.Center().Mul(area))

		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.Volume = math.Abs(result.SignedVolume)
	result.EdgeCount = 3 * result.TriangleCount
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	if result.SurfaceArea > 0 {
		result.Centroid = weighted.Mul(1 / result.SurfaceArea)
	} else {
		result.Centroid = result.BoundingBox.Center()
	}
	return result
}

// Edges returns the three edges of every triangle
func Edges(m *mesh.Mesh) []EdgeInfo {
	edges := make([]EdgeInfo, 0, 3*m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		triangle := m.Triangle(i)
		for _, edge := range []struct {
			start, end geometry.Vector3
		}{
			{triangle.V1, triangle.V2},
			{triangle.V2, triangle.V3},
			{triangle.V3, triangle.V1},
		} {
			edges = append(edges, EdgeInfo{
				Start:      edge.start,
				End:        edge.end,
				Length:     edge.start.Distance(edge.end),
				TriangleID: i,
			})
		}
	}
	return edges
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(edges []EdgeInfo, minLength, maxLength float64) []EdgeInfo {
	var out []EdgeInfo
	for _, edge := range edges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			out = append(out, edge)
		}
	}
	return out
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(edges []EdgeInfo, count int) []EdgeInfo {
	sorted := make([]EdgeInfo, len(edges))
	copy(sorted, edges)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})

	if count > len(sorted) {
		count = len(sorted)
	}

	return sorted[:count]
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(edges []EdgeInfo, count int) []EdgeInfo {
	sorted := make([]EdgeInfo, len(edges))
	copy(sorted, edges)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length < sorted[j].Length
	})

	if count > len(sorted) {
		count = len(sorted)
	}

	return sorted[:count]
}

// FindNearestVertex finds the vertex of the mesh nearest to a given point
func FindNearestVertex(m *mesh.Mesh, point geometry.Vector3) (geometry.Vector3, float64) {
	var nearestVertex geometry.Vector3
	minDistance := math.MaxFloat64

	for i := 0; i < m.VertexCount(); i++ {
		vertex := m.Vertex(i)
		distance := point.Distance(vertex)
		if distance < minDistance {
			minDistance = distance
			nearestVertex = vertex
		}
	}

	return nearestVertex, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
