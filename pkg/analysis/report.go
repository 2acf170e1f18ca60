package analysis

import (
	"fmt"

	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
)

// ObjectReport describes one placed object of a package
type ObjectReport struct {
	ObjectID      int                  `json:"object_id"`
	Name          string               `json:"name,omitempty"`
	Type          threemf.ObjectType   `json:"type"`
	Part          string               `json:"part"`
	TriangleCount int                  `json:"triangle_count"`
	VertexCount   int                  `json:"vertex_count"`
	LocalBounds   geometry.BoundingBox `json:"local_bounds"`
	WorldBounds   geometry.BoundingBox `json:"world_bounds"`
	Dimensions    geometry.Vector3     `json:"dimensions"`
	Volume        float64              `json:"volume"`
	SignedVolume  float64              `json:"signed_volume"`
	SurfaceArea   float64              `json:"surface_area"`
	CenterOfMass  geometry.Vector3     `json:"center_of_mass"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// Summary aggregates all objects of a package
type Summary struct {
	ObjectCount      int                  `json:"object_count"`
	TotalTriangles   int                  `json:"total_triangles"`
	TotalVertices    int                  `json:"total_vertices"`
	Bounds           geometry.BoundingBox `json:"bounds"`
	Dimensions       geometry.Vector3     `json:"dimensions"`
	CenterOfMass     geometry.Vector3     `json:"center_of_mass"`
	TotalVolume      float64              `json:"total_volume"`
	TotalSurfaceArea float64              `json:"total_surface_area"`
}

// Report is the analysis of a whole package
type Report struct {
	Path     string   `json:"path,omitempty"`
	Contents []string `json:"contents"`
	Metadata []string `json:"metadata"`
	// Properties are the custom properties from Metadata/properties.xml
	Properties threemf.Properties    `json:"properties,omitempty"`
	Models     []string              `json:"models"`
	Objects    []ObjectReport        `json:"objects"`
	Errors     []threemf.ObjectError `json:"errors,omitempty"`
	Summary    Summary               `json:"summary"`
}

// AnalyzeObject computes the report of one placed object. Volume, area and
// center of mass are evaluated in world coordinates.
func AnalyzeObject(part string, o threemf.PlacedObject) ObjectReport {
	local := o.Mesh.BoundingBox()

	world := o.Mesh
	if !isTranslation(o.Transform) {
		world = o.Mesh.Transformed(o.Transform)
	}
	props := AnalyzeMesh(world)
	center := props.Centroid
	if world == o.Mesh {
		center = o.Transform.Apply(center)
	}

	r := ObjectReport{
		ObjectID:      o.ID,
		Name:          o.Name,
		Type:          o.Type,
		Part:          part,
		TriangleCount: props.TriangleCount,
		VertexCount:   props.VertexCount,
		LocalBounds:   local,
		WorldBounds:   o.WorldBounds(),
		Volume:        props.Volume,
		SignedVolume:  props.SignedVolume,
		SurfaceArea:   props.SurfaceArea,
		CenterOfMass:  center,
	}
	r.Dimensions = r.WorldBounds.Size()

	if props.SignedVolume < 0 {
		r.Warnings = append(r.Warnings, "inverted winding: signed volume is negative")
	}
	if props.SignedVolume == 0 && props.SurfaceArea > 0 {
		r.Warnings = append(r.Warnings, "mesh encloses no volume")
	}
	if props.DegenerateCount > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d zero-area triangles", props.DegenerateCount))
	}
	return r
}

// isTranslation reports whether the linear part of t is the identity, in
// which case volume and area are translation invariant
func isTranslation(t geometry.Transform) bool {
	id := geometry.Identity()
	for i := 0; i < 9; i++ {
		if t[i] != id[i] {
			return false
		}
	}
	return true
}

// Summarize aggregates object reports. The center of mass is weighted by
// volume, or by surface area when no object encloses a volume.
func Summarize(objects []ObjectReport) Summary {
	s := Summary{
		ObjectCount: len(objects),
		Bounds:      geometry.NewBoundingBox(),
	}

	var byVolume, byArea geometry.Vector3
	for _, o := range objects {
		s.TotalTriangles += o.TriangleCount
		s.TotalVertices += o.VertexCount
		s.TotalVolume += o.Volume
		s.TotalSurfaceArea += o.SurfaceArea
		s.Bounds = s.Bounds.Union(o.WorldBounds)
		byVolume = byVolume.Add(o.CenterOfMass.Mul(o.Volume))
		byArea = byArea.Add(o.CenterOfMass.Mul(o.SurfaceArea))
	}

	switch {
	case s.TotalVolume > 0:
		s.CenterOfMass = byVolume.Mul(1 / s.TotalVolume)
	case s.TotalSurfaceArea > 0:
		s.CenterOfMass = byArea.Mul(1 / s.TotalSurfaceArea)
	}

	if s.Bounds.IsEmpty() {
		s.Bounds = geometry.BoundingBox{}
	}
	s.Dimensions = s.Bounds.Size()
	return s
}

// Analyze reads every model of an open archive and reports each placed
// object plus the aggregate. Object level read errors end up in
// Report.Errors; structural read errors are returned.
func Analyze(a *threemf.Archive) (*Report, error) {
	contents, err := a.Contents()
	if err != nil {
		return nil, err
	}
	md, err := a.Metadata()
	if err != nil {
		return nil, err
	}
	props, err := a.Properties()
	if err != nil {
		return nil, err
	}
	parts, err := a.ModelPaths()
	if err != nil {
		return nil, err
	}
	models, objErrs, err := a.Models()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Contents:   contents,
		Metadata:   md.Keys(),
		Properties: props,
		Models:     parts,
		Objects:    []ObjectReport{},
		Errors:     objErrs,
	}
	for i, m := range models {
		for _, o := range m.Objects() {
			report.Objects = append(report.Objects, AnalyzeObject(parts[i], o))
		}
	}
	report.Summary = Summarize(report.Objects)
	return report, nil
}

// AnalyzeFile opens, analyzes and closes the package at path
func AnalyzeFile(path string) (*Report, error) {
	a, err := threemf.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	report, err := Analyze(a)
	if err != nil {
		return nil, err
	}
	report.Path = path
	return report, nil
}
