package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
	"github.com/philipparndt/gostl3mf/pkg/layout"
	"github.com/philipparndt/gostl3mf/pkg/source"
	"github.com/philipparndt/gostl3mf/version"
)

func copyName(name string, index int) string {
	return fmt.Sprintf("%s_%d", name, index+1)
}

func joinInputs(inputs []string) string {
	return strings.Join(inputs, ", ")
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func writeHeader(b *strings.Builder, title string, stats *Stats) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "Generated by: gostl3mf %s\n", version.GetVersion())
	fmt.Fprintf(b, "Date: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(b, "Conversion ID: %s\n\n", stats.ID)
}

func writeSource(b *strings.Builder, src *source.Source) {
	b.WriteString("Source Information:\n")
	fmt.Fprintf(b, "- File: %s\n", filepath.Base(src.Path))
	fmt.Fprintf(b, "- Type: %s\n", src.Kind)
	fmt.Fprintf(b, "- Size: %d bytes\n\n", fileSize(src.Path))
}

func writeOutput(b *strings.Builder, stats *Stats) {
	b.WriteString("Output Information:\n")
	fmt.Fprintf(b, "- File: %s\n", filepath.Base(stats.Output))
	fmt.Fprintf(b, "- Objects in Build: %d\n", stats.Objects)
	fmt.Fprintf(b, "- Total Vertices: %d\n", stats.Vertices)
	fmt.Fprintf(b, "- Total Triangles: %d\n\n", stats.Triangles)
}

func writePerformance(b *strings.Builder, stats *Stats) {
	b.WriteString("Performance:\n")
	seconds := stats.Duration.Seconds()
	fmt.Fprintf(b, "- Conversion Time: %.3f seconds\n", seconds)
	if seconds > 0 {
		fmt.Fprintf(b, "- Triangles/Second: %.0f\n", float64(stats.Triangles)/seconds)
	}
	b.WriteString("\n")
}

func writePositions(b *strings.Builder, stats *Stats) {
	b.WriteString("Object Positions:\n")
	for _, p := range stats.Positions {
		fmt.Fprintf(b, "- %s: X=%.2f, Y=%.2f, Z=%.2f\n", p.Name, p.Offset.X, p.Offset.Y, p.Offset.Z)
	}
	b.WriteString("\n")
}

func writeMesh(b *strings.Builder, props analysis.MeshProperties) {
	d := props.Dimensions
	fmt.Fprintf(b, "- Dimensions: %.2f x %.2f x %.2f\n", d.X, d.Y, d.Z)
	fmt.Fprintf(b, "- Volume: %.3f\n", props.Volume)
	fmt.Fprintf(b, "- Surface Area: %.3f\n", props.SurfaceArea)
}

func conversionInfo(src *source.Source, stats *Stats) string {
	var b strings.Builder
	writeHeader(&b, "STL to 3MF Conversion Report", stats)
	writeSource(&b, src)

	b.WriteString("Mesh Information:\n")
	writeMesh(&b, analysis.AnalyzeMesh(src.Mesh))
	b.WriteString("\n")

	writeOutput(&b, stats)
	writePerformance(&b, stats)
	b.WriteString("Conversion successful!\n")
	return b.String()
}

func gridReport(src *source.Source, count int, spec layout.Spec, stats *Stats) string {
	var b strings.Builder
	writeHeader(&b, "STL to 3MF Grid Conversion Report", stats)
	writeSource(&b, src)

	b.WriteString("Grid Configuration:\n")
	fmt.Fprintf(&b, "- Copies: %d\n", count)
	fmt.Fprintf(&b, "- Layout Mode: %s\n", spec.Mode)
	if rows, cols, err := layoutShape(count, spec); err == nil {
		fmt.Fprintf(&b, "- Grid Layout: %d rows x %d columns\n", rows, cols)
	}
	fmt.Fprintf(&b, "- Spacing Factor: %.2f\n", spec.SpacingFactor)
	fmt.Fprintf(&b, "- Centered: %t\n\n", spec.Center)

	writeOutput(&b, stats)
	writePerformance(&b, stats)
	writePositions(&b, stats)
	b.WriteString("Grid conversion successful!\n")
	return b.String()
}

func multiObjectReport(sources []*source.Source, items []layout.Item, spec layout.Spec, stats *Stats) string {
	var b strings.Builder
	writeHeader(&b, "Multi-STL to 3MF Conversion Report", stats)

	b.WriteString("Conversion Summary:\n")
	fmt.Fprintf(&b, "- Total Source Files: %d\n", len(sources))
	fmt.Fprintf(&b, "- Total Objects: %d\n", stats.Objects)
	fmt.Fprintf(&b, "- Layout Mode: %s\n", spec.Mode)
	fmt.Fprintf(&b, "- Spacing Factor: %.2f\n\n", spec.SpacingFactor)

	writeOutput(&b, stats)
	writePerformance(&b, stats)

	b.WriteString("Source Files and Object Details:\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "\n- Source File: %s\n", filepath.Base(src.Path))
		fmt.Fprintf(&b, "  Name: %s\n", items[i].Name)
		fmt.Fprintf(&b, "  Copies: %d\n", items[i].Count)
		fmt.Fprintf(&b, "  Vertices per copy: %d\n", src.Mesh.VertexCount())
		fmt.Fprintf(&b, "  Triangles per copy: %d\n", src.Mesh.TriangleCount())
		d := src.Mesh.BoundingBox().Size()
		fmt.Fprintf(&b, "  Dimensions: %.2f x %.2f x %.2f\n", d.X, d.Y, d.Z)
	}
	b.WriteString("\n")

	writePositions(&b, stats)
	b.WriteString("Multi-object conversion successful!\n")
	return b.String()
}

// layoutShape returns rows and columns for the grid and linear modes
func layoutShape(n int, spec layout.Spec) (int, int, error) {
	switch spec.Mode {
	case layout.Linear:
		return 1, n, nil
	case layout.Stack:
		return 0, 0, fmt.Errorf("stack layout has no grid shape")
	default:
		return layout.Shape(n, spec.Columns)
	}
}
