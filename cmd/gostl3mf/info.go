package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about an STL, OpenSCAD or 3MF model",
	Long:  "Show comprehensive information including dimensions, triangle count, surface area, volume, and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	src, err := loadSource(cmd, filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeMesh(src.Mesh)

	fmt.Println("Model Information")
	fmt.Println("=================")
	fmt.Printf("Name: %s\n", src.Name)
	fmt.Printf("File: %s (%s)\n\n", filename, src.Format)

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	if result.DegenerateCount > 0 {
		fmt.Printf("  Degenerate triangles: %d\n", result.DegenerateCount)
	}
	fmt.Printf("  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	fmt.Printf("  Volume: %.6f cubic units\n", result.Volume)
	if result.SignedVolume < 0 {
		fmt.Println("  Warning: inverted winding (negative signed volume)")
	}
	fmt.Printf("  Centroid: %s\n\n", analysis.FormatVector(result.Centroid))

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n", result.AvgEdgeLength)
	return nil
}
