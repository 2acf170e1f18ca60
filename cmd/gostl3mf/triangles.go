package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
)

var (
	triCount    int
	triLargest  bool
	triSmallest bool
)

type triangleInfo struct {
	Index     int
	Area      float64
	Perimeter float64
	Vertices  string
}

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "List the triangles of a model by area",
	Long:  "List triangle areas, perimeters and vertices of an STL, OpenSCAD or 3MF model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "number of triangles to list")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "list the largest triangles")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "list the smallest triangles")
}

func runTriangles(cmd *cobra.Command, args []string) error {
	src, err := loadSource(cmd, args[0])
	if err != nil {
		return err
	}
	m := src.Mesh

	triangles := make([]triangleInfo, 0, m.TriangleCount())
	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0

	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		area := tri.Area()

		triangles = append(triangles, triangleInfo{
			Index:     i,
			Area:      area,
			Perimeter: tri.Perimeter(),
			Vertices: fmt.Sprintf("%s, %s, %s",
				analysis.FormatVector(tri.V1),
				analysis.FormatVector(tri.V2),
				analysis.FormatVector(tri.V3)),
		})

		totalArea += area
		minArea = math.Min(minArea, area)
		maxArea = math.Max(maxArea, area)
	}

	if triLargest {
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area > triangles[j].Area
		})
	} else if triSmallest {
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area < triangles[j].Area
		})
	}

	n := max(0, min(triCount, len(triangles)))

	var title string
	if triLargest {
		title = fmt.Sprintf("Top %d Largest Triangles", n)
	} else if triSmallest {
		title = fmt.Sprintf("Top %d Smallest Triangles", n)
	} else {
		title = fmt.Sprintf("First %d Triangles", n)
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total triangles: %d\n", len(triangles))
	fmt.Printf("Total surface area: %.6f square units\n", totalArea)
	fmt.Printf("Min triangle area: %.6f square units\n", minArea)
	fmt.Printf("Max triangle area: %.6f square units\n", maxArea)
	fmt.Printf("Avg triangle area: %.6f square units\n\n", totalArea/float64(len(triangles)))

	for _, tri := range triangles[:n] {
		fmt.Printf("Triangle #%d:\n", tri.Index)
		fmt.Printf("  Area: %.6f square units\n", tri.Area)
		fmt.Printf("  Perimeter: %.6f units\n", tri.Perimeter)
		fmt.Printf("  Vertices: %s\n\n", tri.Vertices)
	}
	return nil
}
