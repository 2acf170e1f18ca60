package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.3mf]",
	Short: "Analyze the objects of a 3MF package",
	Long: `List the package contents and report triangle counts, bounds, volume,
surface area and center of mass per object and for the whole build plate.
Broken objects are reported without aborting the analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	report, err := analysis.AnalyzeFile(args[0])
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println("3MF Package Analysis")
	fmt.Println("====================")
	fmt.Printf("File: %s\n\n", report.Path)

	fmt.Println("Contents:")
	for _, c := range report.Contents {
		fmt.Printf("  %s\n", c)
	}
	fmt.Println()

	if len(report.Properties) > 0 {
		fmt.Println("Properties:")
		for _, p := range report.Properties {
			fmt.Printf("  %s = %s\n", p.Name, p.Value)
		}
		fmt.Println()
	}

	for _, o := range report.Objects {
		name := o.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("Object %d: %s [%s, %s]\n", o.ObjectID, name, o.Type, o.Part)
		fmt.Printf("  Triangles: %d, Vertices: %d\n", o.TriangleCount, o.VertexCount)
		fmt.Printf("  Dimensions: %s\n", analysis.FormatVector(o.Dimensions))
		fmt.Printf("  Volume: %.6f cubic units\n", o.Volume)
		fmt.Printf("  Surface Area: %.6f square units\n", o.SurfaceArea)
		fmt.Printf("  Center of Mass: %s\n", analysis.FormatVector(o.CenterOfMass))
		for _, w := range o.Warnings {
			fmt.Printf("  Warning: %s\n", w)
		}
		fmt.Println()
	}

	if len(report.Errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range report.Errors {
			fmt.Printf("  %s\n", e.Error())
		}
		fmt.Println()
	}

	s := report.Summary
	fmt.Println("Summary:")
	fmt.Printf("  Objects: %d\n", s.ObjectCount)
	fmt.Printf("  Triangles: %d, Vertices: %d\n", s.TotalTriangles, s.TotalVertices)
	if s.ObjectCount > 0 {
		fmt.Printf("  Bounds: %s - %s\n", analysis.FormatVector(s.Bounds.Min), analysis.FormatVector(s.Bounds.Max))
		fmt.Printf("  Dimensions: %s\n", analysis.FormatVector(s.Dimensions))
	}
	fmt.Printf("  Total Volume: %.6f cubic units\n", s.TotalVolume)
	fmt.Printf("  Total Surface Area: %.6f square units\n", s.TotalSurfaceArea)
	fmt.Printf("  Center of Mass: %s\n", analysis.FormatVector(s.CenterOfMass))
	return nil
}
