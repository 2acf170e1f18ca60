package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "List the edges of a model by length",
	Long: `List the edges of an STL, OpenSCAD or 3MF model. 3MF packages are measured
as their whole build plate. Pick the longest, the shortest, or the edges within
--min and --max.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "number of edges to list")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "list the longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "list the shortest edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "minimum edge length")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "maximum edge length (enables the range filter)")
}

func runEdges(cmd *cobra.Command, args []string) error {
	src, err := loadSource(cmd, args[0])
	if err != nil {
		return err
	}

	result := analysis.AnalyzeMesh(src.Mesh)
	all := analysis.Edges(src.Mesh)
	edgesCount = max(0, edgesCount)

	var edges []analysis.EdgeInfo
	var title string

	if edgesLongest {
		edges = analysis.FindLongestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	} else if edgesShortest {
		edges = analysis.FindShortestEdges(all, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	} else if edgesMaxLength > 0 {
		edges = analysis.FindEdgesByLength(all, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", edgesMinLength, edgesMaxLength, len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	} else {
		edges = all
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(edgesCount, len(edges)), len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total edges in model: %d\n", result.EdgeCount)
	fmt.Printf("Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) > 0 {
		fmt.Printf("%-6s %-35s %-35s %-15s\n", "Index", "Start", "End", "Length")
		fmt.Println("-----------------------------------------------------------------------------------------------------------")
		for i, edge := range edges {
			fmt.Printf("%-6d %-35s %-35s %-15.6f\n",
				i+1,
				analysis.FormatVector(edge.Start),
				analysis.FormatVector(edge.End),
				edge.Length)
		}
	} else {
		fmt.Println("No edges found matching the criteria.")
	}
	return nil
}
