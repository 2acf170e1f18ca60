package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/convert"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an STL or OpenSCAD file into a 3MF package",
	Long:  "Write the model as a single object. OpenSCAD files are rendered with the openscad executable first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default <input>.3mf)")
	addOutputFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := convertOutput
	if output == "" {
		output = defaultOutput(input, "")
	}

	converter, err := newConverter(cmd)
	if err != nil {
		return err
	}
	stats, err := converter.Convert(cmd.Context(), input, output)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func printStats(stats *convert.Stats) {
	fmt.Printf("Output: %s\n", stats.Output)
	fmt.Printf("  Objects: %d\n", stats.Objects)
	fmt.Printf("  Vertices: %d\n", stats.Vertices)
	fmt.Printf("  Triangles: %d\n", stats.Triangles)
	fmt.Printf("  Time: %.3f seconds\n", stats.Duration.Seconds())
}
