package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/analysis"
	"github.com/philipparndt/gostl3mf/pkg/layout"
)

var (
	gridCount  int
	gridOutput string
)

var gridCmd = &cobra.Command{
	Use:   "grid [file]",
	Short: "Arrange copies of a model on a build plate",
	Long: `Place N copies of one model in a grid, a row or a vertical stack.
Copies share one mesh and never overlap; the spacing factor scales the cell
size relative to the model's bounding box.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrid,
}

func init() {
	rootCmd.AddCommand(gridCmd)

	gridCmd.Flags().IntVarP(&gridCount, "count", "n", 4, "number of copies")
	gridCmd.Flags().StringVarP(&gridOutput, "output", "o", "", "output file (default <input>_grid.3mf)")
	addLayoutFlags(gridCmd)
	addOutputFlags(gridCmd)
}

func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "layout mode: grid, linear or stack")
	cmd.Flags().Int("columns", 0, "grid columns (default ceil(sqrt(N)))")
	cmd.Flags().Float64("spacing", 0, "spacing factor, at least 1.0")
	cmd.Flags().Bool("no-center", false, "keep the first cell at the origin instead of centering")
}

// layoutFlags applies the layout flags that were set on top of base
func layoutFlags(cmd *cobra.Command, base layout.Spec) (layout.Spec, error) {
	spec := base
	flags := cmd.Flags()
	if flags.Changed("mode") {
		name, _ := flags.GetString("mode")
		mode, err := layout.ParseMode(name)
		if err != nil {
			return spec, err
		}
		spec.Mode = mode
	}
	if flags.Changed("columns") {
		spec.Columns, _ = flags.GetInt("columns")
	}
	if flags.Changed("spacing") {
		spec.SpacingFactor, _ = flags.GetFloat64("spacing")
	}
	if noCenter, _ := flags.GetBool("no-center"); noCenter {
		spec.Center = false
	}
	return spec, nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := gridOutput
	if output == "" {
		output = defaultOutput(input, "_grid")
	}

	base, err := cfg.LayoutSpec()
	if err != nil {
		return err
	}
	spec, err := layoutFlags(cmd, base)
	if err != nil {
		return err
	}

	converter, err := newConverter(cmd)
	if err != nil {
		return err
	}
	stats, err := converter.ConvertWithCopies(cmd.Context(), input, output, gridCount, spec)
	if err != nil {
		return err
	}

	printStats(stats)
	fmt.Printf("  Layout: %s, spacing %.2f\n", spec.Mode, spec.SpacingFactor)
	for _, p := range stats.Positions {
		fmt.Printf("  %-20s %s\n", p.Name, analysis.FormatVector(p.Offset))
	}
	return nil
}
