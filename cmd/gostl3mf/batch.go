package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/internal/logging"
	"github.com/philipparndt/gostl3mf/pkg/convert"
	"github.com/philipparndt/gostl3mf/pkg/errors"
)

var (
	batchOutputDir string
	batchJobs      int
)

var batchCmd = &cobra.Command{
	Use:   "batch [pattern...]",
	Short: "Convert many files in parallel",
	Long: `Convert every STL and OpenSCAD file matching the patterns to
<output-dir>/<name>.3mf. Patterns may use ** to descend into directories.
Failed files are reported at the end and do not stop the batch.`,
	Example: `  gostl3mf batch "models/**/*.stl" -o converted -j 4`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "converted", "output directory")
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "parallel conversions (default one per CPU)")
	addOutputFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	inputs, err := convert.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no STL or OpenSCAD files match %v", args)
	}
	logger.Info("converting", "files", len(inputs), "output", batchOutputDir)

	converter, err := newConverter(cmd)
	if err != nil {
		return err
	}
	result, err := converter.Batch(cmd.Context(), inputs, batchOutputDir, batchJobs)
	if err != nil {
		return err
	}

	fmt.Printf("Converted %d of %d files\n", len(result.Converted), len(inputs))
	for _, s := range result.Converted {
		fmt.Printf("  %s -> %s\n", s.Source, s.Output)
	}
	if !result.OK() {
		fmt.Printf("Failed:\n")
		for _, f := range result.Failed {
			fmt.Printf("  %s: %s\n", f.Input, errors.UserMessage(f.Err))
		}
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d conversions failed", len(result.Failed), len(inputs))
	}
	return nil
}
