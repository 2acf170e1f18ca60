package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/manifest"
)

var (
	assembleParts  []string
	assembleOutput string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [manifest]",
	Short: "Combine several models with copy counts on one build plate",
	Long: `Combine parts listed in a TOML or YAML manifest, or given with -p
path[:count[:name]], into one 3MF package. Layout flags override the
manifest's [layout] section.`,
	Example: `  gostl3mf assemble plate.toml
  gostl3mf assemble -p bracket.stl:4 -p lid.scad:1:Lid -o plate.3mf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	assembleCmd.Flags().StringArrayVarP(&assembleParts, "part", "p", nil, "part as path[:count[:name]] (repeatable)")
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "output file (default from manifest or assembly.3mf)")
	addLayoutFlags(assembleCmd)
	addOutputFlags(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	base, err := cfg.LayoutSpec()
	if err != nil {
		return err
	}

	var parts []manifest.Part
	output := "assembly.3mf"
	if len(args) == 1 {
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		if base, err = m.Spec(base); err != nil {
			return err
		}
		parts = m.Parts
		if m.Output != "" {
			output = m.Output
		} else {
			output = defaultOutput(args[0], "")
		}
	}

	for _, s := range assembleParts {
		p, err := manifest.ParsePart(s)
		if err != nil {
			return err
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no parts given: pass a manifest or -p path[:count[:name]]")
	}
	if assembleOutput != "" {
		output = assembleOutput
	}

	spec, err := layoutFlags(cmd, base)
	if err != nil {
		return err
	}

	converter, err := newConverter(cmd)
	if err != nil {
		return err
	}
	stats, err := converter.ConvertAssembly(cmd.Context(), parts, output, spec)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}
