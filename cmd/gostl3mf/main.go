package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/internal/config"
	"github.com/philipparndt/gostl3mf/internal/logging"
	"github.com/philipparndt/gostl3mf/pkg/convert"
	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
	"github.com/philipparndt/gostl3mf/version"
)

var (
	verbose    bool
	configPath string

	// cfg is loaded before any command runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gostl3mf",
	Short: "Convert STL and OpenSCAD models into 3MF build plates",
	Long: `gostl3mf packages STL and OpenSCAD models as 3MF files.
It arranges copies and assemblies on a build plate without overlaps,
writes packages atomically and analyzes existing 3MF files.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		if verbose {
			level = log.DebugLevel
		}
		logger := logging.New(os.Stderr, level)
		logger.Debug("configuration loaded", "path", configFile())

		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// newConverter builds a converter from the config and the output flags of cmd
func newConverter(cmd *cobra.Command) (*convert.Converter, error) {
	opts := convert.Options{
		IncludeMetadata: cfg.Output.Metadata,
		Thumbnail:       cfg.Output.Thumbnail,
		ThumbnailSize:   cfg.Output.ThumbnailSize,
		ShareMeshes:     cfg.Output.ShareMeshes,
		UUIDs:           cfg.Output.UUIDs,
		Logger:          logging.FromContext(cmd.Context()),
	}

	flags := cmd.Flags()
	if v, err := flags.GetBool("no-thumbnail"); err == nil && v {
		opts.Thumbnail = false
	}
	if v, err := flags.GetBool("no-metadata"); err == nil && v {
		opts.IncludeMetadata = false
	}
	if v, err := flags.GetBool("share-meshes"); err == nil && flags.Changed("share-meshes") {
		opts.ShareMeshes = v
	}
	if v, err := flags.GetBool("uuids"); err == nil && flags.Changed("uuids") {
		opts.UUIDs = v
	}
	if pairs, err := flags.GetStringArray("property"); err == nil {
		for _, s := range pairs {
			p, err := threemf.ParseProperty(s)
			if err != nil {
				return nil, err
			}
			opts.Properties = append(opts.Properties, p)
		}
	}
	return convert.New(opts), nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-thumbnail", false, "do not render a thumbnail")
	cmd.Flags().Bool("no-metadata", false, "do not write the conversion report")
	cmd.Flags().Bool("share-meshes", false, "write one mesh resource for copies of the same part")
	cmd.Flags().Bool("uuids", false, "add production extension UUIDs to build items")
	cmd.Flags().StringArray("property", nil, "custom property name=value for Metadata/properties.xml (repeatable)")
}

// defaultOutput returns <input without extension><suffix>.3mf
func defaultOutput(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix + ".3mf"
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
		os.Exit(1)
	}
}
