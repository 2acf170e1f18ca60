package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/internal/logging"
	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/source"
	"github.com/philipparndt/gostl3mf/pkg/watcher"
)

var (
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reconvert a model whenever it or its dependencies change",
	Long: `Convert the model once and then again after every change. For OpenSCAD
files all use<> and include<> dependencies are watched too. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default <input>.3mf)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "quiet period before reconverting")
	addOutputFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := watchOutput
	if output == "" {
		output = defaultOutput(input, "")
	}

	logger := logging.FromContext(cmd.Context())
	converter, err := newConverter(cmd)
	if err != nil {
		return err
	}
	var loader source.Loader

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to start file watcher")
	}
	defer fw.Close()
	fw.OnError = func(err error) {
		logger.Warn("watcher error", "err", err)
	}

	changes := make(chan string, 1)
	notify := func(path string) {
		select {
		case changes <- path:
		default:
		}
	}

	// rebuild converts once and refreshes the watched set, since the
	// dependencies of an OpenSCAD file may change with each edit
	rebuild := func(ctx context.Context) error {
		if _, err := converter.Convert(ctx, input, output); err != nil {
			logger.Error("conversion failed", "input", input, "err", errors.UserMessage(err))
		}

		deps, err := loader.Dependencies(input)
		if err != nil {
			logger.Warn("could not resolve dependencies", "err", errors.UserMessage(err))
			deps = []string{input}
		}
		if err := fw.RemoveAll(); err != nil {
			return err
		}
		if err := fw.Watch(deps, notify); err != nil {
			return err
		}
		logger.Debug("watching", "files", len(deps))
		return nil
	}

	if err := rebuild(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to watch %s", input)
	}
	fw.Start(ctx)
	logger.Info("watching for changes", "input", input, "output", output)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil
		case path := <-changes:
			logger.Info("change detected", "file", path)
			if err := rebuild(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "failed to watch %s", input)
			}
		}
	}
}
