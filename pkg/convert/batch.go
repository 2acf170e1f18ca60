package convert

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

// BatchError is a failed conversion within a batch
type BatchError struct {
	Input string
	Err   error
}

func (e BatchError) Error() string {
	return e.Input + ": " + e.Err.Error()
}

func (e BatchError) Unwrap() error {
	return e.Err
}

// BatchResult collects the outcome of a batch, in input order
type BatchResult struct {
	Converted []*Stats
	Failed    []BatchError
}

// OK reports whether every input was converted
func (r *BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// OutputPath returns outDir/<stem>.3mf for input
func OutputPath(input, outDir string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".3mf")
}

// Batch converts every input to outDir/<stem>.3mf with at most jobs
// conversions in flight. Failures are collected per input and do not stop
// the other conversions. Zero jobs uses one per CPU.
func (c *Converter) Batch(ctx context.Context, inputs []string, outDir string, jobs int) (*BatchResult, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackageWrite, err, "failed to create output directory").WithPath(outDir)
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	stats := make([]*Stats, len(inputs))
	failures := make([]error, len(inputs))

	// Two inputs with the same stem would race for one output file
	owner := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := OutputPath(in, outDir)
		if prev, ok := owner[out]; ok {
			failures[i] = errors.Validation("output %s is already produced by %s", out, prev)
			continue
		}
		owner[out] = in
	}

	var mu sync.Mutex
	done := 0
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, in := range inputs {
		if failures[i] != nil {
			continue
		}
		g.Go(func() error {
			s, err := c.Convert(ctx, in, OutputPath(in, outDir))

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				failures[i] = err
				c.logger.Error("conversion failed", "input", in, "err", errors.UserMessage(err))
				return nil
			}
			stats[i] = s
			c.logger.Debug("batch progress", "done", done, "total", len(inputs))
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{}
	for i, in := range inputs {
		switch {
		case failures[i] != nil:
			result.Failed = append(result.Failed, BatchError{Input: in, Err: failures[i]})
		case stats[i] != nil:
			result.Converted = append(result.Converted, stats[i])
		}
	}
	return result, nil
}
