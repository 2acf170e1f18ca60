package convert

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/source"
)

// ExpandInputs resolves patterns to the supported source files they match.
// Plain paths are kept as given. Patterns may use ** to cross directories,
// e.g. "models/**/*.stl". The result is sorted and free of duplicates.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if source.IsSupported(p) && !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if _, err := os.Stat(pattern); err != nil {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", pattern)
			}
			add(pattern)
			continue
		}

		matches, err := match(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}

func match(pattern string) ([]string, error) {
	pattern = filepath.Clean(pattern)
	if !strings.Contains(pattern, "**") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pattern %q", pattern)
		}
		return matches, nil
	}

	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pattern %q", pattern)
	}

	var matches []string
	err = filepath.WalkDir(walkRoot(pattern), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && g.Match(filepath.ToSlash(p)) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to expand %q", pattern)
	}
	return matches, nil
}

// walkRoot returns the directory part of pattern in front of the first
// wildcard
func walkRoot(pattern string) string {
	i := strings.IndexAny(pattern, "*?[{")
	return filepath.Dir(pattern[:i] + "x")
}
