// Package manifest loads assembly manifests: a list of parts with copy
// counts, an output file and optional layout settings. Manifests are TOML or
// YAML, selected by file extension.
//
// Example (TOML):
//
//	output = "plate.3mf"
//
//	[layout]
//	mode = "grid"
//	spacing_factor = 1.2
//
//	[[parts]]
//	path = "bracket.stl"
//	count = 4
//
//	[[parts]]
//	path = "lid.scad"
//	name = "Lid"
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/layout"
)

// Manifest describes an assembly build plate
type Manifest struct {
	Output string `toml:"output" yaml:"output"`
	Layout Layout `toml:"layout" yaml:"layout"`
	Parts  []Part `toml:"parts" yaml:"parts"`
}

// Layout overrides the default arrangement. Unset fields keep the default.
type Layout struct {
	Mode          string   `toml:"mode" yaml:"mode,omitempty"`
	SpacingFactor *float64 `toml:"spacing_factor" yaml:"spacing_factor,omitempty"`
	Columns       *int     `toml:"columns" yaml:"columns,omitempty"`
	Center        *bool    `toml:"center" yaml:"center,omitempty"`
}

// Part is one source file placed Count times
type Part struct {
	Path  string `toml:"path" yaml:"path"`
	Count int    `toml:"count" yaml:"count,omitempty"`
	Name  string `toml:"name" yaml:"name,omitempty"`
}

// Load reads a manifest and resolves relative paths against its directory
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read manifest %s", path)
	}

	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "invalid manifest").WithPath(path)
	}

	m.resolve(filepath.Dir(path))
	return m, nil
}

// Parse decodes manifest data. The format is picked by ext (".toml",
// ".yaml" or ".yml"). Paths are left as written.
func Parse(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported manifest format %q (expected .toml, .yaml or .yml)", ext)
	}

	if err := m.normalize(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) normalize() error {
	if len(m.Parts) == 0 {
		return errors.Validation("manifest lists no parts")
	}
	for i := range m.Parts {
		p := &m.Parts[i]
		p.Path = strings.TrimSpace(p.Path)
		if p.Path == "" {
			return errors.Validation("part %d has no path", i+1)
		}
		if p.Count < 0 {
			return errors.Validation("part %d (%s) count must be positive, got %d", i+1, p.Path, p.Count)
		}
		if p.Count == 0 {
			p.Count = 1
		}
		if p.Name == "" {
			p.Name = stem(p.Path)
		}
	}
	return nil
}

func (m *Manifest) resolve(dir string) {
	for i := range m.Parts {
		if !filepath.IsAbs(m.Parts[i].Path) {
			m.Parts[i].Path = filepath.Join(dir, m.Parts[i].Path)
		}
	}
	if m.Output != "" && !filepath.IsAbs(m.Output) {
		m.Output = filepath.Join(dir, m.Output)
	}
}

// Spec applies the manifest layout on top of base
func (m *Manifest) Spec(base layout.Spec) (layout.Spec, error) {
	spec := base
	if m.Layout.Mode != "" {
		mode, err := layout.ParseMode(m.Layout.Mode)
		if err != nil {
			return layout.Spec{}, err
		}
		spec.Mode = mode
	}
	if m.Layout.SpacingFactor != nil {
		spec.SpacingFactor = *m.Layout.SpacingFactor
	}
	if m.Layout.Columns != nil {
		spec.Columns = *m.Layout.Columns
	}
	if m.Layout.Center != nil {
		spec.Center = *m.Layout.Center
	}
	return spec, nil
}

// TotalCount returns the number of instances across all parts
func (m *Manifest) TotalCount() int {
	n := 0
	for _, p := range m.Parts {
		n += p.Count
	}
	return n
}

// ParsePart parses a command-line part of the form path[:count[:name]]
func ParsePart(s string) (Part, error) {
	fields := strings.SplitN(s, ":", 3)
	p := Part{Path: strings.TrimSpace(fields[0]), Count: 1}
	if p.Path == "" {
		return Part{}, errors.New(errors.ErrCodeInvalidInput, "part %q has no path", s)
	}
	if len(fields) > 1 && fields[1] != "" {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return Part{}, errors.New(errors.ErrCodeInvalidInput, "part %q: count must be a positive integer", s)
		}
		p.Count = n
	}
	if len(fields) > 2 {
		p.Name = strings.TrimSpace(fields[2])
	}
	if p.Name == "" {
		p.Name = stem(p.Path)
	}
	return p, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
