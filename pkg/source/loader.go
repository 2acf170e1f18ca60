// Package source loads meshes from the file types the converter accepts:
// STL directly and OpenSCAD by rendering to a temporary STL first.
package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
	"github.com/philipparndt/gostl3mf/pkg/openscad"
	"github.com/philipparndt/gostl3mf/pkg/stl"
)

// Kind is the type of a source file
type Kind int

const (
	KindSTL Kind = iota
	KindOpenSCAD
)

func (k Kind) String() string {
	if k == KindOpenSCAD {
		return "openscad"
	}
	return "stl"
}

// KindOf returns the source kind for a file name
func KindOf(path string) (Kind, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return KindSTL, nil
	case ".scad":
		return KindOpenSCAD, nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupported, "unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// IsSupported reports whether path has a loadable extension
func IsSupported(path string) bool {
	_, err := KindOf(path)
	return err == nil
}

// Source is a loaded mesh and where it came from
type Source struct {
	Path string
	// Name is the file name without extension
	Name string
	Kind Kind
	Mesh *mesh.Mesh
}

// Loader loads meshes from STL and OpenSCAD files
type Loader struct {
	// OpenSCADBinary overrides the openscad executable
	OpenSCADBinary string
}

func (l *Loader) renderer(path string) *openscad.Renderer {
	r := openscad.NewRenderer(filepath.Dir(path))
	if l.OpenSCADBinary != "" {
		r = r.WithBinary(l.OpenSCADBinary)
	}
	return r
}

// Load reads the file at path into a mesh
func (l *Loader) Load(ctx context.Context, path string) (*Source, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}

	var model *stl.Model
	switch kind {
	case KindOpenSCAD:
		model, err = l.renderSCAD(ctx, path)
	default:
		model, err = stl.Parse(path)
	}
	if err != nil {
		return nil, err
	}

	m, err := model.ToMesh()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "%s does not contain a usable mesh", path)
	}

	return &Source{
		Path: path,
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Kind: kind,
		Mesh: m,
	}, nil
}

func (l *Loader) renderSCAD(ctx context.Context, path string) (*stl.Model, error) {
	tmp, err := os.CreateTemp("", "gostl3mf-*.stl")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to create temporary STL")
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := l.renderer(path).RenderToSTL(ctx, path, tmpName); err != nil {
		return nil, err
	}
	return stl.Parse(tmpName)
}

// Dependencies returns every file whose change affects the loaded mesh:
// the file itself, plus use/include dependencies for OpenSCAD sources
func (l *Loader) Dependencies(path string) ([]string, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	if kind == KindSTL {
		return []string{path}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to resolve %s", path)
	}
	return l.renderer(abs).ResolveDependencies(abs)
}
