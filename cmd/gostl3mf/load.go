package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
	"github.com/philipparndt/gostl3mf/pkg/source"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
)

// inspected is the mesh the inspection commands work on
type inspected struct {
	Name   string
	Format string
	Mesh   *mesh.Mesh
}

// loadSource loads an STL or OpenSCAD model, or the whole build plate of a
// 3MF package merged into one mesh in plate coordinates
func loadSource(cmd *cobra.Command, filename string) (*inspected, error) {
	if strings.EqualFold(filepath.Ext(filename), ".3mf") {
		return loadPlate(filename)
	}

	var loader source.Loader
	src, err := loader.Load(cmd.Context(), filename)
	if err != nil {
		return nil, err
	}
	return &inspected{Name: src.Name, Format: src.Kind.String(), Mesh: src.Mesh}, nil
}

func loadPlate(filename string) (*inspected, error) {
	a, err := threemf.Open(filename)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	models, objErrs, err := a.Models()
	if err != nil {
		return nil, err
	}
	if len(objErrs) > 0 {
		return nil, errors.Wrap(errors.ErrCodeValidation, objErrs[0], "%s has %d broken objects, run analyze for details", filename, len(objErrs))
	}

	var meshes []*mesh.Mesh
	var transforms []geometry.Transform
	for _, m := range models {
		for _, o := range m.Objects() {
			meshes = append(meshes, o.Mesh)
			transforms = append(transforms, o.Transform)
		}
	}
	if len(meshes) == 0 {
		return nil, errors.Validation("%s has no objects on its build plate", filename)
	}

	merged, err := mesh.Merge(meshes, transforms)
	if err != nil {
		return nil, err
	}
	return &inspected{
		Name:   strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		Format: "3MF",
		Mesh:   merged,
	}, nil
}
