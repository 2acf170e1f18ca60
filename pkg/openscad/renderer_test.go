package openscad

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), `include <lib/shapes.scad>
use <./helpers.scad>
// use <ignored.scad>
cube(10);
`)
	writeFile(t, filepath.Join(dir, "lib", "shapes.scad"), "use <../helpers.scad>\n")
	writeFile(t, filepath.Join(dir, "helpers.scad"), "include <main.scad>\n")

	r := NewRenderer(dir)
	deps, err := r.ResolveDependencies("main.scad")
	if err != nil {
		t.Fatalf("ResolveDependencies failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "helpers.scad"),
	}
	if len(deps) != len(expected) {
		t.Fatalf("Expected %d dependencies, got %d: %v", len(expected), len(deps), deps)
	}
	for i := range expected {
		if deps[i] != expected[i] {
			t.Errorf("dependency %d: expected %s, got %s", i, expected[i], deps[i])
		}
	}
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), "include <missing.scad>\n")

	_, err := NewRenderer(dir).ResolveDependencies("main.scad")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestRenderWithoutBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), "cube(1);\n")

	r := NewRenderer(dir).WithBinary("gostl3mf-openscad-missing")
	if r.Available() {
		t.Fatal("binary unexpectedly available")
	}

	err := r.RenderToSTL(context.Background(), "main.scad", filepath.Join(dir, "out.stl"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Expected UNSUPPORTED, got %v", err)
	}
}

func TestRenderMissingSource(t *testing.T) {
	err := NewRenderer(t.TempDir()).RenderToSTL(context.Background(), "nope.scad", "out.stl")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Expected FILE_NOT_FOUND, got %v", err)
	}
}
