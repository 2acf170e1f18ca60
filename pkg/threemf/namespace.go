package threemf

import (
	"path"
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

// Well known package locations
const (
	DirModels    = "3D/"
	DirModelRels = "3D/_rels/"
	DirTextures  = "3D/Textures/"
	DirMetadata  = "Metadata/"
	DirRels      = "_rels/"

	ContentTypesPath = "[Content_Types].xml"
	RelsPath         = "_rels/.rels"
	ThumbnailPath    = "Metadata/thumbnail.png"

	DefaultModelName = "3dmodel.model"
)

// ModelPath returns the part path of the model with the given file name
func ModelPath(name string) string {
	return DirModels + name
}

// ModelRelsPath returns the relationship part of a model part
func ModelRelsPath(name string) string {
	return DirModelRels + name + ".rels"
}

// MetadataPath returns the part path of a metadata entry
func MetadataPath(key string) string {
	return DirMetadata + key
}

// TexturePath returns the part path of a texture
func TexturePath(name string) string {
	return DirTextures + name
}

// CleanPath normalizes a package internal path: forward slashes, no leading
// slash and no "." segments. Paths that are empty, name a directory or
// escape the package root with ".." are rejected.
func CleanPath(p string) (string, error) {
	raw := p
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimLeft(p, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return "", errors.Validation("invalid package path %q", raw)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", errors.Validation("package path %q escapes the archive root", raw)
		}
	}
	p = path.Clean(p)
	if p == "." {
		return "", errors.Validation("invalid package path %q", raw)
	}
	return p, nil
}

// cleanDir normalizes a directory prefix. The root is the empty string,
// everything else ends with a slash.
func cleanDir(dir string) string {
	dir = strings.Trim(strings.ReplaceAll(dir, "\\", "/"), "/")
	if dir == "" || dir == "." {
		return ""
	}
	return path.Clean(dir) + "/"
}

// Namespace is the in-memory path space of a package. Entries keep their
// insertion order; replacing an entry keeps its original position.
type Namespace struct {
	entries map[string][]byte
	order   []string
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{entries: make(map[string][]byte)}
}

// Put stores data at p, replacing any previous entry
func (n *Namespace) Put(p string, data []byte) error {
	clean, err := CleanPath(p)
	if err != nil {
		return err
	}
	if _, ok := n.entries[clean]; !ok {
		n.order = append(n.order, clean)
	}
	n.entries[clean] = data
	return nil
}

// Get returns the entry stored at p
func (n *Namespace) Get(p string) ([]byte, bool) {
	clean, err := CleanPath(p)
	if err != nil {
		return nil, false
	}
	data, ok := n.entries[clean]
	return data, ok
}

// Has reports whether an entry exists at p
func (n *Namespace) Has(p string) bool {
	_, ok := n.Get(p)
	return ok
}

// Delete removes the entry at p and reports whether it existed
func (n *Namespace) Delete(p string) bool {
	clean, err := CleanPath(p)
	if err != nil {
		return false
	}
	if _, ok := n.entries[clean]; !ok {
		return false
	}
	delete(n.entries, clean)
	for i, e := range n.order {
		if e == clean {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries
func (n *Namespace) Len() int {
	return len(n.order)
}

// Paths returns all entry paths in insertion order
func (n *Namespace) Paths() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// List returns the paths of the files directly inside dir
func (n *Namespace) List(dir string) []string {
	prefix := cleanDir(dir)
	var out []string
	for _, p := range n.order {
		rest, ok := strings.CutPrefix(p, prefix)
		if ok && !strings.Contains(rest, "/") {
			out = append(out, p)
		}
	}
	return out
}

// Subdirs returns the directories directly inside dir, each with a trailing
// slash, in order of first appearance
func (n *Namespace) Subdirs(dir string) []string {
	prefix := cleanDir(dir)
	seen := make(map[string]bool)
	var out []string
	for _, p := range n.order {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok {
			continue
		}
		i := strings.Index(rest, "/")
		if i < 0 {
			continue
		}
		sub := prefix + rest[:i+1]
		if !seen[sub] {
			seen[sub] = true
			out = append(out, sub)
		}
	}
	return out
}
