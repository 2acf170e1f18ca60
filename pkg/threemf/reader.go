package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

// ObjectError is a problem with a single object resource or build item.
// The rest of the package is still usable.
type ObjectError struct {
	Part     string `json:"part"`
	ObjectID string `json:"object_id"`
	Message  string `json:"message"`
}

func (e ObjectError) Error() string {
	return fmt.Sprintf("%s: object %s: %s", e.Part, e.ObjectID, e.Message)
}

// Archive is a package loaded into memory
type Archive struct {
	path   string
	ns     *Namespace
	closed bool
}

// Open reads the whole package at filename. It fails if the file is not a
// ZIP archive or has no [Content_Types].xml.
func Open(filename string) (*Archive, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, errors.PackageRead(filename, err, "not a valid 3MF archive")
	}
	defer zr.Close()

	ns := NewNamespace()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, errors.PackageRead(f.Name, err, "failed to read entry")
		}
		if err := ns.Put(f.Name, data); err != nil {
			return nil, errors.PackageRead(f.Name, err, "invalid entry name")
		}
	}

	if !ns.Has(ContentTypesPath) {
		return nil, errors.PackageRead(ContentTypesPath, nil, "missing content types part")
	}
	return &Archive{path: filename, ns: ns}, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *Archive) checkOpen() error {
	if a.closed {
		return errors.InvalidState("archive %s is closed", a.path)
	}
	return nil
}

// Close releases the archive. Further calls fail with INVALID_STATE.
func (a *Archive) Close() error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	a.closed = true
	a.ns = nil
	return nil
}

// Contents returns all entry paths in archive order
func (a *Archive) Contents() ([]string, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	return a.ns.Paths(), nil
}

// Namespace returns the loaded entries
func (a *Archive) Namespace() (*Namespace, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	return a.ns, nil
}

// ReadFile returns the raw bytes of an entry
func (a *Archive) ReadFile(p string) ([]byte, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	clean, err := CleanPath(p)
	if err != nil {
		return nil, err
	}
	data, ok := a.ns.Get(clean)
	if !ok {
		return nil, errors.PackageRead(clean, nil, "no such part")
	}
	return data, nil
}

// Metadata returns every entry below Metadata/ keyed by its relative path
func (a *Archive) Metadata() (Metadata, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	var md Metadata
	for _, p := range a.ns.Paths() {
		if key, ok := strings.CutPrefix(p, DirMetadata); ok {
			data, _ := a.ns.Get(p)
			md = append(md, MetadataItem{Key: key, Value: data})
		}
	}
	return md, nil
}

// ModelPaths returns the root model part named by _rels/.rels first,
// followed by every other .model part in archive order
func (a *Archive) ModelPaths() ([]string, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	var out []string
	root, err := a.rootModel()
	if err != nil {
		return nil, err
	}
	if root != "" {
		out = append(out, root)
	}
	for _, p := range a.ns.Paths() {
		if p != root && strings.EqualFold(path.Ext(p), ".model") {
			out = append(out, p)
		}
	}
	return out, nil
}

// rootModel resolves the 3D model relationship. A package without
// relationships yields an empty root.
func (a *Archive) rootModel() (string, error) {
	data, ok := a.ns.Get(RelsPath)
	if !ok {
		return "", nil
	}
	var rels xmlRelationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return "", errors.PackageRead(RelsPath, err, "invalid relationships XML")
	}
	for _, r := range rels.Relationships {
		if r.Type != RelType3DModel {
			continue
		}
		target, err := CleanPath(r.Target)
		if err != nil {
			return "", errors.PackageRead(RelsPath, err, "invalid model target %q", r.Target)
		}
		if !a.ns.Has(target) {
			return "", errors.PackageRead(target, nil, "root model part is missing")
		}
		return target, nil
	}
	return "", nil
}

// Models parses every model part. Problems confined to one object are
// returned as ObjectErrors next to the successfully reconstructed models;
// a part that is not well-formed XML fails the whole call.
func (a *Archive) Models() ([]*Model, []ObjectError, error) {
	paths, err := a.ModelPaths()
	if err != nil {
		return nil, nil, err
	}

	docs := make(map[string]*xmlModel, len(paths))
	for _, p := range paths {
		data, _ := a.ns.Get(p)
		var doc xmlModel
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, nil, errors.PackageRead(p, err, "invalid model XML")
		}
		docs[p] = &doc
	}

	r := newResolver(docs)
	var models []*Model
	for _, p := range paths {
		models = append(models, r.buildModel(p))
	}
	return models, r.errs, nil
}

type objectRef struct {
	part string
	id   string
}

// resolver reconstructs meshes of object resources across model parts.
// Each resource is built once so build items referencing the same object
// share one mesh.
type resolver struct {
	docs    map[string]*xmlModel
	objects map[objectRef]*xmlObject
	meshes  map[objectRef]*mesh.Mesh
	failed  map[objectRef]bool
	active  map[objectRef]bool
	errs    []ObjectError
}

func newResolver(docs map[string]*xmlModel) *resolver {
	r := &resolver{
		docs:    docs,
		objects: make(map[objectRef]*xmlObject),
		meshes:  make(map[objectRef]*mesh.Mesh),
		failed:  make(map[objectRef]bool),
		active:  make(map[objectRef]bool),
	}
	for _, part := range slices.Sorted(maps.Keys(docs)) {
		doc := docs[part]
		for i := range doc.Resources.Objects {
			obj := &doc.Resources.Objects[i]
			ref := objectRef{part: part, id: obj.ID}
			if _, dup := r.objects[ref]; dup {
				r.fail(ref, "duplicate object id, keeping the first definition")
				continue
			}
			r.objects[ref] = obj
		}
	}
	return r
}

func (r *resolver) fail(ref objectRef, format string, args ...any) {
	r.errs = append(r.errs, ObjectError{Part: ref.part, ObjectID: ref.id, Message: fmt.Sprintf(format, args...)})
}

// refFor resolves an objectid reference made from part, honoring an
// optional production extension path
func refFor(part, p, id string) objectRef {
	if p != "" {
		if clean, err := CleanPath(p); err == nil {
			part = clean
		}
	}
	return objectRef{part: part, id: id}
}

func (r *resolver) buildModel(part string) *Model {
	doc := r.docs[part]
	m := NewModel(path.Base(part))
	if doc.Unit != "" {
		m.Unit = doc.Unit
	}
	for _, md := range doc.Metadata {
		m.Metadata = append(m.Metadata, MetadataEntry{Name: md.Name, Value: strings.TrimSpace(md.Value)})
	}

	for _, item := range doc.Build.Items {
		ref := refFor(part, item.Path, item.ObjectID)
		obj, ok := r.objects[ref]
		if !ok {
			r.fail(objectRef{part: part, id: item.ObjectID}, "build item references unknown object")
			continue
		}
		mm := r.resolve(ref)
		if mm == nil {
			continue
		}
		transform, err := geometry.ParseTransform(item.Transform)
		if err != nil {
			r.fail(ref, "invalid build item transform: %v", err)
			continue
		}
		typ, err := ParseObjectType(obj.Type)
		if err != nil {
			r.fail(ref, "%s", errors.UserMessage(err))
			continue
		}
		if _, err := m.Add(mm, transform, WithName(obj.Name), WithType(typ)); err != nil {
			r.fail(ref, "%s", errors.UserMessage(err))
		}
	}
	return m
}

// resolve returns the mesh of an object resource in its own coordinates,
// flattening components. It returns nil after recording an ObjectError.
func (r *resolver) resolve(ref objectRef) *mesh.Mesh {
	if mm, ok := r.meshes[ref]; ok {
		return mm
	}
	if r.failed[ref] {
		return nil
	}
	obj, ok := r.objects[ref]
	if !ok {
		r.failed[ref] = true
		r.fail(ref, "unknown object")
		return nil
	}
	if r.active[ref] {
		r.failed[ref] = true
		r.fail(ref, "component cycle")
		return nil
	}
	r.active[ref] = true
	defer delete(r.active, ref)

	var mm *mesh.Mesh
	var err error
	switch {
	case obj.Mesh != nil:
		mm, err = decodeMesh(obj.Mesh)
	case obj.Components != nil:
		mm, err = r.flatten(ref, obj.Components)
	default:
		err = fmt.Errorf("object has neither mesh nor components")
	}
	if err != nil {
		r.failed[ref] = true
		if err != errComponentFailed {
			r.fail(ref, "%s", errors.UserMessage(err))
		}
		return nil
	}
	r.meshes[ref] = mm
	return mm
}

var errComponentFailed = fmt.Errorf("component failed")

func (r *resolver) flatten(ref objectRef, c *xmlComponents) (*mesh.Mesh, error) {
	if len(c.Component) == 0 {
		return nil, fmt.Errorf("object has no components")
	}
	parts := make([]*mesh.Mesh, 0, len(c.Component))
	transforms := make([]geometry.Transform, 0, len(c.Component))
	for _, comp := range c.Component {
		child := r.resolve(refFor(ref.part, comp.Path, comp.ObjectID))
		if child == nil {
			r.fail(ref, "component object %s could not be resolved", comp.ObjectID)
			return nil, errComponentFailed
		}
		t, err := geometry.ParseTransform(comp.Transform)
		if err != nil {
			return nil, fmt.Errorf("invalid component transform: %w", err)
		}
		parts = append(parts, child)
		transforms = append(transforms, t)
	}
	return mesh.Merge(parts, transforms)
}

func decodeMesh(x *xmlMesh) (*mesh.Mesh, error) {
	vertices := make([]geometry.Vector3, len(x.Vertices.Vertex))
	for i, v := range x.Vertices.Vertex {
		var err error
		if vertices[i], err = parseVertex(v); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}

	faces := make([]mesh.Face, len(x.Triangles.Triangle))
	for i, t := range x.Triangles.Triangle {
		for j, s := range []string{t.V1, t.V2, t.V3} {
			idx, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("triangle %d: invalid index %q", i, s)
			}
			faces[i][j] = uint32(idx)
		}
	}
	return mesh.New(vertices, faces)
}

func parseVertex(v xmlVertex) (geometry.Vector3, error) {
	var out geometry.Vector3
	for _, c := range []struct {
		name string
		raw  string
		dst  *float64
	}{{"x", v.X, &out.X}, {"y", v.Y, &out.Y}, {"z", v.Z, &out.Z}} {
		f, err := strconv.ParseFloat(strings.TrimSpace(c.raw), 64)
		if err != nil {
			return out, fmt.Errorf("invalid %s coordinate %q", c.name, c.raw)
		}
		*c.dst = f
	}
	return out, nil
}
