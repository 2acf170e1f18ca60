package threemf

import (
	"archive/zip"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

// MetadataItem is one Metadata/<Key> package entry
type MetadataItem struct {
	Key   string
	Value []byte
}

// Metadata is an ordered list of package metadata entries
type Metadata []MetadataItem

// Get returns the value stored under key
func (md Metadata) Get(key string) ([]byte, bool) {
	for _, item := range md {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys returns the entry keys in order
func (md Metadata) Keys() []string {
	keys := make([]string, len(md))
	for i, item := range md {
		keys[i] = item.Key
	}
	return keys
}

// Texture is an opaque image part below 3D/Textures/
type Texture struct {
	Name string
	Data []byte
}

// Package bundles everything WritePackage commits
type Package struct {
	Models     []*Model
	Metadata   Metadata
	Properties Properties
	Thumbnail  []byte
	Textures   []Texture
}

type writerOptions struct {
	allowEmpty  bool
	shareMeshes bool
	uuids       bool
}

// WriterOption configures a Writer
type WriterOption func(*writerOptions)

// AllowEmptyModels accepts models without objects
func AllowEmptyModels() WriterOption {
	return func(o *writerOptions) { o.allowEmpty = true }
}

// ShareMeshes writes one object resource per distinct mesh and references
// it from several build items
func ShareMeshes() WriterOption {
	return func(o *writerOptions) { o.shareMeshes = true }
}

// WithUUIDs adds production extension UUIDs to objects and build items
func WithUUIDs() WriterOption {
	return func(o *writerOptions) { o.uuids = true }
}

type writerState int

const (
	stateOpen writerState = iota
	stateClosed
)

// Writer assembles a package in memory and commits it to disk on Close.
// The target file is only replaced once the whole archive has been written.
type Writer struct {
	path   string
	opts   writerOptions
	ns     *Namespace
	models []string
	state  writerState
}

// Create returns a Writer that will commit to filename. The parent directory
// must exist.
func Create(filename string, opts ...WriterOption) (*Writer, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.PackageWrite(nil, "output path is empty")
	}
	dir := filepath.Dir(filename)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.PackageWrite(err, "output directory %s is not accessible", dir)
	}
	if !info.IsDir() {
		return nil, errors.PackageWrite(nil, "%s is not a directory", dir)
	}
	if info, err := os.Stat(filename); err == nil && info.IsDir() {
		return nil, errors.PackageWrite(nil, "output path %s is a directory", filename)
	}

	w := &Writer{path: filename, ns: NewNamespace()}
	for _, opt := range opts {
		opt(&w.opts)
	}
	return w, nil
}

func (w *Writer) checkOpen() error {
	if w.state != stateOpen {
		return errors.InvalidState("writer for %s is closed", w.path)
	}
	return nil
}

// AddModel serializes m into the package. The first model added becomes
// the root model. Later changes to m are not reflected in the package.
func (w *Writer) AddModel(m *Model) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if m == nil {
		return errors.Validation("model is nil")
	}
	if m.Count() == 0 && !w.opts.allowEmpty {
		return errors.PackageWrite(nil, "model %s has no objects", m.Name)
	}

	part := ModelPath(m.Name)
	if _, err := CleanPath(part); err != nil {
		return err
	}
	if w.ns.Has(part) {
		return errors.PackageWrite(nil, "duplicate model part %s", part)
	}

	data, err := encodeModel(m, w.opts)
	if err != nil {
		return errors.PackageWrite(err, "failed to encode model %s", m.Name)
	}
	if err := w.ns.Put(part, data); err != nil {
		return err
	}
	w.models = append(w.models, m.Name)
	return nil
}

// SetMetadata stores value at Metadata/<key>
func (w *Writer) SetMetadata(key string, value []byte) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.Validation("metadata key is empty")
	}
	return w.ns.Put(MetadataPath(key), value)
}

// SetThumbnail stores a PNG image as the package thumbnail
func (w *Writer) SetThumbnail(png []byte) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if !filetype.Is(png, "png") {
		return errors.Validation("thumbnail is not a PNG image")
	}
	return w.ns.Put(ThumbnailPath, png)
}

// AddTexture stores an image at 3D/Textures/<name>
func (w *Writer) AddTexture(name string, data []byte) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return errors.Validation("texture name is empty")
	}
	if !filetype.IsImage(data) {
		return errors.Validation("texture %s is not an image", name)
	}
	return w.ns.Put(TexturePath(name), data)
}

// Abort discards the package without touching the target
func (w *Writer) Abort() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.state = stateClosed
	w.ns = nil
	return nil
}

// Close writes the package and atomically moves it over the target. The
// writer is closed afterwards, whether or not the commit succeeded.
func (w *Writer) Close() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.state = stateClosed
	defer func() { w.ns = nil }()

	if len(w.models) == 0 {
		return errors.PackageWrite(nil, "package has no model")
	}

	ns, err := w.assemble()
	if err != nil {
		return err
	}
	return commit(w.path, ns)
}

// assemble returns the full package with content types and relationships
// in front of the payload entries
func (w *Writer) assemble() (*Namespace, error) {
	out := NewNamespace()

	contentTypes, err := marshalPart(buildContentTypes(w.ns))
	if err != nil {
		return nil, errors.PackageWrite(err, "failed to encode content types")
	}
	if err := out.Put(ContentTypesPath, contentTypes); err != nil {
		return nil, err
	}

	rels := xmlRelationships{
		Xmlns: relationshipsNamespace,
		Relationships: []xmlRelationship{{
			Target: "/" + ModelPath(w.models[0]),
			ID:     "rel0",
			Type:   RelType3DModel,
		}},
	}
	if w.ns.Has(ThumbnailPath) {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			Target: "/" + ThumbnailPath,
			ID:     "rel1",
			Type:   RelTypeThumbnail,
		})
	}
	data, err := marshalPart(rels)
	if err != nil {
		return nil, errors.PackageWrite(err, "failed to encode relationships")
	}
	if err := out.Put(RelsPath, data); err != nil {
		return nil, err
	}

	// the root model references the other model parts
	if len(w.models) > 1 {
		modelRels := xmlRelationships{Xmlns: relationshipsNamespace}
		for i, name := range w.models[1:] {
			modelRels.Relationships = append(modelRels.Relationships, xmlRelationship{
				Target: "/" + ModelPath(name),
				ID:     "rel" + strconv.Itoa(i),
				Type:   RelType3DModel,
			})
		}
		data, err := marshalPart(modelRels)
		if err != nil {
			return nil, errors.PackageWrite(err, "failed to encode model relationships")
		}
		if err := out.Put(ModelRelsPath(w.models[0]), data); err != nil {
			return nil, err
		}
	}

	for _, p := range w.ns.Paths() {
		data, _ := w.ns.Get(p)
		if err := out.Put(p, data); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// buildContentTypes declares rels and model plus every other extension
// present in ns, in order of first appearance
func buildContentTypes(ns *Namespace) xmlContentTypes {
	ct := xmlContentTypes{
		Xmlns: contentTypesNamespace,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ContentTypeRels},
			{Extension: "model", ContentType: ContentTypeModel},
		},
	}
	seen := map[string]bool{"rels": true, "model": true}
	for _, p := range ns.Paths() {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
		if ext == "" {
			ct.Overrides = append(ct.Overrides, xmlOverride{PartName: "/" + p, ContentType: ContentTypeFallback})
			continue
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: contentTypeFor(ext)})
	}
	return ct
}

// commit writes ns as a ZIP to a temp file next to target, syncs it and
// renames it over target. The temp file is removed on every failure path.
func commit(target string, ns *Namespace) (err error) {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.PackageWrite(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, p := range ns.Paths() {
		data, _ := ns.Get(p)
		f, err := zw.Create(p)
		if err != nil {
			return errors.PackageWrite(err, "failed to add %s", p)
		}
		if _, err := f.Write(data); err != nil {
			return errors.PackageWrite(err, "failed to write %s", p)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.PackageWrite(err, "failed to finish archive")
	}
	if err := tmp.Sync(); err != nil {
		return errors.PackageWrite(err, "failed to sync archive")
	}
	if err := tmp.Close(); err != nil {
		return errors.PackageWrite(err, "failed to close archive")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return errors.PackageWrite(err, "failed to move archive to %s", target)
	}
	return nil
}

// resourceKey identifies an object resource when meshes are shared
type resourceKey struct {
	mesh *mesh.Mesh
	name string
	typ  ObjectType
}

func encodeModel(m *Model, opts writerOptions) ([]byte, error) {
	doc := xmlModel{
		Xmlns: CoreNamespace,
		Unit:  m.Unit,
		Lang:  DefaultLang,
	}
	if doc.Unit == "" {
		doc.Unit = DefaultUnit
	}
	if opts.uuids {
		doc.XmlnsP = ProductionNamespace
		doc.Build.UUID = uuid.NewString()
	}
	for _, e := range m.Metadata {
		doc.Metadata = append(doc.Metadata, xmlMetadata{Name: e.Name, Value: e.Value})
	}

	shared := make(map[resourceKey]string)
	nextResource := 1

	for _, o := range m.Objects() {
		id := strconv.Itoa(o.ID)
		if opts.shareMeshes {
			key := resourceKey{mesh: o.Mesh, name: o.Name, typ: o.Type}
			if existing, ok := shared[key]; ok {
				doc.Build.Items = append(doc.Build.Items, buildItem(existing, o.Transform, opts))
				continue
			}
			id = strconv.Itoa(nextResource)
			nextResource++
			shared[key] = id
		}

		obj := xmlObject{
			ID:   id,
			Type: string(o.Type),
			Name: o.Name,
			Mesh: encodeMesh(o.Mesh),
		}
		if opts.uuids {
			obj.UUID = uuid.NewString()
		}
		doc.Resources.Objects = append(doc.Resources.Objects, obj)
		doc.Build.Items = append(doc.Build.Items, buildItem(id, o.Transform, opts))
	}

	return marshalPart(doc)
}

func buildItem(objectID string, t geometry.Transform, opts writerOptions) xmlItem {
	item := xmlItem{ObjectID: objectID, Transform: t.String()}
	if opts.uuids {
		item.UUID = uuid.NewString()
	}
	return item
}

func encodeMesh(mm *mesh.Mesh) *xmlMesh {
	out := &xmlMesh{
		Vertices:  xmlVertices{Vertex: make([]xmlVertex, mm.VertexCount())},
		Triangles: xmlTriangles{Triangle: make([]xmlTriangle, mm.TriangleCount())},
	}
	for i := range out.Vertices.Vertex {
		v := mm.Vertex(i)
		out.Vertices.Vertex[i] = xmlVertex{
			X: geometry.FormatNumber(v.X),
			Y: geometry.FormatNumber(v.Y),
			Z: geometry.FormatNumber(v.Z),
		}
	}
	for i := range out.Triangles.Triangle {
		f := mm.Face(i)
		out.Triangles.Triangle[i] = xmlTriangle{
			V1: strconv.FormatUint(uint64(f[0]), 10),
			V2: strconv.FormatUint(uint64(f[1]), 10),
			V3: strconv.FormatUint(uint64(f[2]), 10),
		}
	}
	return out
}

// WritePackage commits pkg to filename in one call
func WritePackage(filename string, pkg *Package, opts ...WriterOption) (err error) {
	if pkg == nil {
		return errors.Validation("package is nil")
	}
	w, err := Create(filename, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = w.Abort()
		}
	}()

	for _, m := range pkg.Models {
		if err := w.AddModel(m); err != nil {
			return err
		}
	}
	for _, item := range pkg.Metadata {
		if err := w.SetMetadata(item.Key, item.Value); err != nil {
			return err
		}
	}
	if len(pkg.Properties) > 0 {
		if err := w.SetProperties(pkg.Properties); err != nil {
			return err
		}
	}
	if len(pkg.Thumbnail) > 0 {
		if err := w.SetThumbnail(pkg.Thumbnail); err != nil {
			return err
		}
	}
	for _, t := range pkg.Textures {
		if err := w.AddTexture(t.Name, t.Data); err != nil {
			return err
		}
	}
	return w.Close()
}
