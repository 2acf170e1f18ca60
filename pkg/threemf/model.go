// Package threemf reads and writes 3MF packages.
//
// A Model is the in-memory "3D part" of a package: an insertion ordered set
// of PlacedObjects, each pointing at a shared immutable mesh and carrying
// its own transform. A Writer commits one or more models plus metadata,
// textures and a thumbnail to a ZIP archive atomically. Open reads a package
// back into a Namespace and reconstructs its models.
//
//	m := threemf.NewModel("")
//	m.Add(cube, geometry.Identity(), threemf.WithName("Part"))
//
//	w, _ := threemf.Create("out.3mf")
//	w.AddModel(m)
//	w.Close()
package threemf

import (
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

// Namespaces and defaults of the 3MF core and production specifications
const (
	CoreNamespace       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	ProductionNamespace = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"

	DefaultUnit = "millimeter"
	DefaultLang = "en-US"
)

// ObjectType is the 3MF object type attribute
type ObjectType string

const (
	TypeModel        ObjectType = "model"
	TypeSupport      ObjectType = "support"
	TypeSolidSupport ObjectType = "solidsupport"
	TypeOther        ObjectType = "other"
)

// ParseObjectType parses an object type attribute. An empty value is a model.
func ParseObjectType(s string) (ObjectType, error) {
	switch t := ObjectType(strings.TrimSpace(s)); t {
	case "":
		return TypeModel, nil
	case TypeModel, TypeSupport, TypeSolidSupport, TypeOther:
		return t, nil
	}
	return "", errors.Validation("unknown object type %q", s)
}

// PlacedObject is one mesh instance of a model
type PlacedObject struct {
	ID        int
	Mesh      *mesh.Mesh
	Transform geometry.Transform
	Name      string
	Type      ObjectType
}

// WorldBounds returns the bounding box of the transformed mesh
func (o PlacedObject) WorldBounds() geometry.BoundingBox {
	return o.Transform.ApplyBounds(o.Mesh.BoundingBox())
}

// ObjectOption configures an object added to a Model
type ObjectOption func(*PlacedObject)

// WithName sets the object name
func WithName(name string) ObjectOption {
	return func(o *PlacedObject) {
		o.Name = name
	}
}

// WithType sets the object type
func WithType(t ObjectType) ObjectOption {
	return func(o *PlacedObject) {
		o.Type = t
	}
}

// MetadataEntry is a model level <metadata> element
type MetadataEntry struct {
	Name  string
	Value string
}

// Model is an insertion ordered collection of placed objects. It is not
// safe for concurrent mutation.
type Model struct {
	// Name is the part file name below 3D/
	Name string
	Unit string
	// Metadata holds the model level metadata elements (Title, Designer, ...)
	Metadata []MetadataEntry

	objects map[int]PlacedObject
	order   []int
	nextID  int
}

// NewModel creates an empty model. The name is the part file name; an empty
// name selects 3dmodel.model and a missing .model extension is added.
func NewModel(name string) *Model {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultModelName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".model") {
		name += ".model"
	}
	return &Model{
		Name:    name,
		Unit:    DefaultUnit,
		objects: make(map[int]PlacedObject),
		nextID:  1,
	}
}

// Add places mesh with the given transform and returns the new object id
func (m *Model) Add(mm *mesh.Mesh, transform geometry.Transform, opts ...ObjectOption) (int, error) {
	if mm == nil {
		return 0, errors.Validation("object has no mesh")
	}
	if mm.VertexCount() == 0 || mm.TriangleCount() == 0 {
		return 0, errors.Validation("object mesh is empty")
	}
	if !transform.IsFinite() {
		return 0, errors.Validation("object transform is not finite: %v", transform)
	}

	obj := PlacedObject{
		Mesh:      mm,
		Transform: transform,
		Type:      TypeModel,
	}
	for _, opt := range opts {
		opt(&obj)
	}
	if _, err := ParseObjectType(string(obj.Type)); err != nil {
		return 0, err
	}

	obj.ID = m.nextID
	m.nextID++
	m.objects[obj.ID] = obj
	m.order = append(m.order, obj.ID)
	return obj.ID, nil
}

// Remove deletes the object with the given id. Removing an unknown id is a
// no-op that returns false.
func (m *Model) Remove(id int) bool {
	if _, ok := m.objects[id]; !ok {
		return false
	}
	delete(m.objects, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the object with the given id
func (m *Model) Get(id int) (PlacedObject, bool) {
	o, ok := m.objects[id]
	return o, ok
}

// Replace swaps in a new transform for the object with the given id
func (m *Model) Replace(id int, transform geometry.Transform) error {
	o, ok := m.objects[id]
	if !ok {
		return errors.Validation("no object with id %d", id)
	}
	if !transform.IsFinite() {
		return errors.Validation("object transform is not finite: %v", transform)
	}
	o.Transform = transform
	m.objects[id] = o
	return nil
}

// IDs returns the object ids in insertion order
func (m *Model) IDs() []int {
	out := make([]int, len(m.order))
	copy(out, m.order)
	return out
}

// Objects returns the objects in insertion order
func (m *Model) Objects() []PlacedObject {
	out := make([]PlacedObject, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.objects[id])
	}
	return out
}

// Count returns the number of objects
func (m *Model) Count() int {
	return len(m.order)
}

// Clear removes all objects and restarts id assignment at 1
func (m *Model) Clear() {
	m.objects = make(map[int]PlacedObject)
	m.order = nil
	m.nextID = 1
}

// SetMetadata sets a model level metadata element, replacing an existing
// element with the same name
func (m *Model) SetMetadata(name, value string) {
	for i, e := range m.Metadata {
		if e.Name == name {
			m.Metadata[i].Value = value
			return
		}
	}
	m.Metadata = append(m.Metadata, MetadataEntry{Name: name, Value: value})
}

// BoundingBox returns the union of all object world bounds
func (m *Model) BoundingBox() geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	for _, id := range m.order {
		b = b.Union(m.objects[id].WorldBounds())
	}
	return b
}
