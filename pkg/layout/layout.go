// Package layout arranges mesh instances on the build plate.
//
// Compute expands every Item into Count instances and assigns each one a
// translation so that no two instance bounding boxes overlap:
//
//	grid    rows and columns on the XY plane, ceil(sqrt(N)) columns by default
//	linear  a single row along X
//	stack   a single column along Z
//
// Cells are sized by the largest item bounding box times the spacing factor,
// and instances rest on z=0. Output order is deterministic: instances are
// expanded in item order and fill cells row by row.
package layout

import (
	"math"
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/mesh"
)

// Mode selects the arrangement strategy
type Mode int

const (
	Grid Mode = iota
	Linear
	Stack
)

func (m Mode) String() string {
	switch m {
	case Grid:
		return "grid"
	case Linear:
		return "linear"
	case Stack:
		return "stack"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name (case insensitive)
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grid":
		return Grid, nil
	case "linear", "row":
		return Linear, nil
	case "stack", "z":
		return Stack, nil
	}
	return Grid, errors.Layout("unknown layout mode %q (expected grid, linear or stack)", s)
}

// Spec describes how instances are arranged
type Spec struct {
	Mode Mode
	// Columns fixes the grid column count. Zero picks ceil(sqrt(N)).
	Columns int
	// SpacingFactor scales the cell size relative to the largest item. Must
	// be at least 1.0.
	SpacingFactor float64
	// Center moves the arrangement so it is symmetric about X=0 and Y=0.
	Center bool
}

// DefaultSpec returns a centered grid with 10% spacing
func DefaultSpec() Spec {
	return Spec{Mode: Grid, SpacingFactor: 1.1, Center: true}
}

// Item is a mesh to be placed Count times
type Item struct {
	Mesh  *mesh.Mesh
	Count int
	Name  string
}

// Placement is one positioned instance
type Placement struct {
	Mesh      *mesh.Mesh
	Name      string
	Group     int // index of the originating Item
	Copy      int // zero based copy number within the group
	Transform geometry.Transform
}

// Bounds returns the world space bounding box of the instance
func (p Placement) Bounds() geometry.BoundingBox {
	return p.Transform.ApplyBounds(p.Mesh.BoundingBox())
}

// Shape returns the grid dimensions for n instances. A columns value of zero
// selects ceil(sqrt(n)); values above n are clamped to n.
func Shape(n, columns int) (rows, cols int, err error) {
	if n <= 0 {
		return 0, 0, errors.Layout("instance count must be positive, got %d", n)
	}
	if columns < 0 {
		return 0, 0, errors.Layout("column count must not be negative, got %d", columns)
	}

	cols = columns
	if cols == 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols > n {
		cols = n
	}
	rows = (n + cols - 1) / cols
	return rows, cols, nil
}

// Compute places every instance of items according to spec
func Compute(items []Item, spec Spec) ([]Placement, error) {
	n, err := validate(items, spec)
	if err != nil {
		return nil, err
	}

	instances := expand(items, n)

	if n == 1 {
		p := instances[0]
		lo := p.Mesh.BoundingBox().Min
		p.Transform = geometry.Translation(lo.Mul(-1))
		return []Placement{p}, nil
	}

	switch spec.Mode {
	case Grid:
		return placeGrid(instances, spec.Columns, spec.SpacingFactor, spec.Center)
	case Linear:
		return placeGrid(instances, n, spec.SpacingFactor, spec.Center)
	case Stack:
		return placeStack(instances, spec.SpacingFactor, spec.Center)
	}
	return nil, errors.Layout("unknown layout mode %d", int(spec.Mode))
}

func validate(items []Item, spec Spec) (int, error) {
	if spec.Mode < Grid || spec.Mode > Stack {
		return 0, errors.Layout("unknown layout mode %d", int(spec.Mode))
	}
	if math.IsNaN(spec.SpacingFactor) || math.IsInf(spec.SpacingFactor, 0) || spec.SpacingFactor < 1.0 {
		return 0, errors.Layout("spacing factor must be a finite number of at least 1.0, got %v", spec.SpacingFactor)
	}
	if spec.Columns < 0 {
		return 0, errors.Layout("column count must not be negative, got %d", spec.Columns)
	}
	if len(items) == 0 {
		return 0, errors.Layout("nothing to lay out")
	}

	n := 0
	for i, item := range items {
		if item.Mesh == nil {
			return 0, errors.Layout("item %d (%s) has no mesh", i, item.Name)
		}
		if item.Count <= 0 {
			return 0, errors.Layout("item %d (%s) count must be positive, got %d", i, item.Name, item.Count)
		}
		n += item.Count
	}
	return n, nil
}

func expand(items []Item, n int) []Placement {
	out := make([]Placement, 0, n)
	for g, item := range items {
		for c := 0; c < item.Count; c++ {
			out = append(out, Placement{
				Mesh:      item.Mesh,
				Name:      item.Name,
				Group:     g,
				Copy:      c,
				Transform: geometry.Identity(),
			})
		}
	}
	return out
}

// cellSize returns the largest bounding box extent over all instances
func cellSize(instances []Placement) geometry.Vector3 {
	var size geometry.Vector3
	for _, p := range instances {
		size = size.Max(p.Mesh.BoundingBox().Size())
	}
	return size
}

func placeGrid(instances []Placement, columns int, spacing float64, center bool) ([]Placement, error) {
	rows, cols, err := Shape(len(instances), columns)
	if err != nil {
		return nil, err
	}

	cell := cellSize(instances).Mul(spacing)
	if (cols > 1 && cell.X == 0) || (rows > 1 && cell.Y == 0) {
		return nil, errors.Layout("items have no extent along a grid axis, copies would coincide")
	}
	union := geometry.NewBoundingBox()

	for i := range instances {
		p := &instances[i]
		r, c := i/cols, i%cols
		lo := p.Mesh.BoundingBox().Min
		offset := geometry.Vector3{
			X: float64(c)*cell.X - lo.X,
			Y: float64(r)*cell.Y - lo.Y,
			Z: -lo.Z,
		}
		p.Transform = geometry.Translation(offset)
		union = union.Union(p.Bounds())
	}

	if center {
		mid := union.Center()
		shift := geometry.Vector3{X: -mid.X, Y: -mid.Y}
		for i := range instances {
			p := &instances[i]
			p.Transform = geometry.Translation(p.Transform.Offset().Add(shift))
		}
	}
	return instances, nil
}

func placeStack(instances []Placement, spacing float64, center bool) ([]Placement, error) {
	for i, p := range instances[:len(instances)-1] {
		if p.Mesh.BoundingBox().Size().Z == 0 {
			return nil, errors.Layout("instance %d (%s) has no height, the next one would coincide with it", i, p.Name)
		}
	}

	z := 0.0
	for i := range instances {
		p := &instances[i]
		bbox := p.Mesh.BoundingBox()

		var offset geometry.Vector3
		if center {
			mid := bbox.Center()
			offset.X, offset.Y = -mid.X, -mid.Y
		} else {
			offset.X, offset.Y = -bbox.Min.X, -bbox.Min.Y
		}
		offset.Z = z - bbox.Min.Z
		p.Transform = geometry.Translation(offset)

		z += bbox.Size().Z * spacing
	}
	return instances, nil
}

// Overlaps returns the index pairs of placements whose world bounding boxes
// intersect. Touching boxes do not count.
func Overlaps(placements []Placement) [][2]int {
	bounds := make([]geometry.BoundingBox, len(placements))
	for i, p := range placements {
		bounds[i] = p.Bounds()
	}

	var out [][2]int
	for i := 0; i < len(bounds); i++ {
		for j := i + 1; j < len(bounds); j++ {
			if bounds[i].Intersects(bounds[j]) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}
