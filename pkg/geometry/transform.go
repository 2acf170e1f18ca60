package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Transform is a 3x4 affine matrix in 3MF order:
//
//	m00 m01 m02 m10 m11 m12 m20 m21 m22 m30 m31 m32
//
// Points are row vectors, so p' = [x y z 1] · M and the translation lives
// in the last row (m30 m31 m32).
type Transform [12]float64

// Identity returns the identity transform
func Identity() Transform {
	return Transform{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
}

// Translation returns a pure translation by offset
func Translation(offset Vector3) Transform {
	t := Identity()
	t[9], t[10], t[11] = offset.X, offset.Y, offset.Z
	return t
}

// Offset returns the translation part of the transform
func (t Transform) Offset() Vector3 {
	return Vector3{X: t[9], Y: t[10], Z: t[11]}
}

// IsIdentity reports whether t is exactly the identity transform
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// IsFinite reports whether every entry is a finite number
func (t Transform) IsFinite() bool {
	for _, v := range t {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Apply transforms a point
func (t Transform) Apply(p Vector3) Vector3 {
	return Vector3{
		X: p.X*t[0] + p.Y*t[3] + p.Z*t[6] + t[9],
		Y: p.X*t[1] + p.Y*t[4] + p.Z*t[7] + t[10],
		Z: p.X*t[2] + p.Y*t[5] + p.Z*t[8] + t[11],
	}
}

// ApplyBounds returns the axis-aligned box enclosing the transformed corners
// of b. For translations this is exact.
func (t Transform) ApplyBounds(b BoundingBox) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	out := NewBoundingBox()
	for _, c := range b.Corners() {
		out.Extend(t.Apply(c))
	}
	return out
}

// Then returns the transform that applies t first and next afterwards
func (t Transform) Then(next Transform) Transform {
	var out Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			v := t[row*3+0]*next[0+col] + t[row*3+1]*next[3+col] + t[row*3+2]*next[6+col]
			if row == 3 {
				v += next[9+col]
			}
			out[row*3+col] = v
		}
	}
	return out
}

// String formats the transform as the 12 space separated values of the
// 3MF transform attribute. Values use the shortest representation that
// parses back to the same float64.
func (t Transform) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = FormatNumber(v)
	}
	return strings.Join(parts, " ")
}

// ParseTransform parses a 3MF transform attribute. An empty string is the
// identity transform.
func ParseTransform(s string) (Transform, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Identity(), nil
	}
	if len(fields) != 12 {
		return Transform{}, fmt.Errorf("transform needs 12 values, got %d", len(fields))
	}
	var t Transform
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Transform{}, fmt.Errorf("transform value %d: %w", i, err)
		}
		t[i] = v
	}
	if !t.IsFinite() {
		return Transform{}, fmt.Errorf("transform contains non-finite values")
	}
	return t, nil
}

// FormatNumber formats a coordinate for XML output without losing precision
func FormatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
