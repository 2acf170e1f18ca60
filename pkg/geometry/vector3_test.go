package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, -5, 0.5)

	tests := []struct {
		name string
		got  Vector3
		want Vector3
	}{
		{"add", a.Add(b), NewVector3(5, -3, 3.5)},
		{"sub", a.Sub(b), NewVector3(-3, 7, 2.5)},
		{"mul", a.Mul(-2), NewVector3(-2, -4, -6)},
		{"cross x y", NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)), NewVector3(0, 0, 1)},
		{"cross y x", NewVector3(0, 1, 0).Cross(NewVector3(1, 0, 0)), NewVector3(0, 0, -1)},
		{"min", a.Min(b), NewVector3(1, -5, 0.5)},
		{"max", a.Max(b), NewVector3(4, 2, 3)},
		{"normalize zero", Vector3{}.Normalize(), Vector3{}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestVector3Measures(t *testing.T) {
	if d := NewVector3(1, 2, 3).Dot(NewVector3(4, 5, 6)); d != 32 {
		t.Errorf("expected dot 32, got %v", d)
	}
	if l := NewVector3(2, 3, 6).Length(); math.Abs(l-7) > 1e-12 {
		t.Errorf("expected length 7, got %v", l)
	}
	if d := NewVector3(1, 1, 1).Distance(NewVector3(4, 5, 1)); math.Abs(d-5) > 1e-12 {
		t.Errorf("expected distance 5, got %v", d)
	}

	n := NewVector3(0, 3, 4).Normalize()
	if !n.ApproxEqual(NewVector3(0, 0.6, 0.8), 1e-12) {
		t.Errorf("unexpected unit vector %v", n)
	}
}

func TestVector3IsFinite(t *testing.T) {
	if !NewVector3(1e300, -1e-300, 0).IsFinite() {
		t.Error("large and tiny values are finite")
	}
	for _, v := range []Vector3{
		NewVector3(math.NaN(), 0, 0),
		NewVector3(0, math.Inf(1), 0),
		NewVector3(0, 0, math.Inf(-1)),
	} {
		if v.IsFinite() {
			t.Errorf("%v should not be finite", v)
		}
	}
}

func TestVector3ApproxEqual(t *testing.T) {
	v := NewVector3(0.1, 1.0/3.0, 1e-7)
	if !v.ApproxEqual(NewVector3(0.1+1e-10, 1.0/3.0, 0), 1e-6) {
		t.Error("expected vectors within tolerance to be equal")
	}
	if v.ApproxEqual(NewVector3(0.1, 0.3, 1e-7), 1e-6) {
		t.Error("expected vectors outside tolerance to differ")
	}
	if NewVector3(math.NaN(), 0, 0).ApproxEqual(NewVector3(math.NaN(), 0, 0), 1) {
		t.Error("NaN is never approximately equal")
	}
}
