package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Fatal("new bounding box should be empty")
	}
	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("empty box size: expected zero, got %v", size)
	}

	other := BoundsOf(NewVector3(1, 1, 1), NewVector3(2, 2, 2))
	if got := bbox.Union(other); got != other {
		t.Errorf("Union with empty box: expected %v, got %v", other, got)
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	a := BoundsOf(NewVector3(0, 0, 0), NewVector3(1, 1, 1))

	tests := []struct {
		name  string
		other BoundingBox
		want  bool
	}{
		{"overlapping", BoundsOf(NewVector3(0.5, 0.5, 0.5), NewVector3(2, 2, 2)), true},
		{"touching face", BoundsOf(NewVector3(1, 0, 0), NewVector3(2, 1, 1)), false},
		{"separated", BoundsOf(NewVector3(1.2, 0, 0), NewVector3(2.2, 1, 1)), false},
		{"contained", BoundsOf(NewVector3(0.2, 0.2, 0.2), NewVector3(0.8, 0.8, 0.8)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects: expected %v, got %v", tt.want, got)
			}
			if got := tt.other.Intersects(a); got != tt.want {
				t.Errorf("Intersects (reversed): expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBoundingBoxTranslate(t *testing.T) {
	bbox := BoundsOf(NewVector3(0, 0, 0), NewVector3(1, 2, 3))
	moved := bbox.Translate(NewVector3(10, 0, -3))

	if moved.Min != NewVector3(10, 0, -3) || moved.Max != NewVector3(11, 2, 0) {
		t.Errorf("Translate failed: got %v", moved)
	}
	if math.Abs(moved.Volume()-bbox.Volume()) > 1e-12 {
		t.Errorf("Translate changed volume: %v vs %v", moved.Volume(), bbox.Volume())
	}
}
