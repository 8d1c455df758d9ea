package vec

import (
	"math"
	"testing"
)

func TestAddSub(t *testing.T) {
	a, b := New(1, 2, 3), New(4, 5, 6)
	sum := a.Add(b)
	if sum != (V3{5, 7, 9}) {
		t.Errorf("Add: got %v, want {5 7 9}", sum)
	}
	if diff := sum.Sub(b); diff != a {
		t.Errorf("Sub: got %v, want %v", diff, a)
	}
}

func TestDotCross(t *testing.T) {
	x, y := New(1, 0, 0), New(0, 1, 0)
	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot: got %v, want 0", got)
	}
	if got := x.Cross(y); got != (V3{0, 0, 1}) {
		t.Errorf("Cross: got %v, want {0 0 1}", got)
	}
}

func TestUnitLength(t *testing.T) {
	v := New(3, 4, 0).Unit()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("Unit: length %v, want 1", v.Len())
	}
}

func TestNearZero(t *testing.T) {
	if !(V3{1e-9, -1e-9, 0}).NearZero() {
		t.Error("NearZero: expected true for sub-epsilon components")
	}
	if (V3{0.1, 0, 0}).NearZero() {
		t.Error("NearZero: expected false for a non-trivial component")
	}
}

func TestReflect(t *testing.T) {
	in := New(1, -1, 0)
	n := New(0, 1, 0)
	got := in.Reflect(n)
	want := New(1, 1, 0)
	if got != want {
		t.Errorf("Reflect: got %v, want %v", got, want)
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(New(0, 0, 0), New(1, 2, 3))
	got := r.At(2)
	want := New(2, 4, 6)
	if got != want {
		t.Errorf("At: got %v, want %v", got, want)
	}
}

func TestIntervalClampSurrounds(t *testing.T) {
	iv := NewInterval(0, 10)
	if iv.Clamp(-5) != 0 || iv.Clamp(15) != 10 || iv.Clamp(5) != 5 {
		t.Errorf("Clamp: unexpected clamped values for %v", iv)
	}
	if !iv.Contains(0) || !iv.Contains(10) {
		t.Error("Contains: boundary values should be contained")
	}
	if iv.Surrounds(0) || iv.Surrounds(10) {
		t.Error("Surrounds: boundary values should not strictly surround")
	}
}
