package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if n != (Vec3{0.6, 0, 0.8}) {
		t.Errorf("Vec3.Normalize() = %v", n)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should stay zero")
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	if got := a.Min(b); got != (Vec3{1, 2, -4}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, -2}) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{0, 0, 0}.Lerp(Vec3{10, 20, 30}, 0.5)
	if got != (Vec3{5, 10, 15}) {
		t.Errorf("Lerp = %v", got)
	}
}

func TestV3Array(t *testing.T) {
	a := [3]float32{1, 2, 3}
	if V3(a).Array() != a {
		t.Errorf("V3/Array round trip lost data")
	}
}
