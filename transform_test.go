package birch

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Transform) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 ||
		math.Abs(got.Width-want.Width) > 1e-6 || math.Abs(got.Height-want.Height) > 1e-6 {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// --- LocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	assertMatrix(t, "identity", LocalTransform{}.Matrix(), Identity)
}

func TestLocalTransformTranslation(t *testing.T) {
	got := LocalTransform{X: 10, Y: 20}.Matrix()
	assertMatrix(t, "translation", got, Transform{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScale(t *testing.T) {
	got := LocalTransform{ScaleX: 2, ScaleY: 3}.Matrix()
	assertMatrix(t, "scale", got, Transform{2, 0, 0, 3, 0, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	got := LocalTransform{Rotation: math.Pi / 2}.Matrix()
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", got, Transform{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformPivot(t *testing.T) {
	lt := LocalTransform{X: 100, Y: 100, ScaleX: 2, ScaleY: 2, PivotX: 10, PivotY: 10}
	// The pivot lands on (X, Y).
	x, y := lt.Matrix().Apply(10, 10)
	assertNear(t, "x", x, 100)
	assertNear(t, "y", y, 100)
}

// --- Transform ---

func TestComposeOrder(t *testing.T) {
	parent := Translate(10, 0)
	child := Scale(2, 2)
	x, y := parent.Compose(child).Apply(1, 1)
	// scale first, then translate
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 2)
}

func TestComposeTranslationsSum(t *testing.T) {
	got := Translate(10, 20).Compose(Translate(5, 5)).Compose(Translate(2, 3)).Compose(Translate(4, 6))
	assertMatrix(t, "chain", got, Translate(21, 34))
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
	}{
		{"translate", Translate(3, -7)},
		{"scale", Scale(2, 0.5)},
		{"rotate", NewTransform(5, 6, 0.7)},
		{"skew", LocalTransform{SkewX: 0.3, ScaleX: 1.5}.Matrix()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Inverse()
			if !ok {
				t.Fatal("Inverse reported singular")
			}
			assertMatrix(t, "m*inv", tt.m.Compose(inv), Identity)
		})
	}
}

func TestInverseSingular(t *testing.T) {
	inv, ok := Scale(0, 1).Inverse()
	if ok {
		t.Error("Inverse of singular matrix reported ok")
	}
	assertMatrix(t, "fallback", inv, Identity)
}

func TestTransformRectRotated(t *testing.T) {
	r := NewTransform(0, 0, math.Pi/2).TransformRect(Rect{Width: 10, Height: 20})
	assertRect(t, "rotated", r, Rect{X: -20, Y: 0, Width: 20, Height: 10})
}

func TestTransformRotation(t *testing.T) {
	assertNear(t, "rotation", NewTransform(1, 2, 0.25).Rotation(), 0.25)
}
