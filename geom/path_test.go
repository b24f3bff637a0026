package geom

import (
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tolEqualBox2(t *testing.T, want, got math32.Box2, tol float64) {
	t.Helper()
	assert.InDelta(t, want.Min.X, got.Min.X, tol)
	assert.InDelta(t, want.Min.Y, got.Min.Y, tol)
	assert.InDelta(t, want.Max.X, got.Max.X, tol)
	assert.InDelta(t, want.Max.Y, got.Max.Y, tol)
}

func TestVerbs(t *testing.T) {
	p := Rect(0, 0, 10, 10)
	assert.Equal(t, []Verb{VerbMove, VerbLine, VerbLine, VerbLine, VerbClose}, Verbs(p))
	assert.Equal(t, 1, CountVerb(p, VerbMove))
	assert.False(t, HasCurves(p))
}

func TestBounds(t *testing.T) {
	tolEqualBox2(t, math32.B2(5, 10, 25, 40), Bounds(Rect(5, 10, 20, 30)), 1e-5)
	tolEqualBox2(t, math32.B2(0, 0, 40, 20), Bounds(Ellipse(0, 0, 40, 20)), 0.1)
	empty := Bounds(ppath.Path{})
	assert.True(t, empty.IsEmpty())
}

func TestRoundedRect(t *testing.T) {
	square := RoundedRect(0, 0, 50, 30, CornerRadii{})
	assert.Equal(t, Verbs(Rect(0, 0, 50, 30)), Verbs(square))

	p := RoundedRect(0, 0, 50, 30, CornerRadii{TopLeft: 10, BottomRight: 100})
	assert.True(t, HasCurves(p))
	tolEqualBox2(t, math32.B2(0, 0, 50, 30), Bounds(p), 0.1)
	// top-left corner is cut, top-right is square
	assert.False(t, Contains(p, ppath.NonZero, 0.5, 0.5))
	assert.True(t, Contains(p, ppath.NonZero, 49.5, 0.5))
}

func TestRegularPolygonAndStar(t *testing.T) {
	tri := RegularPolygon(3, 100, 100)
	assert.Equal(t, 1, CountVerb(tri, VerbMove))
	b := Bounds(tri)
	assert.InDelta(t, 0, b.Min.Y, 1e-4)
	assert.InDelta(t, 50, (b.Min.X+b.Max.X)/2, 1e-3)

	star := Star(5, 100, 100, 0.4)
	assert.Len(t, Verbs(star), 1+9+1)
	assert.True(t, Contains(star, ppath.NonZero, 50, 50))
}

func TestPolygonPanicsOnTooFewPoints(t *testing.T) {
	assert.Panics(t, func() {
		Polygon([]math32.Vector2{{X: 0, Y: 0}, {X: 1, Y: 1}})
	})
}

func TestContainsFillRules(t *testing.T) {
	outer := Rect(0, 0, 100, 100)
	inner := Rect(25, 25, 50, 50)
	p := outer.Append(inner)

	assert.True(t, Contains(p, ppath.NonZero, 50, 50))
	assert.False(t, Contains(p, ppath.EvenOdd, 50, 50))
	assert.True(t, Contains(p, ppath.EvenOdd, 10, 10))
	assert.False(t, Contains(p, ppath.NonZero, 150, 50))
}

func TestWindingOpenSubpathIsClosedImplicitly(t *testing.T) {
	p := ppath.Path{}
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.LineTo(0, 10)
	assert.NotZero(t, Winding(p, 5, 5))
	assert.Zero(t, Winding(p, 15, 5))
}

func TestSignedArea(t *testing.T) {
	assert.InDelta(t, 200, SignedArea(Rect(0, 0, 10, 20)), 1e-4)
	assert.InDelta(t, -200, SignedArea(Rect(0, 0, 10, 20).Reverse()), 1e-4)
}

func TestTransform(t *testing.T) {
	p := Rect(0, 0, 10, 10)
	q := Transform(p, math32.Identity2().Translate(5, 7))
	tolEqualBox2(t, math32.B2(5, 7, 15, 17), Bounds(q), 1e-5)
	// the source is untouched
	tolEqualBox2(t, math32.B2(0, 0, 10, 10), Bounds(p), 1e-5)
}

func TestParseSVGPath(t *testing.T) {
	p, err := ParseSVGPath("M0 0L10 0L10 10z")
	require.NoError(t, err)
	assert.Equal(t, 1, CountVerb(p, VerbMove))

	for _, bad := range []string{"", "   ", "M0 0 K 10 10", "M10 10"} {
		_, err := ParseSVGPath(bad)
		require.Error(t, err, bad)
		var ge *GeometryError
		assert.ErrorAs(t, err, &ge)
		assert.Equal(t, "parse svg path", ge.Op)
	}

	_, err = ParseSVGPath("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}
