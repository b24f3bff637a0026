package geom

import (
	"fmt"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCornerRadiusZeroIsNoop(t *testing.T) {
	p := Rect(0, 0, 100, 60)
	q := CornerRadiusPath(p, 0)
	assert.Equal(t, Verbs(p), Verbs(q))
	assert.True(t, p.Equals(q))

	q = CornerRadiusPath(p, -3)
	assert.Equal(t, Verbs(p), Verbs(q))
}

func TestCornerRadiusAddsCurves(t *testing.T) {
	p := Rect(0, 0, 100, 60)
	q := CornerRadiusPath(p, 10)
	assert.NotEqual(t, Verbs(p), Verbs(q))
	assert.Equal(t, 4, CountVerb(q, VerbCubic))
	tolEqualBox2(t, math32.B2(0, 0, 100, 60), Bounds(q), 0.1)
	assert.False(t, Contains(q, ppath.NonZero, 1, 1))
	assert.True(t, Contains(q, ppath.NonZero, 50, 1))
}

func TestCornerRadiusClampsToEdges(t *testing.T) {
	q := CornerRadiusPath(Rect(0, 0, 10, 10), 1000)
	assert.Equal(t, 4, CountVerb(q, VerbCubic))
	tolEqualBox2(t, math32.B2(0, 0, 10, 10), Bounds(q), 0.1)
}

func TestCornerRadiusOpenPolyline(t *testing.T) {
	p := ppath.Path{}
	p.MoveTo(0, 0)
	p.LineTo(50, 0)
	p.LineTo(50, 50)
	q := CornerRadiusPath(p, 10)
	assert.Equal(t, 1, CountVerb(q, VerbCubic))
	assert.Equal(t, math32.Vec2(0, 0), q.StartPos())
	assert.Equal(t, math32.Vec2(50, 50), q.Pos())
}

func TestCornerRadiusKeepsCurvedSubpaths(t *testing.T) {
	e := Ellipse(0, 0, 20, 20)
	q := CornerRadiusPath(e, 5)
	assert.True(t, e.Equals(q))
}

func TestStrokeDashThicknessMatchesSolid(t *testing.T) {
	line := Line(0, 0, 100, 0)
	dashes := [][]float32{{5, 5}, {10, 3, 2, 3}, {1}, {7, 2, 7}}
	for _, w := range []float32{1, 4, 10} {
		solid := Bounds(StrokePath(line, StrokeOptions{Width: w, Align: StrokeAlignCenter}))
		require.False(t, solid.IsEmpty())
		for _, d := range dashes {
			t.Run(fmt.Sprintf("w=%v/d=%v", w, d), func(t *testing.T) {
				dashed := Bounds(StrokePath(line, StrokeOptions{Width: w, Align: StrokeAlignCenter, Dash: d}))
				require.False(t, dashed.IsEmpty())
				assert.InDelta(t, solid.Size().Y, dashed.Size().Y, 1e-4)
				assert.InDelta(t, solid.Min.Y, dashed.Min.Y, 1e-4)
			})
		}
	}
}

func TestStrokeOpenPathAlignmentsMatch(t *testing.T) {
	line := Line(10, 10, 90, 40)
	center := Bounds(StrokePath(line, StrokeOptions{Width: 6, Align: StrokeAlignCenter}))
	inside := Bounds(StrokePath(line, StrokeOptions{Width: 6, Align: StrokeAlignInside}))
	outside := Bounds(StrokePath(line, StrokeOptions{Width: 6, Align: StrokeAlignOutside}))
	tolEqualBox2(t, center, inside, 1e-5)
	tolEqualBox2(t, center, outside, 1e-5)
}

func TestStrokeClosedAlignment(t *testing.T) {
	rect := Rect(0, 0, 100, 100)
	const w = 10
	tests := []struct {
		align StrokeAlign
		want  math32.Box2
	}{
		{StrokeAlignCenter, math32.B2(-w/2, -w/2, 100+w/2, 100+w/2)},
		{StrokeAlignInside, math32.B2(0, 0, 100, 100)},
		{StrokeAlignOutside, math32.B2(-w, -w, 100+w, 100+w)},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			got := Bounds(StrokePath(rect, StrokeOptions{Width: w, Align: tt.align}))
			tolEqualBox2(t, tt.want, got, 0.5)
		})
	}
}

func TestStrokeClosedAlignmentIgnoresOrientation(t *testing.T) {
	rect := Rect(0, 0, 100, 100).Reverse()
	got := Bounds(StrokePath(rect, StrokeOptions{Width: 10, Align: StrokeAlignOutside}))
	tolEqualBox2(t, math32.B2(-10, -10, 110, 110), got, 0.5)
}

func TestStrokeOutset(t *testing.T) {
	assert.Equal(t, float32(0), StrokeOptions{Width: 8, Align: StrokeAlignInside}.Outset())
	assert.Equal(t, float32(4), StrokeOptions{Width: 8, Align: StrokeAlignCenter}.Outset())
	assert.Equal(t, float32(8), StrokeOptions{Width: 8, Align: StrokeAlignOutside}.Outset())
	prof := &WidthProfile{Stops: []WidthStop{{0, 1}, {1, 12}}}
	assert.Equal(t, float32(12), StrokeOptions{Width: 8, Profile: prof}.Outset())
}

func TestStrokeZeroWidthIsEmpty(t *testing.T) {
	assert.Empty(t, StrokePath(Line(0, 0, 10, 0), StrokeOptions{}))
	assert.Empty(t, StrokePath(nil, StrokeOptions{Width: 2}))
}
