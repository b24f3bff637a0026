package geom

import (
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidthProfileNormalized(t *testing.T) {
	wp := WidthProfile{Stops: []WidthStop{{1, 3}, {0.5, 7}, {0, 1}, {0.5 + 1e-7, 9}}}
	n := wp.Normalized()
	require.Len(t, n.Stops, 3)
	assert.Equal(t, 0.0, n.Stops[0].U)
	assert.Equal(t, 9.0, n.Stops[1].R)
	assert.Equal(t, 1.0, n.Stops[2].U)
	// the input is not modified
	assert.Equal(t, 1.0, wp.Stops[0].U)
}

func TestWidthSamplerBase(t *testing.T) {
	s := NewWidthSampler(WidthProfile{Base: 4})
	for _, u := range []float64{-1, 0, 0.3, 1, 2} {
		assert.Equal(t, 4.0, s.Sample(u))
	}
	assert.Equal(t, 0.0, NewWidthSampler(WidthProfile{Base: -2}).Sample(0.5))
}

func TestWidthSamplerClampsOutsideRange(t *testing.T) {
	s := NewWidthSampler(WidthProfile{Base: 100, Stops: []WidthStop{{0.2, 2}, {0.8, 6}}})
	assert.Equal(t, 2.0, s.Sample(0))
	assert.Equal(t, 2.0, s.Sample(0.2))
	assert.Equal(t, 6.0, s.Sample(0.8))
	assert.Equal(t, 6.0, s.Sample(1))
}

func TestWidthSamplerStaysWithinSegment(t *testing.T) {
	s := NewWidthSampler(WidthProfile{Stops: []WidthStop{{0, 0}, {0.5, 40}, {0.6, 40}, {1, 0}}})
	for u := 0.0; u <= 1.0; u += 0.01 {
		v := s.Sample(u)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 40.0)
	}
	// flat segment stays flat (no ringing)
	assert.InDelta(t, 40, s.Sample(0.55), 1e-9)
	assert.InDelta(t, 40, s.Sample(0.5), 1e-9)
}

func TestWidthSamplerNegativeClampsToZero(t *testing.T) {
	s := NewWidthSampler(WidthProfile{Stops: []WidthStop{{0, -5}, {1, -1}}})
	assert.Equal(t, 0.0, s.Sample(0))
	assert.Equal(t, 0.0, s.Sample(0.5))
	assert.Equal(t, 0.0, s.Sample(1))
}

func TestWidthSamplerSmoothInterior(t *testing.T) {
	s := NewWidthSampler(WidthProfile{Stops: []WidthStop{{0, 0}, {1, 10}}})
	assert.InDelta(t, 5, s.Sample(0.5), 1e-9)
	assert.Less(t, s.Sample(0.25), s.Sample(0.75))
}

func TestCubicsFromPath(t *testing.T) {
	p := Rect(0, 0, 10, 10)
	cs := Cubics(p)
	require.Len(t, cs, 4)
	assert.Equal(t, LineCubic(math32.Vec2(0, 10), math32.Vec2(0, 0)), cs[3])
}

func TestVarWidthOutlineConstant(t *testing.T) {
	out := VarWidthOutline(Line(0, 0, 100, 0), WidthProfile{Base: 5}, 10)
	require.False(t, out.Empty())
	b := Bounds(out)
	assert.InDelta(t, -5, b.Min.Y, 1e-3)
	assert.InDelta(t, 5, b.Max.Y, 1e-3)
	assert.InDelta(t, 0, b.Min.X, 1e-3)
	assert.InDelta(t, 100, b.Max.X, 1e-3)
}

func TestVarWidthOutlineTaper(t *testing.T) {
	wp := WidthProfile{Stops: []WidthStop{{0, 0}, {0.5, 20}, {1, 0}}}
	out := VarWidthOutline(Line(0, 0, 200, 0), wp, 40)
	b := Bounds(out)
	assert.InDelta(t, 20, b.Max.Y, 0.5)
	assert.InDelta(t, -20, b.Min.Y, 0.5)
}

func TestVarWidthOutlineGlobalParameter(t *testing.T) {
	// two segments: the first covers u in [0, 0.5], the second [0.5, 1]
	segs := []Cubic{
		LineCubic(math32.Vec2(0, 0), math32.Vec2(100, 0)),
		LineCubic(math32.Vec2(100, 0), math32.Vec2(200, 0)),
	}
	wp := WidthProfile{Stops: []WidthStop{{0, 2}, {0.5, 2}, {0.51, 10}, {1, 10}}}
	out := VarWidthOutlineCubics(segs, wp, 8)
	subs := out.Split()
	require.Len(t, subs, 2)
	assert.InDelta(t, 2, Bounds(subs[0]).Max.Y, 0.5)
	assert.InDelta(t, 10, Bounds(subs[1]).Max.Y, 0.5)
}

func TestVarWidthOutlineStaysWithinMaxWidth(t *testing.T) {
	profiles := []WidthProfile{
		{Stops: []WidthStop{{0, 2}, {0.5, 2}, {0.51, 10}, {1, 10}}},
		{Stops: []WidthStop{{0, 1}, {0.2, 12}, {0.25, 1}, {0.6, 12}, {1, 0}}},
	}
	curve := ppath.Path{}
	curve.MoveTo(0, 0)
	curve.CubeTo(50, 80, 150, -80, 200, 0)
	for _, wp := range profiles {
		for _, p := range []ppath.Path{Line(0, 0, 200, 0), curve} {
			out := VarWidthOutline(p, wp, 8)
			pb := Bounds(p)
			ob := Bounds(out)
			m := wp.MaxWidth() + 1e-3
			assert.GreaterOrEqual(t, ob.Min.X, pb.Min.X-m)
			assert.GreaterOrEqual(t, ob.Min.Y, pb.Min.Y-m)
			assert.LessOrEqual(t, ob.Max.X, pb.Max.X+m)
			assert.LessOrEqual(t, ob.Max.Y, pb.Max.Y+m)
		}
	}
}
