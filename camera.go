package birch

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// zoomAnim tweens the zoom while keeping a world anchor fixed on screen.
type zoomAnim struct {
	tween            *gween.Tween
	anchorX, anchorY float64 // world
	screenX, screenY float64
}

// Camera maps world space to the screen: position, zoom, rotation, and
// viewport.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// MinZoom and MaxZoom clamp Zoom; zero disables that side.
	MinZoom, MaxZoom float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	followTarget  NodeID
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	viewMatrix    Transform
	invViewMatrix Transform
	dirty         bool

	scrollTween *scrollAnim
	zoomTween   *zoomAnim
}

// NewCamera creates a Camera with default values and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow makes the camera track a node's world position with the given
// offset and lerp factor. A lerp of 1.0 snaps immediately.
func (c *Camera) Follow(id NodeID, offsetX, offsetY, lerp float64) {
	c.followTarget = id
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = 0
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom to zoom over duration seconds, keeping the world
// point under the screen point (sx, sy) in place.
func (c *Camera) ZoomTo(zoom, sx, sy float64, duration float32, easeFn ease.TweenFunc) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.zoomTween = &zoomAnim{
		tween:   gween.New(float32(c.Zoom), float32(c.clampZoom(zoom)), duration, easeFn),
		anchorX: wx, anchorY: wy,
		screenX: sx, screenY: sy,
	}
}

// ZoomAt sets the zoom immediately, keeping the world point under (sx, sy)
// in place.
func (c *Camera) ZoomAt(zoom, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = c.clampZoom(zoom)
	c.dirty = true
	c.anchor(wx, wy, sx, sy)
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	sin, cos := math.Sincos(c.Rotation)
	wdx, wdy := dx/c.Zoom, dy/c.Zoom
	c.X -= wdx*cos - wdy*sin
	c.Y -= wdx*sin + wdy*cos
	c.dirty = true
	c.ClampToBounds()
}

// Animating reports whether a scroll or zoom tween is running.
func (c *Camera) Animating() bool { return c.scrollTween != nil || c.zoomTween != nil }

// anchor moves the camera so world (wx, wy) lands on screen (sx, sy).
func (c *Camera) anchor(wx, wy, sx, sy float64) {
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.dirty = true
}

func (c *Camera) clampZoom(z float64) float64 {
	if c.MinZoom > 0 && z < c.MinZoom {
		z = c.MinZoom
	}
	if c.MaxZoom > 0 && z > c.MaxZoom {
		z = c.MaxZoom
	}
	return z
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, tweens, and bounds clamping. geo supplies the
// follow target's position and may be nil.
func (c *Camera) Update(dt float32, geo *GeometryCache) {
	prevX, prevY := c.X, c.Y
	prevZoom, prevRot := c.Zoom, c.Rotation

	if c.followTarget != 0 && geo != nil {
		if t, ok := geo.WorldTransform(c.followTarget); ok {
			targetX := t[4] + c.followOffsetX
			targetY := t[5] + c.followOffsetY
			c.X += (targetX - c.X) * c.followLerp
			c.Y += (targetY - c.Y) * c.followLerp
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if z := c.zoomTween; z != nil {
		val, done := z.tween.Update(dt)
		c.Zoom = float64(val)
		c.dirty = true
		c.anchor(z.anchorX, z.anchorY, z.screenX, z.screenY)
		if done {
			c.zoomTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}

	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
	c.dirty = true
}

// View returns the world-to-screen matrix:
//
//	Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy is the viewport center.
func (c *Camera) View() Transform {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	c.viewMatrix = Transform{a, cc, b, d, tx, ty}
	c.invViewMatrix, _ = c.viewMatrix.Inverse()
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.View().Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.View()
	return c.invViewMatrix.Apply(sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.View()
	return c.invViewMatrix.TransformRect(c.Viewport)
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// CameraState is a quantized snapshot of the camera, compared to detect
// view changes that matter for rendering.
type CameraState struct {
	X, Y, Zoom, Rotation int64
	Viewport             Rect
}

// cameraQuantum is the resolution of CameraState.
const cameraQuantum = 1e3

// State returns the quantized camera snapshot.
func (c *Camera) State() CameraState {
	q := func(v float64) int64 { return int64(math.Round(v * cameraQuantum)) }
	return CameraState{
		X: q(c.X), Y: q(c.Y), Zoom: q(c.Zoom), Rotation: q(c.Rotation),
		Viewport: c.Viewport,
	}
}
