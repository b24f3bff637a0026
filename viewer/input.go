package viewer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const (
	defaultDragDeadZone = 4.0 // pixels

	// wheelZoomFactor is the zoom multiplier per wheel notch.
	wheelZoomFactor = 1.2
	zoomDuration    = 0.15 // seconds
)

type pointerState struct {
	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
}

// pollInput feeds the mouse through the pointer and wheel handlers.
func (v *Viewer) pollInput() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)
	v.processPointer(sx, sy, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.processWheel(wy, sx, sy)
	}
}

// processPointer advances the press, drag and release state machine for
// one frame. A drag pans the camera; a release without a drag picks.
func (v *Viewer) processPointer(sx, sy float64, pressed bool) {
	p := &v.pointer
	switch {
	case pressed && !p.down:
		*p = pointerState{down: true, startX: sx, startY: sy, lastX: sx, lastY: sy}
	case pressed:
		if !p.dragging {
			if math.Hypot(sx-p.startX, sy-p.startY) <= v.dragDeadZone {
				return
			}
			p.dragging = true
		}
		v.camera.Pan(sx-p.lastX, sy-p.lastY)
		p.lastX, p.lastY = sx, sy
	case p.down:
		if p.dragging {
			v.camera.Pan(sx-p.lastX, sy-p.lastY)
		} else {
			v.pick(sx, sy)
		}
		*p = pointerState{}
	}
}

// processWheel starts a zoom tween anchored at the cursor. Notches that
// arrive mid-tween compound on the tween's goal.
func (v *Viewer) processWheel(notches, sx, sy float64) {
	base := v.camera.Zoom
	if v.camera.Animating() && v.zoomGoal > 0 {
		base = v.zoomGoal
	}
	v.zoomGoal = base * math.Pow(wheelZoomFactor, notches)
	v.camera.ZoomTo(v.zoomGoal, sx, sy, zoomDuration, ease.OutQuad)
}

// pick hit-tests the screen point and publishes the result.
func (v *Viewer) pick(sx, sy float64) PickEvent {
	wx, wy := v.camera.ScreenToWorld(sx, sy)
	ev := PickEvent{ScreenX: sx, ScreenY: sy, WorldX: wx, WorldY: wy}
	if ht := v.renderer.HitTester(); ht != nil {
		if id, ok := ht.HitFirst(wx, wy); ok {
			ev.Node = id
			if n, ok := v.renderer.Scene().Nodes.Get(id); ok {
				ev.Name = n.Common().Name
			}
		}
	}
	v.log.Info("pick", "node", ev.Node, "name", ev.Name, "x", wx, "y", wy)
	if v.sink != nil {
		v.sink.EmitPick(ev)
	}
	return ev
}
