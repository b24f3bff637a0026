package viewer

import "github.com/phanxgames/birch"

// PickEvent reports a click on the canvas and the topmost node under it.
type PickEvent struct {
	// Node is zero when the click hit nothing.
	Node    birch.NodeID
	Name    string
	ScreenX float64
	ScreenY float64
	WorldX  float64
	WorldY  float64
}

// Hit reports whether the click landed on a node.
func (e PickEvent) Hit() bool { return e.Node != 0 }

// EventSink receives pick events. See package ecs for a donburi-backed
// sink.
type EventSink interface {
	EmitPick(PickEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(PickEvent)

// EmitPick implements EventSink.
func (f EventSinkFunc) EmitPick(e PickEvent) { f(e) }
