package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/birch/viewer"
)

// PickEventType is the Donburi event type for viewer pick events.
var PickEventType = events.NewEventType[viewer.PickEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink returns an EventSink that queues pick events on
// PickEventType. They are delivered by events.ProcessAllEvents or
// PickEventType.ProcessEvents.
func NewDonburiSink(world donburi.World) viewer.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitPick(event viewer.PickEvent) {
	PickEventType.Publish(s.world, event)
}
