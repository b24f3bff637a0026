// Package ecs bridges birch viewer events into ECS worlds.
//
// [NewDonburiSink] publishes every [viewer.PickEvent] into a [Donburi]
// world. Subscribe to [PickEventType] in your systems to receive them:
//
//	v.SetEventSink(ecs.NewDonburiSink(world))
//	ecs.PickEventType.Subscribe(world, func(w donburi.World, e viewer.PickEvent) {
//		// ...
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
