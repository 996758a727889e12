// Package ecs provides ECS adapters for willow3d's capture events.
//
// The primary adapter is [NewDonburiStore], which bridges the frames written
// by capturing cameras into a [Donburi] world as typed events. Subscribe to
// [CaptureEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
