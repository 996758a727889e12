package ecs

import (
	"slices"

	"github.com/phanxgames/willow3d"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CaptureEventType is the Donburi event type for willow3d capture events.
// Subscribe to this in your ECS systems to be told about every captured frame.
var CaptureEventType = events.NewEventType[willow3d.CaptureEvent]()

type donburiStore struct {
	world      donburi.World
	keepPixels bool
}

// StoreOption configures a Donburi store.
type StoreOption func(*donburiStore)

// WithPixels makes the store copy each frame's pixels into the published
// event. Without it Pixels is nil: events are processed after the camera has
// already reused its buffer.
func WithPixels() StoreOption {
	return func(s *donburiStore) { s.keepPixels = true }
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Capture events are published to CaptureEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World, opts ...StoreOption) willow3d.EntityStore {
	s := &donburiStore{world: world}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *donburiStore) EmitEvent(event willow3d.CaptureEvent) {
	if s.keepPixels {
		event.Pixels = slices.Clone(event.Pixels)
	} else {
		event.Pixels = nil
	}
	CaptureEventType.Publish(s.world, event)
}
