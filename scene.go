package willow3d

import (
	"fmt"
	"time"
)

// Scene is the frame driver: it owns the rendering Context and runs the
// lifecycle of a root node, passing it identity transforms every frame.
type Scene struct {
	// ClearColor fills the draw framebuffer at the start of every Draw.
	// The zero value clears to transparent black.
	ClearColor Color

	root     Node
	ctx      Context
	updateFn func(t float64) error

	counter *countingGPU // non-nil in debug mode
	inited  bool
	t       float64
	stats   debugStats
}

// NewScene creates a scene drawing root through gpu.
func NewScene(gpu GPU, root Node) *Scene {
	return &Scene{root: root, ctx: Context{GPU: gpu}}
}

// Root returns the scene's root node.
func (s *Scene) Root() Node {
	return s.root
}

// Context returns the context handed to every lifecycle call.
func (s *Scene) Context() *Context {
	return &s.ctx
}

// Time returns the time passed to the last Update.
func (s *Scene) Time() float64 {
	return s.t
}

// Init initializes the node tree.
func (s *Scene) Init() error {
	if s.inited {
		return ErrAlreadyInitialized
	}
	if err := s.root.Init(&s.ctx); err != nil {
		return fmt.Errorf("scene init: %w", err)
	}
	s.inited = true
	return nil
}

// SetUpdateFunc sets a callback run by Tick before the tree is updated.
// Use it for per-frame logic that mutates node parameters.
func (s *Scene) SetUpdateFunc(fn func(t float64) error) {
	s.updateFn = fn
}

// Tick runs the update callback, if any, then updates the tree to time t.
// A callback error is returned and the tree is not updated.
func (s *Scene) Tick(t float64) error {
	if s.updateFn != nil {
		if err := s.updateFn(t); err != nil {
			return err
		}
	}
	s.Update(t)
	return nil
}

// Update advances the tree to time t (seconds).
func (s *Scene) Update(t float64) {
	var t0 time.Time
	if s.ctx.Debug {
		t0 = time.Now()
	}
	s.t = t
	s.root.Update(t, IdentityTransforms())
	if s.ctx.Debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// Draw draws the tree with the state computed by the last Update.
func (s *Scene) Draw() {
	var t0 time.Time
	if s.counter != nil {
		t0 = time.Now()
		s.counter.reset()
	}
	s.ctx.GPU.Clear(s.ClearColor)
	s.root.Draw(&s.ctx)
	if s.counter != nil {
		s.stats.drawTime = time.Since(t0)
		s.stats.drawCalls = s.counter.drawCalls
		s.stats.triangles = s.counter.triangles
		s.stats.readbacks = s.counter.readbacks
		s.debugLog(s.stats)
	}
}

// Close uninitializes the node tree. Safe to call more than once.
func (s *Scene) Close() {
	if !s.inited {
		return
	}
	s.root.Uninit(&s.ctx)
	s.inited = false
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.ctx.Store = store
}

// SetDebugMode enables or disables debug mode. When enabled, lifecycle
// misuse panics, capture writes are logged, and per-frame timing stats are
// printed to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	globalDebug = enabled
	if enabled == s.ctx.Debug {
		return
	}
	s.ctx.Debug = enabled
	if enabled {
		s.counter = &countingGPU{GPU: s.ctx.GPU}
		s.ctx.GPU = s.counter
	} else {
		s.ctx.GPU = s.counter.GPU
		s.counter = nil
	}
}
