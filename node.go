package willow3d

import "github.com/go-gl/mathgl/mgl32"

// Node is the lifecycle contract every scene graph element implements.
//
// A frame driver calls Init once, then Update and Draw once per frame in
// that order, then Uninit on teardown. All calls happen on one goroutine;
// nothing here is safe for concurrent use.
type Node interface {
	// Init acquires the node's resources and initializes the nodes it
	// references. Failures propagate unchanged to the caller.
	Init(ctx *Context) error
	// Update advances the node to time t (seconds). parent carries the
	// matrices computed by the node's parent for this frame; a node must not
	// rely on matrices from an earlier frame.
	Update(t float64, parent Transforms)
	// Draw renders the node using the state computed by the last Update.
	Draw(ctx *Context)
	// Uninit releases everything acquired by Init. Calling it on a node that
	// is not initialized is a no-op.
	Uninit(ctx *Context)
}

// Transforms is the per-frame matrix state a parent hands to its child.
type Transforms struct {
	ModelView  mgl32.Mat4
	Projection mgl32.Mat4
}

// IdentityTransforms returns the state passed to a root node.
func IdentityTransforms() Transforms {
	return Transforms{ModelView: mgl32.Ident4(), Projection: mgl32.Ident4()}
}

// --- Group ---

// Group is a container node that forwards every lifecycle call to its
// children, in insertion order (reverse order for Uninit). It has no visual
// output of its own.
type Group struct {
	Name string

	children []Node
	inited   int // number of leading children successfully initialized
}

// NewGroup creates a group with the given children.
func NewGroup(name string, children ...Node) *Group {
	g := &Group{Name: name}
	for _, c := range children {
		g.AddChild(c)
	}
	return g
}

// AddChild appends child to the group. Panics if child is nil.
func (g *Group) AddChild(child Node) {
	if child == nil {
		panic("willow3d: cannot add nil child")
	}
	g.children = append(g.children, child)
	if globalDebug {
		debugCheckChildCount(g)
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (g *Group) Children() []Node {
	return g.children
}

// Init initializes the children in order and stops at the first failure.
func (g *Group) Init(ctx *Context) error {
	for i, c := range g.children {
		if err := c.Init(ctx); err != nil {
			return err
		}
		g.inited = i + 1
	}
	return nil
}

// Update forwards parent unchanged to every child.
func (g *Group) Update(t float64, parent Transforms) {
	for _, c := range g.children {
		c.Update(t, parent)
	}
}

// Draw draws every child in order.
func (g *Group) Draw(ctx *Context) {
	for _, c := range g.children {
		c.Draw(ctx)
	}
}

// Uninit uninitializes the children that were initialized, last first.
func (g *Group) Uninit(ctx *Context) {
	for i := g.inited - 1; i >= 0; i-- {
		g.children[i].Uninit(ctx)
	}
	g.inited = 0
}
