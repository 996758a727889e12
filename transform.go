package willow3d

import "github.com/go-gl/mathgl/mgl32"

// TransformNode is a node that computes a transformation matrix when
// updated. Chains of transform nodes compose: each one multiplies the
// matrix it receives from its parent by its own local matrix.
type TransformNode interface {
	Node
	// LastMatrix returns the matrix computed by the most recent Update of
	// the innermost transform in the chain, or false if none has been
	// computed yet.
	LastMatrix() (mgl32.Mat4, bool)
}

// transformBase holds the state shared by all transform kinds.
type transformBase struct {
	Name  string
	Child Node

	matrix  mgl32.Mat4
	updated bool
}

// apply stores parent.ModelView*local and updates the child with it.
func (b *transformBase) apply(t float64, parent Transforms, local mgl32.Mat4) {
	b.matrix = parent.ModelView.Mul4(local)
	b.updated = true
	if b.Child != nil {
		b.Child.Update(t, Transforms{ModelView: b.matrix, Projection: parent.Projection})
	}
}

// LastMatrix implements TransformNode.
func (b *transformBase) LastMatrix() (mgl32.Mat4, bool) {
	if tn, ok := b.Child.(TransformNode); ok {
		if m, ok := tn.LastMatrix(); ok {
			return m, true
		}
	}
	return b.matrix, b.updated
}

// Init initializes the child, if any.
func (b *transformBase) Init(ctx *Context) error {
	if b.Child == nil {
		return nil
	}
	return b.Child.Init(ctx)
}

// Draw draws the child, if any.
func (b *transformBase) Draw(ctx *Context) {
	if b.Child != nil {
		b.Child.Draw(ctx)
	}
}

// Uninit uninitializes the child and forgets the last matrix.
func (b *transformBase) Uninit(ctx *Context) {
	if b.Child != nil {
		b.Child.Uninit(ctx)
	}
	b.updated = false
}

// --- Identity ---

// Identity is a transform with no effect. It terminates transform chains
// used purely for their matrix (such as a camera's eye transform).
type Identity struct {
	transformBase
}

// NewIdentity creates an identity transform.
func NewIdentity(name string) *Identity {
	return &Identity{transformBase{Name: name}}
}

// Update records the parent matrix unchanged.
func (n *Identity) Update(t float64, parent Transforms) {
	n.apply(t, parent, mgl32.Ident4())
}

// --- Translate ---

// Translate moves its child by Vector. When Animation is set it overrides
// Vector every update.
type Translate struct {
	transformBase
	Vector    mgl32.Vec3
	Animation *Vec3Track
}

// NewTranslate creates a translation of child by v.
func NewTranslate(name string, child Node, v mgl32.Vec3) *Translate {
	return &Translate{transformBase: transformBase{Name: name, Child: child}, Vector: v}
}

// Update samples the animation, if any, and composes the translation.
func (n *Translate) Update(t float64, parent Transforms) {
	if n.Animation != nil {
		n.Vector = n.Animation.Sample(t)
	}
	n.apply(t, parent, mgl32.Translate3D(n.Vector[0], n.Vector[1], n.Vector[2]))
}

// --- Rotate ---

// Rotate rotates its child by Angle degrees around Axis. When Animation is
// set it overrides Angle every update.
type Rotate struct {
	transformBase
	Angle     float32
	Axis      mgl32.Vec3
	Animation *ScalarTrack
}

// NewRotate creates a rotation of child by angle degrees around axis.
func NewRotate(name string, child Node, angle float32, axis mgl32.Vec3) *Rotate {
	return &Rotate{transformBase: transformBase{Name: name, Child: child}, Angle: angle, Axis: axis}
}

// Update samples the animation, if any, and composes the rotation. A zero
// axis degrades to NaNs, like any other invalid geometric input.
func (n *Rotate) Update(t float64, parent Transforms) {
	if n.Animation != nil {
		n.Angle = n.Animation.Sample(t)
	}
	n.apply(t, parent, mgl32.HomogRotate3D(mgl32.DegToRad(n.Angle), n.Axis.Normalize()))
}

// --- Scale ---

// Scale scales its child by Factors. When Animation is set it overrides
// Factors every update.
type Scale struct {
	transformBase
	Factors   mgl32.Vec3
	Animation *Vec3Track
}

// NewScale creates a scale of child by f.
func NewScale(name string, child Node, f mgl32.Vec3) *Scale {
	return &Scale{transformBase: transformBase{Name: name, Child: child}, Factors: f}
}

// Update samples the animation, if any, and composes the scale.
func (n *Scale) Update(t float64, parent Transforms) {
	if n.Animation != nil {
		n.Factors = n.Animation.Sample(t)
	}
	n.apply(t, parent, mgl32.Scale3D(n.Factors[0], n.Factors[1], n.Factors[2]))
}
