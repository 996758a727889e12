package willow3d

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is transparent black, the clear color of a fresh target.
var ColorTransparent = Color{}

// Vertex is a single triangle corner submitted to the GPU. X, Y and Z are
// normalized device coordinates in [-1, 1]; +Y points up. Colors are straight
// (not premultiplied) RGBA in [0, 1].
type Vertex struct {
	X, Y, Z    float32
	R, G, B, A float32
}

// BlendMode selects how a draw is composited onto the target. Colors are
// blended in premultiplied-alpha space.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendMask                      // clip destination to source alpha
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

var blendNames = [...]string{"normal", "add", "multiply", "screen", "erase", "mask", "below", "none"}

func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(b))
}

// Perspective holds the projection parameters of a camera. Fov is the
// vertical field of view in degrees.
type Perspective struct {
	Fov, Aspect, Near, Far float32
}

// Vec4 returns the parameters packed as (fov, aspect, near, far), the order
// used by the declarative "perspective" parameter.
func (p Perspective) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{p.Fov, p.Aspect, p.Near, p.Far}
}

// Default camera basis, matching the declared parameter defaults.
var (
	DefaultEye    = mgl32.Vec3{0, 0, 1}
	DefaultCenter = mgl32.Vec3{0, 0, 0}
	DefaultUp     = mgl32.Vec3{0, 1, 0}
)

var (
	// ErrNoChild is returned by Init when a node that requires a child has none.
	ErrNoChild = errors.New("willow3d: node has no child")
	// ErrAlreadyInitialized is returned by Init when the node was not
	// uninitialized since its last successful Init.
	ErrAlreadyInitialized = errors.New("willow3d: node already initialized")
	// ErrInvalidCaptureSize is returned when a capture destination is set but
	// the width or height is not positive.
	ErrInvalidCaptureSize = errors.New("willow3d: capture size must be positive")
	// ErrIncompleteFramebuffer reports a framebuffer the GPU cannot render to.
	ErrIncompleteFramebuffer = errors.New("willow3d: framebuffer incomplete")
	// ErrNoKeyframes is returned when building a track from an empty list.
	ErrNoKeyframes = errors.New("willow3d: no keyframes")
	// ErrKeyframeOrder is returned when keyframe times are not strictly increasing.
	ErrKeyframeOrder = errors.New("willow3d: keyframe times must be strictly increasing")
	// ErrUnknownEasing is returned for an easing name with no matching curve.
	ErrUnknownEasing = errors.New("willow3d: unknown easing")
	// ErrUnknownTransform is returned for a transform type that cannot be built.
	ErrUnknownTransform = errors.New("willow3d: unknown transform type")
)
