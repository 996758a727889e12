package willow3d

// Texture is a GPU texture handle. Zero means no texture.
type Texture uint32

// Framebuffer is a GPU framebuffer handle. Zero is the default framebuffer
// (the window or whatever surface the backend renders to by default).
type Framebuffer uint32

// FramebufferTarget selects which framebuffer binding point an operation
// refers to.
type FramebufferTarget uint8

const (
	FramebufferBoth FramebufferTarget = iota // read and draw bindings together
	FramebufferRead                          // source of ReadPixels and BlitFramebuffer
	FramebufferDraw                          // destination of draws and BlitFramebuffer
)

// TextureFilter selects the sampling filter of a texture.
type TextureFilter uint8

const (
	FilterNearest TextureFilter = iota // nearest texel
	FilterLinear                       // bilinear
)

// TextureWrap selects how out-of-range coordinates are resolved.
type TextureWrap uint8

const (
	WrapClampToEdge TextureWrap = iota // clamp to the edge texel
	WrapRepeat                         // tile
)

// TextureParams describes an RGBA8 2D texture.
type TextureParams struct {
	Width, Height        int
	MinFilter, MagFilter TextureFilter
	WrapS, WrapT         TextureWrap
}

// GPU is the capability interface through which nodes reach the graphics
// device. It mirrors the relevant slice of the OpenGL state machine: binding
// state is global to the GPU and operations act on what is currently bound.
//
// Implementations are not safe for concurrent use.
type GPU interface {
	// NewTexture creates an uninitialized RGBA8 texture.
	NewTexture(p TextureParams) Texture
	DeleteTexture(tex Texture)

	NewFramebuffer() Framebuffer
	DeleteFramebuffer(fb Framebuffer)
	// AttachTexture attaches tex as the color attachment of the framebuffer
	// bound to FramebufferDraw. A zero tex detaches.
	AttachTexture(tex Texture)
	// FramebufferStatus reports whether the framebuffer bound to
	// FramebufferDraw can be rendered to. The error wraps
	// ErrIncompleteFramebuffer.
	FramebufferStatus() error

	// BoundFramebuffer returns the framebuffer bound to target. For
	// FramebufferBoth it returns the draw binding.
	BoundFramebuffer(target FramebufferTarget) Framebuffer
	BindFramebuffer(target FramebufferTarget, fb Framebuffer)

	// Multisampled reports whether the framebuffer bound to FramebufferDraw
	// is multisampled and must be resolved before readback.
	Multisampled() bool
	// BlitFramebuffer copies the color buffer of the read framebuffer into
	// the draw framebuffer over the rectangle (0, 0)-(width, height) on both
	// sides, with nearest filtering, resolving multisampling.
	BlitFramebuffer(width, height int)
	// ReadPixels reads the rectangle (0, 0)-(width, height) of the read
	// framebuffer into dst as RGBA8, bottom row first. len(dst) must be at
	// least width*height*4.
	ReadPixels(width, height int, dst []byte)

	// Clear fills the draw framebuffer with c.
	Clear(c Color)
	// SetBlend selects the blend mode of subsequent DrawTriangles calls.
	SetBlend(mode BlendMode)
	// DrawTriangles draws indexed triangles into the draw framebuffer.
	// Backends without a depth buffer draw them back to front.
	DrawTriangles(vertices []Vertex, indices []uint16)
}

// Context carries the shared rendering state handed to every lifecycle call.
type Context struct {
	GPU GPU
	// Debug enables diagnostics on stderr and lifecycle misuse checks.
	Debug bool
	// Store, when non-nil, receives capture events.
	Store EntityStore
}

// EntityStore is the interface for optional ECS integration. When set on a
// Context, cameras forward a CaptureEvent after every captured frame.
type EntityStore interface {
	EmitEvent(event CaptureEvent)
}

// CaptureEvent describes one frame written by a capturing camera. Pixels
// aliases the camera's capture buffer and is only valid until its next Draw.
type CaptureEvent struct {
	Camera string
	Frame  uint64
	Time   float64
	Width  int
	Height int
	Pixels []byte
	// Err is the result of writing the frame to the capture destination.
	Err error
}
