package willow3d

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a node that defines the view and projection for its child and,
// optionally, streams the rendered result as raw RGBA8 frames.
//
// Each Update the camera derives the eye, center and up vectors (each one
// optionally driven by a transform node), builds a look-at view matrix and a
// perspective projection, and hands both to its child. Each Draw draws the
// child and, when capturing, reads the frame back and writes exactly
// width*height*4 bytes to the capture destination.
type Camera struct {
	Name string

	// Eye, Center and Up are the static camera basis. Up must not be
	// collinear with Center-Eye; the view is degenerate (NaN) otherwise.
	Eye, Center, Up mgl32.Vec3
	// Perspective holds the projection parameters. The zero value produces
	// a degenerate projection; callers are expected to set it.
	Perspective Perspective

	// EyeTransform, CenterTransform and UpTransform, when set, are updated
	// with the camera and their last matrix is applied to the matching
	// static vector. They are referenced, not owned.
	EyeTransform    TransformNode
	CenterTransform TransformNode
	UpTransform     TransformNode

	// FovAnimation, when set, overrides Perspective.Fov every Update.
	FovAnimation *ScalarTrack

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	child Node

	// Configured destination, applied by Init.
	dest     io.Writer
	captureW int
	captureH int

	// Destination in effect since Init.
	out     io.Writer
	capture *CaptureTarget

	lastWriteErr    error
	frames          uint64
	lastTime        float64
	screenshotQueue []string

	view       mgl32.Mat4
	projection mgl32.Mat4

	state nodeState
}

// NewCamera creates a camera over child with the default basis: eye at
// (0, 0, 1) looking at the origin with +Y up.
func NewCamera(name string, child Node) *Camera {
	return &Camera{
		Name:          name,
		Eye:           DefaultEye,
		Center:        DefaultCenter,
		Up:            DefaultUp,
		ScreenshotDir: "screenshots",
		child:         child,
		view:          mgl32.Ident4(),
		projection:    mgl32.Ident4(),
	}
}

// Child returns the camera's child node.
func (c *Camera) Child() Node {
	return c.child
}

// SetPipe configures capture to the file descriptor fd. The descriptor is
// owned by the caller: the camera never closes it. An fd of 0 disables
// capture. Takes effect on the next Init.
func (c *Camera) SetPipe(fd, width, height int) {
	if fd == 0 {
		c.SetPipeWriter(nil, width, height)
		return
	}
	c.SetPipeWriter(fdWriter{fd: fd}, width, height)
}

// SetPipeWriter configures capture to w. A nil w disables capture. Takes
// effect on the next Init; an initialized camera keeps capturing to the
// destination and size it was initialized with.
func (c *Camera) SetPipeWriter(w io.Writer, width, height int) {
	c.dest = w
	c.captureW = width
	c.captureH = height
}

// Capturing reports whether the camera captures. While initialized this is
// the state fixed by Init, otherwise the configured one.
func (c *Camera) Capturing() bool {
	if c.state == stateInitialized {
		return c.capture != nil
	}
	return c.dest != nil
}

// CaptureSize returns the capture width and height: the size of the capture
// target while initialized and capturing, otherwise the configured size.
func (c *Camera) CaptureSize() (width, height int) {
	if c.capture != nil {
		return c.capture.Width(), c.capture.Height()
	}
	return c.captureW, c.captureH
}

// ViewMatrix returns the view matrix computed by the last Update.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.view
}

// ProjectionMatrix returns the projection matrix computed by the last Update.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Frame returns the pixels captured by the last Draw, bottom row first, or
// nil if the camera is not capturing or not initialized.
func (c *Camera) Frame() []byte {
	if c.capture == nil {
		return nil
	}
	return c.capture.Pixels()
}

// Frames returns the number of frames captured since Init.
func (c *Camera) Frames() uint64 {
	return c.frames
}

// LastWriteError returns the error of the last capture write, if any. Write
// failures are never retried.
func (c *Camera) LastWriteError() error {
	return c.lastWriteErr
}

// Init initializes the child and the transforms, then, when capturing,
// creates the capture target. The first failing sub-initialization is
// returned unchanged; nodes initialized before it are left initialized.
func (c *Camera) Init(ctx *Context) error {
	if c.state == stateInitialized {
		return ErrAlreadyInitialized
	}
	if c.child == nil {
		return ErrNoChild
	}
	if err := c.child.Init(ctx); err != nil {
		return err
	}
	for _, tn := range c.transforms() {
		if err := tn.Init(ctx); err != nil {
			return err
		}
	}

	if c.dest != nil {
		target, err := NewCaptureTarget(ctx.GPU, c.captureW, c.captureH)
		if err != nil {
			return err
		}
		c.capture = target
		c.out = c.dest
	}

	c.frames = 0
	c.lastWriteErr = nil
	c.state = stateInitialized
	return nil
}

// transforms returns the present transform nodes in eye, center, up order.
func (c *Camera) transforms() []TransformNode {
	out := make([]TransformNode, 0, 3)
	for _, tn := range [...]TransformNode{c.EyeTransform, c.CenterTransform, c.UpTransform} {
		if tn != nil {
			out = append(out, tn)
		}
	}
	return out
}

// Update recomputes the view and projection matrices for time t and updates
// the child with them. The parent transforms are ignored: a camera starts a
// new view space.
func (c *Camera) Update(t float64, _ Transforms) {
	if globalDebug {
		debugCheckInitialized(c.state, c.Name, "Update")
	}

	eye := applyTransform(t, c.Eye, c.EyeTransform)
	center := applyTransform(t, c.Center, c.CenterTransform)
	up := applyTransform(t, c.Up, c.UpTransform)

	view := LookAt(eye, center, up)
	if c.Capturing() {
		view = FlipVertical(view)
	}

	if c.FovAnimation != nil && c.FovAnimation.Len() > 0 {
		c.Perspective.Fov = c.FovAnimation.Sample(t)
	}
	p := c.Perspective
	proj := PerspectiveMatrix(p.Fov, p.Aspect, p.Near, p.Far)

	c.view = view
	c.projection = proj
	c.lastTime = t

	if c.child != nil {
		c.child.Update(t, Transforms{ModelView: view, Projection: proj})
	}
}

// applyTransform updates tn for time t and applies its last matrix to v.
// A missing transform, or one that has not produced a matrix yet, leaves v
// unchanged.
func applyTransform(t float64, v mgl32.Vec3, tn TransformNode) mgl32.Vec3 {
	if tn == nil {
		return v
	}
	tn.Update(t, IdentityTransforms())
	m, ok := tn.LastMatrix()
	if !ok {
		return v
	}
	return TransformPoint(m, v)
}

// Draw draws the child and, when capturing, reads the frame back and writes
// it to the capture destination with a single write. Write errors are
// recorded but not retried.
func (c *Camera) Draw(ctx *Context) {
	if globalDebug {
		debugCheckInitialized(c.state, c.Name, "Draw")
	}
	if c.child != nil {
		c.child.Draw(ctx)
	}
	if c.capture == nil {
		c.dropScreenshots()
		return
	}

	w, h := c.capture.Width(), c.capture.Height()
	gpu := c.capture.gpu
	if ctx != nil && ctx.GPU != nil {
		gpu = ctx.GPU
	}
	pixels := c.capture.Capture(gpu)
	debugf(ctx, "write %dx%d buffer to %s", w, h, destName(c.out))
	_, err := c.out.Write(pixels)
	c.lastWriteErr = err
	if err != nil {
		debugf(ctx, "camera %q: capture write: %v", c.Name, err)
	}
	c.frames++

	if ctx != nil && ctx.Store != nil {
		ctx.Store.EmitEvent(CaptureEvent{
			Camera: c.Name,
			Frame:  c.frames,
			Time:   c.lastTime,
			Width:  w,
			Height: h,
			Pixels: pixels,
			Err:    err,
		})
	}
	c.flushScreenshots()
}

// Uninit releases the capture target, then uninitializes the transforms and
// the child in reverse initialization order. No-op if not initialized.
func (c *Camera) Uninit(ctx *Context) {
	if c.state != stateInitialized {
		return
	}
	if c.capture != nil {
		c.capture.Dispose()
		c.capture = nil
	}
	c.out = nil
	tns := c.transforms()
	for i := len(tns) - 1; i >= 0; i-- {
		tns[i].Uninit(ctx)
	}
	c.child.Uninit(ctx)

	c.screenshotQueue = c.screenshotQueue[:0]
	c.state = stateUninitialized
}
