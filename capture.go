package willow3d

import "fmt"

// CaptureTarget is a persistent offscreen color target used to read rendered
// frames back to the CPU. Its size is fixed at creation. It is owned by a
// single node and is NOT shared or pooled.
type CaptureTarget struct {
	gpu         GPU
	w, h        int
	texture     Texture
	framebuffer Framebuffer
	pixels      []byte
}

// NewCaptureTarget creates a w x h RGBA8 texture with nearest filtering and
// clamp-to-edge wrapping, a framebuffer with the texture as its color
// attachment, and a w*h*4 CPU pixel buffer.
//
// The framebuffer bindings in effect before the call are restored before it
// returns. If the framebuffer is incomplete, everything created so far is
// released and the error wraps ErrIncompleteFramebuffer.
func NewCaptureTarget(gpu GPU, w, h int) (*CaptureTarget, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", w, h, ErrInvalidCaptureSize)
	}

	c := &CaptureTarget{gpu: gpu, w: w, h: h}
	c.texture = gpu.NewTexture(TextureParams{
		Width:     w,
		Height:    h,
		MinFilter: FilterNearest,
		MagFilter: FilterNearest,
		WrapS:     WrapClampToEdge,
		WrapT:     WrapClampToEdge,
	})

	prevRead := gpu.BoundFramebuffer(FramebufferRead)
	prevDraw := gpu.BoundFramebuffer(FramebufferDraw)

	c.framebuffer = gpu.NewFramebuffer()
	gpu.BindFramebuffer(FramebufferBoth, c.framebuffer)
	gpu.AttachTexture(c.texture)
	err := gpu.FramebufferStatus()

	gpu.BindFramebuffer(FramebufferRead, prevRead)
	gpu.BindFramebuffer(FramebufferDraw, prevDraw)

	if err != nil {
		c.release()
		return nil, fmt.Errorf("capture target %dx%d: %w", w, h, err)
	}

	c.pixels = make([]byte, 4*w*h)
	return c, nil
}

// Width returns the target width in pixels.
func (c *CaptureTarget) Width() int {
	return c.w
}

// Height returns the target height in pixels.
func (c *CaptureTarget) Height() int {
	return c.h
}

// Texture returns the color attachment handle.
func (c *CaptureTarget) Texture() Texture {
	return c.texture
}

// Framebuffer returns the framebuffer handle.
func (c *CaptureTarget) Framebuffer() Framebuffer {
	return c.framebuffer
}

// Pixels returns the CPU buffer filled by the last Capture, bottom row
// first. It is nil after Dispose.
func (c *CaptureTarget) Pixels() []byte {
	return c.pixels
}

// Capture reads the frame just rendered into the pixel buffer and returns
// the buffer. gpu is the device the target was created on, possibly wrapped
// (see Scene.SetDebugMode).
//
// If the currently bound draw framebuffer is multisampled it is first
// resolved into the target with a nearest blit, the pixels are read back
// from the target, and the original read and draw bindings are restored.
// Otherwise the pixels are read straight from the bound read framebuffer.
func (c *CaptureTarget) Capture(gpu GPU) []byte {
	if !gpu.Multisampled() {
		gpu.ReadPixels(c.w, c.h, c.pixels)
		return c.pixels
	}

	prevRead := gpu.BoundFramebuffer(FramebufferRead)
	prevDraw := gpu.BoundFramebuffer(FramebufferDraw)

	gpu.BindFramebuffer(FramebufferRead, prevDraw)
	gpu.BindFramebuffer(FramebufferDraw, c.framebuffer)
	gpu.BlitFramebuffer(c.w, c.h)

	gpu.BindFramebuffer(FramebufferRead, c.framebuffer)
	gpu.ReadPixels(c.w, c.h, c.pixels)

	gpu.BindFramebuffer(FramebufferRead, prevRead)
	gpu.BindFramebuffer(FramebufferDraw, prevDraw)
	return c.pixels
}

// Dispose detaches the texture from the framebuffer, deletes both and drops
// the pixel buffer. The target must not be used afterwards. Calling Dispose
// more than once is a no-op.
func (c *CaptureTarget) Dispose() {
	c.release()
	c.pixels = nil
}

func (c *CaptureTarget) release() {
	gpu := c.gpu
	if c.framebuffer != 0 {
		prevRead := gpu.BoundFramebuffer(FramebufferRead)
		prevDraw := gpu.BoundFramebuffer(FramebufferDraw)
		gpu.BindFramebuffer(FramebufferBoth, c.framebuffer)
		gpu.AttachTexture(0)
		gpu.BindFramebuffer(FramebufferRead, prevRead)
		gpu.BindFramebuffer(FramebufferDraw, prevDraw)
		gpu.DeleteFramebuffer(c.framebuffer)
		c.framebuffer = 0
	}
	if c.texture != 0 {
		gpu.DeleteTexture(c.texture)
		c.texture = 0
	}
}
