// Package ebitengpu implements the willow3d GPU interface on top of
// Ebitengine images.
//
// Textures are *ebiten.Image values and framebuffers are attachment records
// pointing at a texture. Framebuffer 0 is the screen image handed to
// SetScreen each frame (see Run). Ebitengine has no depth buffer, so
// DrawTriangles sorts triangles back to front by their mean depth.
package ebitengpu

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/willow3d"
)

type framebuffer struct {
	attached willow3d.Texture
}

// GPU is a willow3d.GPU backed by Ebitengine.
type GPU struct {
	// Antialias enables Ebitengine's triangle antialiasing on draws to the
	// screen. The screen then reports itself multisampled, so captures
	// resolve it into their own target first.
	Antialias bool

	screen       *ebiten.Image
	textures     map[willow3d.Texture]*ebiten.Image
	framebuffers map[willow3d.Framebuffer]*framebuffer
	next         uint32

	read, draw willow3d.Framebuffer
	blend      willow3d.BlendMode

	verts   []ebiten.Vertex
	order   []int
	inds    []uint16
	readBuf []byte
}

// New creates a GPU with no screen. Draws to framebuffer 0 are dropped until
// SetScreen is called.
func New() *GPU {
	return &GPU{
		textures:     make(map[willow3d.Texture]*ebiten.Image),
		framebuffers: make(map[willow3d.Framebuffer]*framebuffer),
	}
}

// SetScreen sets the image used as framebuffer 0.
func (g *GPU) SetScreen(screen *ebiten.Image) {
	g.screen = screen
}

// LiveTextures returns the number of textures not yet deleted.
func (g *GPU) LiveTextures() int { return len(g.textures) }

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (g *GPU) LiveFramebuffers() int { return len(g.framebuffers) }

func (g *GPU) handle() uint32 {
	g.next++
	return g.next
}

// NewTexture implements willow3d.GPU. Sampling parameters are ignored:
// Ebitengine picks the filter per draw and always clamps.
func (g *GPU) NewTexture(p willow3d.TextureParams) willow3d.Texture {
	tex := willow3d.Texture(g.handle())
	g.textures[tex] = ebiten.NewImageWithOptions(image.Rect(0, 0, p.Width, p.Height), &ebiten.NewImageOptions{
		Unmanaged: true,
	})
	return tex
}

// DeleteTexture implements willow3d.GPU.
func (g *GPU) DeleteTexture(tex willow3d.Texture) {
	if img, ok := g.textures[tex]; ok {
		img.Deallocate()
		delete(g.textures, tex)
	}
}

// NewFramebuffer implements willow3d.GPU.
func (g *GPU) NewFramebuffer() willow3d.Framebuffer {
	fb := willow3d.Framebuffer(g.handle())
	g.framebuffers[fb] = &framebuffer{}
	return fb
}

// DeleteFramebuffer implements willow3d.GPU. Deleting a bound framebuffer
// rebinds 0, as in OpenGL.
func (g *GPU) DeleteFramebuffer(fb willow3d.Framebuffer) {
	delete(g.framebuffers, fb)
	if g.read == fb {
		g.read = 0
	}
	if g.draw == fb {
		g.draw = 0
	}
}

// AttachTexture implements willow3d.GPU.
func (g *GPU) AttachTexture(tex willow3d.Texture) {
	if fb := g.framebuffers[g.draw]; fb != nil {
		fb.attached = tex
	}
}

// FramebufferStatus implements willow3d.GPU.
func (g *GPU) FramebufferStatus() error {
	if g.draw == 0 {
		return nil
	}
	fb := g.framebuffers[g.draw]
	if fb == nil {
		return fmt.Errorf("framebuffer %d does not exist: %w", g.draw, willow3d.ErrIncompleteFramebuffer)
	}
	if g.textures[fb.attached] == nil {
		return fmt.Errorf("framebuffer %d has no color attachment: %w", g.draw, willow3d.ErrIncompleteFramebuffer)
	}
	return nil
}

// BoundFramebuffer implements willow3d.GPU.
func (g *GPU) BoundFramebuffer(target willow3d.FramebufferTarget) willow3d.Framebuffer {
	if target == willow3d.FramebufferRead {
		return g.read
	}
	return g.draw
}

// BindFramebuffer implements willow3d.GPU.
func (g *GPU) BindFramebuffer(target willow3d.FramebufferTarget, fb willow3d.Framebuffer) {
	switch target {
	case willow3d.FramebufferRead:
		g.read = fb
	case willow3d.FramebufferDraw:
		g.draw = fb
	default:
		g.read, g.draw = fb, fb
	}
}

// image returns the color image behind fb, or nil.
func (g *GPU) image(fb willow3d.Framebuffer) *ebiten.Image {
	if fb == 0 {
		return g.screen
	}
	if f := g.framebuffers[fb]; f != nil {
		return g.textures[f.attached]
	}
	return nil
}

// Multisampled implements willow3d.GPU.
func (g *GPU) Multisampled() bool {
	return g.Antialias && g.draw == 0
}

// glRect converts the GL rectangle (0, 0)-(w, h), whose origin is the bottom
// left corner, into img's top-left based coordinates.
func glRect(img *ebiten.Image, w, h int) image.Rectangle {
	b := img.Bounds()
	return image.Rect(b.Min.X, b.Max.Y-h, b.Min.X+w, b.Max.Y)
}

// BlitFramebuffer implements willow3d.GPU.
func (g *GPU) BlitFramebuffer(width, height int) {
	src, dst := g.image(g.read), g.image(g.draw)
	if src == nil || dst == nil {
		return
	}
	sub := src.SubImage(glRect(src, width, height)).(*ebiten.Image)
	r := glRect(dst, width, height)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.Blend = ebiten.BlendCopy
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(sub, &op)
}

// ReadPixels implements willow3d.GPU. Ebitengine images are stored top row
// first; rows are reversed to match OpenGL's bottom-up readback.
func (g *GPU) ReadPixels(width, height int, dst []byte) {
	src := g.image(g.read)
	if src == nil {
		return
	}
	sub := src.SubImage(glRect(src, width, height)).(*ebiten.Image)
	stride := 4 * width
	if cap(g.readBuf) < stride*height {
		g.readBuf = make([]byte, stride*height)
	}
	tmp := g.readBuf[:stride*height]
	sub.ReadPixels(tmp)
	for y := 0; y < height; y++ {
		copy(dst[y*stride:(y+1)*stride], tmp[(height-1-y)*stride:(height-y)*stride])
	}
}

// Clear implements willow3d.GPU.
func (g *GPU) Clear(c willow3d.Color) {
	dst := g.image(g.draw)
	if dst == nil {
		return
	}
	dst.Fill(toNRGBA(c))
}

func toNRGBA(c willow3d.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// SetBlend implements willow3d.GPU.
func (g *GPU) SetBlend(mode willow3d.BlendMode) {
	g.blend = mode
}

// --- White pixel singleton (single-threaded, no sync.Once) ---

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// ensureWhite returns the center pixel of a lazily-created 3x3 white image,
// used as the source of untextured triangles. Sampling the center keeps
// edge filtering from bleeding transparent texels in.
func ensureWhite() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// DrawTriangles implements willow3d.GPU.
func (g *GPU) DrawTriangles(vertices []willow3d.Vertex, indices []uint16) {
	dst := g.image(g.draw)
	if dst == nil || len(indices) < 3 {
		return
	}
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	ox, oy := float32(b.Min.X), float32(b.Min.Y)

	if cap(g.verts) < len(vertices) {
		g.verts = make([]ebiten.Vertex, len(vertices))
	}
	g.verts = g.verts[:len(vertices)]
	for i, v := range vertices {
		g.verts[i] = ebiten.Vertex{
			DstX:   ox + (v.X+1)/2*w,
			DstY:   oy + (1-v.Y)/2*h,
			SrcX:   1,
			SrcY:   1,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		}
	}

	g.sortBackToFront(vertices, indices)

	var op ebiten.DrawTrianglesOptions
	op.Blend = ebitenBlend(g.blend)
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	op.AntiAlias = g.Antialias && g.draw == 0
	dst.DrawTriangles(g.verts, g.inds, ensureWhite(), &op)
}

// sortBackToFront fills g.inds with the triangles of indices ordered from
// the farthest to the nearest mean NDC depth. The sort is stable so that
// coplanar triangles keep their submission order.
func (g *GPU) sortBackToFront(vertices []willow3d.Vertex, indices []uint16) {
	n := len(indices) / 3
	if cap(g.order) < n {
		g.order = make([]int, n)
	}
	g.order = g.order[:n]
	for i := range g.order {
		g.order[i] = i
	}
	depth := func(tri int) float32 {
		return vertices[indices[tri*3]].Z + vertices[indices[tri*3+1]].Z + vertices[indices[tri*3+2]].Z
	}
	sort.SliceStable(g.order, func(a, b int) bool {
		return depth(g.order[a]) > depth(g.order[b])
	})
	g.inds = g.inds[:0]
	for _, tri := range g.order {
		g.inds = append(g.inds, indices[tri*3], indices[tri*3+1], indices[tri*3+2])
	}
}

// ebitenBlend returns the ebiten.Blend value corresponding to mode.
func ebitenBlend(mode willow3d.BlendMode) ebiten.Blend {
	switch mode {
	case willow3d.BlendNormal:
		return ebiten.BlendSourceOver
	case willow3d.BlendAdd:
		return ebiten.BlendLighter
	case willow3d.BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case willow3d.BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case willow3d.BlendErase:
		return ebiten.BlendDestinationOut
	case willow3d.BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case willow3d.BlendBelow:
		return ebiten.BlendDestinationOver
	case willow3d.BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

var _ willow3d.GPU = (*GPU)(nil)
