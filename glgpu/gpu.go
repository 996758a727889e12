// Package glgpu implements the willow3d GPU interface with OpenGL 3.3 core.
//
// All methods must be called on the goroutine that owns the current GL
// context (usually the locked main thread).
package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/phanxgames/willow3d"
)

// GPU is a willow3d.GPU issuing OpenGL calls on the current context.
type GPU struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	textures     int
	framebuffers int
}

// New loads the GL entry points of the current context and builds the color
// program used by DrawTriangles.
func New() (*GPU, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	g := &GPU{}
	var err error
	g.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)

	// layout(location = 0) in vec3 aPos;
	// layout(location = 1) in vec4 aColor;
	stride := int32(unsafe.Sizeof(willow3d.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(willow3d.Vertex{}.X))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, unsafe.Offsetof(willow3d.Vertex{}.R))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	g.SetBlend(willow3d.BlendNormal)
	return g, nil
}

// Dispose deletes the program and buffers created by New.
func (g *GPU) Dispose() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	if g.program != 0 {
		gl.DeleteProgram(g.program)
		g.program = 0
	}
}

// Version returns the GL_VERSION string of the current context.
func (g *GPU) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Resize sets the viewport to (0, 0)-(w, h).
func (g *GPU) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

// LiveTextures returns the number of textures created and not yet deleted.
func (g *GPU) LiveTextures() int { return g.textures }

// LiveFramebuffers returns the number of framebuffers created and not yet
// deleted.
func (g *GPU) LiveFramebuffers() int { return g.framebuffers }

var (
	glFilter = [...]int32{willow3d.FilterNearest: gl.NEAREST, willow3d.FilterLinear: gl.LINEAR}
	glWrap   = [...]int32{willow3d.WrapClampToEdge: gl.CLAMP_TO_EDGE, willow3d.WrapRepeat: gl.REPEAT}
	glTarget = [...]uint32{
		willow3d.FramebufferBoth: gl.FRAMEBUFFER,
		willow3d.FramebufferRead: gl.READ_FRAMEBUFFER,
		willow3d.FramebufferDraw: gl.DRAW_FRAMEBUFFER,
	}
)

// NewTexture implements willow3d.GPU.
func (g *GPU) NewTexture(p willow3d.TextureParams) willow3d.Texture {
	var prev int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &prev)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(p.Width), int32(p.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter[p.MinFilter])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter[p.MagFilter])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap[p.WrapS])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap[p.WrapT])
	gl.BindTexture(gl.TEXTURE_2D, uint32(prev))

	g.textures++
	return willow3d.Texture(tex)
}

// DeleteTexture implements willow3d.GPU.
func (g *GPU) DeleteTexture(tex willow3d.Texture) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
	g.textures--
}

// NewFramebuffer implements willow3d.GPU.
func (g *GPU) NewFramebuffer() willow3d.Framebuffer {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	g.framebuffers++
	return willow3d.Framebuffer(fb)
}

// DeleteFramebuffer implements willow3d.GPU.
func (g *GPU) DeleteFramebuffer(fb willow3d.Framebuffer) {
	f := uint32(fb)
	gl.DeleteFramebuffers(1, &f)
	g.framebuffers--
}

// AttachTexture implements willow3d.GPU.
func (g *GPU) AttachTexture(tex willow3d.Texture) {
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(tex), 0)
}

// FramebufferStatus implements willow3d.GPU.
func (g *GPU) FramebufferStatus() error {
	if st := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER); st != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("status 0x%04X: %w", st, willow3d.ErrIncompleteFramebuffer)
	}
	return nil
}

// BoundFramebuffer implements willow3d.GPU.
func (g *GPU) BoundFramebuffer(target willow3d.FramebufferTarget) willow3d.Framebuffer {
	pname := uint32(gl.DRAW_FRAMEBUFFER_BINDING)
	if target == willow3d.FramebufferRead {
		pname = gl.READ_FRAMEBUFFER_BINDING
	}
	var fb int32
	gl.GetIntegerv(pname, &fb)
	return willow3d.Framebuffer(fb)
}

// BindFramebuffer implements willow3d.GPU.
func (g *GPU) BindFramebuffer(target willow3d.FramebufferTarget, fb willow3d.Framebuffer) {
	gl.BindFramebuffer(glTarget[target], uint32(fb))
}

// Multisampled implements willow3d.GPU.
func (g *GPU) Multisampled() bool {
	var n int32
	gl.GetIntegerv(gl.SAMPLE_BUFFERS, &n)
	return n > 0
}

// BlitFramebuffer implements willow3d.GPU.
func (g *GPU) BlitFramebuffer(width, height int) {
	w, h := int32(width), int32(height)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
}

// ReadPixels implements willow3d.GPU.
func (g *GPU) ReadPixels(width, height int, dst []byte) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
}

// Clear implements willow3d.GPU. The depth buffer, if any, is cleared too.
func (g *GPU) Clear(c willow3d.Color) {
	gl.ClearColor(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetBlend implements willow3d.GPU. Factors assume premultiplied colors.
func (g *GPU) SetBlend(mode willow3d.BlendMode) {
	if mode == willow3d.BlendNone {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	switch mode {
	case willow3d.BlendAdd:
		gl.BlendFunc(gl.ONE, gl.ONE)
	case willow3d.BlendMultiply:
		gl.BlendFuncSeparate(gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA, gl.DST_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case willow3d.BlendScreen:
		gl.BlendFuncSeparate(gl.ONE, gl.ONE_MINUS_SRC_COLOR, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	case willow3d.BlendErase:
		gl.BlendFunc(gl.ZERO, gl.ONE_MINUS_SRC_ALPHA)
	case willow3d.BlendMask:
		gl.BlendFunc(gl.ZERO, gl.SRC_ALPHA)
	case willow3d.BlendBelow:
		gl.BlendFunc(gl.ONE_MINUS_DST_ALPHA, gl.ONE)
	default:
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// DrawTriangles implements willow3d.GPU.
func (g *GPU) DrawTriangles(vertices []willow3d.Vertex, indices []uint16) {
	if len(vertices) == 0 || len(indices) == 0 {
		return
	}
	gl.UseProgram(g.program)
	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(vertices[0])), gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STREAM_DRAW)

	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_SHORT, nil)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)
}

var _ willow3d.GPU = (*GPU)(nil)
