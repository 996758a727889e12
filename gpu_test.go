package willow3d

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func assertNear(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertMatrix(t *testing.T, name string, got, want mgl32.Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- fakeGPU ---

type fakeDraw struct {
	target   Framebuffer
	blend    BlendMode
	vertices []Vertex
	indices  []uint16
}

// fakeGPU is a recording GPU. It tracks live handles and bindings like a GL
// context would and logs every binding-sensitive call.
type fakeGPU struct {
	next         uint32
	textures     map[Texture]TextureParams
	framebuffers map[Framebuffer]Texture

	read, draw Framebuffer
	blend      BlendMode

	multisampled bool // reported for the default framebuffer only
	incomplete   bool

	// fill, when set, produces the pixels returned by ReadPixels.
	fill func(src Framebuffer, dst []byte)

	calls  []string
	draws  []fakeDraw
	clears []Color
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{
		textures:     make(map[Texture]TextureParams),
		framebuffers: make(map[Framebuffer]Texture),
	}
}

func (g *fakeGPU) log(format string, args ...any) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *fakeGPU) NewTexture(p TextureParams) Texture {
	g.next++
	tex := Texture(g.next)
	g.textures[tex] = p
	g.log("new texture %d", tex)
	return tex
}

func (g *fakeGPU) DeleteTexture(tex Texture) {
	if _, ok := g.textures[tex]; !ok {
		panic(fmt.Sprintf("fakeGPU: delete of unknown texture %d", tex))
	}
	delete(g.textures, tex)
	g.log("delete texture %d", tex)
}

func (g *fakeGPU) NewFramebuffer() Framebuffer {
	g.next++
	fb := Framebuffer(g.next)
	g.framebuffers[fb] = 0
	g.log("new framebuffer %d", fb)
	return fb
}

func (g *fakeGPU) DeleteFramebuffer(fb Framebuffer) {
	if _, ok := g.framebuffers[fb]; !ok {
		panic(fmt.Sprintf("fakeGPU: delete of unknown framebuffer %d", fb))
	}
	delete(g.framebuffers, fb)
	if g.read == fb {
		g.read = 0
	}
	if g.draw == fb {
		g.draw = 0
	}
	g.log("delete framebuffer %d", fb)
}

func (g *fakeGPU) AttachTexture(tex Texture) {
	if g.draw != 0 {
		g.framebuffers[g.draw] = tex
	}
	g.log("attach %d to %d", tex, g.draw)
}

func (g *fakeGPU) FramebufferStatus() error {
	if g.incomplete {
		return fmt.Errorf("fake: %w", ErrIncompleteFramebuffer)
	}
	return nil
}

func (g *fakeGPU) BoundFramebuffer(target FramebufferTarget) Framebuffer {
	if target == FramebufferRead {
		return g.read
	}
	return g.draw
}

func (g *fakeGPU) BindFramebuffer(target FramebufferTarget, fb Framebuffer) {
	switch target {
	case FramebufferRead:
		g.read = fb
		g.log("bind read %d", fb)
	case FramebufferDraw:
		g.draw = fb
		g.log("bind draw %d", fb)
	default:
		g.read, g.draw = fb, fb
		g.log("bind both %d", fb)
	}
}

func (g *fakeGPU) Multisampled() bool {
	return g.multisampled && g.draw == 0
}

func (g *fakeGPU) BlitFramebuffer(width, height int) {
	g.log("blit %d->%d %dx%d", g.read, g.draw, width, height)
}

func (g *fakeGPU) ReadPixels(width, height int, dst []byte) {
	g.log("read %d %dx%d", g.read, width, height)
	if g.fill != nil {
		g.fill(g.read, dst[:4*width*height])
	}
}

func (g *fakeGPU) Clear(c Color) {
	g.clears = append(g.clears, c)
}

func (g *fakeGPU) SetBlend(mode BlendMode) {
	g.blend = mode
}

func (g *fakeGPU) DrawTriangles(vertices []Vertex, indices []uint16) {
	g.draws = append(g.draws, fakeDraw{
		target:   g.draw,
		blend:    g.blend,
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	})
}

func (g *fakeGPU) resetCalls() {
	g.calls = g.calls[:0]
}

var _ GPU = (*fakeGPU)(nil)

// --- recording nodes ---

// recordNode is a leaf that records its lifecycle calls into a shared log.
type recordNode struct {
	name    string
	log     *[]string
	initErr error

	lastT      float64
	lastParent Transforms
	updates    int
	draws      int
}

func newRecordNode(name string, log *[]string) *recordNode {
	return &recordNode{name: name, log: log}
}

func (n *recordNode) Init(*Context) error {
	*n.log = append(*n.log, "init "+n.name)
	return n.initErr
}

func (n *recordNode) Update(t float64, parent Transforms) {
	*n.log = append(*n.log, "update "+n.name)
	n.lastT = t
	n.lastParent = parent
	n.updates++
}

func (n *recordNode) Draw(*Context) {
	*n.log = append(*n.log, "draw "+n.name)
	n.draws++
}

func (n *recordNode) Uninit(*Context) {
	*n.log = append(*n.log, "uninit "+n.name)
}

// --- countingGPU ---

func TestCountingGPU(t *testing.T) {
	inner := newFakeGPU()
	g := &countingGPU{GPU: inner}

	g.DrawTriangles(make([]Vertex, 3), []uint16{0, 1, 2})
	g.DrawTriangles(make([]Vertex, 4), []uint16{0, 1, 2, 0, 2, 3})
	g.ReadPixels(1, 1, make([]byte, 4))

	if g.drawCalls != 2 || g.triangles != 3 || g.readbacks != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/3/1", g.drawCalls, g.triangles, g.readbacks)
	}
	if len(inner.draws) != 2 {
		t.Errorf("inner draws = %d, want 2", len(inner.draws))
	}

	g.reset()
	if g.drawCalls != 0 || g.triangles != 0 || g.readbacks != 0 {
		t.Error("reset should zero the counters")
	}
}
