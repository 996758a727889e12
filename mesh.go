package willow3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a leaf node that draws indexed, vertex-colored triangles. The
// vertices are in model space; Draw projects them with the matrices received
// by the last Update.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Colors    []Color
	Indices   []uint16
	Blend     BlendMode

	transforms Transforms

	// Draw scratch buffers, grown on demand and never shrunk.
	projected []Vertex
	clipW     []float32
	visible   []uint16
}

// NewMesh creates a mesh. colors may be nil (all white) or hold one color per
// position. Panics if the index count is not a multiple of 3 or an index is
// out of range.
func NewMesh(name string, positions []mgl32.Vec3, colors []Color, indices []uint16) *Mesh {
	if len(indices)%3 != 0 {
		panic(fmt.Sprintf("willow3d: mesh %q: index count %d is not a multiple of 3", name, len(indices)))
	}
	if colors != nil && len(colors) != len(positions) {
		panic(fmt.Sprintf("willow3d: mesh %q: %d colors for %d positions", name, len(colors), len(positions)))
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			panic(fmt.Sprintf("willow3d: mesh %q: index %d out of range", name, i))
		}
	}
	return &Mesh{
		Name:       name,
		Positions:  positions,
		Colors:     colors,
		Indices:    indices,
		transforms: IdentityTransforms(),
	}
}

// NewCube returns a unit cube centered on the origin with one color per face.
func NewCube(name string, faces [6]Color) *Mesh {
	corners := [8]mgl32.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	quads := [6][4]int{
		{4, 5, 6, 7}, // +z
		{1, 0, 3, 2}, // -z
		{5, 1, 2, 6}, // +x
		{0, 4, 7, 3}, // -x
		{7, 6, 2, 3}, // +y
		{0, 1, 5, 4}, // -y
	}
	positions := make([]mgl32.Vec3, 0, 24)
	colors := make([]Color, 0, 24)
	indices := make([]uint16, 0, 36)
	for f, q := range quads {
		base := uint16(len(positions))
		for _, c := range q {
			positions = append(positions, corners[c])
			colors = append(colors, faces[f])
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(name, positions, colors, indices)
}

// Init is a no-op: meshes hold no GPU resources.
func (m *Mesh) Init(*Context) error { return nil }

// Update stores the matrices used by the next Draw.
func (m *Mesh) Update(_ float64, parent Transforms) {
	m.transforms = parent
}

// Draw projects the mesh to normalized device coordinates and submits the
// triangles whose three corners are in front of the camera.
func (m *Mesh) Draw(ctx *Context) {
	if len(m.Indices) == 0 {
		return
	}
	mvp := m.transforms.Projection.Mul4(m.transforms.ModelView)
	verts, ws := m.ensureBuffers()
	projectVertices(m.Positions, m.Colors, verts, ws, mvp)

	m.visible = m.visible[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if ws[a] <= 0 || ws[b] <= 0 || ws[c] <= 0 {
			continue
		}
		m.visible = append(m.visible, a, b, c)
	}
	if len(m.visible) == 0 {
		return
	}
	ctx.GPU.SetBlend(m.Blend)
	ctx.GPU.DrawTriangles(verts, m.visible)
}

// Uninit is a no-op.
func (m *Mesh) Uninit(*Context) {}

// ensureBuffers grows the projection scratch buffers to fit the positions,
// using a high-water-mark strategy.
func (m *Mesh) ensureBuffers() ([]Vertex, []float32) {
	need := len(m.Positions)
	if cap(m.projected) < need {
		m.projected = make([]Vertex, need)
		m.clipW = make([]float32, need)
	}
	m.projected = m.projected[:need]
	m.clipW = m.clipW[:need]
	return m.projected, m.clipW
}

// projectVertices applies mvp to src and performs the perspective divide,
// writing NDC vertices into dst and the clip-space w of each into ws. A
// vertex with w <= 0 is left undivided; callers must discard it.
func projectVertices(src []mgl32.Vec3, colors []Color, dst []Vertex, ws []float32, mvp mgl32.Mat4) {
	for i, p := range src {
		clip := mvp.Mul4x1(p.Vec4(1))
		w := clip[3]
		ws[i] = w
		x, y, z := clip[0], clip[1], clip[2]
		if w > 0 {
			x, y, z = x/w, y/w, z/w
		}
		c := ColorWhite
		if colors != nil {
			c = colors[i]
		}
		dst[i] = Vertex{
			X: x, Y: y, Z: z,
			R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(c.A),
		}
	}
}
