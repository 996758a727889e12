package willow3d

import (
	"fmt"
	"io"
	"os"
	"time"
)

// debugOutput is where debug diagnostics are written. Tests swap it.
var debugOutput io.Writer = os.Stderr

// debugf prints a diagnostic line to stderr when ctx is in debug mode.
func debugf(ctx *Context, format string, args ...any) {
	if ctx == nil || !ctx.Debug {
		return
	}
	_, _ = fmt.Fprintf(debugOutput, "[willow3d] "+format+"\n", args...)
}

// nodeState tracks where a node is in its lifecycle.
type nodeState uint8

const (
	stateUninitialized nodeState = iota
	stateInitialized
)

func (s nodeState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateInitialized:
		return "initialized"
	default:
		return fmt.Sprintf("nodeState(%d)", uint8(s))
	}
}

// debugCheckInitialized panics with a descriptive message when a lifecycle
// call is made on a node that has not been initialized. Only called in debug
// mode; in release mode callers skip it and the frame silently degrades.
func debugCheckInitialized(state nodeState, name, op string) {
	if state != stateInitialized {
		panic(fmt.Sprintf("willow3d debug: %s on %s node %q", op, state, name))
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that
// lifecycle calls without a Context (Update) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when the Scene is in debug mode.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	drawCalls  int
	triangles  int
	readbacks  int
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.ctx.Debug {
		return
	}
	_, _ = fmt.Fprintf(debugOutput,
		"[willow3d] update: %v | draw: %v | total: %v\n",
		stats.updateTime, stats.drawTime, stats.updateTime+stats.drawTime)
	_, _ = fmt.Fprintf(debugOutput,
		"[willow3d] draw calls: %d | triangles: %d | readbacks: %d\n",
		stats.drawCalls, stats.triangles, stats.readbacks)
}

// countingGPU wraps a GPU and counts the work submitted through it.
type countingGPU struct {
	GPU
	drawCalls int
	triangles int
	readbacks int
}

func (g *countingGPU) reset() {
	g.drawCalls, g.triangles, g.readbacks = 0, 0, 0
}

func (g *countingGPU) DrawTriangles(vertices []Vertex, indices []uint16) {
	g.drawCalls++
	g.triangles += len(indices) / 3
	g.GPU.DrawTriangles(vertices, indices)
}

func (g *countingGPU) ReadPixels(width, height int, dst []byte) {
	g.readbacks++
	g.GPU.ReadPixels(width, height, dst)
}

// debugCheckChildCount warns on stderr if a group has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(g *Group) {
	if len(g.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(debugOutput, "[willow3d] warning: group %q has %d children (threshold %d)\n",
			g.Name, len(g.children), debugMaxChildCount)
	}
}
