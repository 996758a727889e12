package willow3d

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func captureDebugOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := debugOutput
	debugOutput = &buf
	t.Cleanup(func() { debugOutput = prev })
	return &buf
}

func TestDebugfOnlyInDebugMode(t *testing.T) {
	buf := captureDebugOutput(t)

	debugf(nil, "nil %d", 1)
	debugf(&Context{}, "off %d", 2)
	if buf.Len() != 0 {
		t.Fatalf("output without debug: %q", buf.String())
	}

	debugf(&Context{Debug: true}, "on %d", 3)
	if got := buf.String(); got != "[willow3d] on 3\n" {
		t.Errorf("output = %q", got)
	}
}

func TestNodeStateString(t *testing.T) {
	tests := []struct {
		s    nodeState
		want string
	}{
		{stateUninitialized, "uninitialized"},
		{stateInitialized, "initialized"},
		{nodeState(9), "nodeState(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDebugCheckInitialized(t *testing.T) {
	debugCheckInitialized(stateInitialized, "ok", "Draw")
	expectPanic(t, `willow3d debug: Draw on uninitialized node "cam"`, func() {
		debugCheckInitialized(stateUninitialized, "cam", "Draw")
	})
}

func TestDebugCheckChildCount(t *testing.T) {
	buf := captureDebugOutput(t)
	g := NewGroup("big")
	for i := 0; i <= debugMaxChildCount; i++ {
		g.children = append(g.children, NewGroup("c"))
	}
	debugCheckChildCount(g)
	if !strings.Contains(buf.String(), `group "big" has 1001 children`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDebugModeLogsCapturedWrite(t *testing.T) {
	buf := captureDebugOutput(t)
	prev := globalDebug
	defer func() { globalDebug = prev }()

	cam := newTestCamera(NewCube("cube", [6]Color{}))
	cam.SetPipeWriter(&recordWriter{}, 2, 2)
	s := NewScene(newFakeGPU(), cam)
	s.SetDebugMode(true)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	cam.Eye = mgl32.Vec3{0, 0, 3}
	s.Update(0)
	s.Draw()

	out := buf.String()
	for _, want := range []string{
		"[willow3d] write 2x2 buffer to *willow3d.recordWriter",
		"[willow3d] update: ",
		"draw calls: 1 | triangles: 12 | readbacks: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugModeOffIsSilent(t *testing.T) {
	buf := captureDebugOutput(t)
	cam := newTestCamera(NewCube("cube", [6]Color{}))
	cam.SetPipeWriter(&recordWriter{}, 2, 2)
	s := NewScene(newFakeGPU(), cam)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Update(0)
	s.Draw()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}
