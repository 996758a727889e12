package willow3d

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentityTransforms(t *testing.T) {
	tr := IdentityTransforms()
	assertMatrix(t, "modelview", tr.ModelView, mgl32.Ident4())
	assertMatrix(t, "projection", tr.Projection, mgl32.Ident4())
}

func TestGroupLifecycleOrder(t *testing.T) {
	var log []string
	a := newRecordNode("a", &log)
	b := newRecordNode("b", &log)
	g := NewGroup("g", a, b)

	if err := g.Init(nil); err != nil {
		t.Fatal(err)
	}
	g.Update(1, IdentityTransforms())
	g.Draw(nil)
	g.Uninit(nil)

	want := []string{
		"init a", "init b",
		"update a", "update b",
		"draw a", "draw b",
		"uninit b", "uninit a",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestGroupForwardsTransformsUnchanged(t *testing.T) {
	var log []string
	a := newRecordNode("a", &log)
	g := NewGroup("g", a)
	parent := Transforms{ModelView: mgl32.Translate3D(1, 2, 3), Projection: mgl32.Scale3D(2, 2, 2)}
	g.Update(0, parent)
	if a.lastParent != parent {
		t.Errorf("child received %v, want %v", a.lastParent, parent)
	}
}

func TestGroupInitStopsAtFirstError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	a := newRecordNode("a", &log)
	b := newRecordNode("b", &log)
	b.initErr = boom
	c := newRecordNode("c", &log)
	g := NewGroup("g", a, b, c)

	if err := g.Init(nil); err != boom {
		t.Fatalf("Init err = %v, want boom unchanged", err)
	}
	g.Uninit(nil)

	// c never initialized; only a was, so only a is uninitialized.
	want := []string{"init a", "init b", "uninit a"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestGroupAddNilPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on AddChild(nil)")
		}
	}()
	NewGroup("g").AddChild(nil)
}

func TestGroupChildren(t *testing.T) {
	var log []string
	a := newRecordNode("a", &log)
	g := NewGroup("g")
	g.AddChild(a)
	if len(g.Children()) != 1 || g.Children()[0] != a {
		t.Errorf("Children = %v", g.Children())
	}
}
