package willow3d

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentityRecordsParent(t *testing.T) {
	n := NewIdentity("id")
	if _, ok := n.LastMatrix(); ok {
		t.Fatal("LastMatrix should not be ok before Update")
	}
	parent := Transforms{ModelView: mgl32.Translate3D(1, 2, 3), Projection: mgl32.Ident4()}
	n.Update(0, parent)
	m, ok := n.LastMatrix()
	if !ok {
		t.Fatal("LastMatrix should be ok after Update")
	}
	assertMatrix(t, "identity", m, parent.ModelView)
}

func TestTranslateMovesPoint(t *testing.T) {
	n := NewTranslate("tr", nil, mgl32.Vec3{1, -2, 3})
	n.Update(0, IdentityTransforms())
	m, _ := n.LastMatrix()
	assertVec3(t, "point", TransformPoint(m, mgl32.Vec3{1, 1, 1}), mgl32.Vec3{2, -1, 4})
}

func TestRotateDegrees(t *testing.T) {
	n := NewRotate("rot", nil, 90, mgl32.Vec3{0, 0, 1})
	n.Update(0, IdentityTransforms())
	m, _ := n.LastMatrix()
	assertVec3(t, "x axis", TransformPoint(m, mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 1, 0})
}

func TestRotateNormalizesAxis(t *testing.T) {
	a := NewRotate("a", nil, 45, mgl32.Vec3{0, 5, 0})
	b := NewRotate("b", nil, 45, mgl32.Vec3{0, 1, 0})
	a.Update(0, IdentityTransforms())
	b.Update(0, IdentityTransforms())
	ma, _ := a.LastMatrix()
	mb, _ := b.LastMatrix()
	assertMatrix(t, "rotation", ma, mb)
}

func TestScaleFactors(t *testing.T) {
	n := NewScale("s", nil, mgl32.Vec3{2, 3, 4})
	n.Update(0, IdentityTransforms())
	m, _ := n.LastMatrix()
	assertVec3(t, "point", TransformPoint(m, mgl32.Vec3{1, 1, 1}), mgl32.Vec3{2, 3, 4})
}

func TestTransformComposesWithParent(t *testing.T) {
	// parent translate, local scale: p' = T * S * p
	n := NewScale("s", nil, mgl32.Vec3{2, 2, 2})
	n.Update(0, Transforms{ModelView: mgl32.Translate3D(10, 0, 0), Projection: mgl32.Ident4()})
	m, _ := n.LastMatrix()
	assertVec3(t, "point", TransformPoint(m, mgl32.Vec3{1, 0, 0}), mgl32.Vec3{12, 0, 0})
}

func TestTransformChainLastMatrixIsInnermost(t *testing.T) {
	inner := NewTranslate("inner", nil, mgl32.Vec3{0, 0, 1})
	outer := NewRotate("outer", inner, 90, mgl32.Vec3{0, 1, 0})
	outer.Update(0, IdentityTransforms())

	m, ok := outer.LastMatrix()
	if !ok {
		t.Fatal("chain LastMatrix should be ok")
	}
	// R(90, y) * T(0,0,1) applied to the origin lands on +X.
	assertVec3(t, "origin", TransformPoint(m, mgl32.Vec3{}), mgl32.Vec3{1, 0, 0})
}

func TestTransformForwardsToChild(t *testing.T) {
	var log []string
	leaf := newRecordNode("leaf", &log)
	n := NewTranslate("tr", leaf, mgl32.Vec3{1, 0, 0})
	proj := mgl32.Perspective(1, 1, 0.1, 10)

	if err := n.Init(nil); err != nil {
		t.Fatal(err)
	}
	n.Update(2.5, Transforms{ModelView: mgl32.Ident4(), Projection: proj})
	n.Draw(nil)
	n.Uninit(nil)

	want := []string{"init leaf", "update leaf", "draw leaf", "uninit leaf"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if leaf.lastT != 2.5 {
		t.Errorf("child t = %v, want 2.5", leaf.lastT)
	}
	assertMatrix(t, "child modelview", leaf.lastParent.ModelView, mgl32.Translate3D(1, 0, 0))
	assertMatrix(t, "child projection", leaf.lastParent.Projection, proj)

	if _, ok := n.LastMatrix(); ok {
		t.Error("Uninit should forget the last matrix")
	}
}

func TestTransformInitErrorPropagates(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	leaf := newRecordNode("leaf", &log)
	leaf.initErr = boom
	n := NewScale("s", leaf, mgl32.Vec3{1, 1, 1})
	if err := n.Init(nil); err != boom {
		t.Errorf("Init err = %v, want the child's error unchanged", err)
	}
}

func TestTransformAnimationOverrides(t *testing.T) {
	tr, err := NewVec3Track(
		Vec3Keyframe{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		Vec3Keyframe{Time: 1, Value: mgl32.Vec3{4, 0, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	n := NewTranslate("tr", nil, mgl32.Vec3{100, 100, 100})
	n.Animation = tr
	n.Update(0.25, IdentityTransforms())
	assertVec3(t, "Vector", n.Vector, mgl32.Vec3{1, 0, 0})

	rot := NewRotate("rot", nil, 0, mgl32.Vec3{0, 0, 1})
	rot.Animation = mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 0},
		ScalarKeyframe{Time: 1, Value: 180},
	)
	rot.Update(0.5, IdentityTransforms())
	assertNear(t, "Angle", rot.Angle, 90)
}
