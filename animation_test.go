package willow3d

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

func mustScalarTrack(t *testing.T, kfs ...ScalarKeyframe) *ScalarTrack {
	t.Helper()
	tr, err := NewScalarTrack(kfs...)
	if err != nil {
		t.Fatalf("NewScalarTrack: %v", err)
	}
	return tr
}

// --- construction ---

func TestNewScalarTrackEmpty(t *testing.T) {
	if _, err := NewScalarTrack(); !errors.Is(err, ErrNoKeyframes) {
		t.Errorf("err = %v, want ErrNoKeyframes", err)
	}
	if _, err := NewVec3Track(); !errors.Is(err, ErrNoKeyframes) {
		t.Errorf("vec3 err = %v, want ErrNoKeyframes", err)
	}
}

func TestNewScalarTrackOrder(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
	}{
		{"equal", []float64{0, 1, 1}},
		{"decreasing", []float64{0, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kfs := make([]ScalarKeyframe, len(tt.times))
			for i, tm := range tt.times {
				kfs[i] = ScalarKeyframe{Time: tm}
			}
			if _, err := NewScalarTrack(kfs...); !errors.Is(err, ErrKeyframeOrder) {
				t.Errorf("err = %v, want ErrKeyframeOrder", err)
			}
		})
	}
}

func TestNewScalarTrackCopiesKeyframes(t *testing.T) {
	kfs := []ScalarKeyframe{{Time: 0, Value: 1}, {Time: 1, Value: 2}}
	tr := mustScalarTrack(t, kfs...)
	kfs[0].Value = 99
	if got := tr.Sample(0); got != 1 {
		t.Errorf("Sample(0) = %v, want 1 (track must not alias caller slice)", got)
	}
}

// --- sampling ---

func TestScalarTrackLinearMidpoint(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 30},
		ScalarKeyframe{Time: 1, Value: 60},
	)
	assertNear(t, "Sample(0.5)", tr.Sample(0.5), 45)
}

func TestScalarTrackClamps(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 1, Value: 10},
		ScalarKeyframe{Time: 2, Value: 20},
	)
	tests := []struct {
		t    float64
		want float32
	}{
		{-5, 10},
		{0, 10},
		{1, 10},
		{2, 20},
		{100, 20},
	}
	for _, tt := range tests {
		assertNear(t, "Sample", tr.Sample(tt.t), tt.want)
	}
}

func TestScalarTrackSingleKeyframe(t *testing.T) {
	tr := mustScalarTrack(t, ScalarKeyframe{Time: 3, Value: 7})
	for _, tm := range []float64{0, 3, 10} {
		if got := tr.Sample(tm); got != 7 {
			t.Errorf("Sample(%v) = %v, want 7", tm, got)
		}
	}
}

func TestScalarTrackMultiSegment(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 0},
		ScalarKeyframe{Time: 1, Value: 10},
		ScalarKeyframe{Time: 3, Value: 30},
		ScalarKeyframe{Time: 4, Value: 0},
	)
	tests := []struct {
		t    float64
		want float32
	}{
		{0.5, 5},
		{1, 10},
		{2, 20},
		{3.5, 15},
	}
	for _, tt := range tests {
		assertNear(t, "Sample", tr.Sample(tt.t), tt.want)
	}
}

func TestScalarTrackEasing(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 0},
		ScalarKeyframe{Time: 1, Value: 100, Easing: ease.InQuad},
	)
	// InQuad: c*(t/d)^2 + b
	assertNear(t, "Sample(0.5)", tr.Sample(0.5), 25)
}

// --- cursor ---

func TestScalarTrackCursorAdvances(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 0},
		ScalarKeyframe{Time: 1, Value: 1},
		ScalarKeyframe{Time: 2, Value: 2},
		ScalarKeyframe{Time: 3, Value: 3},
	)
	for _, step := range []struct {
		t      float64
		cursor int
	}{
		{0.5, 0},
		{1.5, 1},
		{2.5, 2},
		{5, 3},
	} {
		tr.Sample(step.t)
		if tr.Cursor() != step.cursor {
			t.Errorf("after Sample(%v): cursor = %d, want %d", step.t, tr.Cursor(), step.cursor)
		}
	}
}

func TestScalarTrackBackwardsResets(t *testing.T) {
	tr := mustScalarTrack(t,
		ScalarKeyframe{Time: 0, Value: 0},
		ScalarKeyframe{Time: 1, Value: 10},
		ScalarKeyframe{Time: 2, Value: 20},
	)
	assertNear(t, "forward", tr.Sample(1.5), 15)
	if tr.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", tr.Cursor())
	}
	// Seeking backwards must rescan rather than reuse the later segment.
	assertNear(t, "backward", tr.Sample(0.25), 2.5)
	if tr.Cursor() != 0 {
		t.Errorf("cursor after rewind = %d, want 0", tr.Cursor())
	}
	assertNear(t, "forward again", tr.Sample(1.5), 15)
}

func TestSeekSegment(t *testing.T) {
	times := []float64{0, 1, 2}
	at := func(i int) float64 { return times[i] }
	tests := []struct {
		name   string
		cursor int
		t      float64
		want   int
	}{
		{"start", 0, 0, 0},
		{"within", 0, 0.5, 0},
		{"on boundary", 0, 1, 1},
		{"past end", 0, 9, 2},
		{"rewind", 2, 0.5, 0},
		{"bad cursor", 7, 1.5, 1},
	}
	for _, tt := range tests {
		if got := seekSegment(len(times), at, tt.cursor, tt.t); got != tt.want {
			t.Errorf("%s: seekSegment = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// --- Vec3Track ---

func TestVec3TrackLinear(t *testing.T) {
	tr, err := NewVec3Track(
		Vec3Keyframe{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		Vec3Keyframe{Time: 2, Value: mgl32.Vec3{2, -4, 6}},
	)
	if err != nil {
		t.Fatal(err)
	}
	assertVec3(t, "Sample(1)", tr.Sample(1), mgl32.Vec3{1, -2, 3})
	assertVec3(t, "Sample(-1)", tr.Sample(-1), mgl32.Vec3{0, 0, 0})
	assertVec3(t, "Sample(3)", tr.Sample(3), mgl32.Vec3{2, -4, 6})
}

// --- EasingByName ---

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"", "linear", "quadratic_in_out", "bounce_out", "exp_in"} {
		fn, err := EasingByName(name)
		if err != nil || fn == nil {
			t.Errorf("EasingByName(%q) = %v, %v", name, fn, err)
		}
	}
	if _, err := EasingByName("wobbly"); !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("unknown easing err = %v, want ErrUnknownEasing", err)
	}
}

func TestEasingNamesResolve(t *testing.T) {
	for name, fn := range easings {
		if fn == nil {
			t.Errorf("easing %q is nil", name)
		}
		// Every curve starts at the segment's begin value.
		assertNear(t, name+"(0)", fn(0, 5, 10, 1), 5)
	}
}
