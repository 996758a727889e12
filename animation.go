package willow3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScalarKeyframe is a (time, value) pair of a scalar track. Easing shapes the
// segment ending at this keyframe; nil means linear.
type ScalarKeyframe struct {
	Time   float64
	Value  float32
	Easing ease.TweenFunc
}

// Vec3Keyframe is a (time, value) pair of a vector track. Easing shapes the
// segment ending at this keyframe, per component; nil means linear.
type Vec3Keyframe struct {
	Time   float64
	Value  mgl32.Vec3
	Easing ease.TweenFunc
}

// ScalarTrack samples a scalar value over time from an ordered keyframe list.
//
// The track keeps a cursor on the last segment used so that forward-moving
// time only inspects the current and next keyframes. When sampled at a time
// earlier than the cursor, the cursor is reset to the first segment and the
// search runs forward again.
type ScalarTrack struct {
	keyframes []ScalarKeyframe
	cursor    int

	// segment tween for keyframes[tweenAt] -> keyframes[tweenAt+1]
	tween   *gween.Tween
	tweenAt int
}

// NewScalarTrack builds a track. Keyframe times must be strictly increasing.
func NewScalarTrack(kfs ...ScalarKeyframe) (*ScalarTrack, error) {
	if len(kfs) == 0 {
		return nil, ErrNoKeyframes
	}
	for i := 1; i < len(kfs); i++ {
		if kfs[i].Time <= kfs[i-1].Time {
			return nil, fmt.Errorf("keyframe %d at t=%g after t=%g: %w", i, kfs[i].Time, kfs[i-1].Time, ErrKeyframeOrder)
		}
	}
	return &ScalarTrack{keyframes: append([]ScalarKeyframe(nil), kfs...), tweenAt: -1}, nil
}

// Len returns the number of keyframes.
func (tr *ScalarTrack) Len() int {
	return len(tr.keyframes)
}

// Keyframes returns the keyframe list. The returned slice MUST NOT be mutated by the caller.
func (tr *ScalarTrack) Keyframes() []ScalarKeyframe {
	return tr.keyframes
}

// Cursor returns the index of the segment used by the last Sample.
func (tr *ScalarTrack) Cursor() int {
	return tr.cursor
}

// Sample returns the interpolated value at time t. Times before the first
// keyframe clamp to the first value, times after the last keyframe to the
// last value.
func (tr *ScalarTrack) Sample(t float64) float32 {
	kfs := tr.keyframes
	tr.cursor = seekSegment(len(kfs), func(i int) float64 { return kfs[i].Time }, tr.cursor, t)
	i := tr.cursor
	if t <= kfs[0].Time {
		return kfs[0].Value
	}
	if i >= len(kfs)-1 {
		return kfs[len(kfs)-1].Value
	}
	if tr.tweenAt != i {
		a, b := kfs[i], kfs[i+1]
		tr.tween = gween.New(a.Value, b.Value, float32(b.Time-a.Time), easingOrLinear(b.Easing))
		tr.tweenAt = i
	}
	v, _ := tr.tween.Set(float32(t - kfs[i].Time))
	return v
}

// Vec3Track samples a vector value over time. It follows the same cursor
// rules as ScalarTrack.
type Vec3Track struct {
	keyframes []Vec3Keyframe
	cursor    int

	tweens  [3]*gween.Tween
	tweenAt int
}

// NewVec3Track builds a track. Keyframe times must be strictly increasing.
func NewVec3Track(kfs ...Vec3Keyframe) (*Vec3Track, error) {
	if len(kfs) == 0 {
		return nil, ErrNoKeyframes
	}
	for i := 1; i < len(kfs); i++ {
		if kfs[i].Time <= kfs[i-1].Time {
			return nil, fmt.Errorf("keyframe %d at t=%g after t=%g: %w", i, kfs[i].Time, kfs[i-1].Time, ErrKeyframeOrder)
		}
	}
	return &Vec3Track{keyframes: append([]Vec3Keyframe(nil), kfs...), tweenAt: -1}, nil
}

// Len returns the number of keyframes.
func (tr *Vec3Track) Len() int {
	return len(tr.keyframes)
}

// Cursor returns the index of the segment used by the last Sample.
func (tr *Vec3Track) Cursor() int {
	return tr.cursor
}

// Sample returns the interpolated vector at time t, clamped like ScalarTrack.
func (tr *Vec3Track) Sample(t float64) mgl32.Vec3 {
	kfs := tr.keyframes
	tr.cursor = seekSegment(len(kfs), func(i int) float64 { return kfs[i].Time }, tr.cursor, t)
	i := tr.cursor
	if t <= kfs[0].Time {
		return kfs[0].Value
	}
	if i >= len(kfs)-1 {
		return kfs[len(kfs)-1].Value
	}
	if tr.tweenAt != i {
		a, b := kfs[i], kfs[i+1]
		d := float32(b.Time - a.Time)
		fn := easingOrLinear(b.Easing)
		for c := 0; c < 3; c++ {
			tr.tweens[c] = gween.New(a.Value[c], b.Value[c], d, fn)
		}
		tr.tweenAt = i
	}
	dt := float32(t - kfs[i].Time)
	var out mgl32.Vec3
	for c := 0; c < 3; c++ {
		out[c], _ = tr.tweens[c].Set(dt)
	}
	return out
}

// seekSegment returns the index i of the segment [i, i+1] containing t, or
// n-1 once t reaches the last keyframe. The search starts at cursor and only
// moves forward; a t earlier than keyframe[cursor] restarts from 0.
func seekSegment(n int, timeAt func(int) float64, cursor int, t float64) int {
	if cursor < 0 || cursor >= n || t < timeAt(cursor) {
		cursor = 0
	}
	for cursor < n-1 && timeAt(cursor+1) <= t {
		cursor++
	}
	return cursor
}

func easingOrLinear(fn ease.TweenFunc) ease.TweenFunc {
	if fn == nil {
		return ease.Linear
	}
	return fn
}

// easings maps declarative easing names to gween curves.
var easings = map[string]ease.TweenFunc{
	"linear":           ease.Linear,
	"quadratic_in":     ease.InQuad,
	"quadratic_out":    ease.OutQuad,
	"quadratic_in_out": ease.InOutQuad,
	"cubic_in":         ease.InCubic,
	"cubic_out":        ease.OutCubic,
	"cubic_in_out":     ease.InOutCubic,
	"quartic_in":       ease.InQuart,
	"quartic_out":      ease.OutQuart,
	"quartic_in_out":   ease.InOutQuart,
	"quintic_in":       ease.InQuint,
	"quintic_out":      ease.OutQuint,
	"quintic_in_out":   ease.InOutQuint,
	"sinus_in":         ease.InSine,
	"sinus_out":        ease.OutSine,
	"sinus_in_out":     ease.InOutSine,
	"exp_in":           ease.InExpo,
	"exp_out":          ease.OutExpo,
	"exp_in_out":       ease.InOutExpo,
	"circular_in":      ease.InCirc,
	"circular_out":     ease.OutCirc,
	"circular_in_out":  ease.InOutCirc,
	"elastic_in":       ease.InElastic,
	"elastic_out":      ease.OutElastic,
	"back_in":          ease.InBack,
	"back_out":         ease.OutBack,
	"back_in_out":      ease.InOutBack,
	"bounce_in":        ease.InBounce,
	"bounce_out":       ease.OutBounce,
	"bounce_in_out":    ease.InOutBounce,
}

// EasingByName returns the easing curve registered under name. The empty
// name is linear.
func EasingByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownEasing)
	}
	return fn, nil
}
