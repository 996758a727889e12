package willow3d

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// CameraConfig is the declarative form of a Camera. It decodes from YAML
// (and therefore from JSON).
//
//	eye: [0, 0, 3]
//	perspective: [45, 1.333, 0.1, 100]
//	eye_transform:
//	  type: rotate
//	  axis: [0, 1, 0]
//	  animkf:
//	    - {time: 0, value: 0}
//	    - {time: 4, value: 360}
//	fov_animkf:
//	  - {time: 0, value: 30}
//	  - {time: 1, value: 60, easing: quadratic_in_out}
//	pipe_fd: 1
//	pipe_width: 320
//	pipe_height: 240
type CameraConfig struct {
	Name        string    `yaml:"name"`
	Eye         floatList `yaml:"eye"`
	Center      floatList `yaml:"center"`
	Up          floatList `yaml:"up"`
	Perspective floatList `yaml:"perspective"`

	EyeTransform    *TransformConfig `yaml:"eye_transform"`
	CenterTransform *TransformConfig `yaml:"center_transform"`
	UpTransform     *TransformConfig `yaml:"up_transform"`

	FovAnimKF []KeyframeConfig `yaml:"fov_animkf"`

	PipeFD     int `yaml:"pipe_fd"`
	PipeWidth  int `yaml:"pipe_width"`
	PipeHeight int `yaml:"pipe_height"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// TransformConfig is the declarative form of a transform chain. Type is one
// of identity, translate, rotate or scale.
type TransformConfig struct {
	Type    string           `yaml:"type"`
	Name    string           `yaml:"name"`
	Vector  floatList        `yaml:"vector"`
	Angle   float32          `yaml:"angle"`
	Axis    floatList        `yaml:"axis"`
	Factors floatList        `yaml:"factors"`
	AnimKF  []KeyframeConfig `yaml:"animkf"`
	Child   *TransformConfig `yaml:"child"`
}

// KeyframeConfig is one (time, value) pair. Value is a scalar for fov and
// rotation tracks and a 3-vector for translate and scale tracks.
type KeyframeConfig struct {
	Time   float64   `yaml:"time"`
	Value  floatList `yaml:"value"`
	Easing string    `yaml:"easing"`
}

// floatList decodes either a single number or a sequence of numbers.
type floatList []float32

func (f *floatList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var v float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		*f = floatList{v}
		return nil
	}
	var vs []float32
	if err := n.Decode(&vs); err != nil {
		return err
	}
	*f = vs
	return nil
}

func (f floatList) vec3() mgl32.Vec3 {
	return mgl32.Vec3{f[0], f[1], f[2]}
}

// LoadCameraConfig decodes and validates a camera description. Unknown
// fields are rejected; an empty document yields the defaults.
func LoadCameraConfig(data []byte) (*CameraConfig, error) {
	var cfg CameraConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("willow3d: parse camera config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("willow3d: camera config: %w", err)
	}
	return &cfg, nil
}

func (c *CameraConfig) validate() error {
	var errs []error
	for _, v := range []struct {
		name string
		val  floatList
		n    int
	}{
		{"eye", c.Eye, 3},
		{"center", c.Center, 3},
		{"up", c.Up, 3},
		{"perspective", c.Perspective, 4},
	} {
		if v.val != nil && len(v.val) != v.n {
			errs = append(errs, fmt.Errorf("%s: want %d values, got %d", v.name, v.n, len(v.val)))
		}
	}
	for _, kf := range c.FovAnimKF {
		if len(kf.Value) != 1 {
			errs = append(errs, fmt.Errorf("fov_animkf: t=%g: want 1 value, got %d", kf.Time, len(kf.Value)))
		}
	}
	if c.PipeFD != 0 && (c.PipeWidth <= 0 || c.PipeHeight <= 0) {
		errs = append(errs, fmt.Errorf("pipe %dx%d: %w", c.PipeWidth, c.PipeHeight, ErrInvalidCaptureSize))
	}
	for _, tc := range []struct {
		name string
		cfg  *TransformConfig
	}{
		{"eye_transform", c.EyeTransform},
		{"center_transform", c.CenterTransform},
		{"up_transform", c.UpTransform},
	} {
		for t := tc.cfg; t != nil; t = t.Child {
			if err := t.validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", tc.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (t *TransformConfig) validate() error {
	want := 0
	switch t.Type {
	case "identity":
	case "translate", "scale":
		want = 3
	case "rotate":
		want = 1
	default:
		return fmt.Errorf("%q: %w", t.Type, ErrUnknownTransform)
	}
	for _, v := range []floatList{t.Vector, t.Axis, t.Factors} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%s: vectors need 3 values, got %d", t.Type, len(v))
		}
	}
	for _, kf := range t.AnimKF {
		if want == 0 {
			return errors.New("identity transform cannot be animated")
		}
		if len(kf.Value) != want {
			return fmt.Errorf("%s animkf t=%g: want %d values, got %d", t.Type, kf.Time, want, len(kf.Value))
		}
	}
	return nil
}

// Build creates a camera over child configured from c.
func (c *CameraConfig) Build(child Node) (*Camera, error) {
	name := c.Name
	if name == "" {
		name = "camera"
	}
	cam := NewCamera(name, child)
	if c.Eye != nil {
		cam.Eye = c.Eye.vec3()
	}
	if c.Center != nil {
		cam.Center = c.Center.vec3()
	}
	if c.Up != nil {
		cam.Up = c.Up.vec3()
	}
	if p := c.Perspective; p != nil {
		cam.Perspective = Perspective{Fov: p[0], Aspect: p[1], Near: p[2], Far: p[3]}
	}
	if c.ScreenshotDir != "" {
		cam.ScreenshotDir = c.ScreenshotDir
	}

	var err error
	if cam.EyeTransform, err = buildTransform(c.EyeTransform); err != nil {
		return nil, fmt.Errorf("eye_transform: %w", err)
	}
	if cam.CenterTransform, err = buildTransform(c.CenterTransform); err != nil {
		return nil, fmt.Errorf("center_transform: %w", err)
	}
	if cam.UpTransform, err = buildTransform(c.UpTransform); err != nil {
		return nil, fmt.Errorf("up_transform: %w", err)
	}

	if len(c.FovAnimKF) > 0 {
		if cam.FovAnimation, err = buildScalarTrack(c.FovAnimKF); err != nil {
			return nil, fmt.Errorf("fov_animkf: %w", err)
		}
	}

	cam.SetPipe(c.PipeFD, c.PipeWidth, c.PipeHeight)
	return cam, nil
}

// buildTransform builds the chain rooted at t. A nil t yields a nil node.
func buildTransform(t *TransformConfig) (TransformNode, error) {
	if t == nil {
		return nil, nil
	}
	var child Node
	if t.Child != nil {
		c, err := buildTransform(t.Child)
		if err != nil {
			return nil, err
		}
		child = c
	}
	name := t.Name
	if name == "" {
		name = t.Type
	}

	switch t.Type {
	case "identity":
		id := NewIdentity(name)
		id.Child = child
		return id, nil
	case "translate":
		n := NewTranslate(name, child, vec3Or(t.Vector, mgl32.Vec3{}))
		if len(t.AnimKF) > 0 {
			tr, err := buildVec3Track(t.AnimKF)
			if err != nil {
				return nil, err
			}
			n.Animation = tr
		}
		return n, nil
	case "rotate":
		n := NewRotate(name, child, t.Angle, vec3Or(t.Axis, mgl32.Vec3{0, 0, 1}))
		if len(t.AnimKF) > 0 {
			tr, err := buildScalarTrack(t.AnimKF)
			if err != nil {
				return nil, err
			}
			n.Animation = tr
		}
		return n, nil
	case "scale":
		n := NewScale(name, child, vec3Or(t.Factors, mgl32.Vec3{1, 1, 1}))
		if len(t.AnimKF) > 0 {
			tr, err := buildVec3Track(t.AnimKF)
			if err != nil {
				return nil, err
			}
			n.Animation = tr
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%q: %w", t.Type, ErrUnknownTransform)
	}
}

func vec3Or(f floatList, def mgl32.Vec3) mgl32.Vec3 {
	if len(f) != 3 {
		return def
	}
	return f.vec3()
}

func buildScalarTrack(kfs []KeyframeConfig) (*ScalarTrack, error) {
	out := make([]ScalarKeyframe, len(kfs))
	for i, kf := range kfs {
		fn, err := EasingByName(kf.Easing)
		if err != nil {
			return nil, err
		}
		if len(kf.Value) != 1 {
			return nil, fmt.Errorf("keyframe %d: want 1 value, got %d", i, len(kf.Value))
		}
		out[i] = ScalarKeyframe{Time: kf.Time, Value: kf.Value[0], Easing: fn}
	}
	return NewScalarTrack(out...)
}

func buildVec3Track(kfs []KeyframeConfig) (*Vec3Track, error) {
	out := make([]Vec3Keyframe, len(kfs))
	for i, kf := range kfs {
		fn, err := EasingByName(kf.Easing)
		if err != nil {
			return nil, err
		}
		if len(kf.Value) != 3 {
			return nil, fmt.Errorf("keyframe %d: want 3 values, got %d", i, len(kf.Value))
		}
		out[i] = Vec3Keyframe{Time: kf.Time, Value: kf.Value.vec3(), Easing: fn}
	}
	return NewVec3Track(out...)
}
