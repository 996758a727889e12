package willow3d

import (
	"encoding/json"
	"errors"
	"fmt"
)

// testStep represents a single action in a frame script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	T        float64 `json:"t,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a frame script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner plays a frame script against a scene and collects frame hashes
// of a capturing camera for automated visual testing.
//
// Actions:
//
//	{"action": "draw", "t": 0.5}                        update and draw at t
//	{"action": "sweep", "duration": 2, "frames": 10}    draw and hash at i*duration/frames
//	{"action": "hash"}                                  hash the last captured frame
//	{"action": "screenshot", "label": "x"}              queue a screenshot
type TestRunner struct {
	steps  []testStep
	cursor int
	done   bool
}

// errNotCapturing is returned when a hash is requested from a camera that
// has no captured frame.
var errNotCapturing = errors.New("willow3d: camera has no captured frame")

// LoadTestScript parses a JSON frame script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "draw", "hash", "screenshot":
		case "sweep":
			if st.Frames <= 0 {
				return nil, fmt.Errorf("parse test script: step %d: sweep needs frames > 0", i)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Run executes the remaining steps against scene and returns the hashes of
// cam's captured frames, in order. The scene must already be initialized.
func (r *TestRunner) Run(s *Scene, cam *Camera) ([]FrameHash, error) {
	var hashes []FrameHash
	hash := func() error {
		pixels := cam.Frame()
		if pixels == nil {
			return errNotCapturing
		}
		w, h := cam.CaptureSize()
		hashes = append(hashes, HashFrame(pixels, w, h))
		return nil
	}

	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++

		switch st.Action {
		case "draw":
			s.Update(st.T)
			s.Draw()
		case "sweep":
			step := st.Duration / float64(st.Frames)
			for i := 0; i < st.Frames; i++ {
				s.Update(float64(i) * step)
				s.Draw()
				if err := hash(); err != nil {
					return hashes, fmt.Errorf("step %d: %w", r.cursor-1, err)
				}
			}
		case "hash":
			if err := hash(); err != nil {
				return hashes, fmt.Errorf("step %d: %w", r.cursor-1, err)
			}
		case "screenshot":
			cam.Screenshot(st.Label)
		}
	}
	r.done = true
	return hashes, nil
}
