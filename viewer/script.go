package viewer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tanema/gween/ease"
)

// scriptStep is a single action in a viewer script.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays a JSON script of camera moves, injected clicks and
// screenshots across frames. Attach one with Viewer.SetScript.
//
//	{"steps": [
//	  {"action": "zoom", "zoom": 2, "x": 640, "y": 400, "duration": 0.2},
//	  {"action": "wait", "frames": 15},
//	  {"action": "screenshot", "label": "zoomed"},
//	  {"action": "pan", "dx": -200},
//	  {"action": "click", "x": 320, "y": 200}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// ParseScript parses a JSON script.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("viewer: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("viewer: parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "pan", "zoom", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("viewer: parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "zoom" && st.Zoom <= 0 {
			return nil, fmt.Errorf("viewer: parse script: step %d: zoom must be positive", i)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("viewer: load script: %w", err)
	}
	return ParseScript(data)
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the script by one frame.
func (r *ScriptRunner) step(v *Viewer) {
	if r.done {
		return
	}
	// Let injected input drain before the next step.
	if len(v.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		v.Screenshot(st.Label)
	case "click":
		v.InjectClick(st.X, st.Y)
	case "drag":
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "pan":
		v.camera.Pan(st.DX, st.DY)
	case "zoom":
		if st.Duration > 0 {
			v.zoomGoal = st.Zoom
			v.camera.ZoomTo(st.Zoom, st.X, st.Y, st.Duration, ease.InOutQuad)
		} else {
			v.camera.ZoomAt(st.Zoom, st.X, st.Y)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(v.injectQueue) == 0 {
		r.done = true
	}
}
