package hostengine

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// scriptStep is one action in a capture script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences screenshots, camera moves and waits across frames for
// automated visual checks. Attach it with Host.SetScript.
//
//	{"steps": [
//	  {"action": "wait", "frames": 60},
//	  {"action": "screenshot", "label": "settled"},
//	  {"action": "camera", "x": 100, "y": 0},
//	  {"action": "screenshot", "label": "panned"},
//	  {"action": "quit"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON capture script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "screenshot", "wait", "camera", "quit":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a capture script. The script advances one step per tick.
func (h *Host) SetScript(s *Script) {
	h.script = s
}

// Done reports whether every step has run.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one tick.
func (s *Script) step(h *Host) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++
	h.log.Debug("script step", zap.Int("step", s.cursor-1), zap.String("action", st.Action))

	switch st.Action {
	case "screenshot":
		h.captures = append(h.captures, capture{label: st.Label, step: s.cursor - 1})
	case "camera":
		h.SetCameraPosition(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "quit":
		h.quit = true
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
