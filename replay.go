package tapmap

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// scriptStep is one action in a click script.
type scriptStep struct {
	Action string `json:"action"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Ms     int    `json:"ms,omitempty"`
}

// clickScript is the top-level JSON structure for a click script.
type clickScript struct {
	Steps []scriptStep `json:"steps"`
}

// ClickScript is a parsed sequence of scripted clicks and waits, replayable
// in the observer wire format. It stands in for a live observer process in
// demos and integration tests: cmd/tapmap-replay replays one to stdout.
type ClickScript struct {
	steps []scriptStep
}

// LoadClickScript parses a JSON click script of the form
//
//	{"steps": [{"action": "click", "x": 100, "y": 200},
//	           {"action": "wait", "ms": 50}]}
func LoadClickScript(data []byte) (*ClickScript, error) {
	var script clickScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse click script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse click script: no steps")
	}
	for _, st := range script.Steps {
		switch st.Action {
		case "click", "wait":
		default:
			return nil, fmt.Errorf("parse click script: unknown action %q", st.Action)
		}
	}
	return &ClickScript{steps: script.Steps}, nil
}

// Lines returns the script's click steps in wire format, ignoring waits.
func (s *ClickScript) Lines() []string {
	var lines []string
	for _, st := range s.steps {
		if st.Action == "click" {
			lines = append(lines, fmt.Sprintf("%d,%d", st.X, st.Y))
		}
	}
	return lines
}

// Replay writes the script to w in the observer wire format, one "x,y" line
// per click, honoring wait steps. A nil sleep uses time.Sleep; tests pass a
// stub to run instantly.
func (s *ClickScript) Replay(w io.Writer, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	for _, st := range s.steps {
		switch st.Action {
		case "click":
			if _, err := fmt.Fprintf(w, "%d,%d\n", st.X, st.Y); err != nil {
				return fmt.Errorf("replay click script: %w", err)
			}
		case "wait":
			sleep(time.Duration(st.Ms) * time.Millisecond)
		}
	}
	return nil
}
