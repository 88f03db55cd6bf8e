package wicket

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// flightStep represents a single action in a flight script.
type flightStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Forward float32 `json:"forward,omitempty"`
	Right   float32 `json:"right,omitempty"`
	Up      float32 `json:"up,omitempty"`
	Yaw     float32 `json:"yaw,omitempty"`
	Pitch   float32 `json:"pitch,omitempty"`
	X       float32 `json:"x,omitempty"`
	Y       float32 `json:"y,omitempty"`
	Z       float32 `json:"z,omitempty"`
	Seconds float32 `json:"seconds,omitempty"`
	Frames  int     `json:"frames,omitempty"`
}

// flightScript is the top-level JSON structure for a flight script.
type flightScript struct {
	Steps []flightStep `json:"steps"`
}

// Flight replays a scripted camera path frame by frame for automated
// visual testing of portal scenes. Scripts are JSON with a "steps"
// array; each step is one of:
//
//	{"action": "move", "forward": 4, "right": 0, "up": 0, "frames": 60}
//	{"action": "look", "yaw": 90, "pitch": 0, "frames": 30}
//	{"action": "glide", "x": 0, "y": 1, "z": -5, "seconds": 2}
//	{"action": "wait", "frames": 30}
//	{"action": "screenshot", "label": "through-portal"}
//
// Move distances are world units spread across the step's frames; look
// angles are degrees. Drive the flight once per frame with Step.
type Flight struct {
	// OnScreenshot, when set, is invoked for each screenshot step with
	// the step's label.
	OnScreenshot func(label string)

	steps     []flightStep
	cursor    int
	waitCount int

	moveFrames         int
	moveFwd            float32
	moveRight          float32
	moveUp             float32
	lookFrames         int
	lookYaw, lookPitch float32

	done bool
}

// LoadFlight parses a JSON flight script.
func LoadFlight(jsonData []byte) (*Flight, error) {
	var script flightScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse flight script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse flight script: no steps")
	}
	return &Flight{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (f *Flight) Done() bool {
	return f.done
}

// Step advances the flight by one frame, applying any active motion to
// the camera. dt is the frame's delta time in seconds and is used to
// convert glide durations into frames.
func (f *Flight) Step(c *FlyCamera, dt float32) {
	if f.done {
		return
	}
	// Drain active motion before advancing.
	if f.moveFrames > 0 {
		c.Move(f.moveFwd, f.moveRight, f.moveUp)
		f.moveFrames--
		return
	}
	if f.lookFrames > 0 {
		c.Look(f.lookYaw, f.lookPitch)
		f.lookFrames--
		return
	}
	// Count down wait frames.
	if f.waitCount > 0 {
		f.waitCount--
		return
	}
	if f.cursor >= len(f.steps) {
		f.done = true
		return
	}

	st := f.steps[f.cursor]
	f.cursor++

	switch st.Action {
	case "screenshot":
		if f.OnScreenshot != nil {
			f.OnScreenshot(st.Label)
		}
	case "move":
		frames := max(st.Frames, 1)
		n := float32(frames)
		f.moveFwd = st.Forward / n
		f.moveRight = st.Right / n
		f.moveUp = st.Up / n
		c.Move(f.moveFwd, f.moveRight, f.moveUp)
		f.moveFrames = frames - 1 // this frame counts as one
	case "look":
		frames := max(st.Frames, 1)
		n := float32(frames)
		f.lookYaw = mgl32.DegToRad(st.Yaw) / n
		f.lookPitch = mgl32.DegToRad(st.Pitch) / n
		c.Look(f.lookYaw, f.lookPitch)
		f.lookFrames = frames - 1
	case "glide":
		c.GlideTo(mgl32.Vec3{st.X, st.Y, st.Z}, st.Seconds, ease.Linear)
		if dt > 0 {
			f.waitCount = int(st.Seconds/dt + 0.5)
		}
	case "wait":
		if st.Frames > 0 {
			f.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if f.cursor >= len(f.steps) && f.waitCount == 0 && f.moveFrames == 0 && f.lookFrames == 0 {
		f.done = true
	}
}
