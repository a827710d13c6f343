package session

import "fmt"

// Mode is the activity the session is currently in. Exactly one mode is
// active at a time.
type Mode int32

const (
	Idle Mode = iota
	Recording
	Calibrating
	Replaying
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Calibrating:
		return "calibrating"
	case Replaying:
		return "replaying"
	default:
		return fmt.Sprintf("mode(%d)", int32(m))
	}
}

// Trigger is a discrete user signal, delivered by a hotkey.
type Trigger string

const (
	ToggleRecord     Trigger = "record"
	ToggleReplay     Trigger = "replay"
	BeginCalibration Trigger = "calibrate"
	Exit             Trigger = "exit"
)

// Triggers lists every trigger in the order they are shown to the user.
var Triggers = []Trigger{BeginCalibration, ToggleRecord, ToggleReplay, Exit}

func (t Trigger) Description() string {
	switch t {
	case ToggleRecord:
		return "start/stop recording"
	case ToggleReplay:
		return "start/stop replaying actions"
	case BeginCalibration:
		return "start calibration"
	case Exit:
		return "exit"
	default:
		return string(t)
	}
}
