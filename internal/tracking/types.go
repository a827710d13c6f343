package tracking

import (
	"fmt"
	"time"
)

// Kind tells which variant an Event holds.
type Kind int

const (
	KindMove Kind = iota
	KindClick
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindClick:
		return "click"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Button is a pointer button that can be recorded and replayed.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// String returns the button name understood by robotgo.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Event is a single recorded pointer action. Delay is the time elapsed since
// the previous event in the same recording and is never negative.
type Event interface {
	Kind() Kind
	Position() (x, y int)
	Delay() time.Duration
}

// Move is a pointer motion to an absolute position.
type Move struct {
	X  int
	Y  int
	DT time.Duration
}

func (m Move) Kind() Kind           { return KindMove }
func (m Move) Position() (int, int) { return m.X, m.Y }
func (m Move) Delay() time.Duration { return m.DT }
func (m Move) String() string       { return fmt.Sprintf("move(%d, %d) +%v", m.X, m.Y, m.DT) }

// Click is a press or release of a pointer button at an absolute position.
type Click struct {
	X       int
	Y       int
	Button  Button
	Pressed bool
	DT      time.Duration
}

func (c Click) Kind() Kind           { return KindClick }
func (c Click) Position() (int, int) { return c.X, c.Y }
func (c Click) Delay() time.Duration { return c.DT }

func (c Click) String() string {
	action := "release"
	if c.Pressed {
		action = "press"
	}
	return fmt.Sprintf("%s %s(%d, %d) +%v", c.Button, action, c.X, c.Y, c.DT)
}

// TotalDelay sums the delays of the given events.
func TotalDelay(events []Event) time.Duration {
	var total time.Duration
	for _, e := range events {
		total += e.Delay()
	}
	return total
}
