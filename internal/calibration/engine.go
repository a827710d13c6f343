package calibration

import "errors"

// ErrNotCalibrating is returned by AddPoint outside a calibration session.
var ErrNotCalibrating = errors.New("no calibration in progress")

// Result reports the outcome of adding a reference point.
type Result struct {
	// AwaitingSecond is set after the top-left point has been taken.
	AwaitingSecond bool
	// Done is set once both points are in and Params holds the new transform.
	Done   bool
	Params Params
}

// Engine collects the two reference points of a calibration session. It is
// driven from the input listener and is not safe for concurrent use.
type Engine struct {
	active bool
	points []Point
}

func NewEngine() *Engine {
	return &Engine{points: make([]Point, 0, 2)}
}

// Begin discards pending points and starts a session. It returns false if a
// session is already active.
func (e *Engine) Begin() bool {
	if e.active {
		return false
	}
	e.points = e.points[:0]
	e.active = true
	return true
}

func (e *Engine) Active() bool { return e.active }

// Pending is the number of points taken in the current session.
func (e *Engine) Pending() int { return len(e.points) }

// Cancel ends the session without computing anything.
func (e *Engine) Cancel() {
	e.active = false
	e.points = e.points[:0]
}

// AddPoint records a raw sample. The second sample ends the session and
// computes new params against the reference size of current; a degenerate
// pair ends the session as well and returns the error.
func (e *Engine) AddPoint(x, y int, current Params) (Result, error) {
	if !e.active {
		return Result{}, ErrNotCalibrating
	}

	e.points = append(e.points, Point{X: x, Y: y})
	if len(e.points) == 1 {
		return Result{AwaitingSecond: true}, nil
	}

	topLeft, bottomRight := e.points[0], e.points[1]
	e.Cancel()

	params, err := Compute(topLeft, bottomRight, current.ScreenWidth, current.ScreenHeight)
	if err != nil {
		return Result{}, err
	}
	return Result{Done: true, Params: params}, nil
}
