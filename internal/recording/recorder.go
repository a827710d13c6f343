package recording

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vedantwpatil/mouse-macro/internal/tracking"
)

// Recorder turns pointer callbacks into an ordered event log where each
// event carries the delay since the one before it.
type Recorder struct {
	log         *logrus.Entry
	clock       func() time.Time
	isRecording bool
	events      []tracking.Event
	startTime   time.Time
	lastEvent   time.Time
	mu          sync.Mutex
}

// NewRecorder returns an idle recorder. A nil clock means time.Now.
func NewRecorder(log *logrus.Entry, clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{
		log:   log,
		clock: clock,
	}
}

// Start discards the previous log and begins recording. It returns false if
// a recording is already in progress.
func (r *Recorder) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRecording {
		return false
	}
	r.events = make([]tracking.Event, 0)
	r.startTime = r.clock()
	r.lastEvent = r.startTime
	r.isRecording = true
	return true
}

// Stop ends the recording and keeps the log. It returns false if nothing was
// being recorded.
func (r *Recorder) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return false
	}
	r.isRecording = false
	r.log.WithFields(logrus.Fields{
		"events":  len(r.events),
		"elapsed": r.clock().Sub(r.startTime).String(),
	}).Info("recording stopped")
	return true
}

func (r *Recorder) OnMove(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return
	}
	r.events = append(r.events, tracking.Move{X: x, Y: y, DT: r.tick()})
}

func (r *Recorder) OnClick(x, y int, button tracking.Button, pressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return
	}
	r.events = append(r.events, tracking.Click{
		X:       x,
		Y:       y,
		Button:  button,
		Pressed: pressed,
		DT:      r.tick(),
	})
	if pressed {
		r.log.Debugf("recorded %s click at (%d, %d)", button, x, y)
	}
}

// tick returns the time since the previous event and advances it. A clock
// that steps backwards yields a zero delay. Callers hold r.mu.
func (r *Recorder) tick() time.Duration {
	now := r.clock()
	dt := now.Sub(r.lastEvent)
	if dt < 0 {
		dt = 0
	} else {
		r.lastEvent = now
	}
	return dt
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRecording
}

// Events returns a copy of the current log.
func (r *Recorder) Events() []tracking.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]tracking.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Duration is the time from the start of the recording to its last event.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tracking.TotalDelay(r.events)
}
