package tracking

import (
	"sync"

	hook "github.com/robotn/gohook"
	"github.com/sirupsen/logrus"
)

// Handlers receives the callbacks delivered by a Listener. Callbacks run one
// at a time on the hook goroutine and must return quickly.
type Handlers struct {
	Move  func(x, y int)
	Click func(x, y int, button Button, pressed bool)
	// Keys maps a gohook key name (e.g. "left", "f9") to its callback.
	Keys map[string]func()
}

// Listener delivers global pointer and keyboard input through gohook.
type Listener struct {
	log     *logrus.Entry
	mu      sync.Mutex
	running bool
}

func NewListener(log *logrus.Entry) *Listener {
	return &Listener{log: log}
}

// Run registers the handlers and blocks until Stop is called or the hook
// terminates on its own.
func (l *Listener) Run(h Handlers) {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()

	if h.Move != nil {
		onMove := func(e hook.Event) { h.Move(int(e.X), int(e.Y)) }
		hook.Register(hook.MouseMove, []string{}, onMove)
		// Motion with a button held arrives as a drag.
		hook.Register(hook.MouseDrag, []string{}, onMove)
	}

	if h.Click != nil {
		// gohook reports a press as MouseHold and a release as MouseUp.
		// MouseDown is the synthesized "clicked" notification after the
		// release and would duplicate it.
		hook.Register(hook.MouseHold, []string{}, func(e hook.Event) {
			if b, ok := ButtonFromHook(e.Button); ok {
				h.Click(int(e.X), int(e.Y), b, true)
			}
		})
		hook.Register(hook.MouseUp, []string{}, func(e hook.Event) {
			if b, ok := ButtonFromHook(e.Button); ok {
				h.Click(int(e.X), int(e.Y), b, false)
			}
		})
	}

	for key, cb := range h.Keys {
		hook.Register(hook.KeyDown, []string{key}, func(hook.Event) {
			l.log.WithField("key", key).Debug("hotkey pressed")
			cb()
		})
	}

	evChan := hook.Start()

	l.log.Info("hook process started, waiting for events")
	// Blocks until hook.End() is called.
	<-hook.Process(evChan)

	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
	l.log.Info("hook process stopped")
}

// Stop ends the hook, unblocking Run. It is safe to call from inside a
// handler.
func (l *Listener) Stop() {
	l.mu.Lock()
	running := l.running
	l.mu.Unlock()
	if running {
		hook.End()
	}
}

// ButtonFromHook maps a gohook button code to a Button. Buttons other than
// left and right are reported as not ok.
func ButtonFromHook(code uint16) (Button, bool) {
	switch {
	case code == hook.MouseMap["left"]:
		return ButtonLeft, true
	case code == hook.MouseMap["right"]:
		return ButtonRight, true
	default:
		return 0, false
	}
}
