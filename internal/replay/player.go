package replay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vedantwpatil/mouse-macro/internal/calibration"
	"github.com/vedantwpatil/mouse-macro/internal/tracking"
)

var (
	ErrEmptyLog       = errors.New("nothing recorded to replay")
	ErrAlreadyPlaying = errors.New("replay already in progress")
)

// Injector synthesizes pointer input.
type Injector interface {
	MoveTo(x, y int) error
	Press(b tracking.Button) error
	Release(b tracking.Button) error
}

// Options tune a Player.
type Options struct {
	// Loops is the number of passes over the log; 0 repeats until stopped.
	Loops int
}

// Player replays an event log on a background goroutine, waiting each
// event's delay before injecting it.
type Player struct {
	injector Injector
	opts     Options
	log      *logrus.Entry

	mu      sync.Mutex
	playing bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewPlayer(injector Injector, opts Options, log *logrus.Entry) *Player {
	return &Player{
		injector: injector,
		opts:     opts,
		log:      log,
	}
}

// Start replays events transformed by params. onFinish, if not nil, is called
// from the replay goroutine when the run ends on its own: with nil after the
// configured number of passes, or with the error that aborted it. It is not
// called for runs ended by Stop.
func (p *Player) Start(events []tracking.Event, params calibration.Params, onFinish func(error)) error {
	if len(events) == 0 {
		return ErrEmptyLog
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid calibration: %w", err)
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return ErrAlreadyPlaying
	}
	prev := p.doneCh
	p.mu.Unlock()

	// A previous run that ended on its own may still be unwinding.
	if prev != nil {
		<-prev
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return ErrAlreadyPlaying
	}

	log := make([]tracking.Event, len(events))
	copy(log, events)

	p.playing = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(log, params, p.stopCh, p.doneCh, onFinish)
	return nil
}

// Stop interrupts the replay and waits for the goroutine to exit. Nothing is
// injected for the event whose delay was being waited on, or any later one.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		p.Wait()
		return
	}
	p.playing = false
	close(p.stopCh)
	p.mu.Unlock()

	p.Wait()
}

// Wait blocks until the current run, if any, has exited.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.doneCh
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) run(events []tracking.Event, params calibration.Params, stop, done chan struct{}, onFinish func(error)) {
	defer close(done)

	err := p.loop(events, params, stop)

	p.mu.Lock()
	stopped := isClosed(stop)
	if !stopped {
		p.playing = false
	}
	p.mu.Unlock()

	if stopped {
		p.log.Info("replay stopped")
		return
	}
	if err != nil {
		p.log.WithError(err).Error("replay aborted")
	} else {
		p.log.Info("replay finished")
	}
	if onFinish != nil {
		onFinish(err)
	}
}

func (p *Player) loop(events []tracking.Event, params calibration.Params, stop <-chan struct{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("replay panicked: %v", r)
		}
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for pass := 1; p.opts.Loops == 0 || pass <= p.opts.Loops; pass++ {
		p.log.WithField("pass", pass).Debug("replaying actions")
		for i, e := range events {
			if d := e.Delay(); d > 0 {
				timer.Reset(d)
				select {
				case <-stop:
					return nil
				case <-timer.C:
				}
			}
			select {
			case <-stop:
				return nil
			default:
			}

			if err := p.inject(e, params); err != nil {
				return fmt.Errorf("event %d of pass %d: %w", i, pass, err)
			}
		}
	}
	return nil
}

func (p *Player) inject(e tracking.Event, params calibration.Params) error {
	x, y := params.Apply(e.Position())
	if err := p.injector.MoveTo(x, y); err != nil {
		return err
	}

	click, ok := e.(tracking.Click)
	if !ok {
		return nil
	}
	if click.Pressed {
		if err := p.injector.Press(click.Button); err != nil {
			return err
		}
		p.log.Debugf("replayed %s click at (%d, %d)", click.Button, x, y)
		return nil
	}
	return p.injector.Release(click.Button)
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
