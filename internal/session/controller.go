// Package session owns the mode state machine that ties the recorder, the
// calibration engine and the player together.
//
// Triggers and pointer callbacks arrive one at a time from the input
// listener. The only other goroutine is the replay task, which touches the
// controller solely through the atomic mode when it finishes on its own.
// Recording and Replaying never overlap, so the event log is never read and
// written at the same time.
package session

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/vedantwpatil/mouse-macro/internal/calibration"
	"github.com/vedantwpatil/mouse-macro/internal/recording"
	"github.com/vedantwpatil/mouse-macro/internal/replay"
	"github.com/vedantwpatil/mouse-macro/internal/tracking"
)

// ParamsSaver persists new calibration params.
type ParamsSaver interface {
	Save(calibration.Params) error
}

// Options holds the collaborators of a Controller.
type Options struct {
	Recorder *recording.Recorder
	Engine   *calibration.Engine
	Player   *replay.Player
	Store    ParamsSaver
	Params   calibration.Params
	// Out receives the messages meant for the user.
	Out io.Writer
	Log *logrus.Entry
	// OnExit runs once when Exit is triggered, after the replay has stopped.
	OnExit func()
}

type Controller struct {
	mode          atomic.Int32
	exitRequested atomic.Bool

	recorder *recording.Recorder
	engine   *calibration.Engine
	player   *replay.Player
	store    ParamsSaver
	onExit   func()
	log      *logrus.Entry

	paramsMu sync.Mutex
	params   calibration.Params

	outMu sync.Mutex
	out   io.Writer
}

func New(opts Options) *Controller {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	c := &Controller{
		recorder: opts.Recorder,
		engine:   opts.Engine,
		player:   opts.Player,
		store:    opts.Store,
		onExit:   opts.OnExit,
		log:      opts.Log,
		params:   opts.Params,
		out:      out,
	}
	c.mode.Store(int32(Idle))
	return c
}

func (c *Controller) Mode() Mode { return Mode(c.mode.Load()) }

func (c *Controller) ExitRequested() bool { return c.exitRequested.Load() }

// Params returns the calibration currently applied on replay.
func (c *Controller) Params() calibration.Params {
	c.paramsMu.Lock()
	defer c.paramsMu.Unlock()
	return c.params
}

// Dispatch runs the handler for t. Unknown triggers are ignored.
func (c *Controller) Dispatch(t Trigger) {
	switch t {
	case ToggleRecord:
		c.ToggleRecord()
	case ToggleReplay:
		c.ToggleReplay()
	case BeginCalibration:
		c.BeginCalibration()
	case Exit:
		c.Exit()
	default:
		c.log.WithField("trigger", t).Warn("unknown trigger")
	}
}

// ToggleRecord starts a recording from Idle or stops the current one.
func (c *Controller) ToggleRecord() {
	if c.ExitRequested() {
		return
	}

	switch c.Mode() {
	case Idle:
		c.recorder.Start()
		c.setMode(Recording)
		c.say("Recording started...")
	case Recording:
		c.recorder.Stop()
		c.setMode(Idle)
		c.say("Recording stopped. %s actions recorded.", bold("%d", c.recorder.Len()))
	default:
		c.ignored(ToggleRecord)
	}
}

// ToggleReplay starts looping the recorded log from Idle, or stops the
// replay in progress.
func (c *Controller) ToggleReplay() {
	if c.ExitRequested() {
		return
	}

	switch c.Mode() {
	case Idle:
		events := c.recorder.Events()
		if len(events) == 0 {
			c.say("No actions recorded yet.")
			return
		}
		// The mode must read Replaying before the task can finish and
		// hand it back.
		c.setMode(Replaying)
		c.say("Replaying %d actions...", len(events))
		if err := c.player.Start(events, c.Params(), c.replayFinished); err != nil {
			c.setMode(Idle)
			c.log.WithError(err).Error("failed to start replay")
			c.say("Could not replay: %v", err)
			return
		}
	case Replaying:
		c.player.Stop()
		c.setMode(Idle)
		c.say("Replaying stopped.")
	default:
		c.ignored(ToggleReplay)
	}
}

// BeginCalibration enters Calibrating from Idle. The next two pointer
// presses become the top-left and bottom-right reference points.
func (c *Controller) BeginCalibration() {
	if c.ExitRequested() {
		return
	}
	if c.Mode() != Idle {
		c.ignored(BeginCalibration)
		return
	}

	c.engine.Begin()
	c.setMode(Calibrating)
	c.say("Starting calibration. Click on the %s of your screen, then the %s.",
		bold("top-left corner"), bold("bottom-right corner"))
}

// Exit stops any replay, waits for it, and runs the exit hook. Every later
// trigger is ignored.
func (c *Controller) Exit() {
	if c.exitRequested.Swap(true) {
		return
	}
	c.say("Exiting...")

	switch c.Mode() {
	case Replaying:
		c.player.Stop()
	case Recording:
		c.recorder.Stop()
	case Calibrating:
		c.engine.Cancel()
	}
	// Covers a replay that ended on its own but is still unwinding.
	c.player.Wait()
	c.setMode(Idle)

	if c.onExit != nil {
		c.onExit()
	}
}

// HandleMove is the pointer motion callback.
func (c *Controller) HandleMove(x, y int) {
	if c.Mode() == Recording {
		c.recorder.OnMove(x, y)
	}
}

// HandleClick is the pointer button callback. While calibrating, presses
// become reference points and never reach the recorder.
func (c *Controller) HandleClick(x, y int, button tracking.Button, pressed bool) {
	switch c.Mode() {
	case Calibrating:
		if pressed {
			c.calibrationPoint(x, y)
		}
	case Recording:
		c.recorder.OnClick(x, y, button, pressed)
	}
}

func (c *Controller) calibrationPoint(x, y int) {
	res, err := c.engine.AddPoint(x, y, c.Params())
	if err != nil {
		c.setMode(Idle)
		c.log.WithError(err).Warn("calibration discarded")
		c.say("%s %v. Calibration discarded.", color.RedString("Calibration failed:"), err)
		return
	}
	if res.AwaitingSecond {
		c.say("Top-left corner recorded. Now click on the %s.", bold("bottom-right corner"))
		return
	}

	c.paramsMu.Lock()
	c.params = res.Params
	c.paramsMu.Unlock()
	c.setMode(Idle)

	c.log.WithFields(res.Params.LogrusFields()).Info("calibration complete")
	c.say("Calibration complete. Scale: (%g, %g), Offset: (%g, %g)",
		res.Params.ScaleX, res.Params.ScaleY, res.Params.OffsetX, res.Params.OffsetY)

	if c.store == nil {
		return
	}
	if err := c.store.Save(res.Params); err != nil {
		c.log.WithError(err).Error("failed to save calibration, it applies to this session only")
	}
}

// replayFinished runs on the replay goroutine when a replay ends without
// being stopped.
func (c *Controller) replayFinished(err error) {
	if !c.mode.CompareAndSwap(int32(Replaying), int32(Idle)) {
		return
	}
	if err != nil {
		c.say("%s %v", color.RedString("Replay failed:"), err)
		return
	}
	c.say("Replay finished.")
}

func (c *Controller) setMode(m Mode) {
	prev := Mode(c.mode.Swap(int32(m)))
	c.log.WithFields(logrus.Fields{"from": prev.String(), "to": m.String()}).Debug("mode changed")
}

func (c *Controller) ignored(t Trigger) {
	c.log.WithFields(logrus.Fields{"trigger": string(t), "mode": c.Mode().String()}).Debug("trigger ignored")
}

func (c *Controller) say(format string, a ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format+"\n", a...)
}

// PrintUsage tells the user which key fires each trigger.
func (c *Controller) PrintUsage(keys map[Trigger]string) {
	for _, t := range Triggers {
		key, ok := keys[t]
		if !ok {
			continue
		}
		c.say("Press %s to %s.", bold("%s", key), t.Description())
	}
}

func bold(format string, a ...any) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
