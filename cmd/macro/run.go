package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vedantwpatil/mouse-macro/internal/calibration"
	"github.com/vedantwpatil/mouse-macro/internal/config"
	"github.com/vedantwpatil/mouse-macro/internal/display"
	"github.com/vedantwpatil/mouse-macro/internal/logging"
	"github.com/vedantwpatil/mouse-macro/internal/recording"
	"github.com/vedantwpatil/mouse-macro/internal/replay"
	"github.com/vedantwpatil/mouse-macro/internal/session"
	"github.com/vedantwpatil/mouse-macro/internal/tracking"
)

// Application wires the listener, the controller and its collaborators
// together for one interactive run.
type Application struct {
	config     *config.Config
	store      *calibration.Store
	listener   *tracking.Listener
	controller *session.Controller
	log        *logrus.Entry
}

func NewApplication(cfg *config.Config) (*Application, error) {
	return &Application{
		config:   cfg,
		store:    newStore(cfg),
		listener: tracking.NewListener(logging.Component("listener")),
		log:      logging.Component("app"),
	}, nil
}

func newStore(cfg *config.Config) *calibration.Store {
	fallback := display.Size{Width: cfg.Fallback.Width, Height: cfg.Fallback.Height}
	return calibration.NewStore(cfg.CalibrationFile, display.Platform{}, fallback, logging.Component("calibration"))
}

// Run loads the calibration and blocks on the input hook until the exit
// hotkey or a signal ends it.
func (a *Application) Run() error {
	params, err := a.store.Load()
	if err != nil {
		return err
	}

	player := replay.NewPlayer(replay.RobotInjector{}, replay.Options{Loops: a.config.Replay.Loops}, logging.Component("replay"))
	a.controller = session.New(session.Options{
		Recorder: recording.NewRecorder(logging.Component("recorder"), time.Now),
		Engine:   calibration.NewEngine(),
		Player:   player,
		Store:    a.store,
		Params:   params,
		Out:      os.Stdout,
		Log:      logging.Component("session"),
		OnExit:   a.listener.Stop,
	})

	hotkeys := a.config.HotkeyMap()
	keys := make(map[string]func(), len(hotkeys))
	for t, key := range hotkeys {
		keys[key] = func() { a.controller.Dispatch(t) }
	}

	stopSignals := a.handleSignals()
	defer stopSignals()

	a.controller.PrintUsage(hotkeys)
	a.listener.Run(tracking.Handlers{
		Move:  a.controller.HandleMove,
		Click: a.controller.HandleClick,
		Keys:  keys,
	})

	// No-op when the exit hotkey already ran it.
	a.controller.Exit()
	a.log.Info("stopped")
	return nil
}

// handleSignals ends the hook on SIGINT or SIGTERM so Run can shut down
// the same way the exit hotkey does.
func (a *Application) handleSignals() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			a.log.WithField("signal", sig.String()).Info("received signal")
			a.listener.Stop()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
