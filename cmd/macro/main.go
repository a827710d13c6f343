package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vedantwpatil/mouse-macro/internal/config"
	"github.com/vedantwpatil/mouse-macro/internal/logging"
)

var version = "dev"

var (
	configFile string
	settings   = viper.New()
	cfg        *config.Config
)

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macro",
		Short: "Record pointer moves and clicks, then replay them in a loop",
		Long: `macro records pointer moves and clicks and replays them with the original timing.

Recordings are mapped through a calibration so they replay correctly on a screen
with a different scaling or resolution. Everything is driven by hotkeys (arrow
keys by default) once it is running.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(settings, configFile)
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.LogLevel); err != nil {
				return err
			}
			if cfg.ConfigFile != "" {
				logrus.WithField("file", cfg.ConfigFile).Debug("settings loaded")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := NewApplication(cfg)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}

	defaults := config.NewConfig()
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "settings file (default is $HOME/.macro.yaml)")
	flags.StringP("log-level", "l", defaults.LogLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	flags.String("calibration", defaults.CalibrationFile, "calibration file (.json, .yaml or .yml)")
	cmd.Flags().Int("loops", defaults.Replay.Loops, "number of passes per replay, 0 loops until stopped")

	mustBind("log_level", flags.Lookup("log-level"))
	mustBind("calibration_file", flags.Lookup("calibration"))
	mustBind("replay.loops", cmd.Flags().Lookup("loops"))

	cmd.AddCommand(
		NewCalibrationCommand(),
		NewVersionCommand(),
	)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version)
		},
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}
