package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/vedantwpatil/mouse-macro/internal/session"
)

const EnvPrefix = "MACRO"

type Hotkeys struct {
	Record    string `mapstructure:"record"`
	Replay    string `mapstructure:"replay"`
	Calibrate string `mapstructure:"calibrate"`
	Exit      string `mapstructure:"exit"`
}

type Replay struct {
	// Loops is the number of passes per replay; 0 loops until stopped.
	Loops int `mapstructure:"loops"`
}

// Fallback is the screen size assumed when the display cannot be queried.
type Fallback struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Config struct {
	CalibrationFile string   `mapstructure:"calibration_file"`
	LogLevel        string   `mapstructure:"log_level"`
	Replay          Replay   `mapstructure:"replay"`
	Fallback        Fallback `mapstructure:"fallback"`
	Hotkeys         Hotkeys  `mapstructure:"hotkeys"`

	// ConfigFile is the settings file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

func NewConfig() *Config {
	return &Config{
		CalibrationFile: "mouse_recorder_config.json",
		LogLevel:        "info",
		Replay: Replay{
			Loops: 0,
		},
		Fallback: Fallback{
			Width:  1920,
			Height: 1080,
		},
		Hotkeys: Hotkeys{
			Record:    "left",
			Replay:    "right",
			Calibrate: "up",
			Exit:      "down",
		},
	}
}

// SetDefaults registers every key with its default so that environment
// variables are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("calibration_file", d.CalibrationFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("replay.loops", d.Replay.Loops)
	v.SetDefault("fallback.width", d.Fallback.Width)
	v.SetDefault("fallback.height", d.Fallback.Height)
	v.SetDefault("hotkeys.record", d.Hotkeys.Record)
	v.SetDefault("hotkeys.replay", d.Hotkeys.Replay)
	v.SetDefault("hotkeys.calibrate", d.Hotkeys.Calibrate)
	v.SetDefault("hotkeys.exit", d.Hotkeys.Exit)
}

// Load reads settings in order of precedence: flags bound to v, MACRO_*
// environment variables (including .env and .env.local), the settings file
// (configFile, or .macro.yaml in the home or working directory), defaults.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".macro")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.Wrap(err, "failed to read settings file")
		}
	}

	c := NewConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode settings")
	}
	c.ConfigFile = v.ConfigFileUsed()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(filepath.Ext(c.CalibrationFile)) {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("calibration file %q must end in .json, .yaml or .yml", c.CalibrationFile)
	}
	if c.Replay.Loops < 0 {
		return fmt.Errorf("replay loops must not be negative, got %d", c.Replay.Loops)
	}
	if c.Fallback.Width < 0 || c.Fallback.Height < 0 {
		return fmt.Errorf("fallback size must not be negative, got %dx%d", c.Fallback.Width, c.Fallback.Height)
	}

	seen := make(map[string]session.Trigger)
	for t, key := range c.HotkeyMap() {
		if key == "" {
			return fmt.Errorf("no hotkey bound to %s", t)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("hotkey %q bound to both %s and %s", key, other, t)
		}
		seen[key] = t
	}
	return nil
}

// HotkeyMap returns the key bound to each trigger.
func (c *Config) HotkeyMap() map[session.Trigger]string {
	return map[session.Trigger]string{
		session.ToggleRecord:     c.Hotkeys.Record,
		session.ToggleReplay:     c.Hotkeys.Replay,
		session.BeginCalibration: c.Hotkeys.Calibrate,
		session.Exit:             c.Hotkeys.Exit,
	}
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
