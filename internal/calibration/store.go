package calibration

import (
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vedantwpatil/mouse-macro/internal/display"
)

const (
	keyScaleX       = "scale_x"
	keyScaleY       = "scale_y"
	keyOffsetX      = "offset_x"
	keyOffsetY      = "offset_y"
	keyScreenWidth  = "screen_width"
	keyScreenHeight = "screen_height"
)

// Store persists Params to a JSON or YAML file, chosen by the file
// extension. When nothing usable is stored, it falls back to the display
// metrics, and to a fixed screen size if those cannot be queried either.
type Store struct {
	path     string
	metrics  display.Metrics
	fallback display.Size
	log      *logrus.Entry
}

func NewStore(path string, metrics display.Metrics, fallback display.Size, log *logrus.Entry) *Store {
	return &Store{
		path:     path,
		metrics:  metrics,
		fallback: fallback,
		log:      log,
	}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored params. A missing or malformed file is not an
// error: the params are detected from the display and saved instead.
func (s *Store) Load() (Params, error) {
	p, err := s.read()
	if err == nil {
		s.log.WithFields(p.LogrusFields()).Infof("loaded calibration from %s", s.path)
		return p, nil
	}
	s.log.WithError(err).Warn("stored calibration unusable, detecting screen metrics")

	p, err = s.Detect()
	if err != nil {
		return Params{}, err
	}
	if err := s.Save(p); err != nil {
		s.log.WithError(err).Warn("failed to save detected calibration")
	}
	return p, nil
}

// Detect derives uncalibrated params from the display metrics.
func (s *Store) Detect() (Params, error) {
	res, err := s.metrics.Query()
	if err != nil {
		qerr := &PlatformQueryError{Err: err}
		if s.fallback.Width <= 0 || s.fallback.Height <= 0 {
			return Params{}, qerr
		}
		s.log.WithError(qerr).Warnf("using fallback screen size %v", s.fallback)
		return Params{
			ScaleX:       1,
			ScaleY:       1,
			ScreenWidth:  s.fallback.Width,
			ScreenHeight: s.fallback.Height,
		}, nil
	}

	p := FromResolution(res)
	s.log.WithFields(logrus.Fields{
		"physical": res.Physical.String(),
		"logical":  res.Logical.String(),
	}).Infof("detected screen, scale factor (%g, %g)", p.ScaleX, p.ScaleY)
	return p, nil
}

// Save overwrites the file with p.
func (s *Store) Save(p Params) error {
	if err := p.Validate(); err != nil {
		return pkgerrors.Wrap(err, "refusing to save invalid calibration")
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	v := viper.New()
	v.SetConfigType(configType(s.path))
	v.Set(keyScaleX, p.ScaleX)
	v.Set(keyScaleY, p.ScaleY)
	v.Set(keyOffsetX, p.OffsetX)
	v.Set(keyOffsetY, p.OffsetY)
	v.Set(keyScreenWidth, p.ScreenWidth)
	v.Set(keyScreenHeight, p.ScreenHeight)

	// The codec follows configType, so ".YAML" still writes YAML.
	f, err := os.Create(s.path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open %s", s.path)
	}
	if err := v.WriteConfigTo(f); err != nil {
		f.Close()
		return pkgerrors.Wrapf(err, "failed to write calibration to %s", s.path)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.Wrapf(err, "failed to write calibration to %s", s.path)
	}
	s.log.Infof("saved calibration to %s", s.path)
	return nil
}

func (s *Store) read() (Params, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType(configType(s.path))

	// Keys missing from the file keep the defaults.
	def := Default()
	v.SetDefault(keyScaleX, def.ScaleX)
	v.SetDefault(keyScaleY, def.ScaleY)
	v.SetDefault(keyOffsetX, def.OffsetX)
	v.SetDefault(keyOffsetY, def.OffsetY)
	v.SetDefault(keyScreenWidth, def.ScreenWidth)
	v.SetDefault(keyScreenHeight, def.ScreenHeight)

	if err := v.ReadInConfig(); err != nil {
		return Params{}, &ConfigLoadError{Path: s.path, Err: err}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	if err := p.Validate(); err != nil {
		return Params{}, &ConfigLoadError{Path: s.path, Err: err}
	}
	return p, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// LogrusFields returns p as structured log fields.
func (p Params) LogrusFields() logrus.Fields {
	return logrus.Fields{
		keyScaleX:       p.ScaleX,
		keyScaleY:       p.ScaleY,
		keyOffsetX:      p.OffsetX,
		keyOffsetY:      p.OffsetY,
		keyScreenWidth:  p.ScreenWidth,
		keyScreenHeight: p.ScreenHeight,
	}
}
