package calibration

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/mouse-macro/internal/display"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

var hiDPI = display.Static{Resolution: display.Resolution{
	Physical: display.Size{Width: 2880, Height: 1800},
	Logical:  display.Size{Width: 1440, Height: 900},
}}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	want := Params{ScaleX: 1.25, ScaleY: 1.5, OffsetX: 10, OffsetY: 20, ScreenWidth: 1280, ScreenHeight: 720}
	require.NoError(t, s.Save(want))
	// Saving twice overwrites.
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, k := range []string{"scale_x", "scale_y", "offset_x", "offset_y", "screen_width", "screen_height"} {
		assert.Contains(t, fields, k)
	}
}

func TestStoreYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	want := Params{ScaleX: 2, ScaleY: 2, OffsetX: 3, OffsetY: 4, ScreenWidth: 1440, ScreenHeight: 900}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreUppercaseExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.YAML")
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	want := Params{ScaleX: 0.5, ScaleY: 0.5, OffsetX: 10, OffsetY: 20, ScreenWidth: 1440, ScreenHeight: 900}
	require.NoError(t, s.Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "scale_x: 0.5")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreMissingFileDetects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calibration.json")
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	got, err := s.Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.ScaleX, 1e-9)
	assert.Equal(t, 1440, got.ScreenWidth)

	// The detected params are persisted.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestStoreMalformedFallsBack(t *testing.T) {
	tests := map[string]string{
		"not json":   "{scale_x: ",
		"empty":      "",
		"zero scale": `{"scale_x": 0, "scale_y": 1}`,
		"bad size":   `{"screen_width": -5}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "calibration.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			s := NewStore(path, hiDPI, display.Size{}, testLogger())

			_, err := s.read()
			assert.ErrorIs(t, err, ErrConfigLoad)

			got, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, 1440, got.ScreenWidth)
		})
	}
}

func TestStorePartialFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"offset_x": 12, "scale_y": 0.5}`), 0o644))
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Params{
		ScaleX:       1,
		ScaleY:       0.5,
		OffsetX:      12,
		ScreenWidth:  DefaultScreenWidth,
		ScreenHeight: DefaultScreenHeight,
	}, got)
}

func TestStorePlatformQueryError(t *testing.T) {
	broken := display.Static{Err: errors.New("no display")}
	path := filepath.Join(t.TempDir(), "calibration.json")

	s := NewStore(path, broken, display.Size{}, testLogger())
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrPlatformQuery)

	s = NewStore(path, broken, display.Size{Width: 1920, Height: 1080}, testLogger())
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	s := NewStore(path, hiDPI, display.Size{}, testLogger())

	assert.Error(t, s.Save(Params{}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
