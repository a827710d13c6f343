package calibration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/mouse-macro/internal/display"
)

func TestCompute(t *testing.T) {
	p, err := Compute(Point{X: 100, Y: 100}, Point{X: 2020, Y: 1180}, 1920, 1080)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, p.ScaleX, 1e-9)
	assert.InDelta(t, 1.0, p.ScaleY, 1e-9)
	assert.Equal(t, 100.0, p.OffsetX)
	assert.Equal(t, 100.0, p.OffsetY)
	assert.Equal(t, 1920, p.ScreenWidth)
	assert.Equal(t, 1080, p.ScreenHeight)

	x, y := p.Apply(200, 200)
	assert.Equal(t, 100, x)
	assert.Equal(t, 100, y)
}

func TestComputeNarrowSpan(t *testing.T) {
	// 1824 px across a 1920 px reference.
	p, err := Compute(Point{X: 100, Y: 100}, Point{X: 1924, Y: 1180}, 1920, 1080)
	require.NoError(t, err)

	assert.InDelta(t, 0.95, p.ScaleX, 1e-9)
	assert.InDelta(t, 1.0, p.ScaleY, 1e-9)

	x, y := p.Apply(200, 200)
	assert.Equal(t, 105, x) // 100/0.95 = 105.26
	assert.Equal(t, 100, y)
}

func TestComputeScaled(t *testing.T) {
	// A 2x HiDPI span over a 1440x900 logical screen.
	p, err := Compute(Point{X: 0, Y: 0}, Point{X: 2880, Y: 1800}, 1440, 900)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.ScaleX, 1e-9)
	assert.InDelta(t, 2.0, p.ScaleY, 1e-9)

	x, y := p.Apply(1001, 501)
	assert.Equal(t, 501, x) // 500.5 rounds away from zero
	assert.Equal(t, 251, y)
}

func TestComputeDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
	}{
		{name: "equal x", p1: Point{100, 100}, p2: Point{100, 1180}},
		{name: "equal y", p1: Point{100, 100}, p2: Point{1924, 100}},
		{name: "same point", p1: Point{5, 5}, p2: Point{5, 5}},
		{name: "inverted", p1: Point{1924, 1180}, p2: Point{100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.p1, tt.p2, 1920, 1080)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateCalibration))

			var derr *DegenerateCalibrationError
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, tt.p1, derr.First)
			assert.Equal(t, tt.p2, derr.Second)
		})
	}
}

func TestComputeInvalidReference(t *testing.T) {
	_, err := Compute(Point{0, 0}, Point{10, 10}, 0, 1080)
	assert.ErrorIs(t, err, ErrDegenerateCalibration)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	p := Default()
	p.ScaleX = 0
	assert.Error(t, p.Validate())

	p = Default()
	p.ScaleY = -1
	assert.Error(t, p.Validate())

	p = Default()
	p.ScreenHeight = 0
	assert.Error(t, p.Validate())
}

func TestFromResolution(t *testing.T) {
	p := FromResolution(display.Resolution{
		Physical: display.Size{Width: 3840, Height: 2160},
		Logical:  display.Size{Width: 1920, Height: 1080},
	})
	assert.InDelta(t, 0.5, p.ScaleX, 1e-9)
	assert.InDelta(t, 0.5, p.ScaleY, 1e-9)
	assert.Zero(t, p.OffsetX)
	assert.Zero(t, p.OffsetY)
	assert.Equal(t, 1920, p.ScreenWidth)
	assert.Equal(t, 1080, p.ScreenHeight)
}

func TestEngine(t *testing.T) {
	e := NewEngine()
	_, err := e.AddPoint(1, 1, Default())
	assert.ErrorIs(t, err, ErrNotCalibrating)

	require.True(t, e.Begin())
	assert.False(t, e.Begin(), "begin while active is a no-op")
	assert.True(t, e.Active())

	res, err := e.AddPoint(100, 100, Default())
	require.NoError(t, err)
	assert.True(t, res.AwaitingSecond)
	assert.False(t, res.Done)
	assert.Equal(t, 1, e.Pending())

	res, err = e.AddPoint(2020, 1180, Default())
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.InDelta(t, 1.0, res.Params.ScaleX, 1e-9)
	assert.Equal(t, 100.0, res.Params.OffsetY)
	assert.False(t, e.Active())
	assert.Zero(t, e.Pending())
}

func TestEngineBeginClearsPoints(t *testing.T) {
	e := NewEngine()
	require.True(t, e.Begin())
	_, err := e.AddPoint(10, 10, Default())
	require.NoError(t, err)
	e.Cancel()

	require.True(t, e.Begin())
	assert.Zero(t, e.Pending())
}

func TestEngineDegenerateEndsSession(t *testing.T) {
	e := NewEngine()
	require.True(t, e.Begin())
	_, err := e.AddPoint(100, 100, Default())
	require.NoError(t, err)

	res, err := e.AddPoint(100, 1180, Default())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)
	assert.False(t, res.Done)
	assert.False(t, e.Active())
}
