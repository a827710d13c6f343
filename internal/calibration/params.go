package calibration

import (
	"fmt"
	"math"

	"github.com/vedantwpatil/mouse-macro/internal/display"
)

const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// Params is the linear transform applied to recorded coordinates on replay,
// together with the reference screen size it was derived against.
type Params struct {
	ScaleX       float64 `mapstructure:"scale_x" json:"scale_x" yaml:"scale_x"`
	ScaleY       float64 `mapstructure:"scale_y" json:"scale_y" yaml:"scale_y"`
	OffsetX      float64 `mapstructure:"offset_x" json:"offset_x" yaml:"offset_x"`
	OffsetY      float64 `mapstructure:"offset_y" json:"offset_y" yaml:"offset_y"`
	ScreenWidth  int     `mapstructure:"screen_width" json:"screen_width" yaml:"screen_width"`
	ScreenHeight int     `mapstructure:"screen_height" json:"screen_height" yaml:"screen_height"`
}

// Default is the identity transform on a 1920x1080 screen.
func Default() Params {
	return Params{
		ScaleX:       1,
		ScaleY:       1,
		ScreenWidth:  DefaultScreenWidth,
		ScreenHeight: DefaultScreenHeight,
	}
}

// FromResolution derives the transform for an uncalibrated screen from the
// display's logical and physical sizes.
func FromResolution(res display.Resolution) Params {
	return Params{
		ScaleX:       float64(res.Logical.Width) / float64(res.Physical.Width),
		ScaleY:       float64(res.Logical.Height) / float64(res.Physical.Height),
		ScreenWidth:  res.Logical.Width,
		ScreenHeight: res.Logical.Height,
	}
}

// Validate rejects params that would divide by zero or flip the axes on
// replay.
func (p Params) Validate() error {
	if !(p.ScaleX > 0) || !(p.ScaleY > 0) || math.IsInf(p.ScaleX, 0) || math.IsInf(p.ScaleY, 0) {
		return fmt.Errorf("scale must be positive, got (%v, %v)", p.ScaleX, p.ScaleY)
	}
	if math.IsNaN(p.OffsetX) || math.IsNaN(p.OffsetY) {
		return fmt.Errorf("offset must be a number, got (%v, %v)", p.OffsetX, p.OffsetY)
	}
	if p.ScreenWidth <= 0 || p.ScreenHeight <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", p.ScreenWidth, p.ScreenHeight)
	}
	return nil
}

// Apply maps a recorded position to the replay position, rounded to the
// nearest pixel.
func (p Params) Apply(x, y int) (int, int) {
	rx := (float64(x) - p.OffsetX) / p.ScaleX
	ry := (float64(y) - p.OffsetY) / p.ScaleY
	return int(math.Round(rx)), int(math.Round(ry))
}

func (p Params) String() string {
	return fmt.Sprintf("scale (%g, %g), offset (%g, %g), screen %dx%d",
		p.ScaleX, p.ScaleY, p.OffsetX, p.OffsetY, p.ScreenWidth, p.ScreenHeight)
}

// Point is a raw pointer sample used as a calibration reference.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Compute derives params from the top-left and bottom-right reference points
// clicked on a screen of the given reference size. The scale is the clicked
// span divided by the reference size.
func Compute(topLeft, bottomRight Point, refWidth, refHeight int) (Params, error) {
	if refWidth <= 0 || refHeight <= 0 {
		return Params{}, fmt.Errorf("%w: reference size %dx%d", ErrDegenerateCalibration, refWidth, refHeight)
	}
	dx := bottomRight.X - topLeft.X
	dy := bottomRight.Y - topLeft.Y
	if dx <= 0 || dy <= 0 {
		return Params{}, &DegenerateCalibrationError{First: topLeft, Second: bottomRight}
	}

	return Params{
		ScaleX:       float64(dx) / float64(refWidth),
		ScaleY:       float64(dy) / float64(refHeight),
		OffsetX:      float64(topLeft.X),
		OffsetY:      float64(topLeft.Y),
		ScreenWidth:  refWidth,
		ScreenHeight: refHeight,
	}, nil
}
