// Package display queries the size of the primary screen. The logical size
// is what the OS reports after display scaling, the physical size is the
// true pixel count. Calibration uses the ratio of the two when no stored
// calibration exists.
package display

import (
	"errors"
	"fmt"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Resolution holds both sizes of one display.
type Resolution struct {
	Physical Size
	Logical  Size
}

// Validate rejects resolutions that cannot produce a usable scale.
func (r Resolution) Validate() error {
	if r.Physical.Width <= 0 || r.Physical.Height <= 0 {
		return fmt.Errorf("invalid physical size %v", r.Physical)
	}
	if r.Logical.Width <= 0 || r.Logical.Height <= 0 {
		return fmt.Errorf("invalid logical size %v", r.Logical)
	}
	return nil
}

// Metrics is the display-metrics capability.
type Metrics interface {
	Query() (Resolution, error)
}

// Static returns a fixed resolution, or Err if set.
type Static struct {
	Resolution Resolution
	Err        error
}

func (s Static) Query() (Resolution, error) {
	if s.Err != nil {
		return Resolution{}, s.Err
	}
	if err := s.Resolution.Validate(); err != nil {
		return Resolution{}, err
	}
	return s.Resolution, nil
}

// Platform asks the OS: robotgo for the logical size and screenshot for the
// pixel bounds of the display.
type Platform struct {
	Display int
}

func (p Platform) Query() (Resolution, error) {
	if n := screenshot.NumActiveDisplays(); n == 0 {
		return Resolution{}, errors.New("no active displays")
	} else if p.Display < 0 || p.Display >= n {
		return Resolution{}, fmt.Errorf("display %d out of range, %d active", p.Display, n)
	}

	bounds := screenshot.GetDisplayBounds(p.Display)
	width, height := robotgo.GetScreenSize()

	res := Resolution{
		Physical: Size{Width: bounds.Dx(), Height: bounds.Dy()},
		Logical:  Size{Width: width, Height: height},
	}
	if err := res.Validate(); err != nil {
		return Resolution{}, err
	}
	return res, nil
}
