package calibration

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigLoad indicates the persisted calibration could not be used.
	ErrConfigLoad = errors.New("calibration config unusable")

	// ErrDegenerateCalibration indicates the reference points do not span a
	// positive width and height.
	ErrDegenerateCalibration = errors.New("degenerate calibration")

	// ErrPlatformQuery indicates the display metrics could not be queried.
	ErrPlatformQuery = errors.New("display metrics query failed")
)

// ConfigLoadError reports a missing, unreadable or malformed calibration file.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load calibration from %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

func (e *ConfigLoadError) Is(target error) bool { return target == ErrConfigLoad }

// DegenerateCalibrationError reports a pair of reference points whose span
// would produce a zero or negative scale.
type DegenerateCalibrationError struct {
	First, Second Point
}

func (e *DegenerateCalibrationError) Error() string {
	return fmt.Sprintf("degenerate calibration: points %v and %v must span a positive width and height", e.First, e.Second)
}

func (e *DegenerateCalibrationError) Is(target error) bool {
	return target == ErrDegenerateCalibration
}

// PlatformQueryError wraps a failure of the display metrics query.
type PlatformQueryError struct {
	Err error
}

func (e *PlatformQueryError) Error() string {
	return fmt.Sprintf("query display metrics: %v", e.Err)
}

func (e *PlatformQueryError) Unwrap() error { return e.Err }

func (e *PlatformQueryError) Is(target error) bool { return target == ErrPlatformQuery }
