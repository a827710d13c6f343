package replay

import (
	"github.com/go-vgo/robotgo"
	pkgerrors "github.com/pkg/errors"

	"github.com/vedantwpatil/mouse-macro/internal/tracking"
)

// RobotInjector drives the system pointer through robotgo.
type RobotInjector struct{}

func (RobotInjector) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (RobotInjector) Press(b tracking.Button) error {
	if err := robotgo.Toggle(b.String(), "down"); err != nil {
		return pkgerrors.Wrapf(err, "failed to press %s button", b)
	}
	return nil
}

func (RobotInjector) Release(b tracking.Button) error {
	if err := robotgo.Toggle(b.String(), "up"); err != nil {
		return pkgerrors.Wrapf(err, "failed to release %s button", b)
	}
	return nil
}
