package pathloss

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameter is wrapped by every rejected configuration call.
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnknownModel     = errors.New("unknown propagation loss model")
)

func invalidParam(name string, value interface{}, constraint string) error {
	return errors.Wrapf(ErrInvalidParameter, "%s=%v: must be %s", name, value, constraint)
}
