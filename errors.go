package polyline

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned, wrapped with a reason, when construction
// parameters are rejected. Test for it with errors.Is.
var ErrInvalidArgument = errors.New("polyline: invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
