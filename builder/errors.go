package builder

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a caller input rejected before any remote
// side effect occurs.
var ErrInvalidArgument = errors.New("builder: invalid argument")

// BuildError reports a failed remote build phase. The underlying cause is
// surfaced verbatim through Unwrap so callers can distinguish storage
// failures from job-runner failures.
type BuildError struct {
	Phase string
	Image string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s failed during %s: %v", e.Image, e.Phase, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
