package engine

import (
	"errors"
	"fmt"
)

// SimulationError is returned by Loop.Run when the session's Update reports a
// non-zero code. The code is carried verbatim; its meaning belongs to the
// session implementation.
type SimulationError struct {
	Code  int
	Frame int // Index of the iteration whose update failed
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("engine: simulation step failed with code %d at frame %d", e.Code, e.Frame)
}

// ExitCode maps a Run result to a process exit code: 0 for a clean shutdown,
// the simulation code for a SimulationError and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var simErr *SimulationError
	if errors.As(err, &simErr) {
		return simErr.Code
	}
	return 1
}
