package debugger

import "fmt"

// StateError indicates an operation was invoked while the core was in the
// wrong enablement state. It is detected locally, before any wire I/O.
type StateError struct {
	// Op names the rejected operation.
	Op string

	// Enabled is the state the core was in at the time of the call.
	Enabled bool
}

func (e *StateError) Error() string {
	if e.Enabled {
		return "debug core is already enabled"
	}
	return fmt.Sprintf("debug core must be enabled for %s operation", e.Op)
}
