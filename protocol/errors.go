package protocol

import "fmt"

// ProtocolError indicates a response did not match the expected pattern.
// It carries the expected pattern, the bytes actually received and a
// human-readable description of the operation in flight.
type ProtocolError struct {
	// Desc names the operation whose response mismatched.
	Desc string

	// Expected is the pattern the response was matched against.
	Expected *Pattern

	// Actual holds the bytes actually received.
	Actual []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected debugger response during %s: expected \"%s\", got \"%s\"",
		e.Desc, e.Expected, FormatBytes(e.Actual))
}

// RangeError indicates an argument outside the protocol's representable
// range, detected locally before any wire I/O.
type RangeError struct {
	// What names the offending argument.
	What string

	Value int64
	Min   int64

	// Max is the inclusive upper bound; a Max below Min means the argument
	// has no upper bound.
	Max int64
}

func (e *RangeError) Error() string {
	if e.Max < e.Min {
		return fmt.Sprintf("%s must be at least %d, got %d", e.What, e.Min, e.Value)
	}
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.What, e.Min, e.Max, e.Value)
}
