package sd

import (
	"fmt"
	"strings"
)

// CommandError indicates the card answered a command with an error bit set,
// or produced no valid token at all. It carries the command, its argument,
// every byte read during the exchange and the decoded response when one was
// produced.
type CommandError struct {
	Cmd uint8
	Arg uint32

	// Raw holds all bytes read while polling for and extending the
	// response.
	Raw []byte

	// Response is the decoded response, or nil when no valid token was
	// observed.
	Response *Response
}

func (e *CommandError) Error() string {
	parts := make([]string, len(e.Raw))
	for i, b := range e.Raw {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return fmt.Sprintf("error responding to CMD%d with arg 0x%08X: received %s",
		e.Cmd, e.Arg, strings.Join(parts, " "))
}
