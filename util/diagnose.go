package util

import (
	"errors"

	"github.com/ecgc-project/ecgc-util/protocol"
)

// eflushPayload is the mismatch payload the cartridge produces when the
// debug UART picks up line noise instead of a packet.
const eflushPayload = "EFLUSH"

// DiagnosticHint inspects err and returns an extra human-readable hint when
// the failure has a known physical cause, or "" when it has none.
func DiagnosticHint(err error) string {
	var perr *protocol.ProtocolError
	if errors.As(err, &perr) && string(perr.Actual) == eflushPayload {
		return "this error typically indicates an electrical error, check the debugger wiring"
	}
	return ""
}
