package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecgc-project/ecgc-util/protocol"
)

func TestDiagnosticHint(t *testing.T) {
	t.Run("eflush payload", func(t *testing.T) {
		err := &protocol.ProtocolError{Desc: "set address", Actual: []byte("EFLUSH")}
		assert.Contains(t, DiagnosticHint(err), "wiring")
	})

	t.Run("wrapped eflush payload", func(t *testing.T) {
		inner := &protocol.ProtocolError{Desc: "write data", Actual: []byte("EFLUSH")}
		err := fmt.Errorf("upload failed: %w", inner)
		assert.Contains(t, DiagnosticHint(err), "wiring")
	})

	t.Run("other protocol errors", func(t *testing.T) {
		err := &protocol.ProtocolError{Desc: "set address", Actual: []byte{0x91, 0x00}}
		assert.Empty(t, DiagnosticHint(err))
	})

	t.Run("unrelated errors", func(t *testing.T) {
		assert.Empty(t, DiagnosticHint(errors.New("no such port")))
		assert.Empty(t, DiagnosticHint(nil))
	})
}
