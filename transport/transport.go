// Package transport provides the byte-oriented serial channel used to talk
// to the ecgc cartridge debugger.
//
// The transport is deliberately dumb: blocking send, blocking
// receive-exact-N and receive-until-delimiter, a configurable read timeout
// and nothing else. Every failure propagates; retrying is the caller's
// business (and in practice nothing retries, the protocol above treats any
// transport failure as fatal to the in-progress operation).
package transport

import "fmt"

// Transport is the byte channel the protocol layer runs on.
//
// Implementations must be full-duplex and blocking. The production
// implementation is SerialTransport; tests substitute in-memory fakes.
type Transport interface {
	// Send blocks until all bytes are written.
	Send(data []byte) error

	// ReceiveExact blocks until exactly n bytes arrive, or fails with a
	// *TransportError if the read timeout expires first.
	ReceiveExact(n int) ([]byte, error)

	// ReceiveUntil blocks until delim is seen, returning everything up to
	// and including the delimiter, or fails with a *TransportError if the
	// read timeout expires first.
	ReceiveUntil(delim byte) ([]byte, error)

	// Close releases the underlying channel.
	Close() error
}

// ConnectionError indicates the serial port could not be opened or
// configured.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot open serial port %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError indicates a timeout or short read/write on an open port.
type TransportError struct {
	// Op names the primitive that failed ("send", "receive").
	Op string

	// Got and Want hold the byte counts involved for short reads; both are
	// zero when not applicable.
	Got  int
	Want int

	Err error
}

func (e *TransportError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("serial %s returned %d bytes, expected %d", e.Op, e.Got, e.Want)
	}
	if e.Err != nil {
		return fmt.Sprintf("serial %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("serial %s failed", e.Op)
}

func (e *TransportError) Unwrap() error { return e.Err }
