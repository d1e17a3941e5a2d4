package transport

import (
	"time"

	"go.bug.st/serial"
)

// Serial line parameters dictated by the cartridge's uart_debug core.
const (
	// BaudRate is the fixed line rate of the debug core.
	BaudRate = 115200

	// DefaultReadTimeout bounds every blocking receive. 200ms is enough
	// headroom for the longest burst echo at 115200 baud.
	DefaultReadTimeout = 200 * time.Millisecond
)

// serialPort is the subset of go.bug.st/serial.Port the transport needs.
// Narrowed so tests can substitute an in-memory port.
type serialPort interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	Close() error
}

// SerialTransport is the production Transport backed by a serial port
// configured as 115200 8N1.
//
// A SerialTransport is exclusively owned by one debugger session for its
// entire lifetime; it is not safe for concurrent use.
type SerialTransport struct {
	port    serialPort
	timeout time.Duration
}

// Open opens and configures the serial port at path.
// Returns a *ConnectionError if the port cannot be opened or configured.
func Open(path string, timeout time.Duration) (*SerialTransport, error) {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, &ConnectionError{Port: path, Err: err}
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, &ConnectionError{Port: path, Err: err}
	}

	// Drop anything a previous session left in the receive buffer.
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, &ConnectionError{Port: path, Err: err}
	}

	return &SerialTransport{port: port, timeout: timeout}, nil
}

// Send blocks until all bytes are written to the port.
func (t *SerialTransport) Send(data []byte) error {
	for len(data) > 0 {
		n, err := t.port.Write(data)
		if err != nil {
			return &TransportError{Op: "send", Err: err}
		}
		data = data[n:]
	}
	return nil
}

// ReceiveExact blocks until exactly n bytes arrive.
//
// go.bug.st/serial reports a read timeout as a zero-length read; that, or
// any short final count, surfaces as a *TransportError carrying the byte
// counts.
func (t *SerialTransport) ReceiveExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0

	for got < n {
		r, err := t.port.Read(buf[got:])
		if err != nil {
			return nil, &TransportError{Op: "receive", Got: got, Want: n, Err: err}
		}
		if r == 0 {
			// Timeout with no further data.
			return nil, &TransportError{Op: "receive", Got: got, Want: n}
		}
		got += r
	}

	return buf, nil
}

// ReceiveUntil reads until delim is seen, returning everything up to and
// including the delimiter. Fails with a *TransportError if the timeout
// expires with no delimiter.
func (t *SerialTransport) ReceiveUntil(delim byte) ([]byte, error) {
	var out []byte
	one := make([]byte, 1)

	for {
		r, err := t.port.Read(one)
		if err != nil {
			return nil, &TransportError{Op: "receive", Got: len(out), Err: err}
		}
		if r == 0 {
			return nil, &TransportError{Op: "receive", Got: len(out)}
		}
		out = append(out, one[0])
		if one[0] == delim {
			return out, nil
		}
	}
}

// Close releases the serial port.
func (t *SerialTransport) Close() error {
	return t.port.Close()
}
