package protocol

import (
	"time"

	"github.com/ecgc-project/ecgc-util/transport"
)

// Logger is an optional logging interface accepted by the protocol and
// session layers. This allows integration with any logging framework; a nil
// logger is silent.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Codec drives request/response exchanges over a Transport: it transmits a
// command packet, reads exactly the expected number of response bytes and
// matches them against the expected pattern.
//
// The protocol is strictly half-duplex; Codec never pipelines and never
// retries. Any mismatch or transport failure is fatal to the exchange and
// propagates unchanged.
type Codec struct {
	transport transport.Transport
	logger    Logger

	// byteDelay paces transmission one byte at a time. Zero sends packets
	// whole.
	byteDelay time.Duration
}

// NewCodec wraps a transport. logger may be nil.
func NewCodec(t transport.Transport, logger Logger) *Codec {
	return &Codec{transport: t, logger: logger}
}

// SetByteDelay enables per-byte pacing of outbound packets. The cartridge
// firmware can drop bytes when the SPI clock divider is programmed very
// high; pacing the UART side keeps the write path slower than the SPI
// drain.
func (c *Codec) SetByteDelay(d time.Duration) {
	c.byteDelay = d
}

// Exchange transmits packet, reads exactly want.Length() response bytes and
// matches them against want. It returns the captured pattern bytes, or a
// *ProtocolError carrying expected pattern, actual bytes and desc on
// mismatch.
func (c *Codec) Exchange(packet []byte, want *Pattern, desc string) ([]byte, error) {
	if err := c.send(packet, desc); err != nil {
		return nil, err
	}
	return c.matchResponse(want, desc)
}

// Receive reads exactly n raw bytes from the transport. Used for burst
// payloads that follow an acknowledged read command.
func (c *Codec) Receive(n int) ([]byte, error) {
	return c.transport.ReceiveExact(n)
}

func (c *Codec) send(packet []byte, desc string) error {
	if c.byteDelay > 0 {
		for _, b := range packet {
			if err := c.transport.Send([]byte{b}); err != nil {
				return err
			}
			time.Sleep(c.byteDelay)
		}
	} else if err := c.transport.Send(packet); err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Debug("sent packet", "operation", desc, "bytes", FormatBytes(packet))
	}
	return nil
}

func (c *Codec) matchResponse(want *Pattern, desc string) ([]byte, error) {
	response, err := c.transport.ReceiveExact(want.Length())
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("matching response", "operation", desc,
			"expected", want.String(), "received", FormatBytes(response))
	}

	captured, ok := want.Match(response)
	if !ok {
		return nil, &ProtocolError{Desc: desc, Expected: want, Actual: response}
	}

	return captured, nil
}
