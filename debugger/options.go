package debugger

import (
	"time"

	"github.com/ecgc-project/ecgc-util/protocol"
)

// Config holds the debugger configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger protocol.Logger

	// ProgressCallback is called during multi-burst transfers (optional)
	ProgressCallback ProgressCallback

	// ByteDelay paces outbound packets one byte at a time. Needed when the
	// cartridge's SPI clock is programmed slow enough that its data
	// register drains slower than the UART fills it. Zero disables pacing.
	ByteDelay time.Duration
}

// Option is a functional option for configuring the Debugger.
type Option func(*Config)

// WithLogger sets a logger for debugger operations.
//
// Example:
//
//	dbg, err := debugger.New(t, debugger.WithLogger(myLogger))
func WithLogger(logger protocol.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithProgressCallback sets a callback to track multi-burst transfers.
//
// Example:
//
//	dbg, err := debugger.New(t,
//	    debugger.WithProgressCallback(func(p debugger.Progress) {
//	        fmt.Printf("%d/%d bytes\n", p.BytesDone, p.BytesTotal)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithByteDelay enables per-byte pacing of outbound packets.
func WithByteDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ByteDelay = d
		}
	}
}
