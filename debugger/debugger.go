package debugger

import (
	"github.com/ecgc-project/ecgc-util/protocol"
	"github.com/ecgc-project/ecgc-util/transport"
)

// Debugger is the stateful client of the cartridge's uart_debug core.
//
// It exclusively owns its Transport from construction until Close. See the
// package documentation for the state machine and concurrency rules.
type Debugger struct {
	transport transport.Transport
	codec     *protocol.Codec
	config    Config
	enabled   bool
}

// New adopts a transport and brings the core into a defined configuration:
// it flushes any partially received packet, clears the configuration
// register (core disabled, auto-increment disabled) and zeroes the address
// register. The returned Debugger is in the Disabled state.
func New(t transport.Transport, opts ...Option) (*Debugger, error) {
	if t == nil {
		panic("transport cannot be nil")
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Debugger{
		transport: t,
		codec:     protocol.NewCodec(t, cfg.Logger),
		config:    cfg,
	}
	d.codec.SetByteDelay(cfg.ByteDelay)

	// Flush any ongoing operation so the exchanges below start at a packet
	// boundary.
	pkt, want := protocol.FlushPacket()
	if _, err := d.codec.Exchange(pkt, want, "initial flush"); err != nil {
		return nil, err
	}

	// Clear the configuration register. This also disables the core.
	if err := d.configRegWrite(0); err != nil {
		return nil, err
	}

	if err := d.setAddress(0); err != nil {
		return nil, err
	}

	return d, nil
}

// IsEnabled reports whether the core is enabled.
func (d *Debugger) IsEnabled() bool {
	return d.enabled
}

// EnableCore enables the cartridge's debug core.
// Fails with a *StateError if the core is already enabled.
func (d *Debugger) EnableCore() error {
	if d.enabled {
		return &StateError{Op: "core enable", Enabled: true}
	}

	val, err := d.configRegRead()
	if err != nil {
		return err
	}
	if err := d.configRegWrite(val | protocol.ConfigDebugEnable); err != nil {
		return err
	}

	d.enabled = true
	return nil
}

// DisableCore disables the cartridge's debug core.
// Fails with a *StateError if the core is already disabled.
func (d *Debugger) DisableCore() error {
	if !d.enabled {
		return &StateError{Op: "core disable"}
	}

	val, err := d.configRegRead()
	if err != nil {
		return err
	}
	if err := d.configRegWrite(val &^ protocol.ConfigDebugEnable); err != nil {
		return err
	}

	d.enabled = false
	return nil
}

// Session runs fn with the core enabled and guarantees a DisableCore on
// every exit path. The disable error is reported only when fn itself
// succeeded.
func (d *Debugger) Session(fn func() error) error {
	if err := d.EnableCore(); err != nil {
		return err
	}

	fnErr := fn()

	if err := d.DisableCore(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// SetAddress sets the core's 16-bit address register.
// Requires the Enabled state.
func (d *Debugger) SetAddress(addr uint16) error {
	if !d.enabled {
		return &StateError{Op: "set address"}
	}
	return d.setAddress(addr)
}

// SetAutoIncrement enables or disables the address auto-increment feature.
// Requires the Enabled state.
func (d *Debugger) SetAutoIncrement(enable bool) error {
	if !d.enabled {
		return &StateError{Op: "set auto increment"}
	}
	return d.setAutoIncrement(enable)
}

// EnableAutoIncrement enables the address auto-increment feature.
// Requires the Enabled state.
func (d *Debugger) EnableAutoIncrement() error {
	if !d.enabled {
		return &StateError{Op: "enable auto increment"}
	}
	return d.setAutoIncrement(true)
}

// DisableAutoIncrement disables the address auto-increment feature.
// Requires the Enabled state.
func (d *Debugger) DisableAutoIncrement() error {
	if !d.enabled {
		return &StateError{Op: "disable auto increment"}
	}
	return d.setAutoIncrement(false)
}

// Write writes data to the cartridge at the current address, split into
// bursts of at most protocol.MaxBurstSize bytes. Each burst's
// acknowledgment echoes the full payload and is verified before the next
// burst goes out. Requires the Enabled state.
//
// With auto-increment enabled the device's address register advances by one
// per byte written.
func (d *Debugger) Write(data []byte) error {
	if !d.enabled {
		return &StateError{Op: "write"}
	}
	return d.write(data)
}

// WriteByte writes a single byte to the cartridge at the current address.
// Requires the Enabled state.
func (d *Debugger) WriteByte(b byte) error {
	if !d.enabled {
		return &StateError{Op: "write"}
	}
	return d.write([]byte{b})
}

// Read reads length bytes from the cartridge starting at the current
// address, split into bursts of at most protocol.MaxBurstSize bytes.
// length must be at least 1. Requires the Enabled state.
//
// With auto-increment enabled the device's address register advances by one
// per byte read.
func (d *Debugger) Read(length int) ([]byte, error) {
	if !d.enabled {
		return nil, &StateError{Op: "read"}
	}
	if length < 1 {
		return nil, &protocol.RangeError{What: "read length", Value: int64(length), Min: 1}
	}

	entire := make([]byte, 0, length)
	for remaining := length; remaining > 0; {
		burstLen := remaining
		if burstLen > protocol.MaxBurstSize {
			burstLen = protocol.MaxBurstSize
		}

		pkt, want, err := protocol.ReadBurstPacket(burstLen)
		if err != nil {
			return nil, err
		}

		// First the read command is acknowledged, then the payload follows.
		if _, err := d.codec.Exchange(pkt, want, "read command"); err != nil {
			return nil, err
		}

		payload, err := d.codec.Receive(burstLen)
		if err != nil {
			return nil, err
		}

		entire = append(entire, payload...)
		remaining -= burstLen
		d.reportProgress(Progress{Op: "read", BytesDone: len(entire), BytesTotal: length})
	}

	return entire, nil
}

// Close releases the underlying transport. The core's enablement state is
// left as is; use Session to guarantee a disable.
func (d *Debugger) Close() error {
	return d.transport.Close()
}

func (d *Debugger) setAddress(addr uint16) error {
	pkt, want := protocol.SetAddressPacket(addr)
	_, err := d.codec.Exchange(pkt, want, "set address")
	return err
}

func (d *Debugger) setAutoIncrement(enable bool) error {
	val, err := d.configRegRead()
	if err != nil {
		return err
	}

	if enable {
		val |= protocol.ConfigAutoIncrement
	} else {
		val &^= protocol.ConfigAutoIncrement
	}
	return d.configRegWrite(val)
}

func (d *Debugger) write(data []byte) error {
	bursts, err := protocol.Scatter(data, protocol.MaxBurstSize)
	if err != nil {
		return err
	}

	done := 0
	for _, burst := range bursts {
		pkt, want, err := protocol.WriteBurstPacket(burst)
		if err != nil {
			return err
		}
		if _, err := d.codec.Exchange(pkt, want, "write data"); err != nil {
			return err
		}

		done += len(burst)
		d.reportProgress(Progress{Op: "write", BytesDone: done, BytesTotal: len(data)})
	}

	return nil
}

func (d *Debugger) configRegRead() (byte, error) {
	pkt, want := protocol.ConfigReadPacket()
	captured, err := d.codec.Exchange(pkt, want, "config register read")
	if err != nil {
		return 0, err
	}
	return captured[0], nil
}

func (d *Debugger) configRegWrite(value byte) error {
	pkt, want := protocol.ConfigWritePacket(value)
	_, err := d.codec.Exchange(pkt, want, "config register write")
	return err
}

func (d *Debugger) reportProgress(p Progress) {
	if d.config.ProgressCallback != nil {
		d.config.ProgressCallback(p)
	}
}
