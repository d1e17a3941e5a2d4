// Package spi drives the cartridge's SPI master through the debug core's
// register window.
//
// The SPI master exposes four registers in the cartridge address space:
//
//	CTRL @ 0xA600   control bits
//	FDIV @ 0xA601   clock divider, f_spi = f_clk / (FDIV + 1)
//	CS   @ 0xA602   active-low one-hot chip-select mask
//	DATA @ 0xA603   write shifts a byte out, read returns the byte shifted in
//
// Full duplex is emulated over the half-duplex register port: each outbound
// byte is written to DATA and the byte clocked in during that same exchange
// is read back before the next byte goes out.
package spi

import (
	"fmt"
	"math"

	"github.com/ecgc-project/ecgc-util/protocol"
)

// SPI master register addresses in the cartridge memory map.
const (
	RegCtrl = 0xA600
	RegFdiv = 0xA601
	RegCS   = 0xA602
	RegData = 0xA603
)

// FClk is the SPI master's input clock in Hz.
const FClk = 100_000_000

// defaultCtrl is the CTRL value programmed by Reset.
const defaultCtrl = 0b00000001

// ChipSelect identifies a peripheral on the SPI bus. The value is the
// active-low one-hot mask written to the CS register; exactly one device
// may be selected at a time.
type ChipSelect byte

const (
	SelectFlash ChipSelect = 0b11111110
	SelectRTC   ChipSelect = 0b11111101
	SelectSD    ChipSelect = 0b11111011
	SelectNone  ChipSelect = 0b11111111
)

func (cs ChipSelect) String() string {
	switch cs {
	case SelectFlash:
		return "FLASH"
	case SelectRTC:
		return "RTC"
	case SelectSD:
		return "SD"
	case SelectNone:
		return "NONE"
	}
	return fmt.Sprintf("ChipSelect(%08b)", byte(cs))
}

// Core is the slice of the debug core client the bridge needs. It is
// satisfied by *debugger.Debugger.
type Core interface {
	SetAddress(addr uint16) error
	DisableAutoIncrement() error
	Write(data []byte) error
	WriteByte(b byte) error
	Read(length int) ([]byte, error)
}

// Bridge multiplexes the SPI bus over debug core register accesses.
// It never talks to the transport directly.
type Bridge struct {
	core   Core
	logger protocol.Logger
}

// New returns a Bridge on top of an enabled debug core. logger may be nil.
func New(core Core, logger protocol.Logger) *Bridge {
	if core == nil {
		panic("core cannot be nil")
	}
	return &Bridge{core: core, logger: logger}
}

// Reset programs the default CTRL value and deselects all peripherals,
// bringing the SPI master into a defined configuration.
func (b *Bridge) Reset() error {
	if err := b.writeReg(RegCtrl, defaultCtrl); err != nil {
		return err
	}
	return b.Deselect()
}

// SetSpeed programs the clock divider for the frequency closest to freq and
// returns the actual achievable frequency f_clk / (fdiv + 1).
func (b *Bridge) SetSpeed(freq float64) (float64, error) {
	fdiv := calculateFdiv(freq)
	actual := FClk / (float64(fdiv) + 1)

	if err := b.writeReg(RegFdiv, fdiv); err != nil {
		return 0, err
	}

	if b.logger != nil {
		b.logger.Info("spi: set frequency", "requested_hz", freq, "actual_hz", actual)
	}
	return actual, nil
}

// Select asserts the chip select of target, deasserting all others.
func (b *Bridge) Select(target ChipSelect) error {
	if err := b.writeReg(RegCS, byte(target)); err != nil {
		return err
	}
	if b.logger != nil {
		b.logger.Info("spi: selected", "target", target.String())
	}
	return nil
}

// Deselect deasserts all chip selects.
func (b *Bridge) Deselect() error {
	return b.Select(SelectNone)
}

// WriteRead shifts data out over the SPI bus one byte at a time and returns
// the bytes shifted in, in the same order. The read back of each byte must
// complete before the next byte is written, so the exchange stays aligned.
func (b *Bridge) WriteRead(data []byte) ([]byte, error) {
	if err := b.addressReg(RegData); err != nil {
		return nil, err
	}

	read := make([]byte, 0, len(data))
	for _, out := range data {
		if err := b.core.WriteByte(out); err != nil {
			return nil, err
		}
		in, err := b.core.Read(1)
		if err != nil {
			return nil, err
		}
		read = append(read, in[0])
	}

	if b.logger != nil {
		b.logger.Info("spi: wrote", "bytes", protocol.FormatBytes(data))
		b.logger.Info("spi: read", "bytes", protocol.FormatBytes(read))
	}
	return read, nil
}

// Write shifts data out over the SPI bus, discarding whatever is shifted
// in. Used for fire-and-forget bytes such as dummy clocks.
func (b *Bridge) Write(data []byte) error {
	if err := b.addressReg(RegData); err != nil {
		return err
	}
	if err := b.core.Write(data); err != nil {
		return err
	}

	if b.logger != nil {
		b.logger.Info("spi: wrote", "bytes", protocol.FormatBytes(data))
	}
	return nil
}

// addressReg points the debug core at a fixed SPI register. Auto-increment
// is switched off first so multi-byte writes keep hitting the same port.
func (b *Bridge) addressReg(addr uint16) error {
	if err := b.core.DisableAutoIncrement(); err != nil {
		return err
	}
	return b.core.SetAddress(addr)
}

func (b *Bridge) writeReg(addr uint16, value byte) error {
	if err := b.addressReg(addr); err != nil {
		return err
	}
	return b.core.WriteByte(value)
}

// calculateFdiv picks the divider whose output is closest to freq, clamped
// to the 8-bit register range.
func calculateFdiv(freq float64) byte {
	fdiv := math.Round(FClk/freq - 1)
	if fdiv < 0 {
		return 0
	}
	if fdiv > 0xFF {
		return 0xFF
	}
	return byte(fdiv)
}
