package sd

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// ResponseKind enumerates the SPI-mode response shapes.
type ResponseKind int

const (
	KindR1 ResponseKind = iota + 1
	KindR1b
	KindR2
	KindR3
	KindR7
)

func (k ResponseKind) String() string {
	switch k {
	case KindR1:
		return "R1"
	case KindR1b:
		return "R1b"
	case KindR2:
		return "R2"
	case KindR3:
		return "R3"
	case KindR7:
		return "R7"
	}
	return fmt.Sprintf("ResponseKind(%d)", int(k))
}

// R1 holds the flags of the R1 token every response starts with.
type R1 struct {
	ParameterError     bool
	AddressError       bool
	EraseSequenceError bool
	ComCRCError        bool
	IllegalCommand     bool
	EraseReset         bool
	InIdleState        bool
}

// decodeR1 decodes an R1 token byte. A valid token has its MSB clear.
func decodeR1(b byte) (R1, error) {
	if b&0x80 != 0 {
		return R1{}, fmt.Errorf("invalid R1 token 0x%02X: MSB is not low", b)
	}
	return R1{
		ParameterError:     b&0b01000000 != 0,
		AddressError:       b&0b00100000 != 0,
		EraseSequenceError: b&0b00010000 != 0,
		ComCRCError:        b&0b00001000 != 0,
		IllegalCommand:     b&0b00000100 != 0,
		EraseReset:         b&0b00000010 != 0,
		InIdleState:        b&0b00000001 != 0,
	}, nil
}

// ErrorOccurred reports whether any R1 error flag is set. InIdleState is
// status, not an error.
func (r R1) ErrorOccurred() bool {
	return r.ParameterError || r.AddressError || r.EraseSequenceError ||
		r.ComCRCError || r.IllegalCommand || r.EraseReset
}

// R2Status holds the second status byte of an R2 response.
type R2Status struct {
	OutOfRangeOrCSDOverwrite bool
	EraseParam               bool
	WPViolation              bool
	CardECCFailed            bool
	CCError                  bool
	Error                    bool
	WPEraseSkipOrLockFailed  bool
	CardIsLocked             bool
}

func decodeR2(b byte) R2Status {
	return R2Status{
		OutOfRangeOrCSDOverwrite: b&0b10000000 != 0,
		EraseParam:               b&0b01000000 != 0,
		WPViolation:              b&0b00100000 != 0,
		CardECCFailed:            b&0b00010000 != 0,
		CCError:                  b&0b00001000 != 0,
		Error:                    b&0b00000100 != 0,
		WPEraseSkipOrLockFailed:  b&0b00000010 != 0,
		CardIsLocked:             b&0b00000001 != 0,
	}
}

// ErrorOccurred reports whether any R2 error bit is set. CardIsLocked is
// status, not an error.
func (s R2Status) ErrorOccurred() bool {
	return s.OutOfRangeOrCSDOverwrite || s.EraseParam || s.WPViolation ||
		s.CardECCFailed || s.CCError || s.Error || s.WPEraseSkipOrLockFailed
}

// OCR holds the operating conditions register carried by an R3 response.
type OCR struct {
	// Busy is true while the card's power-up routine has not finished
	// (OCR bit 31 inverted).
	Busy bool

	// CCS is the card capacity status bit, valid once Busy is false.
	CCS bool

	// UHSII reports UHS-II card status.
	UHSII bool

	// CO2T reports an over-2TB capacity card.
	CO2T bool

	// S19A reports that switching to the low signal voltage is accepted.
	S19A bool

	// LowVoltageRange reports dual-voltage card support.
	LowVoltageRange bool

	// VddMin and VddMax bound the supported supply voltage window in
	// millivolts, decoded from the 9-bit VDD bitmap (2.7-3.6 V in 0.1 V
	// steps).
	VddMin int
	VddMax int
}

// vddWindowBase is the lower bound in millivolts of the first VDD bitmap
// bit (OCR bit 15: 2.7-2.8 V).
const vddWindowBase = 2700

func decodeR3(data []byte) (OCR, error) {
	if len(data) != 4 {
		return OCR{}, fmt.Errorf("expected 4 bytes of OCR data, got %d", len(data))
	}

	ocr := binary.BigEndian.Uint32(data)
	window := uint16(ocr >> 15 & 0x1FF)
	if window == 0 {
		return OCR{}, fmt.Errorf("OCR 0x%08X reports no supported VDD voltage range", ocr)
	}

	low := bits.TrailingZeros16(window)
	high := bits.Len16(window) - 1
	vddMin := vddWindowBase + 100*low
	vddMax := vddWindowBase + 100*(high+1)
	if vddMin > vddMax {
		return OCR{}, fmt.Errorf("OCR 0x%08X has an inconsistent VDD voltage range", ocr)
	}

	return OCR{
		Busy:            ocr&(1<<31) == 0,
		CCS:             ocr&(1<<30) != 0,
		UHSII:           ocr&(1<<29) != 0,
		CO2T:            ocr&(1<<27) != 0,
		S19A:            ocr&(1<<24) != 0,
		LowVoltageRange: ocr&(1<<7) != 0,
		VddMin:          vddMin,
		VddMax:          vddMax,
	}, nil
}

// VoltageAccepted enumerates the voltage-accepted field of an R7 response.
type VoltageAccepted int

const (
	// VoltageNotDefined covers the all-zero, reserved and unrecognized
	// bit patterns.
	VoltageNotDefined VoltageAccepted = iota

	// Voltage27To36 is the standard 2.7-3.6 V supply range.
	Voltage27To36

	// VoltageLowRange is the reserved-for-low-voltage range.
	VoltageLowRange
)

func (v VoltageAccepted) String() string {
	switch v {
	case Voltage27To36:
		return "2.7-3.6V"
	case VoltageLowRange:
		return "low voltage range"
	}
	return "not defined"
}

// IfCond holds the interface condition carried by an R7 response.
type IfCond struct {
	// CommandVersion is the 4-bit command version field.
	CommandVersion uint8

	// Voltage is the accepted voltage range.
	Voltage VoltageAccepted

	// CheckPattern is the echo of the check pattern sent in CMD8.
	CheckPattern byte
}

func decodeR7(data []byte) (IfCond, error) {
	if len(data) != 4 {
		return IfCond{}, fmt.Errorf("expected 4 bytes of R7 data, got %d", len(data))
	}

	v := binary.BigEndian.Uint32(data)

	var voltage VoltageAccepted
	switch v >> 8 & 0xF {
	case 0b0001:
		voltage = Voltage27To36
	case 0b0010:
		voltage = VoltageLowRange
	default:
		voltage = VoltageNotDefined
	}

	return IfCond{
		CommandVersion: uint8(v >> 28),
		Voltage:        voltage,
		CheckPattern:   byte(v),
	}, nil
}

// Response is the decoded reply to an SD command: the common R1 flags plus
// at most one shape-specific payload, selected by Kind. A Response is
// constructed once all its bytes are read and is immutable afterwards.
type Response struct {
	Kind ResponseKind
	R1   R1

	// Busy is set for R1b responses while the card holds the line low.
	Busy bool

	// Status is present for R2 responses.
	Status *R2Status

	// OCR is present for R3 responses.
	OCR *OCR

	// IfCond is present for R7 responses.
	IfCond *IfCond
}

// ErrorOccurred reports whether any error-indicating bit of the response
// is set.
func (r *Response) ErrorOccurred() bool {
	if r.R1.ErrorOccurred() {
		return true
	}
	if r.Status != nil && r.Status.ErrorOccurred() {
		return true
	}
	return false
}
