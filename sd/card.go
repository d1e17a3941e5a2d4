package sd

import (
	"encoding/binary"

	"github.com/ecgc-project/ecgc-util/protocol"
	"github.com/ecgc-project/ecgc-util/spi"
)

// maxTokenPolls bounds the number of dummy exchanges while waiting for the
// R1 token. Cards answer within a few byte times; 8 is generous.
const maxTokenPolls = 8

// Bus is the slice of the SPI bridge the card engine needs. It is
// satisfied by *spi.Bridge.
type Bus interface {
	SetSpeed(freq float64) (float64, error)
	Select(target spi.ChipSelect) error
	Deselect() error
	WriteRead(data []byte) ([]byte, error)
	Write(data []byte) error
}

// Card sends SPI-mode commands to the SD card behind the cartridge's SPI
// bridge. It never bypasses the bridge.
type Card struct {
	bus    Bus
	logger protocol.Logger
}

// New returns a Card on the given bus. logger may be nil.
func New(bus Bus, logger protocol.Logger) *Card {
	if bus == nil {
		panic("bus cannot be nil")
	}
	return &Card{bus: bus, logger: logger}
}

// PowerOn runs the SPI-mode wake sequence: clock at roughly 400 kHz and at
// least 74 clocks with MOSI held high while the card is deselected.
func (c *Card) PowerOn() error {
	if _, err := c.bus.SetSpeed(400_000); err != nil {
		return err
	}

	dummy := make([]byte, 10)
	for i := range dummy {
		dummy[i] = 0xFF
	}
	return c.bus.Write(dummy)
}

// CommandFrame builds the 6-byte frame for cmd and arg. The CRC is computed
// fresh from the five preceding bytes.
func CommandFrame(cmd uint8, arg uint32) []byte {
	frame := make([]byte, 6)
	frame[0] = 0b01000000 | cmd
	binary.BigEndian.PutUint32(frame[1:5], arg)
	frame[5] = CRC7(frame[:5])<<1 | 1
	return frame
}

// SendCmd sends the command with the given index and argument and decodes
// the card's reply into the shape the command maps to.
//
// The SD chip select is released when the exchange completes, unless
// keepSelected is true; a failed exchange always releases it. Two dummy
// bytes are clocked out after every exchange regardless of outcome.
func (c *Card) SendCmd(cmd uint8, arg uint32, keepSelected bool) (*Response, error) {
	if cmd > 0x3F {
		return nil, &protocol.RangeError{What: "cmd", Value: int64(cmd), Min: 0, Max: 0x3F}
	}

	kind, err := cmdExpectedResponse(cmd)
	if err != nil {
		return nil, err
	}

	return c.exchange(cmd, arg, keepSelected, kind)
}

// SendACmd sends an application command: CMD55 first, then the command
// itself with the application response-shape table. keepSelected applies
// only to the second exchange.
func (c *Card) SendACmd(acmd uint8, arg uint32, keepSelected bool) (*Response, error) {
	if acmd > 0x3F {
		return nil, &protocol.RangeError{What: "acmd", Value: int64(acmd), Min: 0, Max: 0x3F}
	}

	// Resolve the shape before touching the wire so an unknown index costs
	// no traffic.
	kind, err := acmdExpectedResponse(acmd)
	if err != nil {
		return nil, err
	}

	preKind, err := cmdExpectedResponse(55)
	if err != nil {
		return nil, err
	}
	if _, err := c.exchange(55, 0, false, preKind); err != nil {
		return nil, err
	}

	return c.exchange(acmd, arg, keepSelected, kind)
}

func (c *Card) exchange(cmd uint8, arg uint32, keepSelected bool, kind ResponseKind) (resp *Response, err error) {
	frame := CommandFrame(cmd, arg)

	if err = c.bus.Select(spi.SelectSD); err != nil {
		return nil, err
	}

	defer func() {
		// Flush the exchange with two dummy bytes, then release the card.
		// A failed exchange never leaves it selected.
		if ferr := c.bus.Write([]byte{0xFF, 0xFF}); ferr != nil && err == nil {
			resp, err = nil, ferr
		}
		if err != nil || !keepSelected {
			if derr := c.bus.Deselect(); derr != nil && err == nil {
				resp, err = nil, derr
			}
		}
	}()

	if err = c.bus.Write(frame); err != nil {
		return nil, err
	}

	raw, token, err := c.pollR1(cmd, arg)
	if err != nil {
		return nil, err
	}

	r1, derr := decodeR1(token)
	if derr != nil {
		return nil, &CommandError{Cmd: cmd, Arg: arg, Raw: raw}
	}
	if r1.ErrorOccurred() {
		return nil, &CommandError{Cmd: cmd, Arg: arg, Raw: raw,
			Response: &Response{Kind: KindR1, R1: r1}}
	}

	resp, raw, err = c.extend(cmd, arg, kind, r1, raw)
	if err != nil {
		return nil, err
	}

	if resp.ErrorOccurred() {
		return nil, &CommandError{Cmd: cmd, Arg: arg, Raw: raw, Response: resp}
	}

	if c.logger != nil {
		c.logger.Info("sd: command complete", "cmd", cmd, "arg", arg,
			"kind", kind.String(), "raw", protocol.FormatBytes(raw))
	}
	return resp, nil
}

// pollR1 clocks out dummy bytes one at a time until a byte with its MSB
// clear appears. All bytes read are returned for error reporting.
func (c *Card) pollR1(cmd uint8, arg uint32) ([]byte, byte, error) {
	var raw []byte
	for i := 0; i < maxTokenPolls; i++ {
		in, err := c.bus.WriteRead([]byte{0xFF})
		if err != nil {
			return nil, 0, err
		}
		raw = append(raw, in[0])
		if in[0]&0x80 == 0 {
			return raw, in[0], nil
		}
	}
	return nil, 0, &CommandError{Cmd: cmd, Arg: arg, Raw: raw}
}

// extend reads the shape-specific bytes and builds the final response.
func (c *Card) extend(cmd uint8, arg uint32, kind ResponseKind, r1 R1, raw []byte) (*Response, []byte, error) {
	resp := &Response{Kind: kind, R1: r1}

	extraLen := 0
	switch kind {
	case KindR1:
		return resp, raw, nil
	case KindR1b, KindR2:
		extraLen = 1
	case KindR3, KindR7:
		extraLen = 4
	}

	dummy := make([]byte, extraLen)
	for i := range dummy {
		dummy[i] = 0xFF
	}
	extra, err := c.bus.WriteRead(dummy)
	if err != nil {
		return nil, raw, err
	}
	raw = append(raw, extra...)

	switch kind {
	case KindR1b:
		resp.Busy = extra[0] == 0
	case KindR2:
		status := decodeR2(extra[0])
		resp.Status = &status
	case KindR3:
		ocr, err := decodeR3(extra)
		if err != nil {
			return nil, raw, err
		}
		resp.OCR = &ocr
	case KindR7:
		ifcond, err := decodeR7(extra)
		if err != nil {
			return nil, raw, err
		}
		resp.IfCond = &ifcond
	}

	return resp, raw, nil
}
