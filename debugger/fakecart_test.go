package debugger

import (
	"github.com/ecgc-project/ecgc-util/protocol"
	"github.com/ecgc-project/ecgc-util/transport"
)

// fakeCart emulates the cartridge side of the wire protocol behind the
// Transport interface: a 64k memory, the address register, the
// configuration register and auto-increment semantics.
type fakeCart struct {
	mem    [0x10000]byte
	addr   uint16
	config byte

	in      []byte // accumulated command bytes not yet parsed
	out     []byte // response bytes not yet read by the host
	flushed bool

	// corruptNextAck flips a bit in the next queued acknowledgment to
	// provoke a pattern mismatch.
	corruptNextAck bool

	closed bool
}

func (f *fakeCart) Send(data []byte) error {
	f.in = append(f.in, data...)
	f.process()
	return nil
}

func (f *fakeCart) ReceiveExact(n int) ([]byte, error) {
	if len(f.out) < n {
		return nil, &transport.TransportError{Op: "receive", Got: len(f.out), Want: n}
	}
	out := f.out[:n]
	f.out = f.out[n:]
	return out, nil
}

func (f *fakeCart) ReceiveUntil(delim byte) ([]byte, error) {
	for i, b := range f.out {
		if b == delim {
			out := f.out[:i+1]
			f.out = f.out[i+1:]
			return out, nil
		}
	}
	return nil, &transport.TransportError{Op: "receive", Got: len(f.out)}
}

func (f *fakeCart) Close() error {
	f.closed = true
	return nil
}

func (f *fakeCart) autoInc() bool {
	return f.config&protocol.ConfigAutoIncrement != 0
}

func (f *fakeCart) respond(data ...byte) {
	if f.corruptNextAck && len(data) > 0 {
		data[0] ^= 0x80
		f.corruptNextAck = false
	}
	f.out = append(f.out, data...)
}

// process consumes complete command packets from the input buffer.
func (f *fakeCart) process() {
	// The first thing a session sends is the flush filler; answer it with
	// don't-care bytes terminated by the idle marker.
	if !f.flushed {
		if len(f.in) < protocol.FlushLength {
			return
		}
		f.in = f.in[protocol.FlushLength:]
		pad := make([]byte, protocol.FlushLength-1)
		f.respond(append(pad, protocol.FlushIdleMarker)...)
		f.flushed = true
	}

	for len(f.in) > 0 {
		switch f.in[0] {
		case protocol.OpConfigRead:
			f.in = f.in[1:]
			f.respond(protocol.OpConfigReadAck, f.config)

		case protocol.OpConfigWrite:
			if len(f.in) < 2 {
				return
			}
			f.config = f.in[1]
			f.in = f.in[2:]
			f.respond(protocol.OpConfigWriteAck, f.config)

		case protocol.OpSetAddress:
			if len(f.in) < 3 {
				return
			}
			lo, hi := f.in[1], f.in[2]
			f.addr = uint16(lo) | uint16(hi)<<8
			f.in = f.in[3:]
			f.respond(protocol.OpSetAddressAck, lo, hi)

		case protocol.OpRead:
			if len(f.in) < 2 {
				return
			}
			coded := f.in[1]
			f.in = f.in[2:]

			payload := make([]byte, int(coded)+1)
			for i := range payload {
				payload[i] = f.mem[f.addr]
				if f.autoInc() {
					f.addr++
				}
			}
			f.respond(protocol.OpReadAck, coded)
			f.respond(payload...)

		case protocol.OpWrite:
			if len(f.in) < 2 {
				return
			}
			coded := f.in[1]
			burstLen := int(coded) + 1
			if len(f.in) < 2+burstLen {
				return
			}
			data := f.in[2 : 2+burstLen]

			ack := make([]byte, 0, 2+burstLen)
			ack = append(ack, protocol.OpWriteAck, coded)
			ack = append(ack, data...)

			for _, b := range data {
				f.mem[f.addr] = b
				if f.autoInc() {
					f.addr++
				}
			}
			f.in = f.in[2+burstLen:]
			f.respond(ack...)

		default:
			// Unknown opcode; drop it so the test fails on a mismatch
			// rather than hanging.
			f.in = f.in[1:]
		}
	}
}
