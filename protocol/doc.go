// Package protocol implements the framed request/response wire protocol of
// the ecgc cartridge's uart_debug core.
//
// # Protocol Overview
//
// The protocol is strictly half-duplex: every command packet sent must be
// answered by exactly one matching response before the next command goes
// out. A command packet is a one-byte opcode followed by opcode-specific
// payload bytes:
//
//	Config read:   [0x02]                 ->  [0x03][VALUE]
//	Config write:  [0x04][VALUE]          ->  [0x05][VALUE]
//	Set address:   [0x10][ADDR_L][ADDR_H] ->  [0x11][ADDR_L][ADDR_H]
//	Read burst:    [0x20][LEN-1]          ->  [0x21][LEN-1], then LEN data bytes
//	Write burst:   [0x30][LEN-1][DATA...] ->  [0x31][LEN-1][DATA...]
//
// Responses are framed by exact byte count; there is no delimiter. Burst
// length fields always carry length-1 so a 1-256 byte burst fits one byte.
//
// # Command Builders
//
// Use the *Packet functions to build command frames and their expected
// response patterns:
//
//	pkt, want := protocol.SetAddressPacket(0x4000)
//	_, err := codec.Exchange(pkt, want, "set address")
//
// # Response Matching
//
// Exchange reads exactly want.Length() bytes and matches them against the
// pattern. A mismatch fails with a *ProtocolError carrying the expected
// pattern, the actual bytes and the operation description. Nothing is
// retried.
package protocol
