package protocol

// Command and acknowledgment opcodes of the uart_debug core.
const (
	// OpConfigRead requests the configuration register value
	OpConfigRead = 0x02

	// OpConfigReadAck acknowledges a config read, followed by the value
	OpConfigReadAck = 0x03

	// OpConfigWrite sets the configuration register
	OpConfigWrite = 0x04

	// OpConfigWriteAck acknowledges a config write, echoing the value
	OpConfigWriteAck = 0x05

	// OpSetAddress sets the 16-bit address register (little-endian payload)
	OpSetAddress = 0x10

	// OpSetAddressAck acknowledges set address, echoing both address bytes
	OpSetAddressAck = 0x11

	// OpRead starts a read burst of LEN-1 coded length
	OpRead = 0x20

	// OpReadAck acknowledges a read burst, echoing the coded length
	OpReadAck = 0x21

	// OpWrite starts a write burst of LEN-1 coded length
	OpWrite = 0x30

	// OpWriteAck acknowledges a write burst, echoing length and data
	OpWriteAck = 0x31
)

// Configuration register bits.
const (
	// ConfigDebugEnable enables the debug core
	ConfigDebugEnable = 0b00010000

	// ConfigAutoIncrement advances the address register after each byte
	ConfigAutoIncrement = 0b00100000
)

// MaxBurstSize is the largest read/write sub-transfer the burst length
// field can encode (the field carries length-1 in a single byte).
const MaxBurstSize = 256

// FlushLength is the size of the initial flush packet. 258 filler bytes are
// enough to complete any partially received packet (the largest packet is a
// full write burst: opcode + length + 256 data bytes) and force the core
// back to its idle acknowledgment.
const FlushLength = 258

// FlushIdleMarker is the last byte of the core's response to a flush; its
// presence confirms the core ended up idle.
const FlushIdleMarker = 0x01
