package protocol

// Packet builders. Each returns the command frame ready to send together
// with the pattern its acknowledgment must match. Packets are built fresh
// per call and never reused.

// FlushPacket builds the initial flush exchange: FlushLength filler bytes
// that drive the core's packet parser through any partially received
// command, answered by FlushLength bytes ending in the idle marker.
func FlushPacket() ([]byte, *Pattern) {
	pkt := make([]byte, FlushLength)
	want := NewPattern().Skip(FlushLength - 1).Fixed(FlushIdleMarker)
	return pkt, want
}

// ConfigReadPacket builds a configuration register read. The register value
// is the single captured byte of the acknowledgment.
func ConfigReadPacket() ([]byte, *Pattern) {
	pkt := []byte{OpConfigRead}
	want := NewPattern().Fixed(OpConfigReadAck).Capture(1)
	return pkt, want
}

// ConfigWritePacket builds a configuration register write. The
// acknowledgment echoes the written value.
func ConfigWritePacket(value byte) ([]byte, *Pattern) {
	pkt := []byte{OpConfigWrite, value}
	want := NewPattern().Fixed(OpConfigWriteAck, value)
	return pkt, want
}

// SetAddressPacket builds a set-address command. The address travels
// little-endian and is echoed back in full.
func SetAddressPacket(addr uint16) ([]byte, *Pattern) {
	lo, hi := byte(addr), byte(addr>>8)
	pkt := []byte{OpSetAddress, lo, hi}
	want := NewPattern().Fixed(OpSetAddressAck, lo, hi)
	return pkt, want
}

// ReadBurstPacket builds a read burst command for 1-256 bytes. The burst
// payload follows the acknowledgment and is read separately.
func ReadBurstPacket(burstLen int) ([]byte, *Pattern, error) {
	if burstLen < 1 || burstLen > MaxBurstSize {
		return nil, nil, &RangeError{What: "burst length", Value: int64(burstLen), Min: 1, Max: MaxBurstSize}
	}

	coded := byte(burstLen - 1)
	pkt := []byte{OpRead, coded}
	want := NewPattern().Fixed(OpReadAck, coded)
	return pkt, want, nil
}

// WriteBurstPacket builds a write burst command carrying 1-256 data bytes.
// The acknowledgment echoes the coded length and every data byte.
func WriteBurstPacket(data []byte) ([]byte, *Pattern, error) {
	if len(data) < 1 || len(data) > MaxBurstSize {
		return nil, nil, &RangeError{What: "burst length", Value: int64(len(data)), Min: 1, Max: MaxBurstSize}
	}

	coded := byte(len(data) - 1)
	pkt := make([]byte, 0, 2+len(data))
	pkt = append(pkt, OpWrite, coded)
	pkt = append(pkt, data...)

	want := NewPattern().Fixed(OpWriteAck, coded).Fixed(data...)
	return pkt, want, nil
}
