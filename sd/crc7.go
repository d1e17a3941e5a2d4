package sd

// crc7Poly is the CRC-7 generator polynomial x^7 + x^3 + 1.
const crc7Poly = 0b10001001

// crc7PolyAligned is the polynomial shifted up against the byte MSB, with
// the x^7 term truncated away by the 8-bit register.
const crc7PolyAligned = (crc7Poly << 1) & 0xFF

// CRC7 computes the 7-bit CRC over data, MSB first, as used in SD command
// frames. The result occupies the low 7 bits; the frame places it as
// (crc << 1) | 1.
func CRC7(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crc7PolyAligned
			} else {
				crc <<= 1
			}
		}
	}
	return crc >> 1
}
