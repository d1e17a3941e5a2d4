// Package sd implements the SD card SPI-mode command engine on top of the
// cartridge's SPI bridge.
//
// # Command frames
//
// Every command is a 6-byte frame:
//
//	[0b01|CMD(6)][ARG(4, big-endian)][CRC7(7)<<1 | 1]
//
// The CRC is recomputed from the five preceding bytes immediately before
// every send. After the frame goes out the card is polled for its R1 token
// (up to 8 dummy 0xFF exchanges; a valid token has its MSB clear), then the
// response is extended with the shape the command index maps to: R1, R1b,
// R2, R3 or R7.
//
// # Responses
//
// A Response is constructed once, after all its bytes are known, as the
// most specific shape: the common R1 flags plus exactly one of the
// shape-specific payloads. Any set error bit fails the exchange with a
// *CommandError carrying the raw bytes and the decoded response.
//
// The chip select is released when the exchange completes unless the caller
// asked to keep it; a failed exchange always releases it.
package sd
