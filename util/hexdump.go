package util

import (
	"fmt"
	"strings"
)

const hexdumpWidth = 16

// Hexdump renders data as 16-byte rows aligned to the nearest lower
// multiple of 16 of startAddr. Positions outside the data are shown as
// "--"; each row ends with an ASCII gutter.
func Hexdump(startAddr uint16, data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	aligned := int(startAddr) - int(startAddr)%hexdumpWidth
	leadPad := int(startAddr) - aligned
	total := leadPad + len(data)
	rows := (total + hexdumpWidth - 1) / hexdumpWidth

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%04X  ", aligned+row*hexdumpWidth)

		var ascii strings.Builder
		for col := 0; col < hexdumpWidth; col++ {
			idx := row*hexdumpWidth + col - leadPad
			if idx < 0 || idx >= len(data) {
				sb.WriteString("--")
				ascii.WriteByte('.')
			} else {
				fmt.Fprintf(&sb, "%02X", data[idx])
				ascii.WriteByte(printableASCII(data[idx]))
			}

			switch col {
			case 7:
				sb.WriteString("   ")
			case hexdumpWidth - 1:
			default:
				sb.WriteByte(' ')
			}
		}

		fmt.Fprintf(&sb, "   |%s|", ascii.String())
		lines = append(lines, sb.String())
	}

	return lines
}

func printableASCII(b byte) byte {
	if b > 0x1F && b < 0x7F {
		return b
	}
	return '.'
}
