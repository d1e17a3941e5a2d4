package util

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	rgbdsDecimalRe = regexp.MustCompile(`^-?\d+$`)
	rgbdsHexRe     = regexp.MustCompile(`^\$([0-9A-Fa-f]+)$`)
	rgbdsBinaryRe  = regexp.MustCompile(`^%([01]+)$`)
)

// ParseRGBDSInt parses an integer in RGBDS assembler notation: plain
// decimal, $-prefixed hexadecimal or %-prefixed binary.
func ParseRGBDSInt(s string) (int64, error) {
	if rgbdsDecimalRe.MatchString(s) {
		return strconv.ParseInt(s, 10, 64)
	}
	if m := rgbdsHexRe.FindStringSubmatch(s); m != nil {
		return strconv.ParseInt(m[1], 16, 64)
	}
	if m := rgbdsBinaryRe.FindStringSubmatch(s); m != nil {
		return strconv.ParseInt(m[1], 2, 64)
	}
	return 0, fmt.Errorf("%q is not in a valid integer format", s)
}
