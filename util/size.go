// Package util carries the shared helpers of the ecgc command line tools:
// size and integer parsing, hexdump rendering and error diagnostics.
package util

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	sizeDecimalRe = regexp.MustCompile(`^([0-9]+)(k|M)?$`)
	sizeHexRe     = regexp.MustCompile(`^0x([0-9A-Fa-f]+)$`)
)

var sizeModifiers = map[string]int64{
	"k": 1024,
	"M": 1048576,
}

// ParseSize parses a byte count with an optional size suffix: "512", "4k",
// "2M" or hexadecimal "0x4000".
func ParseSize(s string) (int64, error) {
	if m := sizeDecimalRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("size %q is not in a supported format", s)
		}
		if mod, ok := sizeModifiers[m[2]]; ok {
			n *= mod
		}
		return n, nil
	}

	if m := sizeHexRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("size %q is not in a supported format", s)
		}
		return n, nil
	}

	return 0, fmt.Errorf("size %q is not in a supported format", s)
}

// ComposeSize renders a byte count with the largest suffix that divides it
// exactly: 4096 -> "4k", 2097152 -> "2M", 100 -> "100".
func ComposeSize(size int64) (string, error) {
	if size < 0 {
		return "", fmt.Errorf("size must be zero or a positive integer")
	}

	if size%1048576 == 0 && size != 0 {
		return strconv.FormatInt(size/1048576, 10) + "M", nil
	}
	if size%1024 == 0 && size != 0 {
		return strconv.FormatInt(size/1024, 10) + "k", nil
	}
	return strconv.FormatInt(size, 10), nil
}
