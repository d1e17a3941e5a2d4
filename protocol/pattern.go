package protocol

import (
	"fmt"
	"strings"
)

type fieldKind int

const (
	fieldFixed fieldKind = iota
	fieldSkip
	fieldCapture
)

type field struct {
	kind  fieldKind
	value byte // fieldFixed only
	count int  // fieldSkip and fieldCapture
}

// Pattern describes the expected shape of a response: fixed bytes that must
// match exactly, don't-care runs, and captured runs whose bytes are returned
// to the caller. The total length of all fields is the exact number of
// bytes the response must have.
type Pattern struct {
	fields []field
}

// NewPattern returns an empty pattern. Compose with Fixed, Skip and Capture.
func NewPattern() *Pattern {
	return &Pattern{}
}

// Fixed appends bytes that must match exactly.
func (p *Pattern) Fixed(b ...byte) *Pattern {
	for _, v := range b {
		p.fields = append(p.fields, field{kind: fieldFixed, value: v})
	}
	return p
}

// Skip appends n don't-care bytes.
func (p *Pattern) Skip(n int) *Pattern {
	if n > 0 {
		p.fields = append(p.fields, field{kind: fieldSkip, count: n})
	}
	return p
}

// Capture appends n bytes whose values are returned by Match.
func (p *Pattern) Capture(n int) *Pattern {
	if n > 0 {
		p.fields = append(p.fields, field{kind: fieldCapture, count: n})
	}
	return p
}

// Length returns the exact response length the pattern describes.
func (p *Pattern) Length() int {
	n := 0
	for _, f := range p.fields {
		switch f.kind {
		case fieldFixed:
			n++
		default:
			n += f.count
		}
	}
	return n
}

// Match checks data against the pattern. It returns the concatenated
// captured bytes and whether the match succeeded. data must be exactly
// Length() bytes for a match.
func (p *Pattern) Match(data []byte) ([]byte, bool) {
	if len(data) != p.Length() {
		return nil, false
	}

	var captured []byte
	i := 0
	for _, f := range p.fields {
		switch f.kind {
		case fieldFixed:
			if data[i] != f.value {
				return nil, false
			}
			i++
		case fieldSkip:
			i += f.count
		case fieldCapture:
			captured = append(captured, data[i:i+f.count]...)
			i += f.count
		}
	}

	return captured, true
}

// String renders the pattern in hex with ?? for don't care and () around
// captured runs, e.g. "11 40 00" or "03 (??)".
func (p *Pattern) String() string {
	var parts []string
	for _, f := range p.fields {
		switch f.kind {
		case fieldFixed:
			parts = append(parts, fmt.Sprintf("%02X", f.value))
		case fieldSkip:
			for i := 0; i < f.count; i++ {
				parts = append(parts, "??")
			}
		case fieldCapture:
			inner := strings.TrimSuffix(strings.Repeat("?? ", f.count), " ")
			parts = append(parts, "("+inner+")")
		}
	}
	return strings.Join(parts, " ")
}

// FormatBytes renders raw bytes the same way patterns render, for use in
// mismatch error text.
func FormatBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
