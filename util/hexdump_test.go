package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexdump(t *testing.T) {
	t.Run("aligned full row", func(t *testing.T) {
		data := make([]byte, 16)
		for i := range data {
			data[i] = byte(i)
		}

		lines := Hexdump(0x0000, data)
		require.Len(t, lines, 1)
		assert.Equal(t,
			"0000  00 01 02 03 04 05 06 07   08 09 0A 0B 0C 0D 0E 0F   |................|",
			lines[0])
	})

	t.Run("unaligned start is padded", func(t *testing.T) {
		lines := Hexdump(0x4005, []byte("ABC"))
		require.Len(t, lines, 1)
		assert.Equal(t,
			"4000  -- -- -- -- -- 41 42 43   -- -- -- -- -- -- -- --   |.....ABC........|",
			lines[0])
	})

	t.Run("data crossing a row boundary", func(t *testing.T) {
		lines := Hexdump(0x00FE, []byte{0xAA, 0xBB, 0xCC})
		require.Len(t, lines, 2)
		assert.Equal(t,
			"00F0  -- -- -- -- -- -- -- --   -- -- -- -- -- -- AA BB   |................|",
			lines[0])
		assert.Equal(t,
			"0100  CC -- -- -- -- -- -- --   -- -- -- -- -- -- -- --   |................|",
			lines[1])
	})

	t.Run("printable ascii gutter", func(t *testing.T) {
		lines := Hexdump(0x0000, []byte("Hi\x00~\x7F"))
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "|Hi.~............|")
	})

	t.Run("empty data", func(t *testing.T) {
		assert.Nil(t, Hexdump(0x4000, nil))
	})
}
