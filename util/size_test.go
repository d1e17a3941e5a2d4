package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"512", 512},
		{"4k", 4096},
		{"16k", 16384},
		{"2M", 2097152},
		{"0x4000", 16384},
		{"0x0", 0},
		{"0xABcd", 0xABCD},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("hex and suffix agree", func(t *testing.T) {
		hex, err := ParseSize("0x4000")
		require.NoError(t, err)
		suffixed, err := ParseSize("16k")
		require.NoError(t, err)
		assert.Equal(t, hex, suffixed)
	})

	t.Run("rejected inputs", func(t *testing.T) {
		for _, in := range []string{"", "hello", "-1", "4K", "2m", "0x", "12kB", "1.5k", "$4000"} {
			_, err := ParseSize(in)
			assert.Error(t, err, "input %q", in)
		}
	})
}

func TestComposeSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{1024, "1k"},
		{4096, "4k"},
		{16384, "16k"},
		{1048576, "1M"},
		{2097152, "2M"},
		{1500, "1500"},
	}

	for _, tt := range tests {
		got, err := ComposeSize(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "size %d", tt.in)
	}

	_, err := ComposeSize(-1)
	assert.Error(t, err)
}

func TestParseComposeRoundTrip(t *testing.T) {
	for _, size := range []int64{512, 4096, 16384, 1048576} {
		s, err := ComposeSize(size)
		require.NoError(t, err)
		back, err := ParseSize(s)
		require.NoError(t, err)
		assert.Equal(t, size, back)
	}
}
