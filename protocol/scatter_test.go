package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatter(t *testing.T) {
	data := []byte{99, 38, 3, 46, 59, 57, 68, 87, 42, 3, 27, 38, 38, 61, 49, 30}

	t.Run("even chunks", func(t *testing.T) {
		chunks, err := Scatter(data, 4)
		require.NoError(t, err)
		require.Len(t, chunks, 4)

		var flat []byte
		for _, c := range chunks {
			assert.Len(t, c, 4)
			flat = append(flat, c...)
		}
		assert.Equal(t, data, flat, "chunks must preserve original order")
	})

	t.Run("remainder chunk", func(t *testing.T) {
		chunks, err := Scatter(data, 3)
		require.NoError(t, err)
		require.Len(t, chunks, 6)

		for _, c := range chunks[:5] {
			assert.Len(t, c, 3)
		}
		assert.Len(t, chunks[5], 1)
	})

	t.Run("chunk larger than data", func(t *testing.T) {
		chunks, err := Scatter(data, 64)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, data, chunks[0])
	})

	t.Run("empty data", func(t *testing.T) {
		chunks, err := Scatter(nil, 4)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("invalid chunk size", func(t *testing.T) {
		for _, size := range []int{0, -1} {
			_, err := Scatter(data, size)
			var rerr *RangeError
			assert.ErrorAs(t, err, &rerr, "chunk size %d", size)
		}
	})
}
