package debugger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecgc-project/ecgc-util/protocol"
)

func newTestDebugger(t *testing.T, opts ...Option) (*Debugger, *fakeCart) {
	t.Helper()

	cart := &fakeCart{}
	dbg, err := New(cart, opts...)
	require.NoError(t, err)
	return dbg, cart
}

func TestNewInitializesCore(t *testing.T) {
	dbg, cart := newTestDebugger(t)

	assert.False(t, dbg.IsEnabled())
	assert.True(t, cart.flushed)
	assert.Equal(t, byte(0), cart.config, "configuration register must be cleared")
	assert.Equal(t, uint16(0), cart.addr, "address register must be zeroed")
	assert.Empty(t, cart.out, "no unconsumed response bytes after init")
}

func TestEnableDisableCore(t *testing.T) {
	dbg, cart := newTestDebugger(t)

	require.NoError(t, dbg.EnableCore())
	assert.True(t, dbg.IsEnabled())
	assert.Equal(t, byte(protocol.ConfigDebugEnable), cart.config&protocol.ConfigDebugEnable)

	require.NoError(t, dbg.DisableCore())
	assert.False(t, dbg.IsEnabled())
	assert.Zero(t, cart.config&protocol.ConfigDebugEnable)
}

func TestStateErrors(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	t.Run("double enable", func(t *testing.T) {
		require.NoError(t, dbg.EnableCore())
		defer func() { require.NoError(t, dbg.DisableCore()) }()

		var serr *StateError
		require.ErrorAs(t, dbg.EnableCore(), &serr)
		assert.True(t, serr.Enabled)
	})

	t.Run("disable when disabled", func(t *testing.T) {
		var serr *StateError
		require.ErrorAs(t, dbg.DisableCore(), &serr)
		assert.False(t, serr.Enabled)
	})

	t.Run("operations require enabled core", func(t *testing.T) {
		var serr *StateError

		assert.ErrorAs(t, dbg.SetAddress(0x4000), &serr)
		assert.ErrorAs(t, dbg.EnableAutoIncrement(), &serr)
		assert.ErrorAs(t, dbg.DisableAutoIncrement(), &serr)
		assert.ErrorAs(t, dbg.Write([]byte{0x00}), &serr)
		assert.ErrorAs(t, dbg.WriteByte(0x00), &serr)

		_, err := dbg.Read(1)
		assert.ErrorAs(t, err, &serr)
	})
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, length := range []int{16, 15, 1} {
		data := make([]byte, length)
		for i := range data {
			data[i] = byte(i*7 + 3)
		}

		dbg, _ := newTestDebugger(t)
		err := dbg.Session(func() error {
			if err := dbg.EnableAutoIncrement(); err != nil {
				return err
			}
			if err := dbg.SetAddress(0x4000); err != nil {
				return err
			}
			if err := dbg.Write(data); err != nil {
				return err
			}
			if err := dbg.SetAddress(0x4000); err != nil {
				return err
			}
			got, err := dbg.Read(length)
			if err != nil {
				return err
			}
			assert.Equal(t, data, got, "round trip of %d bytes", length)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestMultiBurstTransfer(t *testing.T) {
	// 600 bytes forces three bursts (256 + 256 + 88).
	data := bytes.Repeat([]byte{0xA5, 0x5A, 0x01}, 200)

	var progress []Progress
	dbg, cart := newTestDebugger(t, WithProgressCallback(func(p Progress) {
		progress = append(progress, p)
	}))

	err := dbg.Session(func() error {
		if err := dbg.EnableAutoIncrement(); err != nil {
			return err
		}
		if err := dbg.SetAddress(0x0100); err != nil {
			return err
		}
		if err := dbg.Write(data); err != nil {
			return err
		}
		if err := dbg.SetAddress(0x0100); err != nil {
			return err
		}
		got, err := dbg.Read(len(data))
		if err != nil {
			return err
		}
		assert.Equal(t, data, got)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, data, cart.mem[0x0100:0x0100+len(data)])

	// Write reports 256, 512, 600; read again the same.
	require.Len(t, progress, 6)
	assert.Equal(t, Progress{Op: "write", BytesDone: 256, BytesTotal: 600}, progress[0])
	assert.Equal(t, Progress{Op: "write", BytesDone: 600, BytesTotal: 600}, progress[2])
	assert.Equal(t, Progress{Op: "read", BytesDone: 600, BytesTotal: 600}, progress[5])
}

func TestWriteWithoutAutoIncrement(t *testing.T) {
	dbg, cart := newTestDebugger(t)

	err := dbg.Session(func() error {
		if err := dbg.SetAddress(0x2000); err != nil {
			return err
		}
		return dbg.Write([]byte{0x11, 0x22, 0x33})
	})
	require.NoError(t, err)

	// Every byte lands on the same cell; the last write wins.
	assert.Equal(t, byte(0x33), cart.mem[0x2000])
	assert.Equal(t, byte(0x00), cart.mem[0x2001])
}

func TestReadLengthValidation(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	err := dbg.Session(func() error {
		for _, n := range []int{0, -1} {
			_, err := dbg.Read(n)
			var rerr *protocol.RangeError
			assert.ErrorAs(t, err, &rerr, "read length %d", n)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestSessionDisablesOnError(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	wantErr := assert.AnError
	err := dbg.Session(func() error { return wantErr })

	assert.Same(t, wantErr, err, "the callback error takes precedence")
	assert.False(t, dbg.IsEnabled(), "core must be disabled after the session")
}

func TestSessionEnableFailurePropagates(t *testing.T) {
	dbg, _ := newTestDebugger(t)
	require.NoError(t, dbg.EnableCore())

	called := false
	err := dbg.Session(func() error { called = true; return nil })

	var serr *StateError
	require.ErrorAs(t, err, &serr)
	assert.False(t, called, "callback must not run when enable fails")
}

func TestCorruptAckSurfacesProtocolError(t *testing.T) {
	dbg, cart := newTestDebugger(t)
	require.NoError(t, dbg.EnableCore())

	cart.corruptNextAck = true
	err := dbg.SetAddress(0x1234)

	var perr *protocol.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "set address", perr.Desc)
}

func TestClose(t *testing.T) {
	dbg, cart := newTestDebugger(t)

	require.NoError(t, dbg.Close())
	assert.True(t, cart.closed)
}
