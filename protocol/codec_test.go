package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecgc-project/ecgc-util/transport"
)

// fakeTransport is a scripted transport: Send records packets, ReceiveExact
// serves bytes from a pending buffer.
type fakeTransport struct {
	sent    [][]byte
	pending []byte
	closed  bool
}

func (f *fakeTransport) Send(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeTransport) ReceiveExact(n int) ([]byte, error) {
	if len(f.pending) < n {
		return nil, &transport.TransportError{Op: "receive", Got: len(f.pending), Want: n}
	}
	out := f.pending[:n]
	f.pending = f.pending[n:]
	return out, nil
}

func (f *fakeTransport) ReceiveUntil(delim byte) ([]byte, error) {
	for i, b := range f.pending {
		if b == delim {
			out := f.pending[:i+1]
			f.pending = f.pending[i+1:]
			return out, nil
		}
	}
	return nil, &transport.TransportError{Op: "receive", Got: len(f.pending)}
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestCodecExchange(t *testing.T) {
	ft := &fakeTransport{pending: []byte{0x03, 0x42}}
	codec := NewCodec(ft, nil)

	pkt, want := ConfigReadPacket()
	captured, err := codec.Exchange(pkt, want, "config register read")
	require.NoError(t, err)

	assert.Equal(t, []byte{0x42}, captured)
	require.Len(t, ft.sent, 1)
	assert.Equal(t, []byte{OpConfigRead}, ft.sent[0])
}

func TestCodecExchangeMismatch(t *testing.T) {
	ft := &fakeTransport{pending: []byte{0x05, 0x99}}
	codec := NewCodec(ft, nil)

	pkt, want := ConfigWritePacket(0x10)
	_, err := codec.Exchange(pkt, want, "config register write")

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "config register write", perr.Desc)
	assert.Equal(t, []byte{0x05, 0x99}, perr.Actual)
	assert.Same(t, want, perr.Expected)
	assert.Contains(t, perr.Error(), "config register write")
}

func TestCodecExchangeShortRead(t *testing.T) {
	ft := &fakeTransport{pending: []byte{0x05}}
	codec := NewCodec(ft, nil)

	pkt, want := ConfigWritePacket(0x10)
	_, err := codec.Exchange(pkt, want, "config register write")

	var terr *transport.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 1, terr.Got)
	assert.Equal(t, 2, terr.Want)
}

func TestCodecByteDelayPacing(t *testing.T) {
	ft := &fakeTransport{pending: []byte{0x05, 0x10}}
	codec := NewCodec(ft, nil)
	codec.SetByteDelay(1) // 1ns, just enough to take the paced path

	pkt, want := ConfigWritePacket(0x10)
	_, err := codec.Exchange(pkt, want, "config register write")
	require.NoError(t, err)

	// Paced sends go out one byte at a time.
	require.Len(t, ft.sent, 2)
	assert.Equal(t, []byte{OpConfigWrite}, ft.sent[0])
	assert.Equal(t, []byte{0x10}, ft.sent[1])
}
