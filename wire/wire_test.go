package wire

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	id uint32
}

func (obj *testObject) ID() uint32                        { return obj.id }
func (obj *testObject) SetID(id uint32)                   { obj.id = id }
func (obj *testObject) Delete()                           {}
func (obj *testObject) Dispatch(msg *MessageBuffer) error { return nil }
func (obj *testObject) MethodName(op uint16) string       { return fmt.Sprintf("op%v", op) }
func (obj *testObject) String() string                    { return fmt.Sprintf("test#%v", obj.id) }

func pair(t *testing.T) (*Conn, *Conn) {
	t.Helper()

	a, b, err := Pair()
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func next(t *testing.T, c *Conn) *MessageBuffer {
	t.Helper()

	msg, err := c.Next()
	require.NoError(t, err)
	if msg == nil {
		require.NoError(t, c.Wait())
		_, err := c.Fill()
		require.NoError(t, err)
		msg, err = c.Next()
		require.NoError(t, err)
	}
	require.NotNil(t, msg)
	return msg
}

func TestRoundTrip(t *testing.T) {
	client, server := pair(t)

	sender := &testObject{id: 7}
	target := &testObject{id: 12}
	msg := NewRequest(sender, 3, "call",
		int32(-5),
		uint32(42),
		"wallpaper",
		[]byte{1, 2, 3},
		NewID{Interface: "wl_output", Version: 3, ID: 9},
		target,
		(*testObject)(nil),
		FixedFloat(1.5),
	)
	require.NoError(t, msg.Build(client))

	buf := next(t, server)
	assert.Equal(t, uint32(7), buf.Sender())
	assert.Equal(t, uint16(3), buf.Op())
	assert.Zero(t, buf.Size()%4)

	assert.Equal(t, int32(-5), buf.ReadInt())
	assert.Equal(t, uint32(42), buf.ReadUint())
	assert.Equal(t, "wallpaper", buf.ReadString())
	assert.Equal(t, []byte{1, 2, 3}, buf.ReadArray())
	assert.Equal(t, NewID{Interface: "wl_output", Version: 3, ID: 9}, buf.ReadNewID())
	assert.Equal(t, uint32(12), buf.ReadObject())
	assert.Equal(t, uint32(0), buf.ReadObject())
	assert.Equal(t, 1.5, buf.ReadFixed().Float())
	require.NoError(t, buf.Err())

	buf.ReadUint()
	assert.ErrorIs(t, buf.Err(), io.ErrUnexpectedEOF)

	assert.Equal(t, `test#7.op3(-5, 42, "wallpaper", [1 2 3], "wl_output", 3, 9, 12, 0, 1.5)`, buf.Debug(sender))
}

func TestFilePassing(t *testing.T) {
	client, server := pair(t)

	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0600))
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	require.NoError(t, NewRequest(&testObject{id: 4}, 0, "create_pool", file, int32(6)).Build(client))

	buf := next(t, server)
	received := buf.ReadFile()
	require.NoError(t, buf.Err())
	require.NotNil(t, received)
	defer received.Close()
	assert.Equal(t, int32(6), buf.ReadInt())

	data, err := io.ReadAll(received)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestNextWaitsForCompleteMessage(t *testing.T) {
	client, server := pair(t)

	data, err := NewRequest(&testObject{id: 1}, 0, "sync", uint32(2)).Bytes()
	require.NoError(t, err)

	require.NoError(t, client.WriteMessage(data[:6], nil))
	require.NoError(t, server.Wait())
	_, err = server.Fill()
	require.NoError(t, err)
	msg, err := server.Next()
	require.NoError(t, err)
	assert.Nil(t, msg)

	require.NoError(t, client.WriteMessage(data[6:], nil))
	msg = next(t, server)
	assert.Equal(t, uint32(2), msg.ReadUint())
}

func TestFillReportsHangup(t *testing.T) {
	client, server := pair(t)

	require.NoError(t, NewRequest(&testObject{id: 1}, 1, "done", uint32(0)).Build(client))
	require.NoError(t, client.Close())

	require.NoError(t, server.Wait())
	var err error
	for err == nil {
		_, err = server.Fill()
	}
	assert.ErrorIs(t, err, io.EOF)

	msg, err := server.Next()
	require.NoError(t, err)
	require.NotNil(t, msg, "data sent before the hangup should still be readable")
	assert.Equal(t, uint16(1), msg.Op())
}

func TestFixed(t *testing.T) {
	assert.Equal(t, 3, FixedInt(3).Int())
	assert.Equal(t, -1.25, FixedFloat(-1.25).Float())
	assert.Equal(t, 128, FixedFloat(2.5).Frac())
	assert.Equal(t, "0.5", FixedFloat(0.5).String())
}
