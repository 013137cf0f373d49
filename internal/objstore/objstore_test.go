package objstore

import (
	"testing"

	"deedles.dev/wbg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	id         uint32
	deleted    bool
	dispatched int
}

func (obj *object) ID() uint32                             { return obj.id }
func (obj *object) SetID(id uint32)                        { obj.id = id }
func (obj *object) Delete()                                { obj.deleted = true }
func (obj *object) Dispatch(msg *wire.MessageBuffer) error { obj.dispatched++; return nil }
func (obj *object) MethodName(op uint16) string            { return "event" }

func TestStore(t *testing.T) {
	s := New(1)

	a, b := &object{}, &object{}
	s.Add(a)
	s.Add(b)
	assert.Equal(t, uint32(1), a.id)
	assert.Equal(t, uint32(2), b.id)
	assert.Equal(t, 2, s.Len())

	fixed := &object{id: 0xFF000000}
	s.Add(fixed)
	assert.Same(t, fixed, s.Get(0xFF000000))

	s.Delete(1)
	assert.True(t, a.deleted)
	assert.Nil(t, s.Get(1))

	s.Delete(1)
	assert.Equal(t, 2, s.Len())

	c := &object{}
	s.Add(c)
	assert.Equal(t, uint32(3), c.id, "IDs are not reused")
}

func TestDispatchUnknownSender(t *testing.T) {
	client, server, err := wire.Pair()
	require.NoError(t, err)
	defer client.Close()
	defer server.Close()

	require.NoError(t, wire.NewRequest(&object{id: 9}, 0, "ping").Build(client))
	require.NoError(t, server.Wait())
	_, err = server.Fill()
	require.NoError(t, err)
	msg, err := server.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)

	_, err = New(1).Dispatch(msg)
	var unknown wire.UnknownSenderIDError
	assert.ErrorAs(t, err, &unknown)
}
