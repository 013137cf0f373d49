// Package objstore tracks the live protocol objects on one side of a
// connection, keyed by object ID.
package objstore

import "deedles.dev/wbg/wire"

type Store struct {
	objects map[uint32]wire.Object
	nextID  uint32
}

// New returns a Store that allocates IDs starting at start. Clients
// start at 1, which is always wl_display.
func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  start,
	}
}

// Add adds obj to the store, allocating an ID for it if it doesn't
// already have one.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Delete removes the object with the given ID and notifies it. It is
// a no-op if there is no such object.
func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	delete(s.objects, id)
	if obj != nil {
		obj.Delete()
	}
}

func (s *Store) Len() int {
	return len(s.objects)
}

// Dispatch hands msg to the object that it was sent to and returns
// that object.
func (s *Store) Dispatch(msg *wire.MessageBuffer) (wire.Object, error) {
	obj := s.objects[msg.Sender()]
	if obj == nil {
		return nil, wire.UnknownSenderIDError{Msg: msg}
	}

	return obj, obj.Dispatch(msg)
}
