// Package wire defines types helpful for dealing with the Wayland
// wire protocol. It is primarly intended for usage by the protocol
// object layers in the client and layershell packages.
package wire

// Sender is anything that a message can be sent from.
type Sender interface {
	// ID returns the object's ID, or 0 if it has not been assigned
	// one yet.
	ID() uint32
}

// Object represents a Wayland protocol object.
type Object interface {
	Sender

	// SetID assigns the object's ID. It is called by the object
	// store when the object is added.
	SetID(id uint32)

	// Delete is called when the object's ID has been released by the
	// other end of the connection.
	Delete()

	// Dispatch performs the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// MethodName returns the name of the incoming method with the
	// given opcode. It is used for debug output.
	MethodName(op uint16) string
}

// NewID is an untyped new_id argument. Typed new_id arguments are
// encoded as plain object IDs.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}
