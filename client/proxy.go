package wl

import (
	"fmt"

	"deedles.dev/wbg/wire"
)

// Protocol describes the messages of a protocol interface. The
// indices of Requests and Events are the opcodes of the messages.
type Protocol struct {
	Name     string
	Requests []string
	Events   []string
}

// Proxy is the client-side half of a protocol object. Every object
// type embeds one. Types defined outside of this package, such as
// the ones for protocol extensions, can embed one created with
// NewProxy.
type Proxy struct {
	client   *Client
	protocol *Protocol
	version  uint32
	id       uint32
}

func NewProxy(client *Client, protocol *Protocol, version uint32) Proxy {
	return Proxy{
		client:   client,
		protocol: protocol,
		version:  version,
	}
}

func (p *Proxy) ID() uint32 {
	return p.id
}

func (p *Proxy) SetID(id uint32) {
	p.id = id
}

// Delete is a no-op. Objects that need to clean up after their ID has
// been released can override it.
func (p *Proxy) Delete() {}

func (p *Proxy) Client() *Client {
	return p.client
}

// Version returns the version of the interface that the object was
// created with.
func (p *Proxy) Version() uint32 {
	return p.version
}

func (p *Proxy) MethodName(op uint16) string {
	if int(op) >= len(p.protocol.Events) {
		return fmt.Sprintf("unknown(%v)", op)
	}
	return p.protocol.Events[op]
}

func (p *Proxy) String() string {
	return fmt.Sprintf("%v#%v", p.protocol.Name, p.id)
}

// Send enqueues a request on the object. Objects in args are sent as
// their IDs.
func (p *Proxy) Send(op uint16, args ...any) {
	p.client.Enqueue(wire.NewRequest(p, op, p.protocol.Requests[op], args...))
}

// UnknownOp returns the error for an event that the object's
// interface doesn't define.
func (p *Proxy) UnknownOp(op uint16) error {
	return wire.UnknownOpError{
		Interface: p.protocol.Name,
		Type:      "event",
		Op:        op,
	}
}
