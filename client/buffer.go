package wl

import "deedles.dev/wbg/wire"

type Buffer struct {
	Proxy

	// Release is called when the compositor no longer reads from the
	// buffer.
	Release func()
}

func (buf *Buffer) Destroy() {
	buf.Send(bufferDestroy)
}

func (buf *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != bufferRelease {
		return buf.UnknownOp(msg.Op())
	}

	if buf.Release != nil {
		buf.Release()
	}
	return nil
}
