package wl

import "deedles.dev/wbg/wire"

type Callback struct {
	Proxy
	Done func(data uint32)
}

func (c *Callback) Then(f func(uint32)) {
	c.Done = f
}

func (c *Callback) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != callbackDone {
		return c.UnknownOp(msg.Op())
	}

	data := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	if c.Done != nil {
		c.Done(data)
	}
	return nil
}
