package wl

import "deedles.dev/wbg/wire"

// Display is the wl_display singleton. It always has ID 1.
type Display struct {
	Proxy
	registry *Registry
}

// GetRegistry returns the display's registry, creating it the first
// time that it is called.
func (display *Display) GetRegistry() *Registry {
	if display.registry != nil {
		return display.registry
	}

	registry := Registry{
		Proxy:   NewProxy(display.client, &registryProtocol, 1),
		globals: make(map[uint32]Interface),
	}
	display.client.Add(&registry)
	display.Send(displayGetRegistry, &registry)
	display.registry = &registry
	return &registry
}

// Sync asks the compositor to fire the returned callback once it has
// processed every request sent before this one.
func (display *Display) Sync() *Callback {
	callback := Callback{Proxy: NewProxy(display.client, &callbackProtocol, 1)}
	display.client.Add(&callback)
	display.Send(displaySync, &callback)
	return &callback
}

func (display *Display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case displayError:
		id := msg.ReadObject()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		return &DisplayError{ObjectID: id, Code: code, Message: message}

	case displayDeleteID:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		display.client.Delete(id)
		return nil

	default:
		return display.UnknownOp(msg.Op())
	}
}
