package wl

import (
	"deedles.dev/wbg/wire"
	"golang.org/x/exp/maps"
)

// Interface identifies a global by the interface that it implements
// and the highest version of it that the compositor supports.
type Interface struct {
	Name    string
	Version uint32
}

// Is reports whether i is the named interface at version or newer.
func (i Interface) Is(name string, version uint32) bool {
	return (i.Name == name) && (i.Version >= version)
}

type RegistryListener interface {
	Global(name uint32, inter string, version uint32)
	GlobalRemove(name uint32)
}

type Registry struct {
	Proxy
	Listener RegistryListener

	globals map[uint32]Interface
}

// Globals returns the globals that are currently advertised, keyed by
// name.
func (registry *Registry) Globals() map[uint32]Interface {
	return maps.Clone(registry.globals)
}

// Bind binds the global with the given name to obj, which must not
// have been added to the client yet.
func (registry *Registry) Bind(name uint32, inter string, version uint32, obj wire.Object) {
	registry.client.Add(obj)
	registry.Send(registryBind, name, wire.NewID{
		Interface: inter,
		Version:   version,
		ID:        obj.ID(),
	})
}

func (registry *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case registryGlobal:
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		registry.globals[name] = Interface{Name: inter, Version: version}
		if registry.Listener != nil {
			registry.Listener.Global(name, inter, version)
		}
		return nil

	case registryGlobalRemove:
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		delete(registry.globals, name)
		if registry.Listener != nil {
			registry.Listener.GlobalRemove(name)
		}
		return nil

	default:
		return registry.UnknownOp(msg.Op())
	}
}
