// Package layershell implements the client side of the
// wlr-layer-shell-unstable-v1 protocol extension, which lets a client
// place surfaces in layers above or below normal windows.
package layershell

import (
	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/wire"
)

const ShellInterface = "zwlr_layer_shell_v1"

var (
	shellProtocol = wl.Protocol{
		Name:     ShellInterface,
		Requests: []string{"get_layer_surface", "destroy"},
	}
	surfaceProtocol = wl.Protocol{
		Name: "zwlr_layer_surface_v1",
		Requests: []string{
			"set_size", "set_anchor", "set_exclusive_zone", "set_margin",
			"set_keyboard_interactivity", "get_popup", "ack_configure",
			"destroy", "set_layer",
		},
		Events: []string{"configure", "closed"},
	}
)

const (
	shellGetLayerSurface = 0
	shellDestroy         = 1
)

const (
	surfaceSetAnchor        = 1
	surfaceSetExclusiveZone = 2
	surfaceAckConfigure     = 6
	surfaceDestroy          = 7

	surfaceConfigure = 0
	surfaceClosed    = 1
)

type Layer uint32

const (
	LayerBackground Layer = 0
	LayerBottom     Layer = 1
	LayerTop        Layer = 2
	LayerOverlay    Layer = 3
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8

	AnchorAll = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

type Shell struct {
	wl.Proxy
}

func IsShell(i wl.Interface, version uint32) bool {
	return i.Is(ShellInterface, version)
}

func BindShell(client *wl.Client, name, version uint32) *Shell {
	shell := Shell{Proxy: wl.NewProxy(client, &shellProtocol, version)}
	client.Display().GetRegistry().Bind(name, ShellInterface, version, &shell)
	return &shell
}

// GetLayerSurface assigns the layer surface role to surface. A nil
// output lets the compositor pick one. The surface must be committed
// before the compositor will send the first configure event.
func (shell *Shell) GetLayerSurface(surface *wl.Surface, output *wl.Output, layer Layer, namespace string) *Surface {
	s := Surface{Proxy: wl.NewProxy(shell.Client(), &surfaceProtocol, shell.Version())}
	shell.Client().Add(&s)
	shell.Send(shellGetLayerSurface, &s, surface, output, uint32(layer), namespace)
	return &s
}

// Destroy destroys the shell. The request only exists from version 3
// on. Before that, this does nothing.
func (shell *Shell) Destroy() {
	if shell.Version() >= 3 {
		shell.Send(shellDestroy)
	}
}

func (shell *Shell) Dispatch(msg *wire.MessageBuffer) error {
	return shell.UnknownOp(msg.Op())
}

type SurfaceListener interface {
	// Configure asks the client to resize the surface. A width or
	// height of zero means that the client can pick. It must be
	// acknowledged with AckConfigure before the next commit that
	// responds to it.
	Configure(serial, width, height uint32)

	// Closed means that the compositor has destroyed the surface,
	// and it should be destroyed on the client's end as well.
	Closed()
}

type Surface struct {
	wl.Proxy
	Listener SurfaceListener
}

func (s *Surface) SetAnchor(anchor Anchor) {
	s.Send(surfaceSetAnchor, uint32(anchor))
}

// SetExclusiveZone sets the size of the area, from the anchored edge,
// that other surfaces should avoid. -1 extends the surface to the
// edges of the output regardless of other exclusive zones.
func (s *Surface) SetExclusiveZone(zone int32) {
	s.Send(surfaceSetExclusiveZone, zone)
}

func (s *Surface) AckConfigure(serial uint32) {
	s.Send(surfaceAckConfigure, serial)
}

func (s *Surface) Destroy() {
	s.Send(surfaceDestroy)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceConfigure:
		serial := msg.ReadUint()
		width := msg.ReadUint()
		height := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Listener != nil {
			s.Listener.Configure(serial, width, height)
		}
		return nil

	case surfaceClosed:
		if s.Listener != nil {
			s.Listener.Closed()
		}
		return nil

	default:
		return s.UnknownOp(msg.Op())
	}
}
