// Package output tracks the outputs of a compositor and decides, for
// each of them, when a wallpaper surface has to be created, rendered,
// committed or torn down.
//
// Nothing in this package talks to the compositor. Protocol events are
// translated into Events and fed to a Registry, which updates its
// outputs and answers with the Commands that the caller has to carry
// out, in order.
package output

import "fmt"

// Name is the compositor-assigned global name of an output. It is the
// only thing that events use to refer to an output.
type Name uint32

type Phase int

const (
	// Unbound outputs have no surface yet, usually because the
	// globals needed to create one haven't been bound.
	Unbound Phase = iota
	// Pending outputs have a surface that is waiting for its first
	// configure event.
	Pending
	// Configured outputs have been sized and rendered at least once.
	Configured
	// Destroyed outputs had their surface closed by the compositor.
	// They never get another one.
	Destroyed
)

func (p Phase) String() string {
	switch p {
	case Unbound:
		return "unbound"
	case Pending:
		return "pending"
	case Configured:
		return "configured"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Output struct {
	Name Name

	Make, Model                   string
	PhysicalWidth, PhysicalHeight int32

	// Width and Height are the size of the output's current mode.
	Width, Height int32

	// RenderWidth and RenderHeight are the size that the compositor
	// last configured the surface with. They are only meaningful once
	// the output has been configured.
	RenderWidth, RenderHeight uint32

	Phase Phase

	configured bool
}

// HasPresentation reports whether the output currently owns a surface
// and layer surface.
func (o Output) HasPresentation() bool {
	return (o.Phase == Pending) || (o.Phase == Configured)
}

func (o Output) String() string {
	return fmt.Sprintf("%v %v (%vx%v)", o.Make, o.Model, o.Width, o.Height)
}
