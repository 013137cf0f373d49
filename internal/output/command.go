package output

// Command is something that has to be done to the compositor's
// objects in response to an Event.
type Command interface {
	command()
}

// CreatePresentation creates the output's surface and layer surface
// and commits the surface once without a buffer.
type CreatePresentation struct {
	Name Name
}

// Ack acknowledges a configure event.
type Ack struct {
	Name   Name
	Serial uint32
}

// Commit commits the surface without changing its contents.
type Commit struct {
	Name Name
}

// Render draws a new buffer of the given size and commits it.
type Render struct {
	Name          Name
	Width, Height uint32
}

// DestroyPresentation destroys the layer surface and the surface.
type DestroyPresentation struct {
	Name Name
}

// ReleaseOutput releases the wl_output and any buffers kept for it.
type ReleaseOutput struct {
	Name Name
}

// Announce reports a complete description of the output.
type Announce struct {
	Output Output
}

func (CreatePresentation) command()  {}
func (Ack) command()                 {}
func (Commit) command()              {}
func (Render) command()              {}
func (DestroyPresentation) command() {}
func (ReleaseOutput) command()       {}
func (Announce) command()            {}
