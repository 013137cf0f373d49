package output

// Event is something that happened to the outputs.
type Event interface {
	event()
}

// Added means that an output global was bound.
type Added struct {
	Name Name
}

// Removed means that an output global went away.
type Removed struct {
	Name Name
}

// Ready means that every global needed to create surfaces has been
// bound. It can be sent more than once.
type Ready struct{}

type Geometry struct {
	Name                          Name
	PhysicalWidth, PhysicalHeight int32
	Make, Model                   string
}

type Mode struct {
	Name          Name
	Current       bool
	Width, Height int32
}

// Done ends a batch of description events.
type Done struct {
	Name Name
}

// Scale is accepted for completeness. Outputs are always treated as
// having a scale of 1.
type Scale struct {
	Name   Name
	Factor int32
}

type Configure struct {
	Name                  Name
	Serial, Width, Height uint32
}

// Closed means that the compositor destroyed the output's layer
// surface.
type Closed struct {
	Name Name
}

func (Added) event()     {}
func (Removed) event()   {}
func (Ready) event()     {}
func (Geometry) event()  {}
func (Mode) event()      {}
func (Done) event()      {}
func (Scale) event()     {}
func (Configure) event() {}
func (Closed) event()    {}
