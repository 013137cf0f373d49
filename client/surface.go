package wl

import "deedles.dev/wbg/wire"

type Surface struct {
	Proxy
	Enter func(output uint32)
	Leave func(output uint32)
}

func (s *Surface) Attach(buf *Buffer, x, y int32) {
	s.Send(surfaceAttach, buf, x, y)
}

// DamageBuffer marks an area of the attached buffer, in buffer
// coordinates, as changed. It requires wl_compositor version 4.
func (s *Surface) DamageBuffer(x, y, width, height int32) {
	s.Send(surfaceDamageBuffer, x, y, width, height)
}

// SetOpaqueRegion sets the region of the surface that is opaque. A
// nil region means that nothing is.
func (s *Surface) SetOpaqueRegion(region *Region) {
	s.Send(surfaceSetOpaqueRegion, region)
}

// SetInputRegion sets the region of the surface that accepts input. A
// nil region means the whole surface does.
func (s *Surface) SetInputRegion(region *Region) {
	s.Send(surfaceSetInputRegion, region)
}

func (s *Surface) Commit() {
	s.Send(surfaceCommit)
}

func (s *Surface) Destroy() {
	s.Send(surfaceDestroy)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceEnter, surfaceLeave:
		output := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}

		f := s.Enter
		if msg.Op() == surfaceLeave {
			f = s.Leave
		}
		if f != nil {
			f(output)
		}
		return nil

	default:
		return s.UnknownOp(msg.Op())
	}
}
