package wl

import "deedles.dev/wbg/wire"

type OutputMode uint32

const (
	OutputModeCurrent   OutputMode = 0x1
	OutputModePreferred OutputMode = 0x2
)

type OutputTransform int32

const (
	OutputTransformNormal OutputTransform = iota
	OutputTransform90
	OutputTransform180
	OutputTransform270
	OutputTransformFlipped
	OutputTransformFlipped90
	OutputTransformFlipped180
	OutputTransformFlipped270
)

type Output struct {
	Proxy
	Geometry    func(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform OutputTransform)
	Mode        func(flags OutputMode, width, height, refresh int32)
	Done        func()
	Scale       func(factor int32)
	Name        func(name string)
	Description func(description string)
}

func IsOutput(i Interface, version uint32) bool {
	return i.Is(OutputInterface, version)
}

func BindOutput(client *Client, name, version uint32) *Output {
	output := Output{Proxy: NewProxy(client, &outputProtocol, version)}
	client.Display().GetRegistry().Bind(name, OutputInterface, version, &output)
	return &output
}

// Release releases the global. It requires version 3.
func (out *Output) Release() {
	out.Send(outputRelease)
}

func (out *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputGeometry:
		x := msg.ReadInt()
		y := msg.ReadInt()
		pw := msg.ReadInt()
		ph := msg.ReadInt()
		subpixel := msg.ReadInt()
		make := msg.ReadString()
		model := msg.ReadString()
		transform := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Geometry != nil {
			out.Geometry(x, y, pw, ph, subpixel, make, model, OutputTransform(transform))
		}

	case outputMode:
		flags := msg.ReadUint()
		width := msg.ReadInt()
		height := msg.ReadInt()
		refresh := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Mode != nil {
			out.Mode(OutputMode(flags), width, height, refresh)
		}

	case outputDone:
		if out.Done != nil {
			out.Done()
		}

	case outputScale:
		factor := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Scale != nil {
			out.Scale(factor)
		}

	case outputName, outputDescription:
		s := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}

		f := out.Name
		if msg.Op() == outputDescription {
			f = out.Description
		}
		if f != nil {
			f(s)
		}

	default:
		return out.UnknownOp(msg.Op())
	}

	return nil
}
