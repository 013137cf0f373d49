package output

import (
	"deedles.dev/wbg/internal/xslices"
	"golang.org/x/exp/slices"
)

// Registry is the set of live outputs. The zero value is ready to use.
type Registry struct {
	outputs []*Output
	ready   bool
}

func (r *Registry) find(name Name) *Output {
	out, _ := xslices.Find(r.outputs, func(out *Output) bool { return out.Name == name })
	return out
}

// Get returns a copy of the output with the given name.
func (r *Registry) Get(name Name) (Output, bool) {
	out := r.find(name)
	if out == nil {
		return Output{}, false
	}
	return *out, true
}

// All returns copies of every output.
func (r *Registry) All() []Output {
	all := make([]Output, 0, len(r.outputs))
	for _, out := range r.outputs {
		all = append(all, *out)
	}
	return all
}

func (r *Registry) Len() int {
	return len(r.outputs)
}

// Ready reports whether a Ready event has been handled.
func (r *Registry) Ready() bool {
	return r.ready
}

// Handle applies ev and returns the commands that it requires. Events
// that refer to unknown outputs, or that don't make sense in an
// output's current phase, are ignored.
func (r *Registry) Handle(ev Event) []Command {
	switch ev := ev.(type) {
	case Added:
		if r.find(ev.Name) != nil {
			return nil
		}
		out := Output{Name: ev.Name}
		r.outputs = append(r.outputs, &out)
		if r.ready {
			return out.present()
		}
		return nil

	case Removed:
		i := slices.IndexFunc(r.outputs, func(out *Output) bool { return out.Name == ev.Name })
		if i < 0 {
			return nil
		}
		out := r.outputs[i]
		r.outputs = slices.Delete(r.outputs, i, i+1)

		var cmds []Command
		if out.HasPresentation() {
			cmds = append(cmds, DestroyPresentation{Name: out.Name})
		}
		return append(cmds, ReleaseOutput{Name: out.Name})

	case Ready:
		r.ready = true
		var cmds []Command
		unbound := xslices.Filter(r.outputs, func(out *Output) bool { return out.Phase == Unbound })
		for _, out := range unbound {
			cmds = append(cmds, out.present()...)
		}
		return cmds

	case Geometry:
		if out := r.find(ev.Name); out != nil {
			out.Make, out.Model = ev.Make, ev.Model
			out.PhysicalWidth, out.PhysicalHeight = ev.PhysicalWidth, ev.PhysicalHeight
		}
		return nil

	case Mode:
		if out := r.find(ev.Name); (out != nil) && ev.Current {
			out.Width, out.Height = ev.Width, ev.Height
		}
		return nil

	case Done:
		if out := r.find(ev.Name); out != nil {
			return []Command{Announce{Output: *out}}
		}
		return nil

	case Scale:
		return nil

	case Configure:
		if out := r.find(ev.Name); out != nil {
			return out.configure(ev)
		}
		return nil

	case Closed:
		out := r.find(ev.Name)
		if (out == nil) || !out.HasPresentation() {
			return nil
		}
		out.Phase = Destroyed
		return []Command{DestroyPresentation{Name: out.Name}}

	default:
		return nil
	}
}

func (o *Output) present() []Command {
	o.Phase = Pending
	return []Command{CreatePresentation{Name: o.Name}}
}

func (o *Output) configure(ev Configure) []Command {
	if !o.HasPresentation() {
		return nil
	}

	cmds := []Command{Ack{Name: o.Name, Serial: ev.Serial}}
	if o.configured && (ev.Width == o.RenderWidth) && (ev.Height == o.RenderHeight) {
		return append(cmds, Commit{Name: o.Name})
	}

	o.RenderWidth, o.RenderHeight = ev.Width, ev.Height
	o.configured = true
	o.Phase = Configured
	return append(cmds, Render{Name: o.Name, Width: ev.Width, Height: ev.Height})
}
