package wallpaper

import (
	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/output"
	"deedles.dev/wbg/layershell"
	"deedles.dev/wbg/shm"
)

// Versions of the globals that are bound. Compositors that only
// implement older versions are not supported.
const (
	compositorVersion = 4
	shmVersion        = 1
	outputVersion     = 3
	layerShellVersion = 2
)

var versions = map[string]uint32{
	wl.CompositorInterface:    compositorVersion,
	wl.ShmInterface:           shmVersion,
	wl.OutputInterface:        outputVersion,
	layershell.ShellInterface: layerShellVersion,
}

// binder binds globals as the registry announces them.
type binder struct {
	app *App
}

// tooOld logs i if it is an interface that would have been bound if
// the compositor implemented a newer version of it.
func (b binder) tooOld(i wl.Interface) {
	wanted, ok := versions[i.Name]
	if !ok || (i.Version >= wanted) {
		return
	}
	b.app.log.Errorf("%v: need interface version %v, but compositor only implements %v", i.Name, wanted, i.Version)
}

func (b binder) Global(name uint32, inter string, version uint32) {
	app := b.app
	g := &app.globals

	i := wl.Interface{Name: inter, Version: version}
	switch {
	case wl.IsCompositor(i, compositorVersion):
		if g.Compositor != nil {
			return
		}
		g.Compositor = wl.BindCompositor(app.client, name, compositorVersion)

	case wl.IsShm(i, shmVersion):
		if g.Shm != nil {
			return
		}
		g.Shm = wl.BindShm(app.client, name, shmVersion)
		g.Shm.Format = func(f wl.ShmFormat) {
			app.log.Debug("shm format", "format", f)
			g.Formats.Add(f)
		}
		app.pool = shm.NewPool(g.Shm)
		app.pool.Error = func(err error) {
			app.log.Error("free buffer", "err", err)
		}

	case layershell.IsShell(i, layerShellVersion):
		if g.LayerShell != nil {
			return
		}
		g.LayerShell = layershell.BindShell(app.client, name, layerShellVersion)

	case wl.IsOutput(i, outputVersion):
		if _, ok := app.views[output.Name(name)]; ok {
			return
		}
		b.bindOutput(output.Name(name))
		return

	default:
		b.tooOld(i)
		return
	}

	if g.Ready() {
		app.handle(output.Ready{})
	}
}

func (b binder) GlobalRemove(name uint32) {
	b.app.handle(output.Removed{Name: output.Name(name)})
}

func (b binder) bindOutput(name output.Name) {
	app := b.app

	out := wl.BindOutput(app.client, uint32(name), outputVersion)
	out.Geometry = func(x, y, pw, ph, subpixel int32, make, model string, transform wl.OutputTransform) {
		app.handle(output.Geometry{
			Name:           name,
			PhysicalWidth:  pw,
			PhysicalHeight: ph,
			Make:           make,
			Model:          model,
		})
	}
	out.Mode = func(flags wl.OutputMode, width, height, refresh int32) {
		app.handle(output.Mode{
			Name:    name,
			Current: flags&wl.OutputModeCurrent != 0,
			Width:   width,
			Height:  height,
		})
	}
	out.Done = func() {
		app.handle(output.Done{Name: name})
	}
	out.Scale = func(factor int32) {
		app.handle(output.Scale{Name: name, Factor: factor})
	}

	app.views[name] = &view{output: out}
	app.handle(output.Added{Name: name})
}
