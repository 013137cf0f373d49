package wallpaper

import (
	"math"

	"deedles.dev/wbg/internal/output"
	"deedles.dev/wbg/layershell"
	"deedles.dev/wbg/paint"
	"deedles.dev/wbg/shm"
)

// Namespace is the layer surface namespace that wallpapers are created
// with.
const Namespace = "wallpaper"

// layerListener forwards layer surface events for a single output.
type layerListener struct {
	app  *App
	name output.Name
}

func (lis layerListener) Configure(serial, width, height uint32) {
	lis.app.handle(output.Configure{
		Name:   lis.name,
		Serial: serial,
		Width:  width,
		Height: height,
	})
}

func (lis layerListener) Closed() {
	lis.app.handle(output.Closed{Name: lis.name})
}

func (app *App) exec(cmd output.Command) {
	switch cmd := cmd.(type) {
	case output.Announce:
		app.log.Infof("output: %v", cmd.Output)

	case output.CreatePresentation:
		if v := app.view(cmd.Name); v != nil {
			app.present(cmd.Name, v)
		}

	case output.Ack:
		if v := app.view(cmd.Name); v != nil {
			v.layer.AckConfigure(cmd.Serial)
		}

	case output.Commit:
		if v := app.view(cmd.Name); v != nil {
			v.surface.Commit()
		}

	case output.Render:
		if v := app.view(cmd.Name); v != nil {
			app.render(cmd, v)
		}

	case output.DestroyPresentation:
		if v := app.view(cmd.Name); v != nil {
			app.destroyPresentation(v)
		}

	case output.ReleaseOutput:
		if v := app.view(cmd.Name); v != nil {
			v.output.Release()
			delete(app.views, cmd.Name)
			if app.pool != nil {
				if err := app.pool.Purge(shm.Key(cmd.Name)); err != nil {
					app.log.Error("free buffers", "output", cmd.Name, "err", err)
				}
			}
		}
	}
}

func (app *App) view(name output.Name) *view {
	v := app.views[name]
	if v == nil {
		app.log.Warn("no objects for output", "output", name)
	}
	return v
}

func (app *App) present(name output.Name, v *view) {
	compositor := app.globals.Compositor

	v.surface = compositor.CreateSurface()

	// Input goes through to whatever is below, which is nothing.
	input := compositor.CreateRegion()
	v.surface.SetInputRegion(input)
	input.Destroy()

	opaque := compositor.CreateRegion()
	opaque.Add(0, 0, math.MaxInt32, math.MaxInt32)
	v.surface.SetOpaqueRegion(opaque)
	opaque.Destroy()

	v.layer = app.globals.LayerShell.GetLayerSurface(v.surface, v.output, layershell.LayerBackground, Namespace)
	v.layer.Listener = layerListener{app: app, name: name}
	v.layer.SetExclusiveZone(-1)
	v.layer.SetAnchor(layershell.AnchorAll)

	v.surface.Commit()
}

func (app *App) destroyPresentation(v *view) {
	if v.layer != nil {
		v.layer.Destroy()
		v.layer = nil
	}
	if v.surface != nil {
		v.surface.Destroy()
		v.surface = nil
	}
}

func (app *App) render(cmd output.Render, v *view) {
	w, h := int32(cmd.Width), int32(cmd.Height)

	buf, err := app.pool.Get(shm.Key(cmd.Name), w, h)
	if err != nil {
		app.log.Debug("no buffer", "output", cmd.Name, "err", err)
		return
	}

	paint.Paint(buf, app.source)

	v.surface.Attach(buf.Buffer(), 0, 0)
	v.surface.DamageBuffer(0, 0, w, h)
	v.surface.Commit()
}
