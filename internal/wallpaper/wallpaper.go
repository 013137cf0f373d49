// Package wallpaper puts a surface on the background layer of every
// output and keeps it painted.
package wallpaper

import (
	"errors"
	"fmt"

	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/loop"
	"deedles.dev/wbg/internal/output"
	"deedles.dev/wbg/internal/set"
	"deedles.dev/wbg/layershell"
	"deedles.dev/wbg/paint"
	"deedles.dev/wbg/shm"
	"github.com/charmbracelet/log"
)

var (
	ErrNoCompositor = errors.New("no compositor")
	ErrNoShm        = errors.New("no shared memory buffers interface")
	ErrNoLayerShell = errors.New("no layer shell interface")
	ErrNoXRGB       = errors.New("shm: XRGB image format not available")
)

// Globals are the process-wide objects bound from the registry.
type Globals struct {
	Compositor *wl.Compositor
	Shm        *wl.Shm
	LayerShell *layershell.Shell

	// Formats holds every pixel format that Shm has announced.
	Formats set.Set[wl.ShmFormat]
}

// Ready reports whether everything needed to create surfaces has been
// bound.
func (g *Globals) Ready() bool {
	return (g.Compositor != nil) && (g.Shm != nil) && (g.LayerShell != nil)
}

// view holds the protocol objects of one output.
type view struct {
	output  *wl.Output
	surface *wl.Surface
	layer   *layershell.Surface
}

type App struct {
	client  *wl.Client
	log     *log.Logger
	source  paint.Source
	globals Globals
	outputs output.Registry
	views   map[output.Name]*view
	pool    *shm.Pool
}

// New returns an App that paints source on every output of client's
// compositor. Nothing is sent until Setup is called.
func New(client *wl.Client, source paint.Source, logger *log.Logger) *App {
	return &App{
		client:  client,
		log:     logger,
		source:  source,
		globals: Globals{Formats: set.New[wl.ShmFormat]()},
		views:   make(map[output.Name]*view),
	}
}

// Setup binds the globals and creates a surface for every output that
// exists so far. It fails if the compositor is missing something that
// is required.
func (app *App) Setup() error {
	registry := app.client.Display().GetRegistry()
	registry.Listener = binder{app: app}

	err := app.client.RoundTrip()
	if err != nil {
		return fmt.Errorf("discover globals: %w", err)
	}

	switch {
	case app.globals.Compositor == nil:
		return ErrNoCompositor
	case app.globals.Shm == nil:
		return ErrNoShm
	case app.globals.LayerShell == nil:
		return ErrNoLayerShell
	}

	app.handle(output.Ready{})

	// Formats are announced in response to the bind, and the first
	// configure events in response to the surfaces' first commits.
	err = app.client.RoundTrip()
	if err != nil {
		return fmt.Errorf("wait for formats: %w", err)
	}

	if !app.globals.Formats.Has(wl.ShmFormatXrgb8888) {
		return ErrNoXRGB
	}

	return nil
}

// Run runs the event loop until a shutdown signal is read from sigs.
func (app *App) Run(sigs loop.Signals) error {
	return loop.Run(app.client, sigs, app.log)
}

// Outputs returns the current state of every output.
func (app *App) Outputs() []output.Output {
	return app.outputs.All()
}

// Close destroys everything that the App created and closes the
// connection.
func (app *App) Close() error {
	for _, out := range app.outputs.All() {
		v := app.views[out.Name]
		if v == nil {
			continue
		}
		app.destroyPresentation(v)
		v.output.Release()
		delete(app.views, out.Name)
	}

	var poolErr error
	if app.pool != nil {
		poolErr = app.pool.Destroy()
	}
	if app.globals.LayerShell != nil {
		app.globals.LayerShell.Destroy()
	}
	if app.globals.Shm != nil {
		app.globals.Shm.Release()
	}

	return errors.Join(
		poolErr,
		app.client.Flush(),
		app.client.Close(),
	)
}

func (app *App) handle(ev output.Event) {
	for _, cmd := range app.outputs.Handle(ev) {
		app.exec(cmd)
	}
}
