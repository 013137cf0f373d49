package layershell_test

import (
	"testing"

	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/wltest"
	"deedles.dev/wbg/layershell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	serial, width, height uint32
	closed                bool
}

type recorder []event

func (r *recorder) Configure(serial, width, height uint32) {
	*r = append(*r, event{serial: serial, width: width, height: height})
}

func (r *recorder) Closed() {
	*r = append(*r, event{closed: true})
}

func TestLayerSurface(t *testing.T) {
	srv, conn := wltest.New(t,
		wltest.Global{Name: 1, Interface: wl.CompositorInterface, Version: 4},
		wltest.Global{Name: 2, Interface: layershell.ShellInterface, Version: 2},
	)
	client := wl.NewClient(conn)
	defer client.Close()

	client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	compositor := wl.BindCompositor(client, 1, 4)
	shell := layershell.BindShell(client, 2, 2)
	surface := compositor.CreateSurface()
	layer := shell.GetLayerSurface(surface, nil, layershell.LayerBackground, "wallpaper")

	var events recorder
	layer.Listener = &events
	layer.SetAnchor(layershell.AnchorAll)
	layer.SetExclusiveZone(-1)
	surface.Commit()
	require.NoError(t, client.RoundTrip())

	layers := srv.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, layer.ID(), layers[0].ID)
	assert.Equal(t, surface.ID(), layers[0].Surface)
	assert.Zero(t, layers[0].Output)
	assert.Equal(t, uint32(layershell.LayerBackground), layers[0].Layer)
	assert.Equal(t, "wallpaper", layers[0].Namespace)

	anchor := srv.Requests("zwlr_layer_surface_v1", "set_anchor")
	require.Len(t, anchor, 1)
	assert.Equal(t, []any{uint32(15)}, anchor[0].Args)
	zone := srv.Requests("zwlr_layer_surface_v1", "set_exclusive_zone")
	require.Len(t, zone, 1)
	assert.Equal(t, []any{int32(-1)}, zone[0].Args)

	srv.Configure(layer.ID(), 7, 800, 600)
	srv.Closed(layer.ID())
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, recorder{{serial: 7, width: 800, height: 600}, {closed: true}}, events)

	layer.AckConfigure(7)
	layer.Destroy()
	shell.Destroy()
	require.NoError(t, client.RoundTrip())

	ack := srv.Requests("zwlr_layer_surface_v1", "ack_configure")
	require.Len(t, ack, 1)
	assert.Equal(t, []any{uint32(7)}, ack[0].Args)
	assert.Empty(t, srv.Layers())
	assert.Empty(t, srv.Requests(layershell.ShellInterface, "destroy"))
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "background", layershell.LayerBackground.String())
	assert.Equal(t, "overlay", layershell.LayerOverlay.String())
	assert.Equal(t, "unknown", layershell.Layer(9).String())
}
