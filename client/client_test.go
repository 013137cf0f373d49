package wl_test

import (
	"testing"

	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/wltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var globals = []wltest.Global{
	{Name: 1, Interface: wl.CompositorInterface, Version: 4},
	{Name: 2, Interface: wl.ShmInterface, Version: 1},
	{
		Name:      3,
		Interface: wl.OutputInterface,
		Version:   3,
		Output:    wltest.OutputInfo{Make: "ACME", Model: "Panel", Width: 1920, Height: 1080},
	},
}

type registryListener struct {
	added   map[uint32]wl.Interface
	removed []uint32
}

func (lis *registryListener) Global(name uint32, inter string, version uint32) {
	lis.added[name] = wl.Interface{Name: inter, Version: version}
}

func (lis *registryListener) GlobalRemove(name uint32) {
	lis.removed = append(lis.removed, name)
}

func connect(t *testing.T) (*wltest.Server, *wl.Client) {
	srv, conn := wltest.New(t, globals...)
	client := wl.NewClient(conn)
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestRegistry(t *testing.T) {
	srv, client := connect(t)

	lis := registryListener{added: make(map[uint32]wl.Interface)}
	registry := client.Display().GetRegistry()
	registry.Listener = &lis
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, map[uint32]wl.Interface{
		1: {Name: "wl_compositor", Version: 4},
		2: {Name: "wl_shm", Version: 1},
		3: {Name: "wl_output", Version: 3},
	}, lis.added)
	assert.Equal(t, lis.added, registry.Globals())
	assert.Same(t, registry, client.Display().GetRegistry())

	srv.RemoveGlobal(3)
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, []uint32{3}, lis.removed)
	assert.NotContains(t, registry.Globals(), uint32(3))
}

func TestInterfaceIs(t *testing.T) {
	i := wl.Interface{Name: wl.CompositorInterface, Version: 5}
	assert.True(t, wl.IsCompositor(i, 4))
	assert.True(t, wl.IsCompositor(i, 5))
	assert.False(t, wl.IsCompositor(i, 6))
	assert.False(t, wl.IsShm(i, 1))
}

func TestOutputEvents(t *testing.T) {
	_, client := connect(t)
	client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	var gotMake, gotModel string
	var width, height int32
	var done bool
	output := wl.BindOutput(client, 3, 3)
	output.Geometry = func(x, y, pw, ph, subpixel int32, mk, md string, transform wl.OutputTransform) {
		gotMake, gotModel = mk, md
	}
	output.Mode = func(flags wl.OutputMode, w, h, refresh int32) {
		if flags&wl.OutputModeCurrent != 0 {
			width, height = w, h
		}
	}
	output.Done = func() { done = true }
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, "ACME", gotMake)
	assert.Equal(t, "Panel", gotModel)
	assert.Equal(t, int32(1920), width)
	assert.Equal(t, int32(1080), height)
	assert.True(t, done)
}

func TestShmFormats(t *testing.T) {
	_, client := connect(t)
	client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	var formats []wl.ShmFormat
	shm := wl.BindShm(client, 2, 1)
	shm.Format = func(f wl.ShmFormat) { formats = append(formats, f) }
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, []wl.ShmFormat{wl.ShmFormatArgb8888, wl.ShmFormatXrgb8888}, formats)
	assert.Equal(t, "XRGB8888", wl.ShmFormatXrgb8888.String())
	assert.Equal(t, "XR24", wl.ShmFormat(0x34325258).String())
}

func TestSurfaceRequests(t *testing.T) {
	srv, client := connect(t)
	client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	compositor := wl.BindCompositor(client, 1, 4)
	surface := compositor.CreateSurface()
	region := compositor.CreateRegion()
	region.Add(0, 0, 10, 20)
	surface.SetInputRegion(region)
	surface.SetOpaqueRegion(nil)
	region.Destroy()
	surface.DamageBuffer(0, 0, 10, 20)
	surface.Commit()
	require.NoError(t, client.RoundTrip())

	var methods []string
	for _, r := range srv.Requests("wl_surface", "") {
		methods = append(methods, r.Method)
	}
	assert.Equal(t, []string{"set_input_region", "set_opaque_region", "damage_buffer", "commit"}, methods)

	add := srv.Requests("wl_region", "add")
	require.Len(t, add, 1)
	assert.Equal(t, []any{int32(0), int32(0), int32(10), int32(20)}, add[0].Args)

	input := srv.Requests("wl_surface", "set_input_region")
	assert.Equal(t, []any{region.ID()}, input[0].Args)
	opaque := srv.Requests("wl_surface", "set_opaque_region")
	assert.Equal(t, []any{uint32(0)}, opaque[0].Args)

	assert.Empty(t, srv.Objects("wl_region"))
	assert.Nil(t, client.Get(region.ID()))
	assert.Same(t, surface, client.Get(surface.ID()))
}

func TestCallbackDeleted(t *testing.T) {
	_, client := connect(t)

	var data uint32
	callback := client.Display().Sync()
	callback.Then(func(v uint32) { data = v })
	require.NoError(t, client.RoundTrip())
	require.NoError(t, client.RoundTrip())

	assert.NotZero(t, data)
	assert.Nil(t, client.Get(callback.ID()))
}

func TestDisplayError(t *testing.T) {
	srv, client := connect(t)
	srv.Error(1, 2, "bad things")

	err := client.RoundTrip()
	var derr *wl.DisplayError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, uint32(1), derr.ObjectID)
	assert.Equal(t, uint32(2), derr.Code)
	assert.Equal(t, "bad things", derr.Message)
}

func TestHangup(t *testing.T) {
	srv, client := connect(t)
	require.NoError(t, client.RoundTrip())

	srv.Close()
	assert.Error(t, client.RoundTrip())
}
