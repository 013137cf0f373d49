package shm_test

import (
	"image"
	"image/color"
	"math"
	"testing"

	wl "deedles.dev/wbg/client"
	"deedles.dev/wbg/internal/wltest"
	"deedles.dev/wbg/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func setup(t *testing.T) (*wltest.Server, *wl.Client, *wl.Shm) {
	srv, conn := wltest.New(t,
		wltest.Global{Name: 1, Interface: wl.ShmInterface, Version: 1},
	)
	client := wl.NewClient(conn)
	t.Cleanup(func() { client.Close() })

	client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())
	return srv, client, wl.BindShm(client, 1, 1)
}

func TestCreate(t *testing.T) {
	file, err := shm.Create()
	require.NoError(t, err)
	defer file.Close()

	require.NoError(t, file.Truncate(64))
	mmap, err := shm.MapShared(file, 64, unix.PROT_READ|unix.PROT_WRITE)
	require.NoError(t, err)
	defer mmap.Unmap()

	mmap[10] = 42
	buf := make([]byte, 1)
	_, err = file.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, byte(42), buf[0])
}

func TestImageBuffer(t *testing.T) {
	srv, client, s := setup(t)

	buf, err := shm.NewImageBuffer(s, 3, 2)
	require.NoError(t, err)
	defer buf.Destroy()

	assert.Equal(t, image.Rect(0, 0, 3, 2), buf.Bounds())
	assert.Equal(t, int32(12), buf.Stride())
	assert.Len(t, buf.Pixels(), 24)

	buf.Fill(color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44})
	for i := 0; i < len(buf.Pixels()); i += 4 {
		assert.Equal(t, []byte{0x33, 0x22, 0x11, 0xFF}, buf.Pixels()[i:i+4])
	}

	img := buf.Image()
	img.Set(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0xFFFF, 0, 0}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x1111, 0x2222, 0x3333}, [3]uint32{r, g, b})

	require.NoError(t, client.RoundTrip())
	assert.Len(t, srv.Objects("wl_buffer"), 1)
	assert.Empty(t, srv.Objects("wl_shm_pool"))
	created := srv.Requests("wl_shm_pool", "create_buffer")
	require.Len(t, created, 1)
	assert.Equal(t, []any{buf.Buffer().ID(), int32(0), int32(3), int32(2), int32(12), uint32(wl.ShmFormatXrgb8888)}, created[0].Args)
}

func TestImageBufferInvalidSize(t *testing.T) {
	_, _, s := setup(t)

	_, err := shm.NewImageBuffer(s, 0, 10)
	assert.Error(t, err)

	_, err = shm.NewImageBuffer(s, 1<<15, 1<<14)
	assert.ErrorContains(t, err, "too large")

	_, err = shm.NewImageBuffer(s, math.MaxInt32, 2)
	assert.ErrorContains(t, err, "too large")

	buf, err := shm.NewImageBuffer(s, 3, 2)
	require.NoError(t, err)
	assert.NoError(t, buf.Destroy())
	assert.NoError(t, buf.Destroy())
}

func TestPoolTooLarge(t *testing.T) {
	_, _, s := setup(t)
	pool := shm.NewPool(s)
	defer pool.Destroy()

	_, err := pool.Get(1, 2, 2)
	require.NoError(t, err)

	_, err = pool.Get(1, math.MaxInt32, math.MaxInt32)
	assert.ErrorContains(t, err, "too large")
	assert.Equal(t, 1, pool.Len(1), "a rejected size must not free the existing buffers")
}

func TestPoolReuse(t *testing.T) {
	srv, client, s := setup(t)
	pool := shm.NewPool(s)
	defer pool.Destroy()

	a, err := pool.Get(1, 4, 4)
	require.NoError(t, err)
	assert.True(t, a.Busy())

	b, err := pool.Get(1, 4, 4)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "busy buffers must not be handed out twice")
	assert.Equal(t, 2, pool.Len(1))

	require.NoError(t, client.RoundTrip())
	srv.Release(a.Buffer().ID())
	require.NoError(t, client.RoundTrip())
	assert.False(t, a.Busy())

	c, err := pool.Get(1, 4, 4)
	require.NoError(t, err)
	assert.Same(t, a, c)
	assert.Equal(t, 2, pool.Len(1))

	other, err := pool.Get(2, 4, 4)
	require.NoError(t, err)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, pool.Len(1))
	assert.Equal(t, 1, pool.Len(2))
}

func TestPoolResize(t *testing.T) {
	srv, client, s := setup(t)
	pool := shm.NewPool(s)
	defer pool.Destroy()

	small, err := pool.Get(1, 2, 2)
	require.NoError(t, err)
	require.NoError(t, client.RoundTrip())
	srv.Release(small.Buffer().ID())
	require.NoError(t, client.RoundTrip())

	busy, err := pool.Get(2, 2, 2)
	require.NoError(t, err)
	busyID := busy.Buffer().ID()

	_, err = pool.Get(1, 8, 8)
	require.NoError(t, err)
	_, err = pool.Get(2, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Len(1))
	assert.Equal(t, 1, pool.Len(2))

	require.NoError(t, client.RoundTrip())
	destroyed := srv.Requests("wl_buffer", "destroy")
	require.Len(t, destroyed, 1, "only the released buffer can be destroyed right away")

	srv.Release(busyID)
	require.NoError(t, client.RoundTrip())
	require.NoError(t, client.RoundTrip())
	assert.Len(t, srv.Requests("wl_buffer", "destroy"), 2)
	assert.Len(t, srv.Objects("wl_buffer"), 2)
}

func TestPoolPurge(t *testing.T) {
	srv, client, s := setup(t)
	pool := shm.NewPool(s)

	_, err := pool.Get(1, 2, 2)
	require.NoError(t, err)
	require.NoError(t, pool.Purge(1))
	assert.Zero(t, pool.Len(1))
	require.NoError(t, client.RoundTrip())
	assert.Empty(t, srv.Requests("wl_buffer", "destroy"))
}
