package wl

import "deedles.dev/wbg/wire"

type Compositor struct {
	Proxy
}

func IsCompositor(i Interface, version uint32) bool {
	return i.Is(CompositorInterface, version)
}

func BindCompositor(client *Client, name, version uint32) *Compositor {
	compositor := Compositor{Proxy: NewProxy(client, &compositorProtocol, version)}
	client.Display().GetRegistry().Bind(name, CompositorInterface, version, &compositor)
	return &compositor
}

func (compositor *Compositor) CreateSurface() *Surface {
	surface := Surface{Proxy: NewProxy(compositor.client, &surfaceProtocol, compositor.version)}
	compositor.client.Add(&surface)
	compositor.Send(compositorCreateSurface, &surface)
	return &surface
}

func (compositor *Compositor) CreateRegion() *Region {
	region := Region{Proxy: NewProxy(compositor.client, &regionProtocol, compositor.version)}
	compositor.client.Add(&region)
	compositor.Send(compositorCreateRegion, &region)
	return &region
}

func (compositor *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return compositor.UnknownOp(msg.Op())
}
