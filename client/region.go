package wl

import "deedles.dev/wbg/wire"

type Region struct {
	Proxy
}

func (region *Region) Add(x, y, width, height int32) {
	region.Send(regionAdd, x, y, width, height)
}

func (region *Region) Destroy() {
	region.Send(regionDestroy)
}

func (region *Region) Dispatch(msg *wire.MessageBuffer) error {
	return region.UnknownOp(msg.Op())
}
