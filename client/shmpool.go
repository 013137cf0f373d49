package wl

import "deedles.dev/wbg/wire"

type ShmPool struct {
	Proxy
}

func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := Buffer{Proxy: NewProxy(pool.client, &bufferProtocol, 1)}
	pool.client.Add(&buf)
	pool.Send(shmPoolCreateBuffer, &buf, offset, width, height, stride, uint32(format))
	return &buf
}

// Destroy destroys the pool. Buffers created from it remain valid.
func (pool *ShmPool) Destroy() {
	pool.Send(shmPoolDestroy)
}

func (pool *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return pool.UnknownOp(msg.Op())
}
