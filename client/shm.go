package wl

import (
	"fmt"
	"os"

	"deedles.dev/wbg/wire"
)

type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatArgb8888:
		return "ARGB8888"
	case ShmFormatXrgb8888:
		return "XRGB8888"
	default:
		// Everything else is a fourcc code.
		return fmt.Sprintf("%c%c%c%c", byte(f), byte(f>>8), byte(f>>16), byte(f>>24))
	}
}

type Shm struct {
	Proxy
	Format func(ShmFormat)
}

func IsShm(i Interface, version uint32) bool {
	return i.Is(ShmInterface, version)
}

func BindShm(client *Client, name, version uint32) *Shm {
	shm := Shm{Proxy: NewProxy(client, &shmProtocol, version)}
	client.Display().GetRegistry().Bind(name, ShmInterface, version, &shm)
	return &shm
}

// CreatePool creates a pool backed by the first size bytes of file.
// The file can be closed once the request has been flushed.
func (shm *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := ShmPool{Proxy: NewProxy(shm.client, &shmPoolProtocol, shm.version)}
	shm.client.Add(&pool)
	shm.Send(shmCreatePool, &pool, file, size)
	return &pool
}

// Release releases the global. Before version 2 there is no request
// for it and it does nothing.
func (shm *Shm) Release() {
	if shm.version >= 2 {
		shm.Send(shmRelease)
	}
}

func (shm *Shm) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != shmFormat {
		return shm.UnknownOp(msg.Op())
	}

	format := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	if shm.Format != nil {
		shm.Format(ShmFormat(format))
	}
	return nil
}
