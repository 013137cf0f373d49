// Package sigfd turns signal delivery into a readable file descriptor
// so that it can be waited on with poll alongside other descriptors.
//
// The Go runtime owns the process's signal handlers, so signalfd
// can't be relied on. Instead, signals received through os/signal are
// written into a pipe as 4-byte records in host byte order.
package sigfd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"deedles.dev/wbg/internal/bin"
	"golang.org/x/sys/unix"
)

// ErrShortRead is returned by Read if a record was only partially
// read. It can't happen with writes of 4 bytes to a pipe, which are
// atomic.
var ErrShortRead = errors.New("short read from signal descriptor")

type FD struct {
	r, w int
	sigs chan os.Signal
	done chan struct{}
}

// New starts forwarding the given signals.
func New(sigs ...os.Signal) (*FD, error) {
	var p [2]int
	err := unix.Pipe2(p[:], unix.O_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	fd := FD{
		r:    p[0],
		w:    p[1],
		sigs: make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(fd.sigs, sigs...)
	go fd.forward()

	return &fd, nil
}

func (fd *FD) forward() {
	defer close(fd.done)

	for sig := range fd.sigs {
		s, ok := sig.(unix.Signal)
		if !ok {
			continue
		}

		rec := bin.Bytes(uint32(s))
		_, err := unix.Write(fd.w, rec[:])
		if err != nil {
			return
		}
	}
}

// Fd returns the descriptor to poll for readability.
func (fd *FD) Fd() int {
	return fd.r
}

// Read reads a single signal record. It blocks if none is available.
// unix.EINTR is returned as is so that callers can retry.
func (fd *FD) Read() (unix.Signal, error) {
	var rec [4]byte
	n, err := unix.Read(fd.r, rec[:])
	if err != nil {
		return 0, err
	}
	if n != len(rec) {
		return 0, ErrShortRead
	}

	return unix.Signal(bin.Value[uint32](rec)), nil
}

// Close stops forwarding signals and closes the descriptors. Signals
// that arrive afterwards get their default behavior back.
func (fd *FD) Close() error {
	signal.Stop(fd.sigs)
	close(fd.sigs)
	<-fd.done

	return errors.Join(
		unix.Close(fd.w),
		unix.Close(fd.r),
	)
}
