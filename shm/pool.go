package shm

import (
	"errors"

	wl "deedles.dev/wbg/client"
)

// Key identifies the owner of a set of buffers in a Pool.
type Key uint32

// Pool hands out buffers of a requested size, reusing the ones that
// the compositor has released. Buffers are grouped by key so that
// each owner's buffers can be resized and freed independently.
type Pool struct {
	shm     *wl.Shm
	buffers map[Key][]*ImageBuffer

	// Error, if non-nil, is called with errors from freeing buffers
	// that could only be freed once the compositor released them.
	Error func(error)
}

func NewPool(shm *wl.Shm) *Pool {
	return &Pool{
		shm:     shm,
		buffers: make(map[Key][]*ImageBuffer),
	}
}

// Get returns a w by h buffer for key that the compositor isn't using.
// The buffer is marked busy until the compositor releases it. Buffers
// for key of any other size are freed.
func (p *Pool) Get(key Key, w, h int32) (*ImageBuffer, error) {
	err := checkSize(w, h)
	if err != nil {
		return nil, err
	}

	var found *ImageBuffer
	bufs := p.buffers[key][:0]
	for _, buf := range p.buffers[key] {
		if (buf.w != w) || (buf.h != h) {
			p.report(p.purge(buf))
			continue
		}

		bufs = append(bufs, buf)
		if (found == nil) && !buf.busy {
			found = buf
		}
	}
	p.buffers[key] = bufs

	if found == nil {
		buf, err := NewImageBuffer(p.shm, w, h)
		if err != nil {
			return nil, err
		}
		found = buf
		p.buffers[key] = append(p.buffers[key], found)
	}

	found.busy = true
	return found, nil
}

// Len returns the number of buffers held for key.
func (p *Pool) Len(key Key) int {
	return len(p.buffers[key])
}

// Purge frees every buffer held for key. Buffers that the compositor
// is still reading from are freed when it releases them.
func (p *Pool) Purge(key Key) error {
	var errs []error
	for _, buf := range p.buffers[key] {
		errs = append(errs, p.purge(buf))
	}
	delete(p.buffers, key)
	return errors.Join(errs...)
}

// Destroy frees every buffer immediately, busy or not. It is meant
// for shutting down, when the compositor is about to be disconnected
// from anyways.
func (p *Pool) Destroy() error {
	var errs []error
	for key, bufs := range p.buffers {
		for _, buf := range bufs {
			errs = append(errs, buf.Destroy())
		}
		delete(p.buffers, key)
	}
	return errors.Join(errs...)
}

func (p *Pool) purge(buf *ImageBuffer) error {
	buf.purged = true
	if buf.busy {
		buf.onError = p.report
		return nil
	}
	return buf.Destroy()
}

func (p *Pool) report(err error) {
	if (err != nil) && (p.Error != nil) {
		p.Error(err)
	}
}
