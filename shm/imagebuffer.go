package shm

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	wl "deedles.dev/wbg/client"
	"deedles.dev/ximage/format"
	"golang.org/x/sys/unix"
)

// ImageBuffer is a wl_buffer backed by its own shared memory file. Its
// pixels are XRGB8888, stored as little-endian 32-bit words.
type ImageBuffer struct {
	w, h int32
	buf  *wl.Buffer
	mmap Mmap

	busy    bool
	purged  bool
	onError func(error)
}

// checkSize returns an error if a w by h buffer can't be created. The
// protocol limits a pool to math.MaxInt32 bytes.
func checkSize(w, h int32) error {
	if (w <= 0) || (h <= 0) {
		return fmt.Errorf("invalid buffer size %vx%v", w, h)
	}
	if int64(w)*4*int64(h) > math.MaxInt32 {
		return fmt.Errorf("buffer size %vx%v is too large", w, h)
	}
	return nil
}

// NewImageBuffer creates a w by h buffer. The file backing it is only
// kept open long enough to hand it to the compositor.
func NewImageBuffer(shm *wl.Shm, w, h int32) (s *ImageBuffer, err error) {
	err = checkSize(w, h)
	if err != nil {
		return nil, err
	}

	s = &ImageBuffer{
		w: w,
		h: h,
	}

	file, err := Create()
	if err != nil {
		return nil, fmt.Errorf("create SHM file: %w", err)
	}
	defer file.Close()

	err = file.Truncate(int64(s.Len()))
	if err != nil {
		return nil, fmt.Errorf("truncate SHM file: %w", err)
	}

	mmap, err := MapShared(file, int(s.Len()), unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return nil, fmt.Errorf("mmap SHM file: %w", err)
	}
	s.mmap = mmap

	pool := shm.CreatePool(file, s.Len())
	s.buf = pool.CreateBuffer(0, w, h, s.Stride(), wl.ShmFormatXrgb8888)
	s.buf.Release = s.release
	pool.Destroy()

	return s, nil
}

func (s *ImageBuffer) release() {
	s.busy = false
	if !s.purged {
		return
	}

	err := s.Destroy()
	if (err != nil) && (s.onError != nil) {
		s.onError(err)
	}
}

// Destroy unmaps the buffer's memory and destroys the wl_buffer. It
// must not be called while the compositor is still reading from it.
// The wl_buffer is destroyed even if unmapping fails.
func (s *ImageBuffer) Destroy() error {
	var err error
	if s.mmap != nil {
		err = s.mmap.Unmap()
		if err != nil {
			err = fmt.Errorf("unmap buffer: %w", err)
		}
		s.mmap = nil
	}
	if s.buf != nil {
		s.buf.Destroy()
		s.buf = nil
	}
	return err
}

func (s *ImageBuffer) Buffer() *wl.Buffer {
	return s.buf
}

// Busy reports whether the buffer has been handed out and not yet
// released by the compositor.
func (s *ImageBuffer) Busy() bool {
	return s.busy
}

func (s *ImageBuffer) Stride() int32 {
	return s.w * 4
}

// Len is the size of the buffer in bytes. It always fits in an int32,
// as NewImageBuffer refuses anything larger.
func (s *ImageBuffer) Len() int32 {
	return int32(int64(s.Stride()) * int64(s.h))
}

func (s *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(
		0,
		0,
		int(s.w),
		int(s.h),
	)
}

// Pixels returns the raw contents of the buffer.
func (s *ImageBuffer) Pixels() []byte {
	return s.mmap
}

func (s *ImageBuffer) Image() draw.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   s.Bounds(),
		Pix:    s.mmap,
	}
}

// Fill sets every pixel of the buffer to c, ignoring its alpha.
func (s *ImageBuffer) Fill(c color.Color) {
	if len(s.mmap) == 0 {
		return
	}

	r, g, b, _ := c.RGBA()
	px := 0xFF000000 | (r>>8)<<16 | (g>>8)<<8 | (b >> 8)
	binary.LittleEndian.PutUint32(s.mmap, px)
	for n := 4; n < len(s.mmap); n *= 2 {
		copy(s.mmap[n:], s.mmap[:n])
	}
}
