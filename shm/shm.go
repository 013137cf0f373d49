// Package shm provides helpers for dealing with shared memory.
package shm

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Create returns an anonymous file suitable for sharing with the
// compositor. It prefers memfd_create, falling back to an unlinked
// file in /dev/shm on systems that don't have it.
func Create() (*os.File, error) {
	fd, err := unix.MemfdCreate("wbg", unix.MFD_CLOEXEC)
	if err == nil {
		return os.NewFile(uintptr(fd), "wbg"), nil
	}
	if !errors.Is(err, unix.ENOSYS) {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}

	path := "/dev/shm/wbg-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	return file, os.Remove(path)
}

type Mmap []byte

// MapShared maps the first size bytes of file into memory, shared
// with anyone else that maps it.
func MapShared(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	cerr := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if cerr != nil {
		return nil, cerr
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
