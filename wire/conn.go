package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"deedles.dev/wbg/internal/bin"
	"golang.org/x/sys/unix"
)

const (
	// readSize is the amount of data requested from the socket per
	// recvmsg call.
	readSize = 4096

	// maxFDs is the largest number of file descriptors accepted in a
	// single control message, matching libwayland.
	maxFDs = 28
)

func xdgRuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok {
		return dir
	}
	return fmt.Sprintf("/var/run/user/%v", os.Getuid())
}

// SocketPath determines the path to the Wayland Unix domain socket
// based on the contents of the $WAYLAND_DISPLAY environment variable.
// It does not attempt to determine if the value corresponds to an
// actual socket.
func SocketPath() string {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok {
		v = "wayland-0"
	}
	if filepath.IsAbs(v) {
		return v
	}

	return filepath.Join(xdgRuntimeDir(), v)
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
		defer file.Close()

		c, err := net.FileConn(file)
		if err != nil {
			return nil, fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
		}
		uc, ok := c.(*net.UnixConn)
		if !ok {
			c.Close()
			return nil, fmt.Errorf("WAYLAND_SOCKET is not a Unix socket: %T", c)
		}
		return NewConn(uc), nil
	}

	s, err := net.Dial("unix", SocketPath())
	if err != nil {
		return nil, err
	}
	return NewConn(s.(*net.UnixConn)), nil
}

// Conn represents a low-level Wayland connection. It is not generally
// used directly, instead being handled automatically by a Client.
//
// Reads never block. Incoming data is buffered by Fill and split into
// messages by Next. Callers that need to block should use Wait, or
// poll the descriptor returned by Fd themselves.
type Conn struct {
	conn *net.UnixConn
	in   []byte
	fds  []int
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
	}
}

// Close closes the underlying connection along with any received
// file descriptors that were never claimed by a message.
func (c *Conn) Close() error {
	for _, fd := range c.fds {
		unix.Close(fd)
	}
	c.fds = nil
	return c.conn.Close()
}

// Fd returns the socket's file descriptor, for use with poll. It
// returns -1 if the connection is no longer usable.
func (c *Conn) Fd() int {
	rc, err := c.conn.SyscallConn()
	if err != nil {
		return -1
	}

	fd := -1
	rc.Control(func(v uintptr) { fd = int(v) })
	return fd
}

// Wait blocks until the socket is readable or has been hung up.
func (c *Conn) Wait() error {
	fds := []unix.PollFd{{Fd: int32(c.Fd()), Events: unix.POLLIN}}
	for {
		_, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}

// Fill reads everything that is currently available on the socket
// into the connection's buffer without blocking. It returns the
// number of bytes read. If the other end has closed the connection,
// the returned error is io.EOF, but any data read before that point
// is still buffered and available through Next.
func (c *Conn) Fill() (int, error) {
	rc, err := c.conn.SyscallConn()
	if err != nil {
		return 0, err
	}

	buf := make([]byte, readSize)
	oob := make([]byte, unix.CmsgSpace(maxFDs*4))

	var total int
	for {
		var n, oobn int
		var rerr error
		err := rc.Read(func(fd uintptr) bool {
			n, oobn, _, _, rerr = unix.Recvmsg(int(fd), buf, oob, unix.MSG_DONTWAIT|unix.MSG_CMSG_CLOEXEC)
			return true
		})
		if err != nil {
			return total, err
		}

		switch {
		case errors.Is(rerr, unix.EAGAIN):
			return total, nil
		case errors.Is(rerr, unix.EINTR):
			continue
		case rerr != nil:
			return total, fmt.Errorf("recvmsg: %w", rerr)
		}

		if oobn > 0 {
			err := c.readFDs(oob[:oobn])
			if err != nil {
				return total, err
			}
		}
		if n == 0 {
			return total, io.EOF
		}

		c.in = append(c.in, buf[:n]...)
		total += n
		if n < len(buf) {
			return total, nil
		}
	}
}

func (c *Conn) readFDs(data []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(data)
	if err != nil {
		return fmt.Errorf("parse socket control messages: %w", err)
	}
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("parse unix control message: %w", err)
		}
		c.fds = append(c.fds, fds...)
	}
	return nil
}

// Next splits the next complete message off of the data buffered by
// Fill. It returns nil if no complete message is buffered yet.
func (c *Conn) Next() (*MessageBuffer, error) {
	if len(c.in) < 8 {
		return nil, nil
	}

	sender := bin.Value[uint32]([4]byte(c.in[0:4]))
	so := bin.Value[uint32]([4]byte(c.in[4:8]))
	size := uint16(so >> 16)
	if size < 8 {
		return nil, fmt.Errorf("invalid size for message from %v: %v", sender, size)
	}
	if len(c.in) < int(size) {
		return nil, nil
	}

	data := make([]byte, size-8)
	copy(data, c.in[8:size])
	c.in = append(c.in[:0], c.in[size:]...)

	msg := MessageBuffer{
		sender: sender,
		op:     uint16(so & 0xFFFF),
		size:   size,
		conn:   c,
	}
	msg.data.Reset(data)
	return &msg, nil
}

func (c *Conn) popFD() (fd int, ok bool) {
	if len(c.fds) == 0 {
		return -1, false
	}

	fd = c.fds[0]
	c.fds = append(c.fds[:0], c.fds[1:]...)
	return fd, true
}

// WriteMessage sends a single encoded message along with the given
// file descriptors.
func (c *Conn) WriteMessage(data []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}

	_, _, err := c.conn.WriteMsgUnix(data, oob, nil)
	return err
}

// Pair returns two Conns connected to each other by a Unix socket
// pair. It is mostly useful for tests and in-process compositors.
func Pair() (*Conn, *Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}

	a, err := fileConn(fds[0])
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, err
	}
	b, err := fileConn(fds[1])
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}

func fileConn(fd int) (*Conn, error) {
	file := os.NewFile(uintptr(fd), "socketpair")
	defer file.Close()

	c, err := net.FileConn(file)
	if err != nil {
		return nil, fmt.Errorf("open socketpair connection: %w", err)
	}
	return NewConn(c.(*net.UnixConn)), nil
}
