// Package loop implements the main event loop, which waits on the
// compositor connection and on incoming signals at the same time.
package loop

import (
	"errors"
	"fmt"

	"deedles.dev/wbg/internal/set"
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// ErrDisconnected is returned by Run when the compositor hangs up.
var ErrDisconnected = errors.New("disconnected by compositor")

// Conn is a connection to the compositor.
type Conn interface {
	Fd() int
	Flush() error

	// Dispatch handles whatever events can be read without blocking.
	Dispatch() error
}

// Signals is a descriptor that signals can be read from.
type Signals interface {
	Fd() int
	Read() (unix.Signal, error)
}

var shutdown = set.New(unix.SIGINT, unix.SIGQUIT)

// Run flushes and dispatches conn until a SIGINT or SIGQUIT is read
// from sigs, at which point it returns nil. Any other way that it can
// return is an error. Receiving any other signal is a bug in the
// caller and panics.
func Run(conn Conn, sigs Signals, logger *log.Logger) error {
	fds := []unix.PollFd{
		{Fd: int32(conn.Fd()), Events: unix.POLLIN},
		{Fd: int32(sigs.Fd()), Events: unix.POLLIN},
	}

	for {
		err := conn.Flush()
		if err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		fds[0].Revents, fds[1].Revents = 0, 0
		_, err = unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}

		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			return ErrDisconnected
		}
		if fds[1].Revents&unix.POLLHUP != 0 {
			panic("signal descriptor hung up")
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			err := conn.Dispatch()
			if err != nil {
				return fmt.Errorf("dispatch: %w", err)
			}
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			sig, err := readSignal(sigs)
			if err != nil {
				return fmt.Errorf("read signal: %w", err)
			}
			if !shutdown.Has(sig) {
				panic(fmt.Errorf("unexpected signal: %v", sig))
			}

			logger.Debug("received signal", "signal", sig)
			logger.Info("goodbye")
			return nil
		}
	}
}

func readSignal(sigs Signals) (unix.Signal, error) {
	for {
		sig, err := sigs.Read()
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return sig, err
	}
}
