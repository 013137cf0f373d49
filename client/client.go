// Package wl implements the client side of the core Wayland protocol
// objects needed to put pixels on an output.
//
// A Client is not safe for concurrent use. Requests are queued by the
// object methods and written by Flush, and events are only read and
// dispatched by Dispatch or RoundTrip, so all listener callbacks run
// on the goroutine that calls those.
package wl

import (
	"fmt"

	"deedles.dev/wbg/internal/debug"
	"deedles.dev/wbg/internal/objstore"
	"deedles.dev/wbg/wire"
)

type Client struct {
	conn    *wire.Conn
	objects *objstore.Store
	queue   []*wire.MessageBuilder
}

// Dial connects to the compositor at the socket named by the
// environment. See wire.Dial.
func Dial() (*Client, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, err
	}

	return NewClient(c), nil
}

func NewClient(conn *wire.Conn) *Client {
	client := Client{
		conn:    conn,
		objects: objstore.New(1),
	}
	client.Add(&Display{Proxy: NewProxy(&client, &displayProtocol, 1)})

	return &client
}

func (client *Client) Display() *Display {
	return client.objects.Get(1).(*Display)
}

// Fd returns the connection's file descriptor for use with poll.
func (client *Client) Fd() int {
	return client.conn.Fd()
}

func (client *Client) Close() error {
	for _, msg := range client.queue {
		msg.Discard()
	}
	client.queue = nil

	return client.conn.Close()
}

// Add registers obj, allocating an ID for it.
func (client *Client) Add(obj wire.Object) {
	client.objects.Add(obj)
}

func (client *Client) Get(id uint32) wire.Object {
	return client.objects.Get(id)
}

func (client *Client) Delete(id uint32) {
	client.objects.Delete(id)
}

// Enqueue queues msg to be sent by the next call to Flush.
func (client *Client) Enqueue(msg *wire.MessageBuilder) {
	client.queue = append(client.queue, msg)
}

// Flush sends all queued requests.
func (client *Client) Flush() error {
	queue := client.queue
	client.queue = nil

	for i, msg := range queue {
		debug.Printf(" -> %v", msg)
		err := msg.Build(client.conn)
		if err != nil {
			for _, msg := range queue[i+1:] {
				msg.Discard()
			}
			return fmt.Errorf("send %v: %w", msg.Method, err)
		}
	}
	return nil
}

// Dispatch reads whatever is available on the connection without
// blocking and dispatches every complete event. If the read failed,
// the error is returned after the events that were already received
// have been dispatched. A wl_display.error event is returned as a
// *DisplayError.
func (client *Client) Dispatch() error {
	_, rerr := client.conn.Fill()

	err := client.dispatchPending()
	if err != nil {
		return err
	}

	if rerr != nil {
		return fmt.Errorf("read events: %w", rerr)
	}
	return nil
}

func (client *Client) dispatchPending() error {
	for {
		msg, err := client.conn.Next()
		if err != nil {
			return err
		}
		if msg == nil {
			return nil
		}

		obj, err := client.objects.Dispatch(msg)
		if (obj != nil) && debug.Enabled() {
			debug.Printf("%v", msg.Debug(obj))
		}
		if err != nil {
			return err
		}
	}
}

// RoundTrip flushes the queue and then blocks, dispatching events,
// until the compositor has processed every request sent so far.
func (client *Client) RoundTrip() error {
	var done bool
	client.Display().Sync().Then(func(uint32) { done = true })

	for !done {
		err := client.Flush()
		if err != nil {
			return err
		}

		err = client.conn.Wait()
		if err != nil {
			return fmt.Errorf("wait for events: %w", err)
		}

		err = client.Dispatch()
		if err != nil {
			return err
		}
	}

	return nil
}
