// Package wltest provides a fake compositor that talks the Wayland
// wire protocol over a socket pair. It understands the handful of
// interfaces that a layer-shell client needs, records every request
// that it receives, and lets tests inject events.
package wltest

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"deedles.dev/wbg/wire"
	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"
)

// Global is a global advertised by a Server.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32

	// Output describes wl_output globals.
	Output OutputInfo
}

type OutputInfo struct {
	Make, Model   string
	Width, Height int32
}

// Request is a request received from the client.
type Request struct {
	Object    uint32
	Interface string
	Method    string
	Args      []any
}

// Buffer describes a wl_buffer created by the client.
type Buffer struct {
	ID                    uint32
	Offset                int32
	Width, Height, Stride int32
	Format                uint32

	file *os.File
}

// Pixels reads the buffer's contents out of the client's shared
// memory.
func (b Buffer) Pixels() ([]byte, error) {
	data := make([]byte, int(b.Stride)*int(b.Height))
	_, err := b.file.ReadAt(data, int64(b.Offset))
	return data, err
}

// Layer describes a zwlr_layer_surface_v1 created by the client.
type Layer struct {
	ID         uint32
	Surface    uint32
	Output     uint32
	Layer      uint32
	Namespace  string
	configured bool
}

type Server struct {
	conn *wire.Conn
	stop [2]int
	done chan struct{}
	shut sync.Once

	mu            sync.Mutex
	autoConfigure bool
	shmFormats    []uint32
	globals       []Global
	objects       map[uint32]string
	outputs       map[uint32]Global
	registries    []uint32
	requests      []Request
	files         []*os.File
	buffers       map[uint32]Buffer
	pending       map[uint32]uint32
	current       map[uint32]uint32
	layers        map[uint32]*Layer
	serial        uint32

	errMu sync.Mutex
	err   error
}

// New starts a fake compositor advertising globals and returns it
// along with the client's end of the connection. The server is shut
// down when the test finishes, and any protocol error that it ran
// into fails the test.
func New(t testing.TB, globals ...Global) (*Server, *wire.Conn) {
	server, client, err := wire.Pair()
	if err != nil {
		t.Fatalf("create socket pair: %v", err)
	}

	var stop [2]int
	err = unix.Pipe2(stop[:], unix.O_CLOEXEC)
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}

	s := Server{
		conn:       server,
		stop:       stop,
		done:       make(chan struct{}),
		shmFormats: []uint32{0, 1},
		globals:    slices.Clone(globals),
		objects:    map[uint32]string{1: "wl_display"},
		outputs:    make(map[uint32]Global),
		buffers:    make(map[uint32]Buffer),
		pending:    make(map[uint32]uint32),
		current:    make(map[uint32]uint32),
		layers:     make(map[uint32]*Layer),
	}
	go s.serve()

	t.Cleanup(func() {
		s.Close()
		if err := s.Err(); err != nil {
			t.Errorf("compositor: %v", err)
		}
	})

	return &s, client
}

// Close stops the server and hangs up on the client. It is safe to
// call more than once.
func (s *Server) Close() {
	s.shut.Do(func() {
		unix.Write(s.stop[1], []byte{0})
		<-s.done

		s.conn.Close()
		unix.Close(s.stop[0])
		unix.Close(s.stop[1])

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, f := range s.files {
			f.Close()
		}
	})
}

// Err returns the first protocol error that the server ran into.
func (s *Server) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Server) fail(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// SetShmFormats sets the formats announced when wl_shm is bound. The
// default is ARGB8888 and XRGB8888.
func (s *Server) SetShmFormats(formats ...uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shmFormats = formats
}

// Done is closed once the server has stopped reading requests, either
// because the client hung up or because the server was closed.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// AutoConfigure makes the server send a configure event for a layer
// surface when its wl_surface is first committed, sized to the mode
// of the surface's output.
func (s *Server) AutoConfigure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoConfigure = true
}

func (s *Server) serve() {
	defer close(s.done)

	fds := []unix.PollFd{
		{Fd: int32(s.conn.Fd()), Events: unix.POLLIN},
		{Fd: int32(s.stop[0]), Events: unix.POLLIN},
	}
	for {
		_, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			s.fail(fmt.Errorf("poll: %w", err))
			return
		}
		if fds[1].Revents != 0 {
			return
		}
		if fds[0].Revents == 0 {
			continue
		}

		_, rerr := s.conn.Fill()
		for {
			msg, err := s.conn.Next()
			if err != nil {
				s.fail(err)
				return
			}
			if msg == nil {
				break
			}

			err = s.handle(msg)
			if err != nil {
				s.fail(err)
				return
			}
		}
		if rerr != nil {
			// The client hung up.
			return
		}
	}
}

func decode(msg *wire.MessageBuffer, signature string) (args []any) {
	for _, c := range signature {
		switch c {
		case 'i':
			args = append(args, msg.ReadInt())
		case 'u', 'o', 'n':
			args = append(args, msg.ReadUint())
		case 'f':
			args = append(args, msg.ReadFixed())
		case 's':
			args = append(args, msg.ReadString())
		case 'a':
			args = append(args, msg.ReadArray())
		case 'h':
			args = append(args, msg.ReadFile())
		}
	}
	return args
}

func (s *Server) handle(msg *wire.MessageBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iface, ok := s.objects[msg.Sender()]
	if !ok {
		return wire.UnknownSenderIDError{Msg: msg}
	}
	methods := requests[iface]
	if int(msg.Op()) >= len(methods) {
		return wire.UnknownOpError{Interface: iface, Type: "request", Op: msg.Op()}
	}
	m := methods[msg.Op()]

	args := decode(msg, m.signature)
	if err := msg.Err(); err != nil {
		return fmt.Errorf("%v.%v: %w", iface, m.name, err)
	}
	r := Request{Object: msg.Sender(), Interface: iface, Method: m.name, Args: args}
	s.requests = append(s.requests, r)

	if m.creates != "" {
		s.objects[args[0].(uint32)] = m.creates
	}

	err := s.react(r)
	if err != nil {
		return err
	}

	if m.destructor {
		delete(s.objects, r.Object)
		s.send(1, 1, r.Object)
	}
	return nil
}

func (s *Server) react(r Request) error {
	switch r.Interface + "." + r.Method {
	case "wl_display.sync":
		id := r.Args[0].(uint32)
		s.serial++
		s.send(id, 0, s.serial)
		delete(s.objects, id)
		s.send(1, 1, id)

	case "wl_display.get_registry":
		id := r.Args[0].(uint32)
		s.registries = append(s.registries, id)
		for _, g := range s.globals {
			s.send(id, 0, g.Name, g.Interface, g.Version)
		}

	case "wl_registry.bind":
		name := r.Args[0].(uint32)
		inter := r.Args[1].(string)
		version := r.Args[2].(uint32)
		id := r.Args[3].(uint32)

		i := slices.IndexFunc(s.globals, func(g Global) bool { return g.Name == name })
		if i < 0 {
			return fmt.Errorf("bind to unknown global %v", name)
		}
		g := s.globals[i]
		if (g.Interface != inter) || (version > g.Version) {
			return fmt.Errorf("bind %v version %v to global %v (%v version %v)", inter, version, name, g.Interface, g.Version)
		}
		s.objects[id] = inter
		s.bound(id, g, version)

	case "wl_shm.create_pool":
		s.files = append(s.files, r.Args[1].(*os.File))

	case "wl_shm_pool.create_buffer":
		pool := s.poolFile(r.Object)
		s.buffers[r.Args[0].(uint32)] = Buffer{
			ID:     r.Args[0].(uint32),
			Offset: r.Args[1].(int32),
			Width:  r.Args[2].(int32),
			Height: r.Args[3].(int32),
			Stride: r.Args[4].(int32),
			Format: r.Args[5].(uint32),
			file:   pool,
		}

	case "wl_surface.attach":
		s.pending[r.Object] = r.Args[0].(uint32)

	case "wl_surface.commit":
		if buf, ok := s.pending[r.Object]; ok {
			s.current[r.Object] = buf
			delete(s.pending, r.Object)
		}
		if s.autoConfigure {
			s.configureSurface(r.Object)
		}

	case "zwlr_layer_shell_v1.get_layer_surface":
		id := r.Args[0].(uint32)
		s.layers[id] = &Layer{
			ID:        id,
			Surface:   r.Args[1].(uint32),
			Output:    r.Args[2].(uint32),
			Layer:     r.Args[3].(uint32),
			Namespace: r.Args[4].(string),
		}

	case "zwlr_layer_surface_v1.destroy":
		delete(s.layers, r.Object)
	}

	for _, arg := range r.Args {
		if f, ok := arg.(*os.File); ok && !slices.Contains(s.files, f) {
			f.Close()
		}
	}
	return nil
}

// poolFile finds the file that backs the pool with the given ID.
func (s *Server) poolFile(pool uint32) *os.File {
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if (r.Method == "create_pool") && (r.Args[0].(uint32) == pool) {
			return r.Args[1].(*os.File)
		}
	}
	return nil
}

func (s *Server) bound(id uint32, g Global, version uint32) {
	switch g.Interface {
	case "wl_shm":
		for _, f := range s.shmFormats {
			s.send(id, 0, f)
		}

	case "wl_output":
		s.outputs[id] = g
		o := g.Output
		s.send(id, 0, int32(0), int32(0), int32(0), int32(0), int32(0), o.Make, o.Model, int32(0))
		s.send(id, 1, uint32(0x1), o.Width, o.Height, int32(60000))
		if version >= 2 {
			s.send(id, 3, int32(1))
			s.send(id, 2)
		}
	}
}

func (s *Server) configureSurface(surface uint32) {
	for _, layer := range s.layers {
		if (layer.Surface != surface) || layer.configured {
			continue
		}

		layer.configured = true
		g := s.outputs[layer.Output]
		s.serial++
		s.send(layer.ID, 0, s.serial, uint32(g.Output.Width), uint32(g.Output.Height))
	}
}

type sender uint32

func (id sender) ID() uint32 { return uint32(id) }

func (id sender) String() string { return fmt.Sprintf("object#%v", uint32(id)) }

// send must be called with mu held. Events that can't be delivered
// because the client already hung up are dropped.
func (s *Server) send(obj uint32, op uint16, args ...any) {
	err := wire.NewRequest(sender(obj), op, "event", args...).Build(s.conn)
	if errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET) {
		return
	}
	if err != nil {
		s.fail(fmt.Errorf("send event %v to object %v: %w", op, obj, err))
	}
}

// Send sends an arbitrary event.
func (s *Server) Send(obj uint32, op uint16, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(obj, op, args...)
}

// Configure sends a configure event to a layer surface.
func (s *Server) Configure(layer, serial, width, height uint32) {
	s.Send(layer, 0, serial, width, height)
}

// Closed tells a layer surface that it has been closed.
func (s *Server) Closed(layer uint32) {
	s.Send(layer, 1)
}

// Release tells the client that the compositor is done with a
// buffer.
func (s *Server) Release(buffer uint32) {
	s.Send(buffer, 0)
}

// Error sends a fatal protocol error.
func (s *Server) Error(obj, code uint32, message string) {
	s.Send(1, 0, obj, code, message)
}

// AddGlobal advertises a new global to every registry.
func (s *Server) AddGlobal(g Global) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.globals = append(s.globals, g)
	for _, id := range s.registries {
		s.send(id, 0, g.Name, g.Interface, g.Version)
	}
}

// RemoveGlobal withdraws a global from every registry.
func (s *Server) RemoveGlobal(name uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.globals = slices.DeleteFunc(s.globals, func(g Global) bool { return g.Name == name })
	for _, id := range s.registries {
		s.send(id, 1, name)
	}
}

// Requests returns the requests received so far with the given
// interface and method name. An empty method matches every request to
// the interface.
func (s *Server) Requests(iface, method string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r []Request
	for _, req := range s.requests {
		if (req.Interface == iface) && ((method == "") || (req.Method == method)) {
			r = append(r, req)
		}
	}
	return r
}

// Objects returns the IDs of the live objects implementing iface, in
// ascending order.
func (s *Server) Objects(iface string) []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uint32
	for id, i := range s.objects {
		if i == iface {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Layers returns the live layer surfaces, in creation order.
func (s *Server) Layers() []Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers := make([]Layer, 0, len(s.layers))
	for _, layer := range s.layers {
		layers = append(layers, *layer)
	}
	slices.SortFunc(layers, func(a, b Layer) int { return int(a.ID) - int(b.ID) })
	return layers
}

// Committed returns the buffer most recently committed to a surface.
func (s *Server) Committed(surface uint32) (Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.current[surface]
	if !ok || (id == 0) {
		return Buffer{}, false
	}
	buf, ok := s.buffers[id]
	return buf, ok
}
