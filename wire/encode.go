package wire

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"deedles.dev/wbg/internal/bin"
	"golang.org/x/sys/unix"
)

// MessageBuilder is a message that is under construction.
type MessageBuilder struct {
	// Method is the name of the method being called. It is included
	// purely for debugging purposes.
	Method string

	// Args is the original set of arguments passed to the function from
	// which this MessageBuilder was generated. It is included purely
	// for debugging purposes.
	Args []any

	sender Sender
	op     uint16
	data   bytes.Buffer
	fds    []int
	err    error
}

func NewMessage(sender Sender, op uint16) *MessageBuilder {
	return &MessageBuilder{
		sender: sender,
		op:     op,
	}
}

// NewRequest builds a complete message for a method call on sender,
// encoding args according to their Go types. Objects are encoded as
// their IDs, which is also how typed new_id arguments are sent.
func NewRequest(sender Sender, op uint16, method string, args ...any) *MessageBuilder {
	mb := NewMessage(sender, op)
	mb.Method = method
	mb.Args = args
	for _, arg := range args {
		mb.Write(arg)
	}
	return mb
}

func (mb *MessageBuilder) Sender() Sender {
	return mb.sender
}

func (mb *MessageBuilder) Op() uint16 {
	return mb.op
}

// Write encodes v based on its type.
func (mb *MessageBuilder) Write(v any) {
	switch v := v.(type) {
	case int32:
		mb.WriteInt(v)
	case uint32:
		mb.WriteUint(v)
	case Fixed:
		mb.WriteFixed(v)
	case string:
		mb.WriteString(v)
	case []byte:
		mb.WriteArray(v)
	case *os.File:
		mb.WriteFile(v)
	case NewID:
		mb.WriteNewID(v)
	case Object:
		mb.WriteObject(v)
	case nil:
		mb.WriteUint(0)
	default:
		if mb.err == nil {
			mb.err = fmt.Errorf("unsupported argument type %T", v)
		}
	}
}

func (mb *MessageBuilder) WriteInt(v int32) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
}

func (mb *MessageBuilder) WriteUint(v uint32) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
}

func (mb *MessageBuilder) WriteObject(v Object) {
	var id uint32
	if !isNil(v) {
		id = v.ID()
	}
	mb.WriteUint(id)
}

func (mb *MessageBuilder) WriteNewID(v NewID) {
	if mb.err != nil {
		return
	}

	mb.WriteString(v.Interface)
	mb.WriteUint(v.Version)
	mb.WriteUint(v.ID)
}

func (mb *MessageBuilder) WriteFixed(v Fixed) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
}

func (mb *MessageBuilder) WriteString(v string) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v) + 1)
	bin.Write(&mb.data, length)
	mb.data.WriteString(v)
	mb.data.WriteByte(0)
	mb.pad(length)
}

func (mb *MessageBuilder) WriteArray(v []byte) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v))
	bin.Write(&mb.data, length)
	mb.data.Write(v)
	mb.pad(length)
}

func (mb *MessageBuilder) pad(length uint32) {
	for i := uint32(0); i < bin.Padding(length); i++ {
		mb.data.WriteByte(0)
	}
}

// WriteFile queues a duplicate of v's descriptor to be sent with the
// message. The duplicate is closed once the message has been sent.
func (mb *MessageBuilder) WriteFile(v *os.File) {
	if mb.err != nil {
		return
	}

	fd, err := unix.Dup(int(v.Fd()))
	if err != nil {
		mb.err = fmt.Errorf("dup fd: %w", err)
		return
	}
	mb.fds = append(mb.fds, fd)
}

// Bytes returns the encoded message, including its header.
func (mb *MessageBuilder) Bytes() ([]byte, error) {
	if mb.err != nil {
		return nil, mb.err
	}

	length := uint32(8 + mb.data.Len())
	if length > 0xFFFF {
		return nil, fmt.Errorf("message too large: %v bytes", length)
	}

	msg := bytes.NewBuffer(make([]byte, 0, length))
	bin.Write(msg, mb.sender.ID())
	bin.Write(msg, (length<<16)|uint32(mb.op))
	msg.Write(mb.data.Bytes())
	return msg.Bytes(), nil
}

// Build builds the message and sends it to c. The MessageBuilder
// should not be used again after this method is called.
func (mb *MessageBuilder) Build(c *Conn) error {
	defer mb.close()

	data, err := mb.Bytes()
	if err != nil {
		return err
	}
	return c.WriteMessage(data, mb.fds)
}

// Discard releases the resources held by a message that will never be
// sent.
func (mb *MessageBuilder) Discard() {
	mb.close()
}

func (mb *MessageBuilder) close() {
	errs := make([]error, 0, len(mb.fds))
	for _, fd := range mb.fds {
		errs = append(errs, unix.Close(fd))
	}
	if mb.err == nil {
		mb.err = errors.Join(errs...)
	}
	mb.fds = nil
}

func (mb *MessageBuilder) String() string {
	args := make([]string, 0, len(mb.Args))
	for _, arg := range mb.Args {
		args = append(args, formatArg(arg))
	}

	return fmt.Sprintf("%v.%v(%v)", mb.sender, mb.Method, strings.Join(args, ", "))
}

func isNil(v any) bool {
	return (v == nil) || ((*[2]uintptr)(unsafe.Pointer(&v))[1] == 0)
}
