package wl

import "fmt"

// DisplayError is a fatal protocol error reported by the compositor.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (err *DisplayError) Error() string {
	return fmt.Sprintf("protocol error on object %v: code %v: %v", err.ObjectID, err.Code, err.Message)
}
