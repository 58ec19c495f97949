package remote

import (
	"errors"
	"fmt"
)

// Kind classifies session failures.
type Kind int

const (
	KindConnection Kind = iota
	KindHandshake
	KindAuthentication
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindHandshake:
		return "handshake"
	case KindAuthentication:
		return "authentication"
	case KindChannel:
		return "channel"
	}
	return "unknown"
}

// ErrNotConnected is returned by operations that need an authenticated session.
var ErrNotConnected = errors.New("not connected")

// Error is returned by Session operations that fail.
type Error struct {
	Kind Kind
	Addr string
	Err  error
}

func (e *Error) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("%s error [%s]: %v", e.Kind, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a session Error of kind k.
func IsKind(err error, k Kind) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Kind == k
}
