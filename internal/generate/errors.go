package generate

import (
	"errors"
	"fmt"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindInputNotFound
	KindRead
	KindDecode
	KindWrite
	KindInvalidOption
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindInputNotFound:
		return "input not found"
	case KindRead:
		return "read error"
	case KindDecode:
		return "decode error"
	case KindWrite:
		return "write error"
	case KindInvalidOption:
		return "invalid option"
	case KindCanceled:
		return "canceled"
	default:
		return "error"
	}
}

// Error is the single terminal error of a failed run.
type Error struct {
	Kind Kind
	Path string // file or directory involved, may be empty
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
