package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScene  = errors.New("invalid scene")
	ErrInvalidScript = errors.New("invalid input script")
)

// Error wraps a decoding or replay failure with its kind
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func sceneErrorf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidScene, Msg: fmt.Sprintf(format, args...)}
}

func scriptErrorf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidScript, Msg: fmt.Sprintf(format, args...)}
}
