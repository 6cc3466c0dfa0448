package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the stage at which a run failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfigRead
	KindConfigParse
	KindNetwork
	KindDecode
	KindShapeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigRead:
		return "config_read"
	case KindConfigParse:
		return "config_parse"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindShapeMismatch:
		return "shape_mismatch"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline failure. Op names the failed step.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError builds a classified error around an optional cause.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error with a formatted cause.
func Errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first classified error in the chain.
func KindOf(err error) ErrorKind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}
