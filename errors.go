package quadbuckets

import (
	"errors"
	"fmt"
)

var (
	// ErrIteratorExhausted is returned by Iterator.Next when there are no more members.
	ErrIteratorExhausted = errors.New("iterator exhausted")

	// ErrIllegalIteratorState is returned by Iterator.Remove when Next has not been
	// called, or when the current member was already removed.
	ErrIllegalIteratorState = errors.New("illegal iterator state")

	// ErrUnsupportedKind is returned by PrimitiveStore when a value is none of its
	// node, way or relation types.
	ErrUnsupportedKind = errors.New("unsupported primitive kind")
)

// KindError reports the Go type that a PrimitiveStore could not route.
//
// It unwraps to ErrUnsupportedKind.
type KindError struct {
	Value any
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%v: %T", ErrUnsupportedKind, e.Value)
}

func (e *KindError) Unwrap() error { return ErrUnsupportedKind }
