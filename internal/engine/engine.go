// Package engine is the inference boundary of the stylizer: it loads a model
// bundle and turns an input frame into a stylized face frame. Callers treat
// it as a black box behind the Adapter interface.
package engine

import (
	"context"
	"errors"
	"fmt"

	"stylizerd/internal/bundle"
	"stylizerd/internal/imgutil"
)

// Params captures runtime tuning passed to an adapter.
type Params struct {
	// Threads used by runtimes that support it (tflite). 0 means default.
	Threads int
}

// Adapter abstracts the model runtime. Concrete implementations are the
// pure-Go cascade engine and the cgo tflite engine behind the 'tflite' tag.
type Adapter interface {
	// Load prepares a session for the given bundle. The session owns all
	// runtime resources until Close.
	Load(b *bundle.Bundle, p Params) (Session, error)
}

// Session runs stylization calls against one loaded model.
//
// Stylize returns a frame that aliases session-owned memory: it stays valid
// until the next Stylize call on the same session. Callers that retain the
// result must clone it. A nil frame with a nil error means no face was
// detected. Sessions are not safe for concurrent Stylize calls.
type Session interface {
	Stylize(ctx context.Context, f *imgutil.Frame) (*imgutil.Frame, error)
	// OutputSize is the fixed edge length of stylized frames.
	OutputSize() int
	Close() error
}

// ForBundle selects the adapter matching the bundle's declared engine.
func ForBundle(b *bundle.Bundle) (Adapter, error) {
	switch b.Manifest.Engine {
	case bundle.EngineCascade:
		return NewCascadeAdapter(), nil
	case bundle.EngineTFLite:
		return NewTFLiteAdapter(), nil
	default:
		return nil, fmt.Errorf("no adapter for engine %q", b.Manifest.Engine)
	}
}

// runtimeUnavailableError signals a runtime that is not compiled into this
// binary, so the caller can map it to 503 instead of 500.
type runtimeUnavailableError struct{ msg string }

func (e runtimeUnavailableError) Error() string { return e.msg }

// ErrRuntimeUnavailable constructs a runtimeUnavailableError.
func ErrRuntimeUnavailable(msg string) error { return runtimeUnavailableError{msg: msg} }

// IsRuntimeUnavailable reports whether err indicates a missing runtime.
func IsRuntimeUnavailable(err error) bool {
	var e runtimeUnavailableError
	return errors.As(err, &e)
}
