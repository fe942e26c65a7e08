//go:build !tflite

package engine

// This file provides a no-CGO stub for the tflite adapter. It is compiled
// when the 'tflite' build tag is NOT set, keeping default builds and CI
// CGO-free. The real adapter lives in tflite.go (tagged 'tflite').

import (
	"stylizerd/internal/bundle"
)

type tfliteAdapter struct{}

// NewTFLiteAdapter returns a stub that satisfies Adapter but refuses to load
// models without the 'tflite' build tag. This avoids any mocked behavior in
// binaries built without CGO support.
func NewTFLiteAdapter() Adapter { return tfliteAdapter{} }

func (tfliteAdapter) Load(b *bundle.Bundle, p Params) (Session, error) {
	// Fail fast: tflite runtime not available in this build.
	return nil, ErrRuntimeUnavailable("tflite support not built (missing 'tflite' build tag)")
}
