package stylizer

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorPredicatesAreDisjoint(t *testing.T) {
	cfg := ErrConfig("bad bundle", nil)
	fmtErr := ErrUnsupportedFormat("yuv420")
	inf := ErrInference("invoke", io.EOF)

	if !IsConfigError(cfg) || IsUnsupportedFormat(cfg) || IsInferenceError(cfg) {
		t.Fatalf("config predicate wrong")
	}
	if !IsUnsupportedFormat(fmtErr) || IsConfigError(fmtErr) || IsInferenceError(fmtErr) {
		t.Fatalf("format predicate wrong")
	}
	if !IsInferenceError(inf) || IsConfigError(inf) || IsUnsupportedFormat(inf) {
		t.Fatalf("inference predicate wrong")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	inf := ErrInference("invoke", io.EOF)
	if !errors.Is(inf, io.EOF) {
		t.Fatalf("inference error must unwrap its cause")
	}
	cfg := ErrConfig("open", io.ErrUnexpectedEOF)
	if !errors.Is(cfg, io.ErrUnexpectedEOF) {
		t.Fatalf("config error must unwrap its cause")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrUnsupportedFormat("gray8"))
	if !IsUnsupportedFormat(wrapped) {
		t.Fatalf("predicate must see through fmt.Errorf wrapping")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := ErrConfig("open bundle", io.EOF).Error(); got != "open bundle: EOF" {
		t.Fatalf("config message: %q", got)
	}
	if got := ErrConfig("missing path", nil).Error(); got != "missing path" {
		t.Fatalf("config message without cause: %q", got)
	}
	if got := ErrUnsupportedFormat("gray8").Error(); got != "unsupported format: gray8" {
		t.Fatalf("format message: %q", got)
	}
}
