package stylizer

import "errors"

// configError signals invalid options or a backend that failed to initialize.
// Raised only at construction; no usable instance exists afterward.
type configError struct {
	msg   string
	cause error
}

func (e configError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e configError) Unwrap() error { return e.cause }

// ErrConfig constructs a configuration error, optionally wrapping a cause.
func ErrConfig(msg string, cause error) error { return configError{msg: msg, cause: cause} }

// IsConfigError reports whether err is a construction-time configuration error.
func IsConfigError(err error) bool {
	var e configError
	return errors.As(err, &e)
}

// unsupportedFormatError signals an input pixel format the stylizer refuses
// to hand to the engine, to avoid silent channel-order misinterpretation.
type unsupportedFormatError struct{ msg string }

func (e unsupportedFormatError) Error() string { return "unsupported format: " + e.msg }

// ErrUnsupportedFormat constructs an unsupported-format error.
func ErrUnsupportedFormat(msg string) error { return unsupportedFormatError{msg: msg} }

// IsUnsupportedFormat reports whether err rejects the input pixel format.
func IsUnsupportedFormat(err error) bool {
	var e unsupportedFormatError
	return errors.As(err, &e)
}

// inferenceError signals a per-call backend failure. The instance stays
// usable after it.
type inferenceError struct {
	msg   string
	cause error
}

func (e inferenceError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e inferenceError) Unwrap() error { return e.cause }

// ErrInference constructs an inference error, optionally wrapping a cause.
func ErrInference(msg string, cause error) error { return inferenceError{msg: msg, cause: cause} }

// IsInferenceError reports whether err is a per-call backend failure.
func IsInferenceError(err error) bool {
	var e inferenceError
	return errors.As(err, &e)
}
