package manager

// modelNotFoundError signals a requested model id absent from the registry,
// for 404 mapping.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// managerClosedError signals calls after shutdown, for 503 mapping.
type managerClosedError struct{}

func (managerClosedError) Error() string { return "manager is closed" }

// ErrManagerClosed constructs a managerClosedError.
func ErrManagerClosed() error { return managerClosedError{} }

// IsManagerClosed reports whether err indicates the manager was shut down.
func IsManagerClosed(err error) bool {
	_, ok := err.(managerClosedError)
	return ok
}
