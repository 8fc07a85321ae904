package breaker

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrIO marks a failure to read the source or write a chunk.
	ErrIO = errors.New("i/o error")
	// ErrInvalidBound indicates a non-positive maximum chunk size.
	ErrInvalidBound = errors.New("max lines per chunk must be positive")
	// ErrInvalidBreakpoints indicates a breakpoint sequence that does not fit the file.
	ErrInvalidBreakpoints = errors.New("invalid breakpoint sequence")
)

// IOError describes a failed file operation. It matches [ErrIO] with [errors.Is]
// and unwraps to the underlying OS error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrIO].
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var already *IOError
	if errors.As(err, &already) {
		return err
	}

	return &IOError{Op: op, Path: path, Err: err}
}
