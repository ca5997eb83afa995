package markrender

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// ErrCompile matches every *DiagnosticError.
	ErrCompile = errors.New("compilation failed")
	// ErrTooBig matches every *TooBigError.
	ErrTooBig = errors.New("rendered output was too big")
	// ErrEncode wraps rasterizer and image encoder faults. These are
	// internal failures, not problems with the source.
	ErrEncode = errors.New("encoding output failed")

	// Input validation errors.
	ErrInvalidDensity  = errors.New("invalid density")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidPageSize = errors.New("invalid page size")

	// Worker pool errors.
	ErrPoolClosed = errors.New("worker pool is closed")
)

// DiagnosticError carries formatted diagnostics for a source that could
// not be compiled, or a document the vector backend could not write.
type DiagnosticError struct {
	Message string
}

func (e *DiagnosticError) Error() string {
	return e.Message
}

// Is reports whether target is ErrCompile.
func (e *DiagnosticError) Is(target error) bool {
	return target == ErrCompile
}

// TooBigError reports a page side beyond MaxSize.
type TooBigError struct {
	Axis Axis
	Size float64 // points
}

func (e *TooBigError) Error() string {
	return fmt.Sprintf("rendered output was too big: the %s axis was %g pt but the maximum is %g", e.Axis, e.Size, MaxSize)
}

// Is reports whether target is ErrTooBig.
func (e *TooBigError) Is(target error) bool {
	return target == ErrTooBig
}
