package typeset

import "errors"

// Errors a World returns from File. The compiler turns them into
// diagnostics with hints.
var (
	// ErrAccessDenied indicates a path outside the importable library.
	ErrAccessDenied = errors.New("access denied")

	// ErrNetworkDenied indicates a remote URL.
	ErrNetworkDenied = errors.New("network access denied")
)
