package main

import (
	"context"
	"errors"
	"os"

	markrender "github.com/alnah/go-markrender"
	"github.com/alnah/go-markrender/internal/config"
)

// Exit codes for the markrender CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render or clean shutdown
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // Source failed to compile or its pages were too big
	ExitTimeout = 5 // Render exceeded its timeout
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, markrender.ErrCompile) ||
		errors.Is(err, markrender.ErrTooBig) ||
		errors.Is(err, markrender.ErrEncode) {
		return ExitRender
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, markrender.ErrInvalidDensity) ||
		errors.Is(err, markrender.ErrInvalidTheme) ||
		errors.Is(err, markrender.ErrInvalidPageSize) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrTooManyArgs) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
