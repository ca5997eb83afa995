package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrModuleNotFound indicates the requested library module does not exist.
	ErrModuleNotFound = errors.New("module not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrFontNotFound indicates no embedded font exists for a variant.
	ErrFontNotFound = errors.New("font not found")

	// ErrDefinitions indicates the embedded definitions could not be decoded.
	ErrDefinitions = errors.New("invalid library definitions")
)
