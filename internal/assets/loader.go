package assets

// ModuleLoader defines the contract for loading library modules.
type ModuleLoader interface {
	// LoadModule loads a module's source by name (without extension).
	// Returns ErrModuleNotFound if the module doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadModule(name string) (string, error)

	// Modules lists the names of all loadable modules.
	Modules() []string
}
