package assets

import (
	"fmt"
	"sync"
)

// Library is the read-only standard library: shared definitions plus the
// modules that source text can import.
type Library struct {
	defs   *Definitions
	loader ModuleLoader
}

// NewLibrary builds a library from the embedded definitions and loader.
func NewLibrary(loader ModuleLoader) (*Library, error) {
	defs, err := loadDefinitions()
	if err != nil {
		return nil, err
	}
	return &Library{defs: defs, loader: loader}, nil
}

var (
	defaultLibrary     *Library
	defaultLibraryErr  error
	defaultLibraryOnce sync.Once
)

// Default returns the process-wide embedded library, built on first use.
// It panics if the embedded definitions are invalid, which is a build defect.
func Default() *Library {
	defaultLibraryOnce.Do(func() {
		defaultLibrary, defaultLibraryErr = NewLibrary(NewEmbeddedLoader())
	})
	if defaultLibraryErr != nil {
		panic(fmt.Sprintf("assets: embedded library: %v", defaultLibraryErr))
	}
	return defaultLibrary
}

// Definitions returns the shared definitions. Callers must not modify them.
func (l *Library) Definitions() *Definitions {
	return l.defs
}

// Module loads a module by name.
func (l *Library) Module(name string) (string, error) {
	return l.loader.LoadModule(name)
}

// Modules lists importable module names.
func (l *Library) Modules() []string {
	return l.loader.Modules()
}
