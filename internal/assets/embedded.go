package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed library/*
var library embed.FS

const (
	libraryDir      = "library"
	moduleExt       = ".md"
	definitionsFile = libraryDir + "/definitions.yaml"
)

// EmbeddedLoader loads modules from the embedded library.
// Implements ModuleLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadModule loads a module from embedded assets by name.
func (e *EmbeddedLoader) LoadModule(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := library.ReadFile(libraryDir + "/" + name + moduleExt)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}

	return string(content), nil
}

// Modules lists embedded module names in sorted order.
func (e *EmbeddedLoader) Modules() []string {
	entries, err := fs.ReadDir(library, libraryDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), moduleExt); ok && !entry.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ ModuleLoader = (*EmbeddedLoader)(nil)
