// Package assets provides the embedded resources every compilation can see:
// the standard library (importable modules and shared definitions) and the
// font book.
//
// # Loader Architecture
//
//	ModuleLoader (interface)
//	    │
//	    └── EmbeddedLoader   - loads modules from the go:embed filesystem
//
//	Library                  - definitions.yaml + a ModuleLoader
//	FontBook                 - parsed Go fonts, one per Variant
//
// Both Library and FontBook are built once per process (Default,
// DefaultFontBook) and never mutated afterwards, so they can be shared by any
// number of concurrent compilations.
//
// # Directory Structure
//
//	library/
//	├── definitions.yaml   # papers, colors, text and heading defaults
//	└── {name}.md          # modules applied with #import "name"
//
// # Security
//
// Module names are validated before lookup, so no name can escape the
// library directory. Nothing in this package touches the host file system.
package assets
