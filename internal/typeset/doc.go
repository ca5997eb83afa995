// Package typeset compiles source text into laid out pages.
//
// Compile parses the source with the pipeline package, applies directives
// in source order and lays the Markdown body out into pages of positioned
// text runs and filled rectangles. Everything it reads comes through a
// World, so the caller decides which resources exist. Pages are plain data;
// the raster and pdf packages turn them into output bytes.
package typeset
