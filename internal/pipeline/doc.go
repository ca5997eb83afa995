// Package pipeline is the front end of the compiler.
//
// It splits source text into two streams:
//   - directives: whole lines at column 0 such as #set, #import and
//     #pagebreak(), parsed into structured form with byte spans
//   - the Markdown body, parsed by goldmark with GFM extensions
//
// Directive and comment lines are blanked with spaces before the body is
// parsed, so every offset in the syntax tree is also an offset into the
// original source and diagnostics can point at it directly. Lines inside
// fenced code blocks are never treated as directives.
//
// Layout is handled separately by the typeset package, which interleaves
// directives with body blocks by source offset.
package pipeline
