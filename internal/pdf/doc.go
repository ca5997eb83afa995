// Package pdf serializes laid out documents as PDF 1.7.
//
// Every font variant a document uses is embedded whole as a Type0 font
// with Identity-H encoding, so glyph ids in content streams are the
// TrueType glyph indices. Widths come from the same Measurer the layout
// used, which keeps PDF text positions equal to the raster output.
// Output is deterministic: no timestamps or random ids are written.
package pdf
