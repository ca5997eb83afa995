// Package markrender renders a small Markdown-based markup language to PNG
// images or a PDF document, without file system or network access.
//
// # Quick Start
//
//	r := markrender.NewRenderer()
//	out, err := r.Render(ctx, markrender.Input{
//	    Source: "#set page(width: 300pt, height: auto)\n# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("page-1.png", out.Blobs[0], 0o644)
//
// # Markup
//
// Sources are CommonMark with GitHub extensions (tables, strikethrough,
// task lists, autolinks). Lines starting at column 0 with #set, #import or
// #pagebreak are directives:
//
//	#set page(width: 300pt, height: auto, margin: 10pt, fill: white)
//	#set text(size: 12pt, fill: rgb(20, 20, 20), font: mono)
//	#set raw(theme: "dracula")
//	#import "slides"
//	#pagebreak()
//
// Lines starting with // are comments. Directives never apply inside
// fenced code blocks.
//
// # Output
//
// Raster output is one PNG per page, at most PageLimit pages and
// BytesLimit encoded bytes; Rendered.MorePages counts the rest. Each page
// is scaled to about DesiredResolution squared pixels, or the density
// given in Input.Density. Pages wider or taller than MaxSize points fail
// with a *TooBigError. Vector output is one PDF holding every page.
//
// Source problems are reported as a *DiagnosticError whose message points
// at the offending line. Warnings are returned in Rendered.Warnings.
//
// # Concurrency
//
// A Renderer is safe for concurrent use. WorkerPool bounds how many renders
// run at once:
//
//	pool := markrender.NewWorkerPool(markrender.NewRenderer(), markrender.ResolvePoolSize(0))
//	defer pool.Close()
//	out, err := pool.Render(ctx, input)
package markrender
