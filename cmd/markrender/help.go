package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markrender <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a markup file to PNG pages or a PDF")
	fmt.Fprintln(w, "  serve      Run the HTTP render service")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'markrender help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markrender render [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markup file. PNG output writes page-1.png, page-2.png, ...")
	fmt.Fprintln(w, "up to 5 pages; PDF output writes document.pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Source file, or - for stdin (default stdin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default .)")
	fmt.Fprintln(w, "  -f, --format <s>          Format: png, pdf")
	fmt.Fprintln(w, "  -d, --density <f>         Raster density, pixels along the diagonal (png only)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -t, --theme <s>           Theme: transparent, light, dark")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: preview, auto, default")
	fmt.Fprintln(w, "      --no-preamble         Render the source as is")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markrender serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP render service.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  POST /render              {\"code\": \"...\", \"theme\": \"dark\", \"page_size\": \"preview\"}")
	fmt.Fprintln(w, "  GET  /healthz             Liveness probe")
	fmt.Fprintln(w, "  GET  /metrics             Prometheus metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto)")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file, repeatable (default .env)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log at debug level")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MARKRENDER_ADDR, MARKRENDER_WORKERS, MARKRENDER_BODY_LIMIT,")
	fmt.Fprintln(w, "  MARKRENDER_RENDER_TIMEOUT, MARKRENDER_SHUTDOWN_TIMEOUT,")
	fmt.Fprintln(w, "  MARKRENDER_THEME, MARKRENDER_PAGE_SIZE, MARKRENDER_COMPRESSION,")
	fmt.Fprintln(w, "  MARKRENDER_LOG_LEVEL, MARKRENDER_LOG_FORMAT")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: markrender version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: markrender help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
