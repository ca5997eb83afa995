package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// Command line errors.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrInvalidFormat  = errors.New("invalid format")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	format     string
	theme      string
	pageSize   string
	density    float64
	densitySet bool
	timeout    time.Duration
	noPreamble bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common     commonFlags
	addr       string
	addrSet    bool
	workers    int
	workersSet bool
	envFiles   []string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// parseRenderFlags parses render command flags and returns positional args.
// Usage goes to usageOut when parsing fails or -h is given.
func parseRenderFlags(args []string, usageOut io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", ".", "output directory")
	fs.StringVarP(&f.format, "format", "f", "png", "output format: png, pdf")
	fs.StringVarP(&f.theme, "theme", "t", "", "theme: transparent, light, dark")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: preview, auto, default")
	fs.Float64VarP(&f.density, "density", "d", 0, "raster density override (png only)")
	fs.DurationVar(&f.timeout, "timeout", 0, "render timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noPreamble, "no-preamble", false, "render the source without theme and page setup")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printRenderUsage(usageOut) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	f.densitySet = fs.Changed("density")
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags. serve takes no positional args.
func parseServeFlags(args []string, usageOut io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (overrides config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = auto)")
	fs.StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading MARKRENDER_* variables")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printServeUsage(usageOut) }

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrTooManyArgs, fs.Args())
	}
	f.addrSet = fs.Changed("addr")
	f.workersSet = fs.Changed("workers")
	return f, nil
}

// parse runs fs.Parse and tags failures as usage errors. flag.ErrHelp,
// after pflag has printed the usage, is returned as is.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
