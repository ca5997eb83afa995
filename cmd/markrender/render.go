package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	markrender "github.com/alnah/go-markrender"
	"github.com/alnah/go-markrender/internal/config"
	"github.com/alnah/go-markrender/internal/hints"
)

// Render command errors.
var (
	ErrReadSource  = errors.New("failed to read source")
	ErrWriteOutput = errors.New("failed to write output")
)

const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read

	// pdfName is the file written for PDF output.
	pdfName = "document.pdf"
)

// runRender renders one source and writes the result into flags.output.
func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) error {
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrTooManyArgs, len(positional))
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}

	input, err := buildInput(flags)
	if err != nil {
		return err
	}

	source, err := readSource(positional, env.Stdin)
	if err != nil {
		return err
	}
	if !flags.noPreamble {
		theme, size, err := resolvePageSetup(flags.theme, flags.pageSize, cfg)
		if err != nil {
			return err
		}
		source = markrender.WithPreamble(source, size, theme)
	}
	input.Source = source

	logger := newLogger(env.Stderr, config.LogConfig{Level: "warn", Format: cfg.Log.Format}, flags.common.quiet, flags.common.verbose)
	renderer := markrender.NewRenderer(
		markrender.WithLogger(logger),
		markrender.WithPNGCompression(pngCompression(cfg.Render.Compression)),
	)

	timeout := cfg.Render.Timeout
	if flags.timeout > 0 {
		timeout = flags.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := env.Now()
	out, err := renderer.Render(ctx, input)
	if err != nil {
		return renderError(err)
	}

	paths, err := writeOutputs(flags.output, out)
	if err != nil {
		return err
	}

	if out.Warnings != "" && !flags.common.quiet {
		fmt.Fprintln(env.Stderr, out.Warnings)
	}
	if flags.common.quiet {
		return nil
	}
	for _, p := range paths {
		fmt.Fprintf(env.Stdout, "Wrote %s\n", p)
	}
	if out.MorePages > 0 {
		fmt.Fprintf(env.Stdout, "%d more page(s) not rendered\n", out.MorePages)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "Rendered in %s\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configSearchPaths mirrors the user config locations LoadConfig searches.
func configSearchPaths(name string) []string {
	dir, err := os.UserConfigDir()
	if err != nil || strings.ContainsAny(name, `/\`) {
		return nil
	}
	return []string{filepath.Join(dir, "go-markrender", name+".yaml")}
}

// buildInput validates format and density flags.
func buildInput(flags *renderFlags) (markrender.Input, error) {
	var input markrender.Input
	switch strings.ToLower(strings.TrimSpace(flags.format)) {
	case "", "png":
		input.Format = markrender.FormatPNG
	case "pdf", "vector":
		input.Format = markrender.FormatPDF
	default:
		return input, fmt.Errorf("%w: %q (use png or pdf)", ErrInvalidFormat, flags.format)
	}

	if flags.densitySet {
		if err := markrender.ValidateDensity(flags.density); err != nil {
			return input, err
		}
		if input.Format == markrender.FormatPNG {
			input.Density = flags.density
		}
	}
	return input, nil
}

// resolvePageSetup picks theme and page size, flags over config.
func resolvePageSetup(theme, size string, cfg *config.Config) (markrender.Theme, markrender.PageSize, error) {
	if theme == "" {
		theme = cfg.Render.Theme
	}
	if size == "" {
		size = cfg.Render.PageSize
	}
	t, err := markrender.ParseTheme(theme)
	if err != nil {
		return "", "", err
	}
	p, err := markrender.ParsePageSize(size)
	if err != nil {
		return "", "", err
	}
	return t, p, nil
}

// readSource reads the input file, or stdin when no path or "-" is given.
func readSource(positional []string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(positional) == 0 || positional[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(positional[0]) // #nosec G304 -- input path is user-provided
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	return string(data), nil
}

// renderError adds hints to failures the user can act on.
func renderError(err error) error {
	switch {
	case errors.Is(err, markrender.ErrTooBig):
		return fmt.Errorf("%w%s", err, hints.ForTooBig())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("render timed out: %w%s", err, hints.ForTimeout())
	default:
		return err
	}
}

// writeOutputs writes the blobs into dir and returns the written paths.
func writeOutputs(dir string, out *markrender.Rendered) ([]string, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err)
	}

	paths := make([]string, 0, len(out.Blobs))
	for i, blob := range out.Blobs {
		name := pdfName
		if out.Format == markrender.FormatPNG {
			name = fmt.Sprintf("page-%d.png", i+1)
		}
		p := filepath.Join(dir, name)
		// #nosec G306 -- rendered pages are meant to be readable
		if err := os.WriteFile(p, blob, filePermissions); err != nil {
			return paths, fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// pngCompression maps a config compression name to a PNG level.
func pngCompression(name string) png.CompressionLevel {
	switch strings.ToLower(name) {
	case "speed":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	case "none":
		return png.NoCompression
	default:
		return png.DefaultCompression
	}
}
