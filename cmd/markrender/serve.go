package main

import (
	"context"
	"fmt"

	markrender "github.com/alnah/go-markrender"
	"github.com/alnah/go-markrender/internal/config"
	"github.com/alnah/go-markrender/internal/server"
)

// runServe serves HTTP renders until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func runServe(ctx context.Context, flags *serveFlags, env *Environment) error {
	if err := config.LoadEnvFiles(flags.envFiles...); err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfigParse, err)
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(env.LookupEnv); err != nil {
		return err
	}
	if flags.addrSet {
		cfg.Server.Addr = flags.addr
	}
	if flags.workersSet {
		cfg.Render.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	theme, size, err := resolvePageSetup("", "", cfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, cfg.Log, flags.common.quiet, flags.common.verbose)

	poolSize := markrender.ResolvePoolSize(cfg.Render.Workers)
	renderer := markrender.NewRenderer(
		markrender.WithLogger(logger),
		markrender.WithPNGCompression(pngCompression(cfg.Render.Compression)),
	)
	pool := markrender.NewWorkerPool(renderer, poolSize)
	defer func() { _ = pool.Close() }()

	logger.Debug().Int("workers", poolSize).Str("version", Version).Msg("render pool ready")

	srv := server.New(pool, logger, server.Options{
		BodyLimit:     cfg.Server.BodyLimit,
		RenderTimeout: cfg.Render.Timeout,
		Theme:         theme,
		PageSize:      size,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Server.Addr) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if cfg.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.Server.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
