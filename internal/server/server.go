// Package server exposes the renderer over HTTP.
//
// Routes:
//
//	POST /render   render a source, JSON in and out
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	markrender "github.com/alnah/go-markrender"
)

// Renderer renders one input. *markrender.WorkerPool implements it.
type Renderer interface {
	Render(ctx context.Context, input markrender.Input) (*markrender.Rendered, error)
}

// Options configures a Server.
type Options struct {
	// BodyLimit caps request bodies, in echo size syntax ("1M").
	BodyLimit string
	// RenderTimeout bounds how long a request waits for its render.
	// Zero disables the bound.
	RenderTimeout time.Duration
	// Theme and PageSize apply when a request omits them.
	Theme    markrender.Theme
	PageSize markrender.PageSize

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultOptions returns the options used by the command line tool when
// no configuration is given.
func DefaultOptions() Options {
	return Options{
		BodyLimit:     "1M",
		RenderTimeout: 30 * time.Second,
		Theme:         markrender.DefaultTheme,
		PageSize:      markrender.DefaultPageSize,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   120 * time.Second,
	}
}

// Server is the HTTP front end of a Renderer.
type Server struct {
	echo     *echo.Echo
	renderer Renderer
	logger   zerolog.Logger
	opts     Options
}

// New creates a Server with its routes and middleware installed.
func New(r Renderer, logger zerolog.Logger, opts Options) *Server {
	if opts.Theme == "" {
		opts.Theme = markrender.DefaultTheme
	}
	if opts.PageSize == "" {
		opts.PageSize = markrender.DefaultPageSize
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout
	e.Server.IdleTimeout = opts.IdleTimeout

	s := &Server{echo: e, renderer: r, logger: logger, opts: opts}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.logger.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = s.logger.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	e.POST("/render", s.render)
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// handleError writes errors as plain text. Render failures caused by the
// source are 400s; the message is the formatted diagnostic report.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if err := c.String(code, msg); err != nil {
		s.logger.Error().Err(err).Msg("writing error response")
	}
}
