package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	markrender "github.com/alnah/go-markrender"
	"github.com/alnah/go-markrender/internal/hints"
	"github.com/alnah/go-markrender/internal/metrics"
)

type renderRequest struct {
	Code       *string  `json:"code"`
	Theme      *string  `json:"theme"`
	PageSize   *string  `json:"page_size"`
	Format     *string  `json:"format"`
	Resolution *float64 `json:"resolution"`
}

type renderResponse struct {
	Data      []string `json:"data"`
	MorePages int      `json:"more_pages"`
	Warnings  string   `json:"warnings"`
	Format    string   `json:"format"`
}

// input converts a request into a render input, applying the preamble.
func (s *Server) input(req renderRequest) (markrender.Input, error) {
	if req.Code == nil {
		return markrender.Input{}, errors.New("missing field `code`")
	}

	theme, size := s.opts.Theme, s.opts.PageSize
	var err error
	if req.Theme != nil {
		if theme, err = markrender.ParseTheme(*req.Theme); err != nil {
			return markrender.Input{}, err
		}
	}
	if req.PageSize != nil {
		if size, err = markrender.ParsePageSize(*req.PageSize); err != nil {
			return markrender.Input{}, err
		}
	}

	in := markrender.Input{
		Source: markrender.WithPreamble(*req.Code, size, theme),
		Format: markrender.FormatPNG,
	}
	if req.Format != nil {
		in.Format = markrender.ParseOutputFormat(*req.Format)
	}
	if in.Format == markrender.FormatPNG && req.Resolution != nil {
		if err := markrender.ValidateDensity(*req.Resolution); err != nil {
			return markrender.Input{}, err
		}
		in.Density = *req.Resolution
	}
	return in, nil
}

func (s *Server) render(c echo.Context) error {
	var req renderRequest
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err)).SetInternal(err)
	}
	in, err := s.input(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	ctx := c.Request().Context()
	if s.opts.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.renderer.Render(ctx, in)
	if err != nil {
		status, herr := classify(err)
		metrics.ObserveRender(in.Format.String(), status, time.Since(start), 0)
		return herr
	}
	metrics.ObserveRender(in.Format.String(), metrics.StatusOK, time.Since(start), out.MorePages)

	resp := renderResponse{
		Data:      make([]string, len(out.Blobs)),
		MorePages: out.MorePages,
		Warnings:  out.Warnings,
		Format:    out.Format.String(),
	}
	for i, b := range out.Blobs {
		resp.Data[i] = base64.StdEncoding.EncodeToString(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// classify maps a render error to a metrics status and an HTTP error.
func classify(err error) (string, *echo.HTTPError) {
	switch {
	case errors.Is(err, markrender.ErrCompile):
		return metrics.StatusDiagnostic, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, markrender.ErrTooBig):
		return metrics.StatusTooBig, echo.NewHTTPError(http.StatusBadRequest, err.Error()+hints.ForTooBig()).SetInternal(err)
	case errors.Is(err, markrender.ErrInvalidDensity):
		return metrics.StatusError, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, markrender.ErrPoolClosed):
		return metrics.StatusTimeout, echo.NewHTTPError(http.StatusServiceUnavailable, "render did not finish in time").SetInternal(err)
	case errors.Is(err, context.Canceled):
		return metrics.StatusTimeout, echo.NewHTTPError(http.StatusServiceUnavailable, "request canceled").SetInternal(err)
	default:
		return metrics.StatusError, echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}
