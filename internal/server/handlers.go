package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/rankorder/pkg/buildinfo"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/graph"
	"github.com/matzehuels/rankorder/pkg/observability"
	"github.com/matzehuels/rankorder/pkg/pipeline"
	"github.com/matzehuels/rankorder/pkg/render/nodelink"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// OrderRequest is the body of POST /v1/order.
type OrderRequest struct {
	Graph   graph.Graph    `json:"graph"`
	Options RequestOptions `json:"options"`
	// Render lists output formats ("dot", "svg", "png") to draw the result in.
	Render   []string `json:"render,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Weights  bool     `json:"weights,omitempty"`
}

// RequestOptions override the server's default ordering options. Omitted
// fields keep the default.
type RequestOptions struct {
	Quality   string `json:"quality,omitempty"`
	MaxSweeps int    `json:"max_sweeps,omitempty"`
	MaxStale  int    `json:"max_stale,omitempty"`
	Timeout   string `json:"timeout,omitempty"` // Go duration, e.g. "2s"
	Parallel  *bool  `json:"parallel,omitempty"`
	Bias      string `json:"bias,omitempty"`
	Init      string `json:"init,omitempty"`
	Normalize *bool  `json:"normalize,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// OrderResponse is the body returned by POST /v1/order.
type OrderResponse struct {
	Result     graph.Result `json:"result"`
	GraphHash  string       `json:"graph_hash"`
	DurationMS int64        `json:"duration_ms"`
	// Artifacts holds rendered outputs keyed by format. PNG data is
	// base64-encoded; DOT and SVG are returned as text.
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// CrossingsRequest is the body of POST /v1/crossings.
type CrossingsRequest struct {
	Graph graph.Graph `json:"graph"`
}

// CrossingsResponse is the body returned by POST /v1/crossings.
type CrossingsResponse struct {
	Crossings float64    `json:"crossings"`
	Layering  [][]string `json:"layering"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse wraps every error body.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody is the machine-readable part of an error response.
type ErrorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, f := range req.Render {
		if err := pipeline.ValidateFormat(f); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := s.runner.Order(ctx, req.Graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := OrderResponse{
		Result:     res.Doc,
		GraphHash:  res.GraphHash,
		DurationMS: res.Duration.Milliseconds(),
	}
	if len(req.Render) > 0 {
		artifacts, err := s.runner.Render(ctx, res.Graph, res.Doc.LayeringOf(), pipeline.RenderOptions{
			Formats:  req.Render,
			Detailed: req.Detailed,
			Weights:  req.Weights,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Artifacts = encodeArtifacts(artifacts)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCrossings(w http.ResponseWriter, r *http.Request) {
	var req CrossingsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, l, err := pipeline.Crossings(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CrossingsResponse{Crossings: c, Layering: l})
}

// =============================================================================
// Helpers
// =============================================================================

// options layers req over the server defaults.
func (s *Server) options(req RequestOptions) (pipeline.Options, error) {
	opts := s.defaults
	if req.Quality != "" {
		opts.Quality = req.Quality
	}
	if req.MaxSweeps != 0 {
		opts.MaxSweeps = req.MaxSweeps
	}
	if req.MaxStale != 0 {
		opts.MaxStale = req.MaxStale
	}
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid timeout %q", req.Timeout)
		}
		opts.Timeout = d
	}
	if req.Parallel != nil {
		opts.Parallel = *req.Parallel
	}
	if req.Bias != "" {
		opts.Bias = req.Bias
	}
	if req.Init != "" {
		opts.Init = req.Init
	}
	if req.Normalize != nil {
		opts.Normalize = *req.Normalize
	}
	opts.Refresh = req.Refresh
	opts.Progress = nil
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// decode reads a size-limited JSON body into v. Unknown fields are errors.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		case errors.Is(err, io.EOF):
			return errs.New(errs.ErrCodeInvalidFormat, "empty request body")
		default:
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid JSON body")
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := errs.FromError(err)
	status := e.Code.HTTPStatus()
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFromContext(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		Error:     ErrorBody{Code: e.Code, Message: errs.UserMessage(e)},
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func encodeArtifacts(in map[string][]byte) map[string]string {
	out := make(map[string]string, len(in))
	for format, data := range in {
		if format == nodelink.FormatPNG {
			out[format] = base64.StdEncoding.EncodeToString(data)
			continue
		}
		out[format] = string(data)
	}
	return out
}
