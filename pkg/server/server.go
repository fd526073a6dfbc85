// Package server exposes an outline generator over HTTP. Responses follow
// the contract the reader's HTTP client expects: the outline document on
// success, an {"error": ...} body otherwise.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	MissingPromptMessage  = "Missing 'prompt'."
	InvalidJSONMessage    = "Model did not return valid JSON"
	InvalidOutlineMessage = "Invalid outline format (missing 'sections' array)."
	DefaultMaxBodyBytes   = 1 << 20
)

// Outliner produces a validated outline for a request.
type Outliner interface {
	Outline(ctx context.Context, req generation.Request) (*outline.Outline, error)
}

type Option func(*Server)

func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithRegistry registers the server metrics on reg instead of a private
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

type Server struct {
	outliner     Outliner
	corsOrigin   string
	maxBodyBytes int64
	registry     *prometheus.Registry
	metrics      *Metrics
}

func NewServer(outliner Outliner, options ...Option) *Server {
	s := &Server{
		outliner:     outliner,
		corsOrigin:   "*",
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, o := range options {
		o(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	return s
}

// Handler returns the routes of the generation server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post("/api/outline", s.GenerateOutline)
	r.Get("/api/outline/schema", s.OutlineSchema)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s.enableCORS(r)
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// GenerateOutline handles POST /api/outline.
func (s *Server) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status, outcome := s.generateOutline(w, r)
	s.metrics.observe(status, outcome, time.Since(start).Seconds())
}

func (s *Server) generateOutline(w http.ResponseWriter, r *http.Request) (int, string) {
	var req generation.Request
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, generation.ErrorPayload{Error: "Request body too large."})
			return http.StatusRequestEntityTooLarge, "rejected"
		}
		log.Warn().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, generation.ErrorPayload{Error: "Invalid request body."})
		return http.StatusBadRequest, "rejected"
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, generation.ErrorPayload{Error: MissingPromptMessage})
		return http.StatusBadRequest, "rejected"
	}
	req, err := generation.NewRequest(req.Prompt, req.Verbosity, req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, generation.ErrorPayload{Error: err.Error()})
		return http.StatusBadRequest, "rejected"
	}

	o, err := s.outliner.Outline(r.Context(), req)
	if err != nil {
		status, payload := errorResponse(err)
		writeError(w, status, payload)
		outcome := "model_error"
		if status == http.StatusBadGateway {
			outcome = "invalid_outline"
		}
		return status, outcome
	}

	s.metrics.sections.Observe(float64(len(o.Sections)))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		log.Error().Err(err).Msg("could not encode outline")
	}
	return http.StatusOK, "ok"
}

// errorResponse maps a generator failure to a status and body.
func errorResponse(err error) (int, generation.ErrorPayload) {
	var shape *outline.ShapeError
	if errors.As(err, &shape) {
		if !json.Valid([]byte(shape.Raw)) {
			return http.StatusBadGateway, generation.ErrorPayload{Error: InvalidJSONMessage, Raw: shape.Raw}
		}
		return http.StatusBadGateway, generation.ErrorPayload{Error: InvalidOutlineMessage, Raw: shape.Raw}
	}

	if errors.Is(err, context.Canceled) {
		// 499 as nginx logs it; the client has gone away anyway.
		return 499, generation.ErrorPayload{Error: "request canceled"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, generation.ErrorPayload{Error: "model request timed out"}
	}

	status := generator.StatusCode(err)
	payload := generation.ErrorPayload{Error: err.Error()}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		if geminiErr.Message != "" {
			payload.Error = geminiErr.Message
		}
		if len(geminiErr.Details) > 0 {
			if details, jerr := json.Marshal(geminiErr.Details); jerr == nil {
				payload.Details = string(details)
			}
		}
	}
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	return status, payload
}

// OutlineSchema handles GET /api/outline/schema.
func (s *Server) OutlineSchema(w http.ResponseWriter, r *http.Request) {
	b, err := outline.SchemaJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, generation.ErrorPayload{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, payload generation.ErrorPayload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("could not encode error response")
	}
}

// ListenAndServe serves the handler on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("generation server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "generation server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "could not shut down generation server")
		}
		return nil
	}
}
