package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes health, readiness, metrics, and file validation endpoints.
type Server struct {
	httpServer *http.Server
	maxBytes   int64
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/validate routes. Validation bodies over maxBytes are rejected.
func NewServer(addr string, ready sharedobs.ReadinessChecker, maxBytes int64, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		maxBytes: maxBytes,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/validate", s.handleValidate)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type validateResponse struct {
	Status    string `json:"status"`
	Soundings *int   `json:"soundings,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleValidate checks a BUFKIT file posted as the request body. A valid
// file reports how many merged soundings it yields.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.ValidateRequests.WithLabelValues("rejected").Inc()
			sharedobs.WriteJSON(w, http.StatusRequestEntityTooLarge, validateResponse{Status: "rejected", Error: "file too large"})
			return
		}
		s.metrics.ValidateRequests.WithLabelValues("rejected").Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, validateResponse{Status: "rejected", Error: err.Error()})
		return
	}

	source := r.URL.Query().Get("file")
	if source == "" {
		source = domain.UnknownSource
	}

	count, err := countSoundings(string(body), source)
	if err != nil {
		s.logger.Debug("validation failed", "file", source, "error", err)
		s.metrics.ValidateRequests.WithLabelValues("invalid").Inc()
		sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, validateResponse{Status: "invalid", Error: err.Error()})
		return
	}

	s.metrics.ValidateRequests.WithLabelValues("valid").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, validateResponse{Status: "valid", Soundings: &count})
}

func countSoundings(text, source string) (int, error) {
	d, err := domain.Parse(text, source)
	if err != nil {
		return 0, err
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	n := 0
	for _, err := range d.Soundings().All() {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
