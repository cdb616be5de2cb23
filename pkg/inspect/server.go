package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/middleware"
)

// Server serves binding snapshots, metrics and the activity stream.
//
// Routes:
//
//	GET /healthz            liveness
//	GET /bindings           every bound model
//	GET /bindings/{model}   one model by name
//	GET /metrics            Prometheus exposition
//	GET /ws                 activity stream
type Server struct {
	engine     *binding.Engine
	hub        *Hub
	gatherer   prometheus.Gatherer
	registerer prometheus.Registerer
	logger     *slog.Logger
	middleware []func(http.Handler) http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry serves and records metrics with reg instead of the default
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.gatherer = reg
		s.registerer = reg
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMiddleware appends router middleware.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// New creates an inspector for engine. Activity reaches clients only if
// the engine was created with binding.WithActivity(hub.Publish).
func New(engine *binding.Engine, hub *Hub, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		hub:        hub,
		gatherer:   prometheus.DefaultGatherer,
		registerer: prometheus.DefaultRegisterer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the inspector routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Prometheus(middleware.WithRegistry(s.registerer)))
	r.Use(middleware.OpenTelemetry(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/metrics"
	})))
	r.Use(s.middleware...)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/bindings", s.handleBindings)
	r.Get("/bindings/{model}", s.handleBinding)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.hub.HandleWebSocket)
	return r
}

func (s *Server) handleBindings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleBinding(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")
	for _, info := range s.engine.Snapshot() {
		if info.Model == name {
			s.writeJSON(w, http.StatusOK, info)
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "model " + name + " is not bound"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("encode inspector response", "error", err)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// closes websocket clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
