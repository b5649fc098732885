// Package server implements the timestack HTTP tick service.
//
// Endpoints:
//
//	GET /healthz          liveness and build info
//	GET /v1/ticks         build the ticks of one axis
//	GET /v1/generators    list the generator set
//	GET /v1/measure       widest label width of a format
//	GET /v1/label         tooltip label of one instant
//
// Responses of /v1/ticks and /v1/measure are cached under a hash of the
// normalized request, and identical requests in flight at the same time are
// answered by a single build. Every response carries an X-Request-Id.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/cache"
	"github.com/matzehuels/timestack/pkg/measure"
)

// DefaultMaxTicks caps the ticks of one /v1/ticks response unless
// WithMaxTicks says otherwise.
const DefaultMaxTicks = 10000

// Server serves tick requests. It is safe for concurrent use.
type Server struct {
	base      axis.Options
	maxTicks  int
	axisID    string
	font      string
	cache     cache.Cache
	keyer     cache.Keyer
	ttl       time.Duration
	estimator *measure.Estimator
	logger    *log.Logger
	now       func() time.Time

	measurers *lru.Cache[string, measure.Measurer]
	group     singleflight.Group
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithAxisOptions sets the defaults every request starts from. id names the
// setup in cache keys and must change whenever the generator set, the format
// style or the thresholds do.
func WithAxisOptions(opts axis.Options, id string) Option {
	return func(s *Server) { s.base, s.axisID = opts, id }
}

// WithCache stores responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) { s.cache, s.ttl = c, ttl }
}

// WithMaxTicks sets the tick ceiling of a request. Requests without
// max_ticks, or with a larger one, are held to n.
func WithMaxTicks(n int) Option { return func(s *Server) { s.maxTicks = n } }

// WithKeyer replaces the default cache keyer.
func WithKeyer(k cache.Keyer) Option { return func(s *Server) { s.keyer = k } }

// WithFont sets the measurer used when a request names none.
func WithFont(spec string) Option { return func(s *Server) { s.font = spec } }

// WithEstimator shares an estimator, and its label width caches, with the
// server.
func WithEstimator(e *measure.Estimator) Option { return func(s *Server) { s.estimator = e } }

func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithClock replaces time.Now, which decides long bottom labels and
// missing-data fallbacks.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New creates a server. The zero configuration serves the default axis
// uncached with the Go font at 12px.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		axisID: "default",
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxTicks <= 0 {
		s.maxTicks = DefaultMaxTicks
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.estimator == nil {
		s.estimator = measure.NewEstimator(0)
	}

	// Resolve the defaults once so requests share one generator set.
	s.base.Logger = s.logger
	s.base.Estimator = s.estimator
	s.base.Now = s.now
	if err := s.base.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("axis defaults: %w", err)
	}
	if _, err := s.measurer(""); err != nil {
		return nil, fmt.Errorf("default font: %w", err)
	}

	measurers, err := lru.New[string, measure.Measurer](32)
	if err != nil {
		return nil, err
	}
	s.measurers = measurers
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ticks", s.handleTicks)
		r.Get("/generators", s.handleGenerators)
		r.Get("/measure", s.handleMeasure)
		r.Get("/label", s.handleLabel)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving ticks", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// measurer resolves a font spec, sharing parsed fonts between requests.
func (s *Server) measurer(spec string) (measure.Measurer, error) {
	if spec == "" {
		spec = s.font
	}
	if s.measurers != nil {
		if m, ok := s.measurers.Get(spec); ok {
			return m, nil
		}
	}
	m, err := measure.ForName(spec)
	if err != nil {
		return nil, err
	}
	if s.measurers != nil {
		s.measurers.Add(spec, m)
	}
	return m, nil
}
