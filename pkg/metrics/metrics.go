package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worklane/worklane/pkg/log"
)

// Config holds metrics server configuration
type Config struct {
	Host   string
	Port   int
	Enable bool
}

// Server represents a metrics server on a standalone listener.
type Server struct {
	config   Config
	server   *http.Server
	registry *prometheus.Registry
	mu       sync.Mutex
}

// Domain counters. Registered once against the server registry.
var (
	LoginFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worklane_login_failures_total",
		Help: "Number of failed login attempts.",
	})
	LockoutsTriggered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worklane_account_lockouts_total",
		Help: "Number of account lockouts triggered.",
	})
	InvitesAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worklane_invitations_accepted_total",
		Help: "Number of organization invitations accepted.",
	})
)

// NewServer creates a new metrics server
func NewServer(config Config) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(LoginFailures, LockoutsTriggered, InvitesAccepted)

	return &Server{
		config:   config,
		registry: registry,
	}
}

// RegisterCollector registers a prometheus collector
func (s *Server) RegisterCollector(collector prometheus.Collector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Register(collector); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}
	return nil
}

// Start starts the metrics HTTP server
func (s *Server) Start() error {
	if !s.config.Enable {
		log.Info("Metrics server is disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Infow("Metrics server started", "address", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("Metrics server failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the metrics HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
