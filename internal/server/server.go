// Package server exposes the rule store, matcher, and reconciler over an
// HTTP admin/check API with Prometheus metrics and config hot-reload.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/engine"
	"github.com/ppiankov/copywatch/internal/model"
	"github.com/ppiankov/copywatch/internal/recheck"
)

// Config holds HTTP server configuration.
type Config struct {
	Port       int
	ConfigPath string
}

// Server serves the admin and check API.
type Server struct {
	mu      sync.RWMutex
	eng     *engine.Engine
	cfg     Config
	metrics *Metrics
	srv     *http.Server
}

// New loads configuration, assembles the engine, and prepares routes.
func New(ctx context.Context, cfg Config) (*Server, error) {
	engineCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = engineCfg.Server.Port
	}

	eng, err := engine.Open(ctx, engineCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}

	s := &Server{cfg: cfg, metrics: NewMetrics()}
	s.install(eng)
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// NewWithEngine wraps an already-assembled engine. For testing.
func NewWithEngine(eng *engine.Engine, port int) *Server {
	s := &Server{cfg: Config{Port: port}, metrics: NewMetrics()}
	s.install(eng)
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// install swaps in an engine, instrumenting its judge.
func (s *Server) install(eng *engine.Engine) {
	if eng.Judge != nil {
		eng = eng.WithJudge(&instrumentedJudge{inner: eng.Judge, metrics: s.metrics})
	}

	s.mu.Lock()
	old := s.eng
	s.eng = eng
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// engine returns the current engine under the read lock.
func (s *Server) engine() *engine.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng
}

// Reload rebuilds the engine from the config file. Called by the
// fsnotify watcher; a failed reload keeps the previous engine.
func (s *Server) Reload(ctx context.Context) error {
	engineCfg, err := config.Load(s.cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	eng, err := engine.Open(ctx, engineCfg)
	if err != nil {
		return fmt.Errorf("reload engine: %w", err)
	}
	s.install(eng)
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/rules", s.handleListRules)
	mux.HandleFunc("POST /v1/rules", s.handleAddRule)
	mux.HandleFunc("GET /v1/rules/metadata", s.handleMetadata)
	mux.HandleFunc("GET /v1/rules/search", s.handleSearch)
	mux.HandleFunc("GET /v1/rules/category/{category}", s.handleByCategory)
	mux.HandleFunc("GET /v1/rules/export", s.handleExport)
	mux.HandleFunc("POST /v1/rules/import", s.handleImport)
	mux.HandleFunc("POST /v1/rules/reset", s.handleReset)
	mux.HandleFunc("GET /v1/rules/{id}", s.handleGetRule)
	mux.HandleFunc("PATCH /v1/rules/{id}", s.handleUpdateRule)
	mux.HandleFunc("DELETE /v1/rules/{id}", s.handleDeleteRule)

	mux.HandleFunc("GET /v1/brief", s.handleBrief)
	mux.HandleFunc("POST /v1/check", s.handleCheck)
	mux.HandleFunc("POST /v1/recheck", s.handleRecheck)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// Serve starts the HTTP server on the configured port. Blocks until
// shutdown.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	return s.srv.Serve(lis)
}

// Shutdown gracefully stops the server and closes the engine.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if eng := s.engine(); eng != nil {
		eng.Close()
	}
	return err
}

// Port returns the resolved listen port.
func (s *Server) Port() int {
	return s.cfg.Port
}

// Handler exposes the route table. For testing.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// instrumentedJudge counts external judge calls and absorbed failures.
type instrumentedJudge struct {
	inner   recheck.Judge
	metrics *Metrics
}

func (j *instrumentedJudge) Judge(ctx context.Context, policyBrief, text string) (*model.CheckResult, error) {
	j.metrics.judgeCalls.Inc()
	res, err := j.inner.Judge(ctx, policyBrief, text)
	if err != nil {
		j.metrics.judgeFailures.Inc()
	}
	return res, err
}
