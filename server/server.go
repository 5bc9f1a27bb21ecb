// Package server provides http api for signal broadcasts, audit trail and pipeline status.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/shopspring/decimal"

	"github.com/umputun/sportswatch/pkg/audit"
	"github.com/umputun/sportswatch/pkg/domain"
	"github.com/umputun/sportswatch/pkg/scheduler"
	"github.com/umputun/sportswatch/pkg/signal"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/broadcaster.go -pkg mocks -skip-ensure -fmt goimports . Broadcaster
//go:generate moq -out mocks/audit.go -pkg mocks -skip-ensure -fmt goimports . AuditLog
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/status.go -pkg mocks -skip-ensure -fmt goimports . StatusProvider

const defaultAuditLimit = 100

// Server represents HTTP server instance
type Server struct {
	Params

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params of the server. Runner, Schedule and Metrics are optional.
type Params struct {
	Config      ConfigProvider
	Broadcaster Broadcaster
	Audit       AuditLog
	Runner      Runner         // on-demand publishing run
	Schedule    StatusProvider // scheduler status
	Metrics     http.Handler   // prometheus handler
	Version     string
	Debug       bool
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Broadcaster sends signals to chat channels
type Broadcaster interface {
	BroadcastSignal(ctx context.Context, raw string, stopLoss, takeProfit *decimal.Decimal, channels ...string) (map[string]bool, error)
	Channels() []string
}

// AuditLog reads and appends audit entries
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Entries(ctx context.Context) ([]domain.AuditEntry, error)
}

// Runner starts a publishing run in background, returns scheduler.ErrBusy if one is active
type Runner interface {
	Trigger() error
}

// StatusProvider reports scheduler status
type StatusProvider interface {
	Status() scheduler.Status
}

// signalRequest is the body of signal broadcast request
type signalRequest struct {
	Signal     string           `json:"signal"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `json:"take_profit,omitempty"`
	Channels   []string         `json:"channels,omitempty"`
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{Params: p, router: routegroup.New(http.NewServeMux())}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.Config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("sportswatch", "umputun", s.Version))
	s.router.Use(rest.Ping)
	if s.Debug {
		s.router.Use(logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler)
	}
	s.router.Use(rest.Recoverer(log.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /signal", s.signalHandler)
		r.HandleFunc("GET /audit", s.auditHandler)
		r.HandleFunc("POST /run", s.runHandler)
	})
	if s.Metrics != nil {
		s.router.Handle("GET /metrics", s.Metrics)
	}
}

// statusHandler returns server status, channels and scheduler state
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.Version,
		"time":    time.Now().UTC(),
	}
	if s.Broadcaster != nil {
		status["channels"] = s.Broadcaster.Channels()
	}
	if s.Schedule != nil {
		status["schedule"] = s.Schedule.Status()
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// signalHandler parses signal from request and broadcasts it, POST /api/v1/signal
func (s *Server) signalHandler(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("decode request: %w", err), http.StatusBadRequest)
		return
	}

	results, err := s.Broadcaster.BroadcastSignal(r.Context(), req.Signal, req.StopLoss, req.TakeProfit, req.Channels...)
	if err != nil {
		var perr *signal.ParseError
		if errors.As(err, &perr) {
			RenderError(w, r, err, http.StatusBadRequest)
			return
		}
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	delivered := false
	for _, ok := range results {
		delivered = delivered || ok
	}
	details := map[string]any{"signal": req.Signal, "results": results}
	entry := audit.NewEntry(audit.ActionBroadcast, domain.ContentItem{}, delivered, details, time.Now())
	if err := s.Audit.Append(r.Context(), entry); err != nil {
		log.Printf("[ERROR] can't write audit entry for signal %q: %v", req.Signal, err)
	}

	RenderJSON(w, r, http.StatusOK, map[string]any{"delivered": delivered, "results": results})
}

// auditHandler returns the latest audit entries, GET /api/v1/audit?limit=N
func (s *Server) auditHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			RenderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.Audit.Entries(r.Context())
	if err != nil {
		RenderError(w, r, fmt.Errorf("read audit log: %w", err), http.StatusInternalServerError)
		return
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	RenderJSON(w, r, http.StatusOK, entries)
}

// runHandler starts a publishing run in background, POST /api/v1/run.
// The result is reported by scheduler status on /api/v1/status.
func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	if s.Runner == nil {
		RenderError(w, r, errors.New("publishing is not enabled"), http.StatusNotImplemented)
		return
	}
	if err := s.Runner.Trigger(); err != nil {
		if errors.Is(err, scheduler.ErrBusy) {
			RenderError(w, r, err, http.StatusConflict)
			return
		}
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusAccepted, map[string]string{"status": "started"})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
