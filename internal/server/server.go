package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trmnl/internal/carousel"
	"trmnl/internal/logging"
	"trmnl/internal/services"
)

const (
	deviceIDHeader  = "ID"
	requestIDHeader = "X-Request-ID"

	setupAPIKey     = "local-server-key"
	setupFriendlyID = "LOCAL"
	setupFilename   = "setup"
)

// Slot is the part of the carousel the API needs.
type Slot interface {
	Current(ctx context.Context) (carousel.Image, error)
	Advance(ctx context.Context) (carousel.Image, error)
}

// Options configures the device API.
type Options struct {
	Bind string
	// BaseURL prefixes image URLs handed to the device. When empty the URL is
	// derived from the request Host header.
	BaseURL         string
	RefreshInterval int
	APIToken        string
	Engine          string
}

// Server serves the device API backed by a carousel slot.
type Server struct {
	opts    Options
	slot    Slot
	logger  *slog.Logger
	started time.Time
	now     func() time.Time

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds the HTTP handlers. Call Start to begin listening.
func New(opts Options, slot Slot, logger *slog.Logger) (*Server, error) {
	if slot == nil {
		return nil, errors.New("server: carousel slot required")
	}
	s := &Server{
		opts:   opts,
		slot:   slot,
		logger: logging.NewComponentLogger(logger, "api-server"),
		now:    time.Now,
	}
	s.started = s.now()
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with request correlation applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/setup", s.handleSetup)
	mux.HandleFunc("GET /api/display", s.handleDisplay)
	mux.HandleFunc("GET /api/image/{filename}", s.handleImage)
	mux.HandleFunc("POST /api/log", s.handleLog)
	mux.HandleFunc("GET /api/status", s.requireToken(s.handleStatus))
	mux.HandleFunc("/", s.handleCatchAll)
	return s.withRequestContext(mux)
}

// Start listens on the configured bind address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.opts.Bind)
	if bind == "" {
		return errors.New("server: bind address required")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		ctx = services.WithDeviceID(ctx, strings.TrimSpace(r.Header.Get(deviceIDHeader)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) baseURL(r *http.Request) string {
	if base := strings.TrimRight(strings.TrimSpace(s.opts.BaseURL), "/"); base != "" {
		return base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}
