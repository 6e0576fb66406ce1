// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package httpapi provides the HTTP transport for Classtrack. Handlers
// decode requests, delegate to the services, and map the error taxonomy
// onto HTTP statuses; no authorization decisions are made here.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/observability"
	"github.com/classtrack/classtrack/internal/tracker"
)

// ServerConfig holds dependencies for the API server.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
	Auth        AuthService
	Resolver    PrincipalResolver
	Classrooms  *tracker.ClassroomService
	Progress    *tracker.ProgressService
	Metrics     *observability.Metrics
}

// Server serves the Classtrack API.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an API server with all routes wired.
func NewServer(cfg ServerConfig) *Server {
	authH := &authHandler{svc: cfg.Auth}
	classroomH := &classroomHandler{svc: cfg.Classrooms}
	progressH := &progressHandler{svc: cfg.Progress}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(requestMetrics(cfg.Metrics))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.register)
		r.Post("/auth/login", authH.login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(cfg.Resolver))

			r.Get("/auth/me", authH.me)

			r.Get("/classrooms/my", classroomH.listMine)
			r.Post("/classrooms", classroomH.create)
			r.Put("/classrooms/{id}", classroomH.update)
			r.Delete("/classrooms/{id}", classroomH.delete)
			r.Post("/classrooms/{id}/students", classroomH.addStudent)
			r.Delete("/classrooms/{id}/students/{studentID}", classroomH.removeStudent)

			r.Get("/progress/my", progressH.listMine)
			r.Get("/progress/classroom/{id}", progressH.listForClassroom)
			r.Post("/progress", progressH.create)
			r.Put("/progress/{id}", progressH.update)
			r.Delete("/progress/{id}", progressH.delete)
		})
	})

	return &Server{addr: cfg.Addr, handler: r}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving the API. It returns an error channel that
// receives any server failure after startup; the channel is closed on
// graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
