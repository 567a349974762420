// Package server is the composition root: it builds every dependency from
// config.Config, mounts the routes, and runs the HTTP server until shutdown.
//
// DEPENDENCY FLOW:
// cmd/ghlookup loads config.Config and a logger, then calls New, which builds
//
//	github.Client (outbound, base URL from config)
//	  → lookup.Service
//	    → handler.PageHandler (HTML) and handler.APIHandler (JSON)
//	session.Tokens + session.Store
//	  → session.Middleware (HTML routes only)
//
// Nothing else in the tree constructs these; handlers and services receive
// their dependencies and never reach for globals.
//
// LIFECYCLE:
// New does no I/O beyond parsing embedded templates. Start opens the
// listener, runs the session sweeper, and blocks until its context is
// cancelled, then drains in-flight requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/ghlookup/internal/config"
	"github.com/sakif/ghlookup/internal/github"
	"github.com/sakif/ghlookup/internal/handler"
	"github.com/sakif/ghlookup/internal/lookup"
	"github.com/sakif/ghlookup/internal/middleware"
	"github.com/sakif/ghlookup/internal/session"
	"github.com/sakif/ghlookup/internal/web"
)

// Server owns the router and the session store. The store's sweeper runs
// for as long as Start does.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	sessions *session.Store
}

// New wires the dependency chain:
//
//	github.Client → lookup.Service → PageHandler / APIHandler
//	session.Store + session.Tokens → session.Middleware
//
// httpClient is used for outbound GitHub calls; nil means http.DefaultClient.
func New(cfg config.Config, httpClient *http.Client, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// === SESSION SIGNING KEY ===
	// Without a configured secret, cookies are signed with a random key that
	// lives only as long as this process: a restart logs everybody out,
	// which is harmless since sessions are in memory anyway.
	secret := cfg.Session.Secret
	if secret == "" {
		generated, err := session.RandomSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn("session.secret not set, using a random per-process secret")
	}
	tokens, err := session.NewTokens(secret, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("creating session tokens: %w", err)
	}

	// === OUTBOUND CLIENT ===
	// Tests pass an httptest server's client and base URL here.
	client, err := github.NewClient(cfg.APIBaseURL, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		sessions: session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval, logger),
	}

	if err := s.setupRoutes(lookup.NewService(client, logger), tokens); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// setupRoutes mounts:
//
//	GET  /           form + current session outcome (HTML)
//	POST /lookup     submit form, 303 back to /
//	GET  /static/*   embedded CSS
//	POST /api/lookup stateless JSON lookup
//	GET  /healthz    liveness
//
// MIDDLEWARE ORDER:
// Middleware runs top to bottom on the way in:
//  1. RequestID  assigns an id first, so every later log line can carry it
//  2. RealIP     rewrites RemoteAddr from X-Forwarded-For / X-Real-IP
//  3. Logger     wraps everything below, so it sees the final status
//  4. Recoverer  turns a panic into a 500 that Logger still records
//
// Session middleware only wraps the HTML routes: the JSON API is stateless
// and must not hand out cookies.
func (s *Server) setupRoutes(svc *lookup.Service, tokens *session.Tokens) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	pages := handler.NewPageHandler(tmpl, svc, s.logger)
	api := handler.NewAPIHandler(svc, s.logger)

	cookie := session.CookieConfig{
		Name:   s.config.Session.Cookie,
		MaxAge: int(s.config.Session.TTL.Seconds()),
		Secure: s.config.Session.Secure,
	}

	// Group shares middleware between routes without a path prefix.
	s.router.Group(func(r chi.Router) {
		r.Use(session.Middleware(s.sessions, tokens, cookie, s.logger))
		r.Get("/", pages.HandleIndex)
		r.Post("/lookup", pages.HandleLookup)
	})

	s.router.Post("/api/lookup", api.HandleLookup)
	s.router.Get("/healthz", api.HandleHealth)

	return nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to http.shutdown_timeout.
func (s *Server) Start(ctx context.Context) error {
	startedAt := time.Now()
	s.sessions.Start()
	defer s.sessions.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
		IdleTimeout:  s.config.HTTP.IdleTimeout,
	}

	// === GRACEFUL SHUTDOWN ===
	// ListenAndServe blocks, so it runs in a goroutine and reports through a
	// buffered channel (the goroutine never blocks on send, even if nobody
	// reads). The select below waits for whichever happens first: the
	// listener failing (port in use) or ctx being cancelled by a signal.
	// Shutdown stops accepting connections and waits for active requests,
	// bounded by http.shutdown_timeout.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("api", s.config.APIBaseURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully", slog.Duration("uptime", time.Since(startedAt)))
	}

	return nil
}
