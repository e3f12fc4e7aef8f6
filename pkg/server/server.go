package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/casperflow/pkg/store"
)

// Options configures a Server.
type Options struct {
	// Library backs the /api/v1/library routes and placing blocks by name.
	// Nil uses a library that stores nothing.
	Library *store.Library

	// SessionTTL evicts sessions idle for longer. Zero means
	// DefaultSessionTTL.
	SessionTTL time.Duration

	// Logger receives request and session logs. Nil discards.
	Logger *log.Logger
}

// Server serves editor sessions over HTTP.
type Server struct {
	router   chi.Router
	sessions *sessions
	library  *store.Library
	logger   *log.Logger
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	lib := opts.Library
	if lib == nil {
		lib = store.NewLibrary(store.NewNullStore(), nil)
	}
	s := &Server{
		sessions: newSessions(opts.SessionTTL, logger),
		library:  lib,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)

			r.Route("/{sid}", func(r chi.Router) {
				r.Use(s.withEditor)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/graph", s.handleGraph)

				r.Post("/modules", s.handleAddModule)
				r.Get("/modules/stable/{stable}", s.handleModuleID)
				r.Delete("/modules/{id}", s.handleRemoveModule)
				r.Put("/modules/{id}/position", s.handleSetPosition)
				r.Get("/modules/{id}/block", s.handleModuleBlock)
				r.Post("/modules/{id}/pins", s.handleAddPin)
				r.Delete("/pins/{id}", s.handleRemovePin)

				r.Post("/wires", s.handleAddWire)
				r.Post("/wires/disconnect", s.handleDisconnect)
				r.Delete("/wires/{id}", s.handleRemoveWire)

				r.Post("/blocks", s.handlePlaceBlock)

				r.Get("/design", s.handleExportDesign)
				r.Put("/design", s.handleReplaceDesign)
				r.Post("/design", s.handleMergeDesign)
				r.Delete("/design", s.handleClear)

				r.Get("/render.svg", s.handleRenderSVG)
				r.Get("/render.dot", s.handleRenderDOT)
			})
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/", s.handleListBlocks)
			r.Get("/{name}", s.handleGetBlock)
			r.Put("/{name}", s.handlePutBlock)
			r.Delete("/{name}", s.handleDeleteBlock)
		})

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", s.handleListDesigns)
			r.Get("/{name}", s.handleGetDesign)
			r.Put("/{name}", s.handlePutDesign)
			r.Delete("/{name}", s.handleDeleteDesign)
		})
	})
	return r
}

// CleanupSessions evicts idle sessions and returns how many were dropped.
func (s *Server) CleanupSessions() int {
	n := s.sessions.cleanup()
	if n > 0 {
		s.logger.Info("evicted idle sessions", "count", n)
	}
	return n
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle sessions are evicted periodically.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(s.sessions.ttl / 4)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupSessions()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "store", s.library.Store().Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
