package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/casperflow/pkg/editor"
	errs "github.com/matzehuels/casperflow/pkg/errors"
	"github.com/matzehuels/casperflow/pkg/observability"
)

type ctxKey struct{}

// logRequests logs every request at debug level and reports it to the
// HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"took", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// withEditor resolves {sid} to a session editor.
func (s *Server) withEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "sid")
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, errs.New(errs.ErrCodeInvalidInput, "invalid session id %q", raw))
			return
		}
		ed, ok := s.sessions.get(id)
		if !ok {
			writeError(w, errs.New(errs.ErrCodeSessionNotFound, "no session %s", id))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, ed)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func editorFrom(r *http.Request) *editor.Editor {
	return r.Context().Value(ctxKey{}).(*editor.Editor)
}

func sessionID(r *http.Request) uuid.UUID {
	return uuid.MustParse(chi.URLParam(r, "sid"))
}
