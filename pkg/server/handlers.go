package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/casperflow/pkg/buildinfo"
	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/netlist"
	"github.com/matzehuels/casperflow/pkg/render/nodelink"
	"github.com/matzehuels/casperflow/pkg/store"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// apiError gives every error a code.
func apiError(err error) *errs.Error {
	var e *errs.Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, store.ErrNotFound):
		return errs.Wrap(errs.ErrCodeNotFound, err, "not found")
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "internal error")
}

func writeError(w http.ResponseWriter, err error) {
	e := apiError(err)
	writeJSON(w, errs.HTTPStatus(e.Code), ErrorResponse{Error: e.Error(), Code: string(e.Code)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid %s %q", name, raw)
	}
	return v, nil
}

func boolQuery(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: len(s.sessions.ids()),
		Store:    s.library.Store().Backend(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// Sessions

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.create()
	s.logger.Info("session created", "session", id)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id.String()})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ids()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	slices.Sort(out)
	writeJSON(w, http.StatusOK, SessionsResponse{Sessions: out})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	s.sessions.remove(id)
	s.logger.Info("session closed", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := editorFrom(r).Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Modules and pins

func (s *Server) handleAddModule(w http.ResponseWriter, r *http.Request) {
	var req AddModuleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := editorFrom(r).AddModule(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ModuleResponse{StableID: id})
}

func (s *Server) handleRemoveModule(w http.ResponseWriter, r *http.Request) {
	s.removeByID(w, r, editorFrom(r).RemoveModule)
}

func (s *Server) handleRemovePin(w http.ResponseWriter, r *http.Request) {
	s.removeByID(w, r, editorFrom(r).RemovePin)
}

func (s *Server) handleRemoveWire(w http.ResponseWriter, r *http.Request) {
	s.removeByID(w, r, editorFrom(r).RemoveWire)
}

func (s *Server) removeByID(w http.ResponseWriter, r *http.Request, remove func(int) error) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := remove(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req PositionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := editorFrom(r).SetModulePosition(id, req.X, req.Y); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleModuleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	lm, err := editorFrom(r).LibraryModule(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lm)
}

func (s *Server) handleAddPin(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req AddPinRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := editorFrom(r).AddPin(id, req.Name, req.Kind, req.Direction); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Wires

func (s *Server) handleAddWire(w http.ResponseWriter, r *http.Request) {
	var req AddWireRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := editorFrom(r).AddWire(req.A, req.B); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req AddWireRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := editorFrom(r).Disconnect(req.A, req.B); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleModuleID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "stable")
	stable, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || stable < 0 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "invalid stable id %q", raw))
		return
	}
	id, err := editorFrom(r).ModuleID(stable)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ModuleIDResponse{ID: id, StableID: stable})
}

// Library blocks and designs

func (s *Server) handlePlaceBlock(w http.ResponseWriter, r *http.Request) {
	var req PlaceBlockRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var lm pkgio.LibraryModule
	switch {
	case req.Block != nil && req.Name != "":
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "set either block or name, not both"))
		return
	case req.Block != nil:
		lm = *req.Block
	case req.Name != "":
		var err error
		if lm, err = s.library.Block(r.Context(), req.Name); err != nil {
			writeError(w, err)
			return
		}
	default:
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "block or name required"))
		return
	}

	id, err := editorFrom(r).PlaceLibraryModule(lm, req.X, req.Y)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ModuleResponse{StableID: id})
}

func (s *Server) handleExportDesign(w http.ResponseWriter, r *http.Request) {
	d, err := editorFrom(r).ExportDesign()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleReplaceDesign(w http.ResponseWriter, r *http.Request) {
	s.importDesign(w, r, true)
}

func (s *Server) handleMergeDesign(w http.ResponseWriter, r *http.Request) {
	s.importDesign(w, r, false)
}

func (s *Server) importDesign(w http.ResponseWriter, r *http.Request, replace bool) {
	d, err := pkgio.ReadDesign(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidDesign, err, "decode design"))
		return
	}
	ed := editorFrom(r)
	if replace {
		err = ed.ReplaceDesign(d)
	} else {
		err = ed.ImportDesign(d)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := editorFrom(r).Clear(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rendering

func (s *Server) dot(r *http.Request) (string, error) {
	opts := nodelink.Options{
		Detailed: boolQuery(r, "detailed"),
		Pinned:   boolQuery(r, "pinned"),
	}
	var dot string
	err := editorFrom(r).View(func(n *netlist.Netlist) error {
		dot = nodelink.ToDOT(n, opts)
		return nil
	})
	return dot, err
}

func (s *Server) handleRenderDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// Library store

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	names, err := s.library.Blocks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, NamesResponse{Names: names})
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	lm, err := s.library.Block(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lm)
}

func (s *Server) handlePutBlock(w http.ResponseWriter, r *http.Request) {
	lm, err := pkgio.ReadLibrary(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidLibrary, err, "decode block"))
		return
	}
	name := chi.URLParam(r, "name")
	if lm.Name != name {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "block name %q does not match %q", lm.Name, name))
		return
	}
	if err := s.library.PutBlock(r.Context(), lm); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := s.library.DeleteBlock(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	names, err := s.library.Designs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, NamesResponse{Names: names})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := s.library.Design(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePutDesign(w http.ResponseWriter, r *http.Request) {
	d, err := pkgio.ReadDesign(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidDesign, err, "decode design"))
		return
	}
	if err := s.library.PutDesign(r.Context(), chi.URLParam(r, "name"), d); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := s.library.DeleteDesign(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
