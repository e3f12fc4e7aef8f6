package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/casperflow/pkg/editor"
	"github.com/matzehuels/casperflow/pkg/store"
)

const notBlock = `{"name":"not","inputs":[{"name":"A","kind":"Wire"}],"outputs":[{"name":"Y","kind":"Wire"}]}`

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return New(Options{Library: store.NewLibrary(fs, nil)})
}

func request(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	if code == "" {
		return
	}
	if got := decodeAs[ErrorResponse](t, w).Code; got != code {
		t.Errorf("code = %q, want %q", got, code)
	}
}

func newSession(t *testing.T, s *Server) string {
	t.Helper()
	w := request(t, s, http.MethodPost, "/api/v1/sessions", "")
	expect(t, w, http.StatusCreated, "")
	return "/api/v1/sessions/" + decodeAs[SessionResponse](t, w).ID
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)
	w := request(t, s, http.MethodGet, "/healthz", "")
	expect(t, w, http.StatusOK, "")
	resp := decodeAs[HealthResponse](t, w)
	if resp.Status != "ok" || resp.Store != store.BackendFile {
		t.Errorf("health = %+v", resp)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)

	w := request(t, s, http.MethodGet, "/api/v1/sessions", "")
	expect(t, w, http.StatusOK, "")
	if got := decodeAs[SessionsResponse](t, w).Sessions; len(got) != 1 || !strings.HasSuffix(base, got[0]) {
		t.Errorf("sessions = %v", got)
	}

	expect(t, request(t, s, http.MethodDelete, base, ""), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodGet, base+"/graph", ""), http.StatusNotFound, "SESSION_NOT_FOUND")
	expect(t, request(t, s, http.MethodGet, "/api/v1/sessions/not-a-uuid/graph", ""), http.StatusBadRequest, "INVALID_INPUT")
}

func TestEditFlow(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)

	for _, x := range []string{"0", "100"} {
		w := request(t, s, http.MethodPost, base+"/blocks", `{"block":`+notBlock+`,"x":`+x+`,"y":0}`)
		expect(t, w, http.StatusCreated, "")
	}

	w := request(t, s, http.MethodGet, base+"/graph", "")
	expect(t, w, http.StatusOK, "")
	g := decodeAs[editor.Graph](t, w)
	if len(g.Modules) != 2 || g.Modules[1].Position != [2]float32{100, 0} {
		t.Fatalf("graph = %+v", g)
	}
	in1, out0 := g.Modules[1].Inputs[0].ID, g.Modules[0].Outputs[0].ID

	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":1,"b":2}`), http.StatusCreated, "")
	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":3,"b":2}`), http.StatusConflict, "INPUT_DRIVEN")
	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":0,"b":0}`), http.StatusConflict, "IDENTICAL_PINS")
	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":0,"b":2}`), http.StatusConflict, "DIRECTION")
	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":1,"b":99}`), http.StatusNotFound, "BAD_INDEX")

	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, base+"/graph", ""))
	if len(g.Wires) != 1 || g.Wires[0].X != in1 || g.Wires[0].Y != out0 {
		t.Errorf("wires = %+v, want input %d driven by %d", g.Wires, in1, out0)
	}

	expect(t, request(t, s, http.MethodPost, base+"/modules", `{"name":"meter"}`), http.StatusCreated, "")
	request(t, s, http.MethodGet, base+"/graph", "")
	expect(t, request(t, s, http.MethodPost, base+"/modules/2/pins", `{"name":"v","kind":"Real","direction":"Input"}`), http.StatusCreated, "")
	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":1,"b":4}`), http.StatusNotFound, "BAD_INDEX")

	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, base+"/graph", ""))
	meter := g.Modules[2]
	if meter.Name != "meter" || len(meter.Inputs) != 1 {
		t.Fatalf("meter = %+v", meter)
	}
	w = request(t, s, http.MethodPost, base+"/wires", `{"a":1,"b":`+itoa(meter.Inputs[0].ID)+`}`)
	expect(t, w, http.StatusConflict, "INCOMPATIBLE_KINDS")
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

func TestStaleIDs(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)
	request(t, s, http.MethodPost, base+"/blocks", `{"block":`+notBlock+`}`)
	request(t, s, http.MethodGet, base+"/graph", "")

	expect(t, request(t, s, http.MethodDelete, base+"/modules/0", ""), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodDelete, base+"/pins/0", ""), http.StatusNotFound, "BAD_INDEX")
	expect(t, request(t, s, http.MethodPut, base+"/modules/0/position", `{"x":1,"y":2}`), http.StatusNotFound, "BAD_INDEX")
	expect(t, request(t, s, http.MethodDelete, base+"/wires/abc", ""), http.StatusBadRequest, "INVALID_INPUT")
}

func TestBadBody(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)

	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"malformed", "/modules", `{`, "INVALID_INPUT"},
		{"unknown field", "/wires", `{"from":1}`, "INVALID_INPUT"},
		{"bad kind", "/modules/0/pins", `{"name":"p","kind":"Bit"}`, "INVALID_INPUT"},
		{"neither block nor name", "/blocks", `{}`, "INVALID_INPUT"},
		{"invalid block", "/blocks", `{"block":{"name":""}}`, "INVALID_LIBRARY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, request(t, s, http.MethodPost, base+tt.path, tt.body), http.StatusBadRequest, tt.code)
		})
	}
}

func TestLibraryRoutes(t *testing.T) {
	s := setupTestServer(t)

	expect(t, request(t, s, http.MethodPut, "/api/v1/library/not", notBlock), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodPut, "/api/v1/library/inv", notBlock), http.StatusBadRequest, "INVALID_INPUT")

	w := request(t, s, http.MethodGet, "/api/v1/library", "")
	expect(t, w, http.StatusOK, "")
	if names := decodeAs[NamesResponse](t, w).Names; len(names) != 1 || names[0] != "not" {
		t.Errorf("names = %v", names)
	}
	expect(t, request(t, s, http.MethodGet, "/api/v1/library/not", ""), http.StatusOK, "")
	expect(t, request(t, s, http.MethodGet, "/api/v1/library/nand", ""), http.StatusNotFound, "NOT_FOUND")

	base := newSession(t, s)
	expect(t, request(t, s, http.MethodPost, base+"/blocks", `{"name":"not","x":5,"y":5}`), http.StatusCreated, "")
	expect(t, request(t, s, http.MethodPost, base+"/blocks", `{"name":"nand"}`), http.StatusNotFound, "NOT_FOUND")

	request(t, s, http.MethodGet, base+"/graph", "")
	w = request(t, s, http.MethodGet, base+"/modules/0/block", "")
	expect(t, w, http.StatusOK, "")
	if !strings.Contains(w.Body.String(), `"name": "not"`) {
		t.Errorf("block = %s", w.Body.String())
	}

	expect(t, request(t, s, http.MethodDelete, "/api/v1/library/not", ""), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodGet, "/api/v1/library/not", ""), http.StatusNotFound, "NOT_FOUND")
}

func TestDesignRoutes(t *testing.T) {
	s := setupTestServer(t)
	src := newSession(t, s)
	request(t, s, http.MethodPost, src+"/blocks", `{"block":`+notBlock+`}`)
	request(t, s, http.MethodPost, src+"/blocks", `{"block":`+notBlock+`}`)
	request(t, s, http.MethodGet, src+"/graph", "")
	expect(t, request(t, s, http.MethodPost, src+"/wires", `{"a":1,"b":2}`), http.StatusCreated, "")

	w := request(t, s, http.MethodGet, src+"/design", "")
	expect(t, w, http.StatusOK, "")
	design := w.Body.String()

	dst := newSession(t, s)
	request(t, s, http.MethodPost, dst+"/modules", `{"name":"scratch"}`)
	expect(t, request(t, s, http.MethodPut, dst+"/design", design), http.StatusNoContent, "")
	g := decodeAs[editor.Graph](t, request(t, s, http.MethodGet, dst+"/graph", ""))
	if len(g.Modules) != 2 || len(g.Wires) != 1 {
		t.Errorf("replaced graph has %d modules, %d wires", len(g.Modules), len(g.Wires))
	}

	expect(t, request(t, s, http.MethodPost, dst+"/design", design), http.StatusNoContent, "")
	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, dst+"/graph", ""))
	if len(g.Modules) != 4 || len(g.Wires) != 2 {
		t.Errorf("merged graph has %d modules, %d wires", len(g.Modules), len(g.Wires))
	}

	// A rejected replacement leaves the netlist alone.
	bad := `{"modules":[],"wires":[{"from":{"module":0,"pin":0},"to":{"module":1,"pin":0}}]}`
	expect(t, request(t, s, http.MethodPut, dst+"/design", bad), http.StatusBadRequest, "INVALID_DESIGN")
	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, dst+"/graph", ""))
	if len(g.Modules) != 4 {
		t.Errorf("rejected design changed the graph: %d modules", len(g.Modules))
	}

	// Well formed, but the wire joins a Wire output to an Integer input.
	mismatched := `{"modules":[
		{"name":"src","position":{"x":0,"y":0},"inputs":[],"outputs":[{"name":"Out","kind":"Wire"}]},
		{"name":"dst","position":{"x":0,"y":0},"inputs":[{"name":"In","kind":"Integer"}],"outputs":[]}],
		"wires":[{"from":{"module":0,"pin":0},"to":{"module":1,"pin":0}}]}`
	expect(t, request(t, s, http.MethodPut, dst+"/design", mismatched), http.StatusConflict, "INCOMPATIBLE_KINDS")
	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, dst+"/graph", ""))
	if len(g.Modules) != 4 || len(g.Wires) != 2 {
		t.Errorf("rejected PUT /design left %d modules, %d wires, want 4, 2", len(g.Modules), len(g.Wires))
	}

	expect(t, request(t, s, http.MethodPut, "/api/v1/designs/pair", design), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodGet, "/api/v1/designs/pair", ""), http.StatusOK, "")
	w = request(t, s, http.MethodGet, "/api/v1/designs", "")
	if names := decodeAs[NamesResponse](t, w).Names; len(names) != 1 || names[0] != "pair" {
		t.Errorf("designs = %v", names)
	}
	expect(t, request(t, s, http.MethodDelete, "/api/v1/designs/pair", ""), http.StatusNoContent, "")

	expect(t, request(t, s, http.MethodDelete, dst+"/design", ""), http.StatusNoContent, "")
	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, dst+"/graph", ""))
	if len(g.Modules) != 0 {
		t.Errorf("cleared graph has %d modules", len(g.Modules))
	}
}

func TestStableIDAndDisconnect(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)
	request(t, s, http.MethodPost, base+"/blocks", `{"block":`+notBlock+`}`)
	w := request(t, s, http.MethodPost, base+"/blocks", `{"block":`+notBlock+`}`)
	expect(t, w, http.StatusCreated, "")
	stable := decodeAs[ModuleResponse](t, w).StableID

	path := base + "/modules/stable/" + strconv.FormatInt(stable, 10)
	expect(t, request(t, s, http.MethodGet, path, ""), http.StatusNotFound, "BAD_INDEX")
	expect(t, request(t, s, http.MethodGet, base+"/modules/stable/x", ""), http.StatusBadRequest, "INVALID_INPUT")

	g := decodeAs[editor.Graph](t, request(t, s, http.MethodGet, base+"/graph", ""))
	w = request(t, s, http.MethodGet, path, "")
	expect(t, w, http.StatusOK, "")
	got := decodeAs[ModuleIDResponse](t, w)
	if got.StableID != stable || g.Modules[got.ID].StableID != stable {
		t.Errorf("stable lookup = %+v, graph = %+v", got, g.Modules)
	}

	expect(t, request(t, s, http.MethodPost, base+"/wires", `{"a":1,"b":2}`), http.StatusCreated, "")
	expect(t, request(t, s, http.MethodPost, base+"/wires/disconnect", `{"a":2,"b":1}`), http.StatusNoContent, "")
	expect(t, request(t, s, http.MethodPost, base+"/wires/disconnect", `{"a":2,"b":1}`), http.StatusNotFound, "NOT_FOUND")
	g = decodeAs[editor.Graph](t, request(t, s, http.MethodGet, base+"/graph", ""))
	if len(g.Wires) != 0 {
		t.Errorf("wires after disconnect = %+v", g.Wires)
	}
}

func TestRenderDOT(t *testing.T) {
	s := setupTestServer(t)
	base := newSession(t, s)
	request(t, s, http.MethodPost, base+"/blocks", `{"block":`+notBlock+`,"x":3,"y":4}`)

	w := request(t, s, http.MethodGet, base+"/render.dot?detailed=1&pinned=true", "")
	expect(t, w, http.StatusOK, "")
	body := w.Body.String()
	if !strings.HasPrefix(body, "digraph") || !strings.Contains(body, `pos="3,-4!"`) {
		t.Errorf("dot = %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSessionCleanup(t *testing.T) {
	s := New(Options{SessionTTL: time.Minute})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.sessions.now = func() time.Time { return now }

	idle := s.sessions.create()
	busy := s.sessions.create()

	now = now.Add(50 * time.Second)
	s.sessions.get(busy)
	now = now.Add(20 * time.Second)

	if n := s.CleanupSessions(); n != 1 {
		t.Fatalf("CleanupSessions() = %d, want 1", n)
	}
	if _, ok := s.sessions.get(idle); ok {
		t.Error("idle session survived")
	}
	if _, ok := s.sessions.get(busy); !ok {
		t.Error("busy session evicted")
	}
}
