package server

import (
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/netlist"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SessionResponse identifies a session.
type SessionResponse struct {
	ID string `json:"id"`
}

// SessionsResponse lists live sessions.
type SessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// AddModuleRequest is the body of POST .../modules.
type AddModuleRequest struct {
	Name string `json:"name"`
}

// ModuleResponse carries a module's stable id.
type ModuleResponse struct {
	StableID int64 `json:"stable_id"`
}

// ModuleIDResponse maps a stable module id to its snapshot id.
type ModuleIDResponse struct {
	ID       int   `json:"id"`
	StableID int64 `json:"stable_id"`
}

// PositionRequest is the body of PUT .../position.
type PositionRequest struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// AddPinRequest is the body of POST .../pins.
type AddPinRequest struct {
	Name      string            `json:"name"`
	Kind      netlist.Kind      `json:"kind"`
	Direction netlist.Direction `json:"direction"`
}

// AddWireRequest is the body of POST .../wires and .../wires/disconnect.
// A and B are pin snapshot ids in either order.
type AddWireRequest struct {
	A int `json:"a"`
	B int `json:"b"`
}

// PlaceBlockRequest is the body of POST .../blocks. Exactly one of Block
// and Name is set; Name refers to a block in the server's library.
type PlaceBlockRequest struct {
	Block *pkgio.LibraryModule `json:"block,omitempty"`
	Name  string               `json:"name,omitempty"`
	X     float32              `json:"x"`
	Y     float32              `json:"y"`
}

// NamesResponse lists stored names.
type NamesResponse struct {
	Names []string `json:"names"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Store    string `json:"store,omitempty"`
}
