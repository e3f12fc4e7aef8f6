// Package io provides JSON import and export for library blocks and whole
// designs.
//
// # Overview
//
// A library block is a reusable module template: a name and ordered lists of
// typed input and output ports, with no connections. A design is a complete
// netlist: placed modules plus the wires between them.
//
// # Library Format
//
//	{
//	  "name": "Logical",
//	  "inputs": [
//	    {"name": "A", "kind": "Wire"},
//	    {"name": "B", "kind": "Wire"}
//	  ],
//	  "outputs": [
//	    {"name": "Out", "kind": "Wire"}
//	  ]
//	}
//
// Kinds are "Wire", "Integer" or "Real" and are matched case-insensitively on
// input. Use [ReadLibrary] or [ImportLibrary] to decode a block, and
// [AddLibraryModule] to instantiate it in a netlist. [LibraryFromNetlist]
// goes the other way.
//
// # Design Format
//
//	{
//	  "modules": [
//	    {"name": "and", "position": {"x": 0, "y": 0},
//	     "inputs": [...], "outputs": [{"name": "Out", "kind": "Wire"}]},
//	    {"name": "or", "position": {"x": 120, "y": 0},
//	     "inputs": [{"name": "A", "kind": "Wire"}], "outputs": []}
//	  ],
//	  "wires": [
//	    {"from": {"module": 0, "pin": 0}, "to": {"module": 1, "pin": 0}}
//	  ]
//	}
//
// A wire's "from" names an output port and its "to" an input port, each by
// module position and port position. [LoadDesign] replays wires through the
// netlist's own connection checks, so a document that wires two drivers into
// one input, or mismatched kinds, is rejected as a whole.
//
// Exporting a netlist with [DesignFromNetlist] and loading the result into an
// empty netlist preserves module names, positions, port names, kinds and
// order, and the wiring between them.
//
// # Validation
//
// Decoded documents are validated with go-playground/validator struct tags
// (non-empty names, known kinds) plus range checks on wire endpoints. Every
// failure wraps [ErrInvalid].
package io
