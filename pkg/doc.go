// Package pkg provides the core libraries for Casperflow netlist editing.
//
// # Overview
//
// Casperflow models circuits as netlists: modules own ordered input and
// output pins, and wires connect one output to one input. Every entity lives
// in a generational arena and is addressed by a typed handle, so a handle to
// something removed stops resolving instead of aliasing whatever reuses its
// slot. The pkg directory is organized into these areas:
//
//  1. [arena] and [netlist] - the entity store and the graph with its
//     invariants (one driver per input, cascading removal)
//  2. [editor] - a concurrency-safe session over one netlist addressed by
//     dense snapshot ids
//  3. [io] - library block and design documents (JSON)
//  4. [store] - persistence of blocks and designs (file, Redis, MongoDB)
//  5. [render] - Graphviz node-link diagrams
//  6. [server] - the HTTP API for graphical editors
//
// # Architecture
//
// The typical data flow:
//
//	design.json / library block
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [netlist] package (graph, invariants)
//	         ↓
//	    [editor] package (snapshot ids, locking)
//	         ↓
//	    [server] API / [render/nodelink] SVG, PDF, PNG, DOT
//
// # Quick Start
//
// Build and wire two gates:
//
//	n := netlist.New()
//	src := n.AddModule("not")
//	y, _ := n.AddPin(src, "Y", netlist.KindWire, netlist.Output)
//	dst := n.AddModule("not")
//	a, _ := n.AddPin(dst, "A", netlist.KindWire, netlist.Input)
//	if _, err := n.AddWire(y, a); err != nil {
//	    // errors.Is(err, netlist.ErrInputDriven), ...
//	}
//
// Render it:
//
//	svg, _ := nodelink.RenderSVG(nodelink.ToDOT(n, nodelink.Options{}))
//
// # Main Packages
//
// [errors] - Coded errors shared by the CLI and the HTTP API. Connection
// failures keep their netlist sentinel in the chain.
//
// [observability] - Hook interfaces for editor, store and HTTP events with
// no-op defaults.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/netlist/...            # Specific package
//	go test -run Example                 # Examples only
//
// [arena]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/arena
// [netlist]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/netlist
// [editor]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/editor
// [io]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/store
// [render]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/buildinfo
//
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/casperflow/pkg/render/nodelink
package pkg
