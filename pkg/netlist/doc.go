// Package netlist provides the in-memory graph engine behind the circuit
// editor: modules exposing typed, directional pins, connected by wires.
//
// # Overview
//
// A [Netlist] owns three generational arenas (modules, pins, wires) and is
// the only place the graph is mutated. Entities are referred to by stable
// handles ([ModuleIndex], [PinIndex], [WireIndex]) that report not-found once
// their referent is removed, rather than silently resolving to a different
// entity that reused the slot.
//
// # Basic Usage
//
//	n := netlist.New()
//	and := n.AddModule("and")
//	a, _ := n.AddPin(and, "A", netlist.KindWire, netlist.Input)
//	out, _ := n.AddPin(and, "Out", netlist.KindWire, netlist.Output)
//
//	or := n.AddModule("or")
//	b, _ := n.AddPin(or, "A", netlist.KindWire, netlist.Input)
//
//	w, err := n.AddWire(out, b)
//
// # Pins and Interconnects
//
// A pin's direction is fixed when it is created. An input pin has at most one
// driver; an output pin keeps the ordered list of inputs it drives. Both sides
// of every link are kept in agreement by [Netlist.AddWire],
// [Netlist.RemoveWire] and [Netlist.RemovePin]; the [Pin] type exposes its
// links read-only.
//
// # Connections
//
// [Netlist.AddWire] checks, in order: the pins differ ([ErrIdenticalPins]),
// both resolve ([ErrBadIndex]), their kinds are identical ([ErrCompatibility]),
// one is an input and the other an output ([ErrDirection]), and the input is
// not yet driven ([ErrInputDriven]). The first failing check is reported as a
// [*ConnectionError] and the graph is left unchanged. Kind compatibility is
// exact equality; there are no widening or casting rules.
//
// # Cascading Removal
//
// Removing a module removes its pins. Removing a pin detaches it from its
// module, clears the link on every partner pin and removes every wire that
// touches it.
//
// # Module Ids
//
// Each module also carries a sequential id drawn from a counter owned by the
// netlist. Ids are never reused, which makes them usable as external keys for
// "this module, specifically" even after its arena slot has been recycled.
//
// # Concurrency
//
// A Netlist is single-threaded. Callers sharing one across goroutines must
// serialize access; see package editor for the boundary layer that does so.
package netlist
