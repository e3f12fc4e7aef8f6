package netlist

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/matzehuels/casperflow/pkg/arena"
)

// Wire is the persistent record of one accepted connection.
type Wire struct {
	Input  PinIndex
	Output PinIndex
}

// Netlist owns every module, pin and wire of a design along with all
// operations that mutate the graph. Each operation either succeeds and
// leaves the graph consistent, or fails without changing it.
//
// The zero value is not usable - use New. A Netlist is not safe for
// concurrent use without external synchronization.
type Netlist struct {
	modules *arena.Arena[Module]
	pins    *arena.Arena[Pin]
	wires   *arena.Arena[Wire]
	nextID  int64
}

// New creates an empty netlist.
func New() *Netlist {
	return &Netlist{
		modules: arena.New[Module](),
		pins:    arena.New[Pin](),
		wires:   arena.New[Wire](),
	}
}

// Empty returns a new empty netlist whose module ids continue after the
// ones n has issued. Handles of n do not resolve in it.
func (n *Netlist) Empty() *Netlist {
	next := New()
	next.nextID = n.nextID
	return next
}

// AddModule adds an empty module and returns its handle. The module gets
// the next sequential id; ids are never reused.
func (n *Netlist) AddModule(name string) ModuleIndex {
	id := n.nextID
	n.nextID++
	return ModuleIndex(n.modules.Insert(Module{name: name, id: id}))
}

// RemoveModule removes a module and every pin it owns, along with all wires
// touching those pins. It reports false if idx does not resolve.
func (n *Netlist) RemoveModule(idx ModuleIndex) bool {
	m, ok := n.modules.Remove(arena.Index(idx))
	if !ok {
		return false
	}
	for _, p := range m.inputs {
		n.RemovePin(p)
	}
	for _, p := range m.outputs {
		n.RemovePin(p)
	}
	return true
}

// AddPin adds a pin to the module at idx, appending it to the module's
// input or output list according to dir. It returns ErrUnknownModule if
// idx does not resolve.
func (n *Netlist) AddPin(idx ModuleIndex, name string, kind Kind, dir Direction) (PinIndex, error) {
	m, ok := n.modules.Get(arena.Index(idx))
	if !ok {
		return PinIndex{}, fmt.Errorf("%w: %s", ErrUnknownModule, idx)
	}
	pi := PinIndex(n.pins.Insert(newPin(name, kind, dir, idx)))
	if dir == Output {
		m.outputs = append(m.outputs, pi)
	} else {
		m.inputs = append(m.inputs, pi)
	}
	return pi, nil
}

// RemovePin removes a pin. The pin is detached from its parent module, its
// links are cleared on every partner pin, and every wire touching it is
// removed. It reports false if idx does not resolve.
func (n *Netlist) RemovePin(idx PinIndex) bool {
	p, ok := n.pins.Remove(arena.Index(idx))
	if !ok {
		return false
	}
	if m, ok := n.modules.Get(arena.Index(p.parent)); ok {
		m.detach(idx, p.Direction())
	}

	switch link := p.link.(type) {
	case *inputLink:
		if link.driven {
			if drv, ok := n.pins.Get(arena.Index(link.driver)); ok {
				out := drv.output()
				out.sinks = slices.DeleteFunc(out.sinks, func(x PinIndex) bool { return x == idx })
			}
		}
	case *outputLink:
		for _, sink := range link.sinks {
			if in, ok := n.pins.Get(arena.Index(sink)); ok {
				*in.input() = inputLink{}
			}
		}
	}

	n.wires.Retain(func(_ arena.Index, w *Wire) bool {
		return w.Input != idx && w.Output != idx
	})
	return true
}

// AddWire connects two pins. The order of a and b does not matter: the
// output side becomes the driver of the input side.
//
// Checks run in a fixed order and the first failure is returned as a
// *ConnectionError wrapping ErrIdenticalPins, ErrBadIndex,
// ErrCompatibility, ErrDirection or ErrInputDriven. A failed call leaves
// the netlist unchanged.
func (n *Netlist) AddWire(a, b PinIndex) (WireIndex, error) {
	if a == b {
		return WireIndex{}, &ConnectionError{Reason: ErrIdenticalPins, Pin: a}
	}

	pa, pb := n.pins.Get2(arena.Index(a), arena.Index(b))
	if pa == nil || pb == nil {
		bad := a
		if n.pins.Contains(arena.Index(a)) {
			bad = b
		}
		return WireIndex{}, &ConnectionError{Reason: ErrBadIndex, Pin: bad}
	}

	if !pa.kind.Compatible(pb.kind) {
		return WireIndex{}, &ConnectionError{Reason: ErrCompatibility, Kinds: [2]Kind{pa.kind, pb.kind}}
	}

	var (
		input, output       *Pin
		inputIdx, outputIdx PinIndex
	)
	switch {
	case pa.IsInput() && pb.IsOutput():
		input, inputIdx, output, outputIdx = pa, a, pb, b
	case pb.IsInput() && pa.IsOutput():
		input, inputIdx, output, outputIdx = pb, b, pa, a
	default:
		return WireIndex{}, &ConnectionError{Reason: ErrDirection}
	}

	in := input.input()
	if in.driven {
		return WireIndex{}, &ConnectionError{Reason: ErrInputDriven, Pin: inputIdx}
	}
	in.driver, in.driven = outputIdx, true
	out := output.output()
	out.sinks = append(out.sinks, inputIdx)

	return WireIndex(n.wires.Insert(Wire{Input: inputIdx, Output: outputIdx})), nil
}

// RemoveWire removes a wire and clears the link between its endpoints. It
// reports false if idx does not resolve.
//
// Wires are always removed before their pins, so a wire whose endpoints
// are gone is a bug and RemoveWire panics on it.
func (n *Netlist) RemoveWire(idx WireIndex) bool {
	w, ok := n.wires.Remove(arena.Index(idx))
	if !ok {
		return false
	}
	input, output := n.pins.Get2(arena.Index(w.Input), arena.Index(w.Output))
	if input == nil || output == nil {
		panic(fmt.Sprintf("netlist: wire %s outlived its endpoints", idx))
	}
	*input.input() = inputLink{}
	out := output.output()
	out.sinks = slices.DeleteFunc(out.sinks, func(x PinIndex) bool { return x == w.Input })
	return true
}

// SetModulePosition replaces the editor position of a module. It reports
// false if idx does not resolve. Topology is unaffected.
func (n *Netlist) SetModulePosition(idx ModuleIndex, pos Position) bool {
	m, ok := n.modules.Get(arena.Index(idx))
	if !ok {
		return false
	}
	m.position = pos
	return true
}

// Clear removes every module, pin and wire. All outstanding handles become
// stale. The module id counter is not reset.
func (n *Netlist) Clear() {
	n.wires.Clear()
	n.pins.Clear()
	n.modules.Clear()
}

// Module returns the module at idx.
func (n *Netlist) Module(idx ModuleIndex) (*Module, bool) {
	return n.modules.Get(arena.Index(idx))
}

// Pin returns the pin at idx.
func (n *Netlist) Pin(idx PinIndex) (*Pin, bool) {
	return n.pins.Get(arena.Index(idx))
}

// Wire returns the wire at idx.
func (n *Netlist) Wire(idx WireIndex) (Wire, bool) {
	w, ok := n.wires.Get(arena.Index(idx))
	if !ok {
		return Wire{}, false
	}
	return *w, true
}

// Modules iterates over live modules in arena order.
func (n *Netlist) Modules() iter.Seq2[ModuleIndex, *Module] {
	return func(yield func(ModuleIndex, *Module) bool) {
		for i, m := range n.modules.All() {
			if !yield(ModuleIndex(i), m) {
				return
			}
		}
	}
}

// Pins iterates over live pins in arena order.
func (n *Netlist) Pins() iter.Seq2[PinIndex, *Pin] {
	return func(yield func(PinIndex, *Pin) bool) {
		for i, p := range n.pins.All() {
			if !yield(PinIndex(i), p) {
				return
			}
		}
	}
}

// Wires iterates over live wires in arena order.
func (n *Netlist) Wires() iter.Seq2[WireIndex, Wire] {
	return func(yield func(WireIndex, Wire) bool) {
		for i, w := range n.wires.All() {
			if !yield(WireIndex(i), *w) {
				return
			}
		}
	}
}

// ModuleCount returns the number of live modules.
func (n *Netlist) ModuleCount() int { return n.modules.Len() }

// PinCount returns the number of live pins.
func (n *Netlist) PinCount() int { return n.pins.Len() }

// WireCount returns the number of live wires.
func (n *Netlist) WireCount() int { return n.wires.Len() }

// FindWire returns the wire connecting output to input, if any.
func (n *Netlist) FindWire(input, output PinIndex) (WireIndex, bool) {
	for i, w := range n.Wires() {
		if w.Input == input && w.Output == output {
			return i, true
		}
	}
	return WireIndex{}, false
}

// FindModuleByID returns the handle of the live module with the given
// sequential id.
func (n *Netlist) FindModuleByID(id int64) (ModuleIndex, bool) {
	for i, m := range n.Modules() {
		if m.id == id {
			return i, true
		}
	}
	return ModuleIndex{}, false
}

// String returns a multi-line debug dump of the netlist.
func (n *Netlist) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Netlist { modules: %d, pins: %d, wires: %d }\n",
		n.ModuleCount(), n.PinCount(), n.WireCount())
	for mi, m := range n.Modules() {
		fmt.Fprintf(&b, "module #%d %q [%s] at (%g, %g)\n", m.id, m.name, mi, m.position.X, m.position.Y)
		for _, pi := range append(m.Inputs(), m.outputs...) {
			p, ok := n.Pin(pi)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  %-6s %s: %s [%s]", p.Direction(), p.name, p.kind, pi)
			if drv, ok := p.Driver(); ok {
				fmt.Fprintf(&b, " <- %s", drv)
			}
			for _, sink := range p.Connections() {
				fmt.Fprintf(&b, " -> %s", sink)
			}
			b.WriteByte('\n')
		}
	}
	for wi, w := range n.Wires() {
		fmt.Fprintf(&b, "wire [%s] %s -> %s\n", wi, w.Output, w.Input)
	}
	return b.String()
}
