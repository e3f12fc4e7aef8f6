package netlist

import (
	"fmt"
	"slices"
)

// Validate checks the structural consistency of the netlist and returns an
// error wrapping ErrInvariant describing the first violation found:
//
//   - every pin listed by a module is live, has the right direction and
//     names that module as its parent, and every live pin is listed by its
//     parent
//   - every input's driver is a live output listing that input, and every
//     output's connections are live inputs driven by that output
//   - every wire joins a live input to the live output driving it, and each
//     driven input has exactly one wire
//
// Operations on Netlist maintain these properties; Validate exists for
// tests and for checking designs assembled from external data.
func (n *Netlist) Validate() error {
	for mi, m := range n.Modules() {
		if err := n.validateModulePins(mi, m.inputs, Input); err != nil {
			return err
		}
		if err := n.validateModulePins(mi, m.outputs, Output); err != nil {
			return err
		}
	}

	for pi, p := range n.Pins() {
		m, ok := n.Module(p.parent)
		if !ok {
			return invariantf("pin %s: parent module %s does not exist", pi, p.parent)
		}
		list := m.inputs
		if p.IsOutput() {
			list = m.outputs
		}
		if !slices.Contains(list, pi) {
			return invariantf("pin %s: not listed by parent module %s", pi, p.parent)
		}
		if err := n.validateLinks(pi, p); err != nil {
			return err
		}
	}

	wired := make(map[PinIndex]int)
	for wi, w := range n.Wires() {
		in, ok := n.Pin(w.Input)
		if !ok || !in.IsInput() {
			return invariantf("wire %s: input endpoint %s is not a live input", wi, w.Input)
		}
		out, ok := n.Pin(w.Output)
		if !ok || !out.IsOutput() {
			return invariantf("wire %s: output endpoint %s is not a live output", wi, w.Output)
		}
		if drv, ok := in.Driver(); !ok || drv != w.Output {
			return invariantf("wire %s: input %s is not driven by %s", wi, w.Input, w.Output)
		}
		wired[w.Input]++
	}
	for pi, p := range n.Pins() {
		_, driven := p.Driver()
		switch c := wired[pi]; {
		case c > 1:
			return invariantf("pin %s: %d wires drive one input", pi, c)
		case driven && c == 0:
			return invariantf("pin %s: driven input has no wire", pi)
		}
	}
	return nil
}

func (n *Netlist) validateModulePins(mi ModuleIndex, pins []PinIndex, dir Direction) error {
	for _, pi := range pins {
		p, ok := n.Pin(pi)
		if !ok {
			return invariantf("module %s: %s pin %s does not exist", mi, dir, pi)
		}
		if p.parent != mi {
			return invariantf("module %s: pin %s names %s as parent", mi, pi, p.parent)
		}
		if p.Direction() != dir {
			return invariantf("module %s: pin %s listed as %s but is %s", mi, pi, dir, p.Direction())
		}
	}
	return nil
}

func (n *Netlist) validateLinks(pi PinIndex, p *Pin) error {
	if in := p.input(); in != nil {
		if !in.driven {
			return nil
		}
		drv, ok := n.Pin(in.driver)
		if !ok || !drv.IsOutput() {
			return invariantf("pin %s: driver %s is not a live output", pi, in.driver)
		}
		if !slices.Contains(drv.output().sinks, pi) {
			return invariantf("pin %s: driver %s does not list it", pi, in.driver)
		}
		return nil
	}

	sinks := p.output().sinks
	for i, sink := range sinks {
		if slices.Contains(sinks[:i], sink) {
			return invariantf("pin %s: drives %s twice", pi, sink)
		}
		in, ok := n.Pin(sink)
		if !ok || !in.IsInput() {
			return invariantf("pin %s: connection %s is not a live input", pi, sink)
		}
		if drv, ok := in.Driver(); !ok || drv != pi {
			return invariantf("pin %s: connection %s is not driven by it", pi, sink)
		}
	}
	return nil
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
