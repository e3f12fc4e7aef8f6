package netlist

import "slices"

// interconnect is the direction-specific link state of a pin. It is only
// ever mutated by Netlist operations, which keep both sides of every link
// in agreement.
type interconnect interface {
	direction() Direction
}

// inputLink is the state of an input pin: at most one driver.
type inputLink struct {
	driver PinIndex
	driven bool
}

// outputLink is the state of an output pin: the inputs it drives, in the
// order they were connected.
type outputLink struct {
	sinks []PinIndex
}

func (*inputLink) direction() Direction  { return Input }
func (*outputLink) direction() Direction { return Output }

// Pin is a named, typed, directional terminal owned by a module.
type Pin struct {
	name   string
	kind   Kind
	link   interconnect
	parent ModuleIndex
}

func newPin(name string, kind Kind, dir Direction, parent ModuleIndex) Pin {
	p := Pin{name: name, kind: kind, parent: parent}
	if dir == Output {
		p.link = &outputLink{}
	} else {
		p.link = &inputLink{}
	}
	return p
}

// Name returns the pin name.
func (p *Pin) Name() string { return p.name }

// Kind returns the signal kind of the pin.
func (p *Pin) Kind() Kind { return p.kind }

// Direction returns the pin direction, fixed at creation.
func (p *Pin) Direction() Direction { return p.link.direction() }

// IsInput reports whether the pin is an input.
func (p *Pin) IsInput() bool { return p.Direction() == Input }

// IsOutput reports whether the pin is an output.
func (p *Pin) IsOutput() bool { return p.Direction() == Output }

// Parent returns the handle of the owning module.
func (p *Pin) Parent() ModuleIndex { return p.parent }

// Driver returns the output pin driving this input. It reports false for
// undriven inputs and for outputs.
func (p *Pin) Driver() (PinIndex, bool) {
	in, ok := p.link.(*inputLink)
	if !ok || !in.driven {
		return PinIndex{}, false
	}
	return in.driver, true
}

// Connections returns a copy of the inputs this output drives, in
// connection order. It returns nil for inputs.
func (p *Pin) Connections() []PinIndex {
	out, ok := p.link.(*outputLink)
	if !ok {
		return nil
	}
	return slices.Clone(out.sinks)
}

func (p *Pin) input() *inputLink {
	in, _ := p.link.(*inputLink)
	return in
}

func (p *Pin) output() *outputLink {
	out, _ := p.link.(*outputLink)
	return out
}
