package netlist

import "slices"

// Position is an opaque pair of screen coordinates stored on a module for
// the benefit of an editor. The netlist never interprets it.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Module is a named block owning ordered lists of input and output pins.
type Module struct {
	name     string
	id       int64
	inputs   []PinIndex
	outputs  []PinIndex
	position Position
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// ID returns the module's process-unique sequential id. Unlike a
// [ModuleIndex], an id is never reused once its module is removed.
func (m *Module) ID() int64 { return m.id }

// Inputs returns a copy of the module's input pins in insertion order.
func (m *Module) Inputs() []PinIndex { return slices.Clone(m.inputs) }

// Outputs returns a copy of the module's output pins in insertion order.
func (m *Module) Outputs() []PinIndex { return slices.Clone(m.outputs) }

// Position returns the module's editor position.
func (m *Module) Position() Position { return m.position }

func (m *Module) detach(pin PinIndex, dir Direction) {
	match := func(x PinIndex) bool { return x == pin }
	if dir == Input {
		m.inputs = slices.DeleteFunc(m.inputs, match)
	} else {
		m.outputs = slices.DeleteFunc(m.outputs, match)
	}
}
