package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/casperflow/pkg/netlist"
)

// Design is a whole netlist as a document. Wires refer to pins by module
// position in Modules and pin position in that module's port list.
type Design struct {
	Modules []DesignModule `json:"modules" validate:"dive"`
	Wires   []DesignWire   `json:"wires" validate:"dive"`
}

// DesignModule is a library block placed at a position.
type DesignModule struct {
	Name     string           `json:"name" validate:"required"`
	Position netlist.Position `json:"position"`
	Inputs   []LibraryPin     `json:"inputs" validate:"dive"`
	Outputs  []LibraryPin     `json:"outputs" validate:"dive"`
}

// PinRef addresses a port: Module indexes Design.Modules, Pin indexes the
// module's outputs (for a wire's From) or inputs (for its To).
type PinRef struct {
	Module int `json:"module" validate:"gte=0"`
	Pin    int `json:"pin" validate:"gte=0"`
}

// DesignWire connects an output (From) to an input (To).
type DesignWire struct {
	From PinRef `json:"from"`
	To   PinRef `json:"to"`
}

// Validate checks struct tags and that every wire endpoint exists.
func (d *Design) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, w := range d.Wires {
		if err := d.checkRef(w.From, false); err != nil {
			return fmt.Errorf("%w: wire %d from: %v", ErrInvalid, i, err)
		}
		if err := d.checkRef(w.To, true); err != nil {
			return fmt.Errorf("%w: wire %d to: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

func (d *Design) checkRef(r PinRef, input bool) error {
	if r.Module >= len(d.Modules) {
		return fmt.Errorf("module %d out of range", r.Module)
	}
	m := d.Modules[r.Module]
	ports := m.Outputs
	if input {
		ports = m.Inputs
	}
	if r.Pin >= len(ports) {
		return fmt.Errorf("pin %d out of range for module %q", r.Pin, m.Name)
	}
	return nil
}

// DesignFromNetlist captures every module (in arena order) and every wire of n.
func DesignFromNetlist(n *netlist.Netlist) Design {
	d := Design{Modules: []DesignModule{}, Wires: []DesignWire{}}
	moduleAt := make(map[netlist.ModuleIndex]int)
	for mi, m := range n.Modules() {
		moduleAt[mi] = len(d.Modules)
		d.Modules = append(d.Modules, DesignModule{
			Name:     m.Name(),
			Position: m.Position(),
			Inputs:   libraryPins(n, m.Inputs()),
			Outputs:  libraryPins(n, m.Outputs()),
		})
	}

	ref := func(pi netlist.PinIndex) PinRef {
		p, _ := n.Pin(pi)
		m, _ := n.Module(p.Parent())
		ports := m.Outputs()
		if p.IsInput() {
			ports = m.Inputs()
		}
		r := PinRef{Module: moduleAt[p.Parent()]}
		for i, q := range ports {
			if q == pi {
				r.Pin = i
				break
			}
		}
		return r
	}
	for _, w := range n.Wires() {
		d.Wires = append(d.Wires, DesignWire{From: ref(w.Output), To: ref(w.Input)})
	}
	return d
}

// LoadDesign adds every module of d to n and replays its wires through
// [netlist.Netlist.AddWire], so a document that would break a netlist
// invariant is rejected. On error, modules added so far are removed again
// and n is left as it was apart from its module id counter.
func LoadDesign(n *netlist.Netlist, d Design) ([]netlist.ModuleIndex, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	mods := make([]netlist.ModuleIndex, len(d.Modules))
	for i, dm := range d.Modules {
		mods[i] = AddLibraryModule(n, LibraryModule{Name: dm.Name, Inputs: dm.Inputs, Outputs: dm.Outputs})
		n.SetModulePosition(mods[i], dm.Position)
	}

	for i, w := range d.Wires {
		from, _ := n.Module(mods[w.From.Module])
		to, _ := n.Module(mods[w.To.Module])
		if _, err := n.AddWire(from.Outputs()[w.From.Pin], to.Inputs()[w.To.Pin]); err != nil {
			for _, mi := range mods {
				n.RemoveModule(mi)
			}
			return nil, fmt.Errorf("wire %d: %w", i, err)
		}
	}
	return mods, nil
}

// ReadDesign decodes and validates a design document from r.
func ReadDesign(r io.Reader) (Design, error) {
	var d Design
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Design{}, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	if err := d.Validate(); err != nil {
		return Design{}, err
	}
	return d, nil
}

// WriteDesign encodes d as indented JSON.
func WriteDesign(d Design, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportDesign reads a design document from the file at path.
func ImportDesign(path string) (Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return Design{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDesign(f)
}

// ExportDesign writes d to a file at path.
func ExportDesign(d Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDesign(d, f)
}
