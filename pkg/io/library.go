package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/casperflow/pkg/netlist"
)

// ErrInvalid is wrapped by every decode or validation failure of a library
// block or design document.
var ErrInvalid = errors.New("invalid document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// LibraryPin is one port of a library block.
type LibraryPin struct {
	Name string       `json:"name" validate:"required"`
	Kind netlist.Kind `json:"kind" validate:"gte=0,lte=2"`
}

// LibraryModule is a prefab block: a name plus ordered input and output
// ports. It carries no connections and no position.
type LibraryModule struct {
	Name    string       `json:"name" validate:"required"`
	Inputs  []LibraryPin `json:"inputs" validate:"dive"`
	Outputs []LibraryPin `json:"outputs" validate:"dive"`
}

// Validate checks the struct tags of lm.
func (lm *LibraryModule) Validate() error {
	if err := validate.Struct(lm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LibraryFromNetlist describes the module at idx as a library block. The
// second result is false if idx does not resolve.
func LibraryFromNetlist(n *netlist.Netlist, idx netlist.ModuleIndex) (LibraryModule, bool) {
	m, ok := n.Module(idx)
	if !ok {
		return LibraryModule{}, false
	}
	return LibraryModule{
		Name:    m.Name(),
		Inputs:  libraryPins(n, m.Inputs()),
		Outputs: libraryPins(n, m.Outputs()),
	}, true
}

func libraryPins(n *netlist.Netlist, idxs []netlist.PinIndex) []LibraryPin {
	pins := make([]LibraryPin, 0, len(idxs))
	for _, pi := range idxs {
		if p, ok := n.Pin(pi); ok {
			pins = append(pins, LibraryPin{Name: p.Name(), Kind: p.Kind()})
		}
	}
	return pins
}

// AddLibraryModule instantiates lm in n: one new module, its inputs added
// in order, then its outputs. The module starts unconnected at the origin.
func AddLibraryModule(n *netlist.Netlist, lm LibraryModule) netlist.ModuleIndex {
	mi := n.AddModule(lm.Name)
	for _, p := range lm.Inputs {
		// mi was just created, AddPin cannot fail.
		_, _ = n.AddPin(mi, p.Name, p.Kind, netlist.Input)
	}
	for _, p := range lm.Outputs {
		_, _ = n.AddPin(mi, p.Name, p.Kind, netlist.Output)
	}
	return mi
}

// ReadLibrary decodes and validates a library block from r:
//
//	{
//	  "name": "Logical",
//	  "inputs": [{"name": "A", "kind": "Wire"}, {"name": "B", "kind": "Wire"}],
//	  "outputs": [{"name": "Out", "kind": "Wire"}]
//	}
//
// Kind tags are matched case-insensitively. Errors wrap [ErrInvalid].
// ReadLibrary does not close r.
func ReadLibrary(r io.Reader) (LibraryModule, error) {
	var lm LibraryModule
	if err := json.NewDecoder(r).Decode(&lm); err != nil {
		return LibraryModule{}, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	if err := lm.Validate(); err != nil {
		return LibraryModule{}, err
	}
	return lm, nil
}

// WriteLibrary encodes lm as indented JSON.
func WriteLibrary(lm LibraryModule, w io.Writer) error {
	if lm.Inputs == nil {
		lm.Inputs = []LibraryPin{}
	}
	if lm.Outputs == nil {
		lm.Outputs = []LibraryPin{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lm); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportLibrary reads a library block from the file at path.
func ImportLibrary(path string) (LibraryModule, error) {
	f, err := os.Open(path)
	if err != nil {
		return LibraryModule{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLibrary(f)
}

// ExportLibrary writes lm to a file at path.
func ExportLibrary(lm LibraryModule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLibrary(lm, f)
}
