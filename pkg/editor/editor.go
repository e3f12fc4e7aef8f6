package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/netlist"
	"github.com/matzehuels/casperflow/pkg/observability"
)

// Options configures an Editor.
type Options struct {
	// Logger receives one debug line per operation. Nil discards.
	Logger *log.Logger
}

// Editor serializes access to one netlist and translates snapshot ids to
// handles. All methods are safe for concurrent use.
type Editor struct {
	mu       sync.Mutex
	n        *netlist.Netlist
	ids      tables
	poisoned bool
	logger   *log.Logger
}

// New returns an editor over an empty netlist.
func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Editor{n: netlist.New(), ids: newTables(), logger: logger}
}

// do runs fn with the lock held. A panic in fn poisons the editor and is
// re-raised; every later call fails with POISONED.
func (e *Editor) do(op string, fn func(n *netlist.Netlist) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.poisoned {
		return errs.New(errs.ErrCodePoisoned, "editor poisoned by an earlier failed operation")
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.poisoned = true
			e.logger.Error("editor poisoned", "op", op, "panic", r)
			observability.Editor().OnPoisoned(op, r)
			panic(r)
		}
	}()

	err = fn(e.n)
	elapsed := time.Since(start)
	observability.Editor().OnEdit(op, elapsed, err)
	if err != nil {
		e.logger.Debug("edit rejected", "op", op, "err", err)
	} else {
		e.logger.Debug("edit", "op", op, "took", elapsed)
	}
	return err
}

// Poisoned reports whether an earlier operation panicked.
func (e *Editor) Poisoned() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.poisoned
}

func (e *Editor) module(id int) (netlist.ModuleIndex, error) {
	mi, ok := e.ids.modules.handle(id)
	if !ok {
		return mi, errs.New(errs.ErrCodeBadIndex, "no module with id %d in the current snapshot", id)
	}
	return mi, nil
}

func (e *Editor) pin(id int) (netlist.PinIndex, error) {
	pi, ok := e.ids.pins.handle(id)
	if !ok {
		return pi, errs.New(errs.ErrCodeBadIndex, "no pin with id %d in the current snapshot", id)
	}
	return pi, nil
}

func (e *Editor) wire(id int) (netlist.WireIndex, error) {
	wi, ok := e.ids.wires.handle(id)
	if !ok {
		return wi, errs.New(errs.ErrCodeBadIndex, "no wire with id %d in the current snapshot", id)
	}
	return wi, nil
}

func stale(what string, id int) error {
	return errs.New(errs.ErrCodeBadIndex, "%s %d was removed", what, id)
}

// Snapshot returns the current graph and renumbers every module, pin and
// wire. Ids from earlier snapshots must not be used afterwards.
func (e *Editor) Snapshot() (Graph, error) {
	var g Graph
	err := e.do("snapshot", func(n *netlist.Netlist) error {
		g, e.ids = snapshot(n)
		observability.Editor().OnSnapshot(len(g.Modules), e.ids.pins.len(), len(g.Wires))
		return nil
	})
	return g, err
}

// AddModule adds an empty module and returns its stable id. The module gets
// a snapshot id with the next Snapshot.
func (e *Editor) AddModule(name string) (int64, error) {
	var id int64
	err := e.do("add_module", func(n *netlist.Netlist) error {
		m, _ := n.Module(n.AddModule(name))
		id = m.ID()
		return nil
	})
	return id, err
}

// RemoveModule removes a module with all of its pins and their wires.
func (e *Editor) RemoveModule(id int) error {
	return e.do("remove_module", func(n *netlist.Netlist) error {
		mi, err := e.module(id)
		if err != nil {
			return err
		}
		if !n.RemoveModule(mi) {
			return stale("module", id)
		}
		return nil
	})
}

// AddPin appends a pin to a module.
func (e *Editor) AddPin(moduleID int, name string, kind netlist.Kind, dir netlist.Direction) error {
	return e.do("add_pin", func(n *netlist.Netlist) error {
		mi, err := e.module(moduleID)
		if err != nil {
			return err
		}
		if _, err := n.AddPin(mi, name, kind, dir); err != nil {
			return errs.FromNetlist(err)
		}
		return nil
	})
}

// RemovePin removes a pin, unlinking its partners and removing its wires.
func (e *Editor) RemovePin(id int) error {
	return e.do("remove_pin", func(n *netlist.Netlist) error {
		pi, err := e.pin(id)
		if err != nil {
			return err
		}
		if !n.RemovePin(pi) {
			return stale("pin", id)
		}
		return nil
	})
}

// AddWire connects two pins in either order. Rejections carry the codes
// IDENTICAL_PINS, BAD_INDEX, INCOMPATIBLE_KINDS, DIRECTION or INPUT_DRIVEN.
func (e *Editor) AddWire(a, b int) error {
	return e.do("add_wire", func(n *netlist.Netlist) error {
		if a == b {
			// Same id means same handle; let the netlist report it.
			pa, _ := e.ids.pins.handle(a)
			_, err := n.AddWire(pa, pa)
			return errs.FromNetlist(err)
		}
		pa, err := e.pin(a)
		if err != nil {
			return err
		}
		pb, err := e.pin(b)
		if err != nil {
			return err
		}
		if _, err := n.AddWire(pa, pb); err != nil {
			return errs.FromNetlist(err)
		}
		return nil
	})
}

// RemoveWire removes a wire and clears the link it recorded.
func (e *Editor) RemoveWire(id int) error {
	return e.do("remove_wire", func(n *netlist.Netlist) error {
		wi, err := e.wire(id)
		if err != nil {
			return err
		}
		if !n.RemoveWire(wi) {
			return stale("wire", id)
		}
		return nil
	})
}

// Disconnect removes the wire between two pins given in either order.
func (e *Editor) Disconnect(a, b int) error {
	return e.do("disconnect", func(n *netlist.Netlist) error {
		pa, err := e.pin(a)
		if err != nil {
			return err
		}
		pb, err := e.pin(b)
		if err != nil {
			return err
		}
		if _, ok := n.Pin(pa); !ok {
			return stale("pin", a)
		}
		if _, ok := n.Pin(pb); !ok {
			return stale("pin", b)
		}
		wi, ok := n.FindWire(pa, pb)
		if !ok {
			wi, ok = n.FindWire(pb, pa)
		}
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "pins %d and %d are not connected", a, b)
		}
		n.RemoveWire(wi)
		return nil
	})
}

// ModuleID returns the current snapshot id of the module with the given
// stable id. Modules added since the last Snapshot have none yet.
func (e *Editor) ModuleID(stable int64) (int, error) {
	var id int
	err := e.do("module_id", func(n *netlist.Netlist) error {
		mi, ok := n.FindModuleByID(stable)
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "no module with stable id %d", stable)
		}
		if id, ok = e.ids.modules.id(mi); !ok {
			return errs.New(errs.ErrCodeBadIndex, "module %d is not in the current snapshot", stable)
		}
		return nil
	})
	return id, err
}

// SetModulePosition moves a module. Topology is unaffected.
func (e *Editor) SetModulePosition(id int, x, y float32) error {
	return e.do("set_module_position", func(n *netlist.Netlist) error {
		mi, err := e.module(id)
		if err != nil {
			return err
		}
		if !n.SetModulePosition(mi, netlist.Position{X: x, Y: y}) {
			return stale("module", id)
		}
		return nil
	})
}

// LoadLibraryModule decodes a library block from r, instantiates it at
// (x, y) and returns the new module's stable id.
func (e *Editor) LoadLibraryModule(r io.Reader, x, y float32) (int64, error) {
	lm, err := pkgio.ReadLibrary(r)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidLibrary, err, "load library block")
	}
	return e.placeLibrary(lm, x, y)
}

// LoadLibraryFile is LoadLibraryModule reading from the file at path.
func (e *Editor) LoadLibraryFile(path string, x, y float32) (int64, error) {
	lm, err := pkgio.ImportLibrary(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return 0, errs.Wrap(errs.ErrCodeFileNotFound, err, "library file %s", path)
	case err != nil:
		return 0, errs.Wrap(errs.ErrCodeInvalidLibrary, err, "library file %s", path)
	}
	return e.placeLibrary(lm, x, y)
}

// PlaceLibraryModule instantiates an already decoded block at (x, y).
func (e *Editor) PlaceLibraryModule(lm pkgio.LibraryModule, x, y float32) (int64, error) {
	if err := lm.Validate(); err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidLibrary, err, "place library block")
	}
	return e.placeLibrary(lm, x, y)
}

func (e *Editor) placeLibrary(lm pkgio.LibraryModule, x, y float32) (int64, error) {
	var id int64
	err := e.do("load_library_module", func(n *netlist.Netlist) error {
		mi := pkgio.AddLibraryModule(n, lm)
		n.SetModulePosition(mi, netlist.Position{X: x, Y: y})
		m, _ := n.Module(mi)
		id = m.ID()
		return nil
	})
	return id, err
}

// LibraryModule describes the module with the given snapshot id as a
// library block.
func (e *Editor) LibraryModule(id int) (pkgio.LibraryModule, error) {
	var lm pkgio.LibraryModule
	err := e.do("library_module", func(n *netlist.Netlist) error {
		mi, err := e.module(id)
		if err != nil {
			return err
		}
		var ok bool
		if lm, ok = pkgio.LibraryFromNetlist(n, mi); !ok {
			return stale("module", id)
		}
		return nil
	})
	return lm, err
}

// ExportDesign captures the whole netlist as a design document.
func (e *Editor) ExportDesign() (pkgio.Design, error) {
	var d pkgio.Design
	err := e.do("export_design", func(n *netlist.Netlist) error {
		d = pkgio.DesignFromNetlist(n)
		return nil
	})
	return d, err
}

// ImportDesign adds every module and wire of d to the netlist. A document
// that would break a netlist invariant is rejected as a whole.
func (e *Editor) ImportDesign(d pkgio.Design) error {
	return e.do("import_design", func(n *netlist.Netlist) error {
		if _, err := pkgio.LoadDesign(n, d); err != nil {
			return designError("import design", err)
		}
		return nil
	})
}

// ReplaceDesign swaps the whole netlist for d. If d is rejected the current
// graph and snapshot ids stay as they were. Module ids keep counting up.
func (e *Editor) ReplaceDesign(d pkgio.Design) error {
	return e.do("replace_design", func(n *netlist.Netlist) error {
		next := n.Empty()
		if _, err := pkgio.LoadDesign(next, d); err != nil {
			return designError("replace design", err)
		}
		e.n = next
		e.ids = newTables()
		return nil
	})
}

func designError(op string, err error) error {
	if errors.Is(err, pkgio.ErrInvalid) {
		return errs.Wrap(errs.ErrCodeInvalidDesign, err, "%s", op)
	}
	return errs.FromNetlist(fmt.Errorf("%s: %w", op, err))
}

// Clear removes everything. Ids from earlier snapshots no longer resolve.
func (e *Editor) Clear() error {
	return e.do("clear", func(n *netlist.Netlist) error {
		n.Clear()
		e.ids = newTables()
		return nil
	})
}

// Dump returns a debug listing of the netlist.
func (e *Editor) Dump() (string, error) {
	var s string
	err := e.do("dump", func(n *netlist.Netlist) error {
		s = n.String()
		return nil
	})
	return s, err
}

// View calls fn with the lock held. fn must not mutate n or retain it.
func (e *Editor) View(fn func(n *netlist.Netlist) error) error {
	return e.do("view", fn)
}
