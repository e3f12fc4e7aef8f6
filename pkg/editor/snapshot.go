package editor

import "github.com/matzehuels/casperflow/pkg/netlist"

// Graph is a point-in-time view of the netlist keyed by snapshot ids.
type Graph struct {
	Modules []Module `json:"modules"`
	Wires   []Wire   `json:"wires"`
}

// Module is one module in a snapshot. ID is its snapshot id; StableID is
// the netlist-wide module id, which survives later snapshots.
type Module struct {
	ID       int        `json:"id"`
	StableID int64      `json:"stable_id"`
	Name     string     `json:"name"`
	Position [2]float32 `json:"position"`
	Inputs   []Port     `json:"inputs"`
	Outputs  []Port     `json:"outputs"`
}

// Port is one pin in a snapshot.
type Port struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Kind netlist.Kind `json:"kind"`
}

// Wire is one wire in a snapshot. X is the snapshot id of its input pin and
// Y that of its output pin.
type Wire struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// idTable is a dense bidirectional map between handles and snapshot ids.
type idTable[H comparable] struct {
	byID []H
	ids  map[H]int
}

func newIDTable[H comparable]() *idTable[H] {
	return &idTable[H]{ids: make(map[H]int)}
}

func (t *idTable[H]) add(h H) int {
	id := len(t.byID)
	t.byID = append(t.byID, h)
	t.ids[h] = id
	return id
}

func (t *idTable[H]) handle(id int) (H, bool) {
	if id < 0 || id >= len(t.byID) {
		var zero H
		return zero, false
	}
	return t.byID[id], true
}

func (t *idTable[H]) len() int { return len(t.byID) }

func (t *idTable[H]) id(h H) (int, bool) {
	id, ok := t.ids[h]
	return id, ok
}

// tables holds the id assignment of the most recent snapshot.
type tables struct {
	modules *idTable[netlist.ModuleIndex]
	pins    *idTable[netlist.PinIndex]
	wires   *idTable[netlist.WireIndex]
}

func newTables() tables {
	return tables{
		modules: newIDTable[netlist.ModuleIndex](),
		pins:    newIDTable[netlist.PinIndex](),
		wires:   newIDTable[netlist.WireIndex](),
	}
}

// snapshot numbers modules in arena order, pins module by module (inputs
// then outputs), and wires in arena order.
func snapshot(n *netlist.Netlist) (Graph, tables) {
	t := newTables()
	g := Graph{Modules: []Module{}, Wires: []Wire{}}

	ports := func(idxs []netlist.PinIndex) []Port {
		out := make([]Port, 0, len(idxs))
		for _, pi := range idxs {
			p, ok := n.Pin(pi)
			if !ok {
				continue
			}
			out = append(out, Port{ID: t.pins.add(pi), Name: p.Name(), Kind: p.Kind()})
		}
		return out
	}

	for mi, m := range n.Modules() {
		pos := m.Position()
		g.Modules = append(g.Modules, Module{
			ID:       t.modules.add(mi),
			StableID: m.ID(),
			Name:     m.Name(),
			Position: [2]float32{pos.X, pos.Y},
			Inputs:   ports(m.Inputs()),
			Outputs:  ports(m.Outputs()),
		})
	}

	for wi, w := range n.Wires() {
		x, _ := t.pins.id(w.Input)
		y, _ := t.pins.id(w.Output)
		g.Wires = append(g.Wires, Wire{ID: t.wires.add(wi), X: x, Y: y})
	}
	return g, t
}
