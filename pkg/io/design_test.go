package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/casperflow/pkg/netlist"
)

// halfAdder builds two gates sharing both inputs through a fan-out source.
func halfAdder(t *testing.T) *netlist.Netlist {
	t.Helper()
	n := netlist.New()

	src := n.AddModule("inputs")
	a := mustPin(t, n, src, "a", netlist.KindWire, netlist.Output)
	b := mustPin(t, n, src, "b", netlist.KindWire, netlist.Output)
	n.SetModulePosition(src, netlist.Position{X: -80, Y: 10})

	xor := n.AddModule("xor")
	xa := mustPin(t, n, xor, "A", netlist.KindWire, netlist.Input)
	xb := mustPin(t, n, xor, "B", netlist.KindWire, netlist.Input)
	mustPin(t, n, xor, "Sum", netlist.KindWire, netlist.Output)
	n.SetModulePosition(xor, netlist.Position{X: 40, Y: -20})

	and := n.AddModule("and")
	aa := mustPin(t, n, and, "A", netlist.KindWire, netlist.Input)
	ab := mustPin(t, n, and, "B", netlist.KindWire, netlist.Input)
	mustPin(t, n, and, "Carry", netlist.KindWire, netlist.Output)
	n.SetModulePosition(and, netlist.Position{X: 40, Y: 60})

	for _, pair := range [][2]netlist.PinIndex{{a, xa}, {b, xb}, {a, aa}, {b, ab}} {
		if _, err := n.AddWire(pair[0], pair[1]); err != nil {
			t.Fatalf("AddWire: %v", err)
		}
	}
	return n
}

func TestDesignRoundTrip(t *testing.T) {
	orig := halfAdder(t)
	d := DesignFromNetlist(orig)

	var buf bytes.Buffer
	if err := WriteDesign(d, &buf); err != nil {
		t.Fatalf("WriteDesign: %v", err)
	}
	back, err := ReadDesign(&buf)
	if err != nil {
		t.Fatalf("ReadDesign: %v", err)
	}

	n := netlist.New()
	mods, err := LoadDesign(n, back)
	if err != nil {
		t.Fatalf("LoadDesign: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("LoadDesign returned %d modules, want 3", len(mods))
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n.ModuleCount() != orig.ModuleCount() || n.PinCount() != orig.PinCount() || n.WireCount() != orig.WireCount() {
		t.Errorf("counts = %d/%d/%d, want %d/%d/%d",
			n.ModuleCount(), n.PinCount(), n.WireCount(),
			orig.ModuleCount(), orig.PinCount(), orig.WireCount())
	}

	again := DesignFromNetlist(n)
	var want, got bytes.Buffer
	_ = WriteDesign(d, &want)
	_ = WriteDesign(again, &got)
	if want.String() != got.String() {
		t.Errorf("design changed across round trip:\nwant:\n%s\ngot:\n%s", want.String(), got.String())
	}

	m, _ := n.Module(mods[1])
	if m.Position() != (netlist.Position{X: 40, Y: -20}) {
		t.Errorf("xor position = %+v", m.Position())
	}
	src, _ := n.Module(mods[0])
	fan, _ := n.Pin(src.Outputs()[0])
	if len(fan.Connections()) != 2 {
		t.Errorf("fan-out of a = %d, want 2", len(fan.Connections()))
	}
}

func TestLoadDesignRejectsDoubleDriver(t *testing.T) {
	d := Design{
		Modules: []DesignModule{
			{Name: "src", Outputs: []LibraryPin{{Name: "x", Kind: netlist.KindWire}, {Name: "y", Kind: netlist.KindWire}}},
			{Name: "dst", Inputs: []LibraryPin{{Name: "in", Kind: netlist.KindWire}}},
		},
		Wires: []DesignWire{
			{From: PinRef{Module: 0, Pin: 0}, To: PinRef{Module: 1, Pin: 0}},
			{From: PinRef{Module: 0, Pin: 1}, To: PinRef{Module: 1, Pin: 0}},
		},
	}

	n := netlist.New()
	keep := n.AddModule("existing")
	if _, err := LoadDesign(n, d); !errors.Is(err, netlist.ErrInputDriven) {
		t.Fatalf("LoadDesign() error = %v, want ErrInputDriven", err)
	}
	if n.ModuleCount() != 1 || n.PinCount() != 0 || n.WireCount() != 0 {
		t.Errorf("failed load left %d modules, %d pins, %d wires", n.ModuleCount(), n.PinCount(), n.WireCount())
	}
	if _, ok := n.Module(keep); !ok {
		t.Error("failed load removed a pre-existing module")
	}
}

func TestReadDesignInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"modules": [`},
		{"unnamed module", `{"modules": [{"name": ""}], "wires": []}`},
		{"module out of range", `{"modules": [], "wires": [{"from": {"module": 0, "pin": 0}, "to": {"module": 0, "pin": 0}}]}`},
		{"pin out of range", `{"modules": [{"name": "m", "inputs": [{"name": "a", "kind": "Wire"}]}],
			"wires": [{"from": {"module": 0, "pin": 0}, "to": {"module": 0, "pin": 0}}]}`},
		{"negative index", `{"modules": [{"name": "m"}], "wires": [{"from": {"module": -1, "pin": 0}, "to": {"module": 0, "pin": 0}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDesign(strings.NewReader(tt.input)); !errors.Is(err, ErrInvalid) {
				t.Errorf("ReadDesign() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestImportExportDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adder.json")
	if err := ExportDesign(DesignFromNetlist(halfAdder(t)), path); err != nil {
		t.Fatalf("ExportDesign: %v", err)
	}
	d, err := ImportDesign(path)
	if err != nil {
		t.Fatalf("ImportDesign: %v", err)
	}
	if len(d.Modules) != 3 || len(d.Wires) != 4 {
		t.Errorf("ImportDesign = %d modules, %d wires, want 3, 4", len(d.Modules), len(d.Wires))
	}
}

func TestDesignFromEmptyNetlist(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDesign(DesignFromNetlist(netlist.New()), &buf); err != nil {
		t.Fatalf("WriteDesign: %v", err)
	}
	want := "{\n  \"modules\": [],\n  \"wires\": []\n}\n"
	if buf.String() != want {
		t.Errorf("WriteDesign(empty) = %q, want %q", buf.String(), want)
	}
}
