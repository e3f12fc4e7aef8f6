package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/casperflow/pkg/netlist"
)

func buildAndOr(t *testing.T) *netlist.Netlist {
	t.Helper()
	n := netlist.New()
	and := n.AddModule("and")
	n.AddPin(and, "A", netlist.KindWire, netlist.Input)
	n.AddPin(and, "B", netlist.KindWire, netlist.Input)
	out, _ := n.AddPin(and, "Out", netlist.KindWire, netlist.Output)

	or := n.AddModule("or")
	a, _ := n.AddPin(or, "A", netlist.KindWire, netlist.Input)
	n.AddPin(or, "B", netlist.KindWire, netlist.Input)
	n.AddPin(or, "Out", netlist.KindWire, netlist.Output)
	n.SetModulePosition(or, netlist.Position{X: 120.5, Y: 40})

	if _, err := n.AddWire(out, a); err != nil {
		t.Fatalf("AddWire: %v", err)
	}
	return n
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildAndOr(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`m0 [label="{{<p0> A|<p1> B}|and|{<p2> Out}}"];`,
		`m1 [label="{{<p3> A|<p4> B}|or|{<p5> Out}}"];`,
		"m0:p2:e -> m1:p3:w [color=black];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("pos emitted without Pinned")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(buildAndOr(t), Options{Detailed: true, Pinned: true})

	for _, want := range []string{
		"<p0> A: wire",
		`and\n#0`,
		`pos="120.5,-40!"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(detailed) missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEscapesRecordCharacters(t *testing.T) {
	n := netlist.New()
	m := n.AddModule(`mux{2|1}`)
	n.AddPin(m, `<sel>`, netlist.KindInteger, netlist.Input)

	dot := ToDOT(n, Options{})
	for _, want := range []string{`mux\{2\|1\}`, `<p0> \<sel\>`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTKindColors(t *testing.T) {
	n := netlist.New()
	src := n.AddModule("src")
	dst := n.AddModule("dst")
	o, _ := n.AddPin(src, "r", netlist.KindReal, netlist.Output)
	i, _ := n.AddPin(dst, "r", netlist.KindReal, netlist.Input)
	if _, err := n.AddWire(o, i); err != nil {
		t.Fatal(err)
	}
	if dot := ToDOT(n, Options{}); !strings.Contains(dot, "[color=darkorange]") {
		t.Errorf("real wire not colored:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(netlist.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(empty) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox(no viewBox) = %s", got)
	}
}
