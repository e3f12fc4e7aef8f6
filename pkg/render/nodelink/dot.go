package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/casperflow/pkg/netlist"
	"github.com/matzehuels/casperflow/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds pin kinds and the module id to labels.
	// When false, only names are shown.
	Detailed bool

	// Pinned emits each module's stored position as a Graphviz pos
	// attribute so layout engines that honor it (neato -n) keep the
	// editor's placement.
	Pinned bool
}

// kindColors gives each signal kind a distinct edge color.
var kindColors = map[netlist.Kind]string{
	netlist.KindWire:    "black",
	netlist.KindInteger: "royalblue",
	netlist.KindReal:    "darkorange",
}

// ToDOT converts a netlist to Graphviz DOT. Each module is a record node
// with its inputs on the left and outputs on the right; each wire is an
// edge from the driving output port to the driven input port.
//
// Modules are named m0, m1, ... and ports p0, p1, ... in the same order an
// editor snapshot uses, so ids in the diagram match snapshot ids.
func ToDOT(n *netlist.Netlist, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	ports := make(map[netlist.PinIndex]string)
	nextPort := 0
	moduleNum := 0
	for _, m := range n.Modules() {
		name := fmt.Sprintf("m%d", moduleNum)
		moduleNum++

		portField := func(idxs []netlist.PinIndex) string {
			fields := make([]string, 0, len(idxs))
			for _, pi := range idxs {
				p, ok := n.Pin(pi)
				if !ok {
					continue
				}
				port := fmt.Sprintf("p%d", nextPort)
				nextPort++
				ports[pi] = name + ":" + port
				fields = append(fields, fmt.Sprintf("<%s> %s", port, escapeRecord(pinLabel(p, opts.Detailed))))
			}
			return strings.Join(fields, "|")
		}
		inputs := portField(m.Inputs())
		outputs := portField(m.Outputs())

		title := escapeRecord(m.Name())
		if opts.Detailed {
			title += fmt.Sprintf("\\n#%d", m.ID())
		}
		label := fmt.Sprintf("{{%s}|%s|{%s}}", inputs, title, outputs)

		// escapeRecord already escaped quotes; %q would double the backslashes.
		attrs := []string{`label="` + label + `"`}
		if opts.Pinned {
			pos := m.Position()
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(pos.X), fmtFloat(-pos.Y)))
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, w := range n.Wires() {
		from, okFrom := ports[w.Output]
		to, okTo := ports[w.Input]
		if !okFrom || !okTo {
			continue
		}
		color := "black"
		if p, ok := n.Pin(w.Output); ok {
			color = kindColors[p.Kind()]
		}
		fmt.Fprintf(&buf, "  %s:e -> %s:w [color=%s];\n", from, to, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinLabel(p *netlist.Pin, detailed bool) string {
	if !detailed {
		return p.Name()
	}
	return p.Name() + ": " + p.Kind().String()
}

// escapeRecord escapes characters that are structural in record labels.
func escapeRecord(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{', '}', '|', '<', '>', '\\', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
