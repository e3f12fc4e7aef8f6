// Package nodelink renders netlists as node-link diagrams.
//
// # Overview
//
// Each module becomes a Graphviz record node: input ports on the left, the
// module name in the middle, output ports on the right. Each wire becomes an
// edge from the driving output port to the driven input port, colored by
// signal kind.
//
// # Usage
//
// Convert a netlist to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(n, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: port labels include the signal kind, module labels the id
//   - Pinned: module positions are emitted as fixed pos attributes
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
