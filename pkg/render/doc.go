// Package render provides visualization output for netlists.
//
// # Overview
//
// This package contains the format conversion shared by renderers:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Node-link diagrams of modules and wires (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(n, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/casperflow/pkg/render/nodelink
package render
