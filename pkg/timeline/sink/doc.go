// Package sink renders a [timeline.Layout] to output formats.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG with axis, lane labels, legend and an
//     optional hover detail panel
//   - [RenderPNG], [RenderPDF]: the SVG converted through rsvg-convert
//   - [RenderJSON]: the layout as a JSON document for other drawing backends
//   - [RenderTerminal]: a colored lane grid for the terminal
//
// Renderers only read the layout, so one layout can be rendered to several
// formats concurrently.
//
// # SVG Structure
//
// Each interval becomes a <rect class="shape"> carrying data-* attributes
// with its buyer, table, times and row count, plus a <title> tooltip. With
// [WithDetails] the document also contains a detail panel and a small script
// that fills it in when the pointer enters a shape.
package sink
