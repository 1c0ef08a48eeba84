// Package render converts SVG documents to raster and print formats.
//
// Conversion shells out to rsvg-convert from librsvg, which must be on PATH:
//
//	brew install librsvg          # macOS
//	apt install librsvg2-bin      # Debian/Ubuntu
//
// Usage:
//
//	svg := sink.RenderSVG(layout)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
