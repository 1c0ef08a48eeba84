package sink

import (
	"context"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/render"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// DefaultPNGScale renders PNGs at twice the SVG resolution.
const DefaultPNGScale = 2.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders l as PNG via SVG conversion.
func RenderPNG(ctx context.Context, l *timeline.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultPNGScale}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(ctx, RenderSVG(l, r.svgOpts...), r.scale)
}

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders l as PDF via SVG conversion.
func RenderPDF(ctx context.Context, l *timeline.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(ctx, RenderSVG(l, r.svgOpts...))
}
