package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink"
)

// Render produces a single format from l.
func Render(ctx context.Context, l *timeline.Layout, format string, opts Options) ([]byte, error) {
	svgOpts := opts.svgOptions()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(l, svgOpts...)
	case FormatPNG:
		data, err = sink.RenderPNG(ctx, l, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		data, err = sink.RenderJSON(l)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

// RenderAll renders formats concurrently. Sinks only read the layout, so
// they share it without copying. The first failure cancels the rest.
func RenderAll(ctx context.Context, l *timeline.Layout, formats []string, opts Options) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	for _, format := range formats {
		g.Go(func() error {
			data, err := Render(ctx, l, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
