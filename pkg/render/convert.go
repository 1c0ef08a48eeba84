package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
)

// converter is the external tool used for SVG conversion.
const converter = "rsvg-convert"

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Available reports whether rsvg-convert can be found on PATH.
func Available() bool {
	_, err := lookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG at the given scale factor. A scale of 2.0
// doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "png scale must be positive, got %g", scale)
	}
	return convert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func convert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	path, err := lookPath(converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, errBuf.String())
	}
	return out.Bytes(), nil
}
