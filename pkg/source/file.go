package source

import (
	"context"
	"io"
	"os"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	pkgio "github.com/DavidBetteridge/TaskVisualiser/pkg/io"
)

// Stdin is the path that makes a File read standard input.
const Stdin = "-"

// File reads records from a CSV file.
type File struct {
	Path string

	// In replaces os.Stdin when Path is "-".
	In io.Reader
}

// NewFile returns a source for the CSV file at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Name implements Source.
func (f *File) Name() string {
	if f.Path == Stdin {
		return "stdin"
	}
	return "file:" + f.Path
}

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]interval.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records []interval.Record
		err     error
	)
	if f.Path == Stdin {
		in := f.In
		if in == nil {
			in = os.Stdin
		}
		records, err = pkgio.ReadCSV(in)
	} else {
		records, err = pkgio.ImportCSV(f.Path)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s contains no records", f.Name())
	}
	return records, nil
}

var _ Source = (*File)(nil)
