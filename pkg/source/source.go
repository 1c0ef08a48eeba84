// Package source loads interval records from where they are kept.
//
// A [Source] is anything that can produce a slice of records on demand:
//
//   - [File]: a CSV file on disk, or standard input for "-"
//   - [Mongo]: a MongoDB collection of load documents
//   - [Postgres]: a PostgreSQL table of load rows
//
// Every source validates what it loads, so a successful Load always returns
// records that satisfy [interval.Record.Validate]. The database sources also
// accept an optional time [Window] that limits the loads returned to those
// starting inside it.
package source

import (
	"context"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// Source loads interval records.
type Source interface {
	// Load returns every record the source holds, in no particular order.
	Load(ctx context.Context) ([]interval.Record, error)

	// Name describes the source for logs, e.g. "file:loads.csv".
	Name() string
}

// Window limits records to those starting in [From, To). A zero bound is
// open.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}
