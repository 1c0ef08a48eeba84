// Package generate builds synthetic load datasets for demos and tests.
//
// The generator simulates a scheduler with a fixed number of worker lanes:
// every (table, buyer) pair becomes one load that starts as soon as the
// earliest lane frees up and runs for a random number of seconds. The result
// always fits the same number of lanes under earliest-free selection, so it
// is a convenient input for the layout engine.
package generate

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// Defaults for Options.
const (
	DefaultTables     = 50
	DefaultBuyers     = 40
	DefaultLanes      = 10
	DefaultMaxSeconds = 120
	DefaultMaxRows    = 10000
)

// DefaultStart is the instant the first load starts.
var DefaultStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

// Options controls the generated dataset. Zero fields take the defaults.
type Options struct {
	Seed       uint64
	Tables     int
	Buyers     int
	Lanes      int
	MaxSeconds int // loads run for [0, MaxSeconds) seconds
	MaxRows    int // loads move [0, MaxRows) rows
	Start      time.Time

	// LongLoad stretches one load (buyer 2 of table 10, when present) to ten
	// minutes so the chart has an obvious outlier.
	LongLoad bool
}

func (o Options) withDefaults() Options {
	if o.Tables == 0 {
		o.Tables = DefaultTables
	}
	if o.Buyers == 0 {
		o.Buyers = DefaultBuyers
	}
	if o.Lanes == 0 {
		o.Lanes = DefaultLanes
	}
	if o.MaxSeconds == 0 {
		o.MaxSeconds = DefaultMaxSeconds
	}
	if o.MaxRows == 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.Start.IsZero() {
		o.Start = DefaultStart
	}
	return o
}

const (
	longLoadBuyer    = 2
	longLoadTable    = 10
	longLoadDuration = 10 * time.Minute
)

// Records generates Tables*Buyers records ordered by start time. The same
// options always produce the same records.
func Records(opts Options) ([]interval.Record, error) {
	opts = opts.withDefaults()
	if opts.Tables < 0 || opts.Buyers < 0 || opts.Lanes < 1 || opts.MaxSeconds < 1 || opts.MaxRows < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"generator options must be positive: tables=%d buyers=%d lanes=%d max-seconds=%d max-rows=%d",
			opts.Tables, opts.Buyers, opts.Lanes, opts.MaxSeconds, opts.MaxRows)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	lanes := make([]time.Time, opts.Lanes)
	for i := range lanes {
		lanes[i] = opts.Start
	}

	records := make([]interval.Record, 0, opts.Tables*opts.Buyers)
	for table := range opts.Tables {
		for buyer := range opts.Buyers {
			lane := earliest(lanes)
			start := lanes[lane]
			end := start.Add(time.Duration(rng.IntN(opts.MaxSeconds)) * time.Second)
			if opts.LongLoad && buyer == longLoadBuyer && table == longLoadTable {
				end = start.Add(longLoadDuration)
			}

			records = append(records, interval.Record{
				Start: start,
				End:   end,
				Buyer: fmt.Sprintf("Buyer%d", buyer),
				Table: fmt.Sprintf("Table%d", table),
				Rows:  int64(rng.IntN(opts.MaxRows)),
			})
			lanes[lane] = end
		}
	}
	return records, nil
}

func earliest(lanes []time.Time) int {
	best := 0
	for i := 1; i < len(lanes); i++ {
		if lanes[i].Before(lanes[best]) {
			best = i
		}
	}
	return best
}
