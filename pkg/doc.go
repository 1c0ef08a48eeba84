// Package pkg provides the libraries behind taskvis, a lane-based timeline
// chart for timed data loads.
//
// # Overview
//
// A load is a record of one buyer copying one table: a start, an end, and a
// row count. taskvis draws loads as bars on a vertical time axis. Each bar
// sits in one of a fixed number of lanes so that bars sharing a lane never
// overlap, and is colored from green (few rows) to red (the most rows).
//
// # Architecture
//
// The data flow:
//
//	CSV file / MongoDB / PostgreSQL / generator
//	         ↓
//	    [source] or [generate] (load records)
//	         ↓
//	    [timeline] (assign lanes, map time to pixels, pick colors)
//	         ↓
//	    [timeline/sink] (SVG, PNG, PDF, JSON, terminal)
//
// [pipeline] runs the whole flow with caching and is shared by the CLI and
// the HTTP API.
//
// # Quick Start
//
//	records, _ := io.ImportCSV("loads.csv")
//	l, _ := timeline.Build(records, timeline.Config{LaneCount: 8})
//	svg := sink.RenderSVG(l, sink.WithTitle("loads"))
//
// # Main Packages
//
// [interval] - The load record and its validation, ordering, and span.
//
// [timeline] - Lane assignment, the time axis, the row count color scale,
// and the chart layout that combines them.
//
// [timeline/sink] - Output formats for a layout.
//
// [io] - CSV import and export.
//
// [source] - Where records come from: files, standard input, MongoDB, and
// PostgreSQL.
//
// [generate] - Seeded random datasets for demos and tests.
//
// [cache] - Artifact caches (file, Redis, null) and cache keys.
//
// [config] - The TOML configuration file.
//
// [render] - SVG to PNG and PDF conversion through rsvg-convert.
//
// [observability] - Hooks for pipeline, cache, and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./...
//
// Tests against live services are skipped unless TASKVIS_REDIS_URL,
// TASKVIS_MONGO_URI, or TASKVIS_POSTGRES_DSN is set.
//
// [interval]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/interval
// [timeline]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/timeline
// [timeline/sink]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink
// [io]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/io
// [source]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/source
// [generate]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/generate
// [cache]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/cache
// [config]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/config
// [render]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/render
// [observability]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/observability
// [errors]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline
package pkg
