package sink

import (
	"testing"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

func at(clock string) time.Time {
	t, err := time.Parse(time.DateTime, "2017-01-01 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

// scenarioLayout lays out two overlapping loads and a third that reuses the
// first lane, on a 150px chart spanning 150 seconds.
func scenarioLayout(t *testing.T) *timeline.Layout {
	t.Helper()
	records := []interval.Record{
		{Start: at("10:00:00"), End: at("10:01:00"), Buyer: "R1", Table: "TR1", Rows: 5},
		{Start: at("10:00:30"), End: at("10:02:00"), Buyer: "R2", Table: "TR2", Rows: 10},
		{Start: at("10:01:30"), End: at("10:02:30"), Buyer: "R3", Table: "TR3", Rows: 2},
	}
	l, err := timeline.Build(records, timeline.Config{LaneCount: 2})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return l
}
