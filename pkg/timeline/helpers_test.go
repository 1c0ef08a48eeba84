package timeline

import (
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

func at(clock string) time.Time {
	t, err := time.Parse(time.DateTime, "2017-01-01 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(name, start, end string, rows int64) interval.Record {
	return interval.Record{Start: at(start), End: at(end), Buyer: name, Table: "T" + name, Rows: rows}
}

// threeRecords is the worked example: two overlapping loads followed by a
// third that fits back into the first lane.
func threeRecords() []interval.Record {
	return []interval.Record{
		rec("R1", "10:00:00", "10:01:00", 5),
		rec("R2", "10:00:30", "10:02:00", 10),
		rec("R3", "10:01:30", "10:02:30", 2),
	}
}
