package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/observability"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
)

// memCache is an in-memory Cache that counts calls and can be made to fail.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, stderrors.New("get failed")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failSet {
		return stderrors.New("set failed")
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func records() []interval.Record {
	at := func(clock string) time.Time {
		t, _ := time.Parse(time.DateTime, "2017-01-01 "+clock)
		return t
	}
	return []interval.Record{
		{Start: at("10:00:00"), End: at("10:01:00"), Buyer: "R1", Table: "TR1", Rows: 5},
		{Start: at("10:00:30"), End: at("10:02:00"), Buyer: "R2", Table: "TR2", Rows: 10},
		{Start: at("10:01:30"), End: at("10:02:30"), Buyer: "R3", Table: "TR3", Rows: 2},
	}
}

const recordsCSV = `Start,End,Buyer,Table,Rows
2017-01-01 10:00:00,2017-01-01 10:01:00,R1,TR1,5
2017-01-01 10:00:30,2017-01-01 10:02:00,R2,TR2,10
2017-01-01 10:01:30,2017-01-01 10:02:30,R3,TR3,2
`

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	src := &source.File{Path: source.Stdin, In: strings.NewReader(recordsCSV)}

	res, err := r.Execute(context.Background(), src, Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stats.Records != 3 || res.Stats.Lanes != 10 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !json.Valid(res.Artifacts["json"]) {
		t.Error("json artifact is not valid JSON")
	}
	if res.ID.String() == "" || len(res.DatasetHash) != 64 {
		t.Errorf("ID = %v, DatasetHash = %q", res.ID, res.DatasetHash)
	}
	if len(res.Layout.Shapes) != 3 || res.Layout.Shapes[2].Lane != 0 {
		t.Error("layout does not match the input")
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Formats: []string{"svg", "json"}}

	first, err := r.ExecuteRecords(ctx, records(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit() || len(first.CacheInfo.Misses) != 2 {
		t.Errorf("first run CacheInfo = %+v, want two misses", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2", c.sets)
	}

	second, err := r.ExecuteRecords(ctx, records(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit() {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	// A geometry change is a different artifact.
	opts.Chart.LaneCount = 3
	third, err := r.ExecuteRecords(ctx, records(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.CacheInfo.Hits) != 0 {
		t.Errorf("changed lanes still hit the cache: %+v", third.CacheInfo)
	}

	// Refresh skips reads but writes back.
	gets, sets := c.gets, c.sets
	if _, err := r.ExecuteRecords(ctx, records(), Options{Formats: []string{"svg"}, Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if c.gets != gets || c.sets != sets+1 {
		t.Errorf("refresh gets/sets = %d/%d, want %d/%d", c.gets, c.sets, gets, sets+1)
	}
}

func TestRunnerCacheFailuresDegrade(t *testing.T) {
	c := newMemCache()
	c.failGet, c.failSet = true, true
	r := NewRunner(c, nil, quietLogger())

	res, err := r.ExecuteRecords(context.Background(), records(), Options{})
	if err != nil {
		t.Fatalf("ExecuteRecords() error = %v, want cache failures ignored", err)
	}
	if len(res.Artifacts["svg"]) == 0 {
		t.Error("svg missing after cache failure")
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		records []interval.Record
		opts    Options
		code    errors.Code
	}{
		{"empty", nil, Options{}, errors.ErrCodeEmptyInput},
		{"bad format", records(), Options{Formats: []string{"bmp"}}, errors.ErrCodeInvalidFormat},
		{"too few lanes", records(), Options{Chart: chartWithLanes(1)}, errors.ErrCodeLaneCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.ExecuteRecords(ctx, tt.records, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("ExecuteRecords() error = %v, want %s", err, tt.code)
			}
			if res != nil {
				t.Error("result returned alongside an error")
			}
		})
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (s *stageRecorder) add(e string) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *stageRecorder) OnLayoutStart(context.Context, int, int) { s.add("layout") }
func (s *stageRecorder) OnRenderStart(context.Context, []string) { s.add("render") }
func (s *stageRecorder) OnCacheHit(context.Context, string)      { s.add("hit") }
func (s *stageRecorder) OnCacheMiss(context.Context, string)     { s.add("miss") }

func TestRunnerHooks(t *testing.T) {
	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r := NewRunner(newMemCache(), cache.NewScopedKeyer(nil, "test:"), quietLogger())
	for range 2 {
		if _, err := r.ExecuteRecords(context.Background(), records(), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"layout", "miss", "render", "layout", "hit"}
	if strings.Join(rec.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}
