package cache

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Errorf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missed")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file was not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestFileCacheUsage(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2017, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "live", []byte("svg"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("png"), time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(10 * time.Minute)

	u, err := c.Usage()
	if err != nil {
		t.Fatalf("Usage error: %v", err)
	}
	if u.Entries != 2 || u.Expired != 1 {
		t.Errorf("Usage = %+v, want 2 entries, 1 expired", u)
	}
	if u.Bytes <= 0 {
		t.Errorf("Usage bytes = %d, want > 0", u.Bytes)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDatasetHash(t *testing.T) {
	start := time.Date(2017, 1, 1, 10, 0, 0, 0, time.UTC)
	a := []interval.Record{
		{Start: start, End: start.Add(time.Minute), Buyer: "R1", Table: "T1", Rows: 5},
		{Start: start, End: start.Add(time.Hour), Buyer: "R2", Table: "T2", Rows: 6},
	}

	same := []interval.Record{a[0], a[1]}
	same[0].Start = start.In(time.FixedZone("X", 3600))
	if DatasetHash(a) != DatasetHash(same) {
		t.Error("same instants in another zone should hash alike")
	}

	tests := []struct {
		name   string
		mutate func([]interval.Record)
	}{
		{"rows", func(r []interval.Record) { r[0].Rows++ }},
		{"buyer", func(r []interval.Record) { r[1].Buyer = "R3" }},
		{"end", func(r []interval.Record) { r[1].End = r[1].End.Add(time.Second) }},
		{"order", func(r []interval.Record) { r[0], r[1] = r[1], r[0] }},
		{"label boundary", func(r []interval.Record) { r[0].Buyer, r[0].Table = "R1T", "1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]interval.Record(nil), a...)
			tt.mutate(b)
			if DatasetHash(a) == DatasetHash(b) {
				t.Error("changed dataset kept its hash")
			}
		})
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{Chart: timeline.DefaultConfig(), Format: "svg", Legend: true}

	key := k.ArtifactKey("abc", base)
	if !strings.HasPrefix(key, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", key)
	}
	if key != k.ArtifactKey("abc", base) {
		t.Error("ArtifactKey should be deterministic")
	}

	variants := map[string]ArtifactKeyOpts{
		"format":  {Chart: base.Chart, Format: "png", Legend: true},
		"lanes":   {Chart: timeline.Config{LaneCount: 3}.WithDefaults(), Format: "svg", Legend: true},
		"details": {Chart: base.Chart, Format: "svg", Legend: true, Details: true},
		"legend":  {Chart: base.Chart, Format: "svg"},
	}
	for name, opts := range variants {
		if k.ArtifactKey("abc", opts) == key {
			t.Errorf("%s change kept the key", name)
		}
	}
	if k.ArtifactKey("abd", base) == key {
		t.Error("dataset change kept the key")
	}
}

func TestDefaultKeyerNonFinite(t *testing.T) {
	k := NewDefaultKeyer()
	nan := timeline.DefaultConfig()
	nan.LaneWidth = math.NaN()
	inf := timeline.DefaultConfig()
	inf.ChartHeight = math.Inf(1)

	opts := []ArtifactKeyOpts{
		{Chart: nan, Format: "svg"},
		{Chart: nan, Format: "json"},
		{Chart: inf, Format: "svg"},
		{Chart: inf, Format: "json"},
		{Chart: timeline.DefaultConfig(), Format: "png", Scale: math.NaN()},
		{Chart: timeline.DefaultConfig(), Format: "png", Scale: math.Inf(1)},
	}
	seen := make(map[string]int)
	for i, o := range opts {
		key := k.ArtifactKey("abc", o)
		if j, ok := seen[key]; ok {
			t.Errorf("options %d and %d share key %q", j, i, key)
		}
		seen[key] = i
	}
}

func TestHashKeyBoundaries(t *testing.T) {
	if hashKey("p", "ab", "c") == hashKey("p", "a", "bc") {
		t.Error("moving a byte across parts kept the key")
	}
	if hashKey("p", "a") == hashKey("q", "a") {
		t.Error("prefix change kept the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := ArtifactKeyOpts{Format: "svg"}
	scoped := NewScopedKeyer(nil, "api:")
	got := scoped.ArtifactKey("abc", opts)
	want := "api:" + NewDefaultKeyer().ArtifactKey("abc", opts)
	if got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}
