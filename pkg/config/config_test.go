package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[chart]
lanes = 12
height = 300.0
overflow = "overlap"
selection = "first"

[render]
formats = ["svg", "json"]
details = true

[cache]
redis_url = "redis://localhost:6379/1"
ttl = "24h"

[mongo]
uri = "mongodb://localhost:27017"
database = "etl"
collection = "loads"

[postgres]
dsn = "postgres://localhost/etl"
table = "etl.loads"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantChart := timeline.Config{
		LaneCount:   12,
		LaneWidth:   timeline.DefaultLaneWidth,
		ChartHeight: 300,
		AxisOffset:  timeline.DefaultAxisOffset,
		TickCount:   timeline.DefaultTickCount,
		Overflow:    timeline.OverflowOverlap,
		Selection:   timeline.SelectFirstFree,
	}
	if cfg.Chart != wantChart {
		t.Errorf("Chart = %+v, want %+v", cfg.Chart, wantChart)
	}
	if !reflect.DeepEqual(cfg.Render.Formats, []string{"svg", "json"}) || !cfg.Render.Details {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/1" || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Mongo.Database != "etl" || cfg.Postgres.Table != "etl.loads" {
		t.Errorf("Mongo = %+v, Postgres = %+v", cfg.Mongo, cfg.Postgres)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxBodyBytes != DefaultMaxBody {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[chart\nlanes = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[chart]\nlane = 3\n", errors.ErrCodeInvalidConfig},
		{"bad policy", "[chart]\noverflow = \"squeeze\"\n", errors.ErrCodeInvalidConfig},
		{"bad lanes", "[chart]\nlanes = -1\n", errors.ErrCodeInvalidConfig},
		{"bad format", "[render]\nformats = [\"gif\"]\n", errors.ErrCodeInvalidConfig},
		{"nan height", "[chart]\nheight = nan\n", errors.ErrCodeInvalidConfig},
		{"infinite lane width", "[chart]\nlane_width = inf\n", errors.ErrCodeInvalidConfig},
		{"nan scale", "[render]\nscale = nan\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, AppName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte("[chart]\nlanes = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chart.LaneCount != 4 {
		t.Errorf("LaneCount = %d, want 4", cfg.Chart.LaneCount)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	cfg.Cache.Dir = "/var/cache/tv"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/tv" {
		t.Errorf("CacheDir() = %q, want the configured dir", dir)
	}
}
