package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	got := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: abc123", "built: 2026-01-02T03:04:05Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
	if lines := strings.Count(String(), "\n"); lines != 2 {
		t.Errorf("String() has %d newlines, want 2", lines)
	}
}
