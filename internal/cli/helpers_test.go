package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/observability"
)

const threeLoads = `Start,End,Buyer,Table,Rows
2017-01-01 10:00:00,2017-01-01 10:01:00,b1,t1,5
2017-01-01 10:00:30,2017-01-01 10:02:00,b2,t2,10
2017-01-01 10:01:30,2017-01-01 10:02:30,b3,t3,2
`

// newTestCLI returns a CLI whose config and cache live under a temporary
// directory. Status output is discarded unless a test captures it.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Cleanup(observability.Reset)
	captureUI(t)
	return New(io.Discard, LogInfo)
}

// captureUI redirects status lines into the returned buffer and the spinner
// into nothing for the rest of the test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &buf, io.Discard
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return &buf
}

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
