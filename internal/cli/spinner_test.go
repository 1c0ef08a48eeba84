package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, "Rendering loads.csv...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering loads.csv...") {
		t.Errorf("spinner output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("spinner should clear its line when stopped")
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var buf syncBuffer
			s := newSpinnerTo(ctx, &buf, "Reading...")
			s.Start()

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
			if !s.Cancelled() {
				t.Error("Cancelled() = false, want true")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newSpinnerTo(context.Background(), &syncBuffer{}, "Working...")
		s.Start()
		s.Stop()
		s.Stop()
	})

	t.Run("before start", func(t *testing.T) {
		var buf syncBuffer
		s := newSpinnerTo(context.Background(), &buf, "Working...")
		s.Stop()
		if buf.String() != "" {
			t.Errorf("unstarted spinner wrote %q", buf.String())
		}
	})

	t.Run("with error", func(t *testing.T) {
		ui := captureUI(t)
		s := newSpinnerTo(context.Background(), &syncBuffer{}, "Working...")
		s.Start()
		s.StopWithError("Render failed")
		if !strings.Contains(ui.String(), "Render failed") {
			t.Errorf("status output = %q", ui.String())
		}
	})
}

func TestSpinnerElapsed(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, "Importing...")
	s.draw("⠋", 1500*time.Millisecond)
	if !strings.Contains(buf.String(), "Importing... 1s") {
		t.Errorf("draw output = %q, want elapsed seconds", buf.String())
	}
}
