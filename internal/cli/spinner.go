package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// spinnerFrames is the braille animation.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond

	// Elapsed time is appended once an operation runs longer than this.
	spinnerShowElapsed = time.Second
)

// Spinner animates a status message on a terminal line until stopped or
// until its context is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int
}

// newSpinnerWithContext creates a spinner that writes to stderr and stops
// when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in the background.
func (s *Spinner) Start() {
	if s.started.CompareAndSwap(false, true) {
		go s.run()
	}
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)], time.Since(start))
		}
	}
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	line := s.message
	if elapsed >= spinnerShowElapsed {
		line += fmt.Sprintf(" %ds", int(elapsed.Seconds()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(line))
	s.width = max(s.width, len(line)+2)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It may be called more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

// StopWithError stops the spinner and prints msg as an error line.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
