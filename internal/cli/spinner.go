package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/stargen/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// genSpinner animates a status line while a galaxy is generated. It is
// registered as the pipeline hooks for the duration of the run, so each
// discarded attempt shows up on the line, and it forwards every event to
// the hooks it replaced.
type genSpinner struct {
	w     io.Writer
	label string
	next  observability.PipelineHooks

	attempt atomic.Int64 // attempts discarded so far
	blocker atomic.Value // string, empire of the last discarded attempt

	mu       sync.Mutex
	width    int // widest line written, for clearing
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// startSpinner installs a spinner as the pipeline hooks and starts drawing
// on w. The spinner stops on its own when ctx is canceled; Stop restores
// the previous hooks.
func startSpinner(ctx context.Context, w io.Writer, label string) *genSpinner {
	s := &genSpinner{
		w:       w,
		label:   label,
		next:    observability.Pipeline(),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	observability.SetPipelineHooks(s)
	go s.run(ctx)
	return s
}

func (s *genSpinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)], s.status())
		}
	}
}

// status is the text after the spinner frame.
func (s *genSpinner) status() string {
	n := s.attempt.Load()
	if n == 0 {
		return s.label
	}
	blocker, _ := s.blocker.Load().(string)
	return fmt.Sprintf("%s attempt %d (%s found no homeworld)", s.label, n+1, blocker)
}

func (s *genSpinner) draw(frame, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

// Stop halts the animation, clears the line and restores the previous
// pipeline hooks. It is safe to call more than once.
func (s *genSpinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.stopped
		observability.SetPipelineHooks(s.next)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// Attempts reports how many attempts were discarded while the spinner ran.
func (s *genSpinner) Attempts() int { return int(s.attempt.Load()) }

func (s *genSpinner) OnGenerateStart(ctx context.Context, shape string, width, height int, seed uint64) {
	s.next.OnGenerateStart(ctx, shape, width, height, seed)
}

func (s *genSpinner) OnAttemptFailed(ctx context.Context, attempt int, empire string) {
	s.blocker.Store(empire)
	s.attempt.Store(int64(attempt))
	s.next.OnAttemptFailed(ctx, attempt, empire)
}

func (s *genSpinner) OnGenerateComplete(ctx context.Context, attempts int, duration time.Duration, err error) {
	s.next.OnGenerateComplete(ctx, attempts, duration, err)
}

var _ observability.PipelineHooks = (*genSpinner)(nil)
