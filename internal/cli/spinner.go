package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/treemap/pkg/observability"
)

// Spinner animates a status message on stderr while a pipeline stage runs.
// It stops by itself when its context is cancelled.
type Spinner struct {
	out     io.Writer
	message string
	width   int
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		width:   len(message),
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

// SetMessage replaces the status message from the next frame on.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > len(message) {
		message += strings.Repeat(" ", s.width-len(message))
	}
	s.message = message
	s.width = len(message)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+4))
}

// trackPipeline points the spinner message at the running pipeline stage
// until the returned func restores the previous hooks.
func (s *Spinner) trackPipeline() (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageHooks{PipelineHooks: prev, spin: s})
	return func() { observability.SetPipelineHooks(prev) }
}

// stageHooks names the current stage on a spinner and forwards every event
// to the hooks installed before it.
type stageHooks struct {
	observability.PipelineHooks
	spin *Spinner
}

func (h stageHooks) OnFetchStart(ctx context.Context, location string) {
	h.spin.SetMessage("Fetching " + location)
	h.PipelineHooks.OnFetchStart(ctx, location)
}

func (h stageHooks) OnLayoutStart(ctx context.Context, vizType string, nodeCount int) {
	h.spin.SetMessage(fmt.Sprintf("Laying out %d nodes", nodeCount))
	h.PipelineHooks.OnLayoutStart(ctx, vizType, nodeCount)
}

func (h stageHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.spin.SetMessage("Rendering " + strings.Join(formats, ", "))
	h.PipelineHooks.OnRenderStart(ctx, formats)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
