// Package linear provides a synchronous, line-buffered renderer for CI
// environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.lanes.dev/lanes/internal/ui/output"
	"go.lanes.dev/lanes/internal/ui/style"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs chronological logs prefixed with the lane (and step) name.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	spans   map[string]*spanState
	buffers map[string]*bytes.Buffer
}

type spanState struct {
	name      string
	parentID  string
	startTime time.Time
}

// NewRenderer creates a new linear Renderer.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	out := termenv.NewOutput(stderr, termenv.WithProfile(output.ColorProfileANSI()))

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  out,
		spans:   make(map[string]*spanState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for the linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the expanded lanes and their step sequence.
func (r *Renderer) OnPlanEmit(lanes []string, steps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Planning %d lane(s), %d step(s) each: %v\n",
		len(lanes), len(steps), steps)
	for _, lane := range lanes {
		_, _ = fmt.Fprintf(r.stderr, "  %s %s\n", style.Circle, lane)
	}
}

// OnSpanStart prints a start message for lane spans and registers step spans.
func (r *Renderer) OnSpanStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans[spanID] = &spanState{
		name:      name,
		parentID:  parentID,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", r.labelLocked(spanID))).Faint().String()
	if parentID == "" {
		_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
	}
}

// OnSpanLog buffers log data and prints complete lines with the span prefix.
func (r *Renderer) OnSpanLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.spans[spanID]; !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(spanID, line)
	}
}

// OnSpanComplete flushes the remaining buffer and prints the final status.
func (r *Renderer) OnSpanComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(span.startTime)
	prefix := fmt.Sprintf("[%s]", r.labelLocked(spanID))

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.spans, spanID)
	delete(r.buffers, spanID)
}

// labelLocked returns "lane" for lane spans and "lane ▸ step" for step
// spans. Must be called with r.mu held.
func (r *Renderer) labelLocked(spanID string) string {
	span := r.spans[spanID]
	if span == nil {
		return spanID
	}
	if parent, ok := r.spans[span.parentID]; ok {
		return parent.name + " " + style.Arrow + " " + span.name
	}
	return span.name
}

// flushBufferLocked flushes any remaining data in the span buffer.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	if _, ok := r.spans[spanID]; !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(spanID, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the span label prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(spanID string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	prefix := fmt.Sprintf("[%s]", r.labelLocked(spanID))
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, string(line))
}

var _ ports.Renderer = (*Renderer)(nil)
