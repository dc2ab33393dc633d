package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.lanes.dev/lanes/internal/core/ports"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards the expanded plan to the TUI.
func (r *Renderer) OnPlanEmit(lanes []string, steps []string) {
	r.program.Send(MsgInitLanes{
		Lanes: lanes,
		Steps: steps,
	})
}

// OnSpanStart forwards span start events to the TUI.
func (r *Renderer) OnSpanStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(MsgSpanStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnSpanLog forwards span output to the TUI.
func (r *Renderer) OnSpanLog(spanID string, data []byte) {
	r.program.Send(MsgSpanLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnSpanComplete forwards span completion events to the TUI.
func (r *Renderer) OnSpanComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgSpanComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}

var _ ports.Renderer = (*Renderer)(nil)
