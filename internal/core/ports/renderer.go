package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering. It decouples telemetry
// collection from presentation, allowing the same span stream to drive
// either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like the TUI), this may launch background
	// goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush any
	// buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the matrix has been expanded.
	// lanes: lane identifiers in enumeration order.
	// steps: step names each lane will execute, in declared order.
	OnPlanEmit(lanes []string, steps []string)

	// OnSpanStart is called when a lane or step begins execution.
	// parentID is empty for lane spans and holds the lane's spanID for
	// step spans.
	OnSpanStart(spanID, parentID, name string, startTime time.Time)

	// OnSpanLog is called when a span emits output. data may contain
	// partial lines or ANSI sequences.
	OnSpanLog(spanID string, data []byte)

	// OnSpanComplete is called when a lane or step finishes execution.
	// err is nil on success.
	OnSpanComplete(spanID string, endTime time.Time, err error)
}
