package telemetry

import (
	"context"
	"errors"

	"go.lanes.dev/lanes/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Bridge is an sdktrace.SpanProcessor that mirrors span lifecycle events to
// a Renderer. Lane spans arrive with no parent; step spans carry their lane
// span as parent, which is how renderers nest the output.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart forwards the new span to the renderer.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var parentID string
	if parent := s.Parent(); parent.IsValid() {
		parentID = parent.SpanID().String()
	}

	b.renderer.OnSpanStart(
		s.SpanContext().SpanID().String(),
		parentID,
		s.Name(),
		s.StartTime(),
	)
}

// OnEnd forwards span completion, translating an error status back into an
// error value for the renderer.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	b.renderer.OnSpanComplete(
		s.SpanContext().SpanID().String(),
		s.EndTime(),
		statusError(s),
	)
}

// ForceFlush does nothing; events are forwarded synchronously.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func statusError(s sdktrace.ReadOnlySpan) error {
	if s.Status().Code != codes.Error {
		return nil
	}
	desc := s.Status().Description
	if desc == "" {
		desc = "lane failed"
	}
	return errors.New(desc)
}
