package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lanes.dev/lanes/internal/adapters/telemetry"
	"go.lanes.dev/lanes/internal/core/ports/mocks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func setupRecorder() (*tracetest.SpanRecorder, *trace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	return sr, tp
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	lanes := []string{"target=wasm32-unknown-unknown", "target=x86_64-unknown-linux-gnu"}
	steps := []string{"install-toolchain", "check-format", "run-tests"}
	mockRenderer.EXPECT().OnPlanEmit(lanes, steps).Times(2)

	tracer := telemetry.NewOTelTracer("test-tracer").WithRenderer(mockRenderer)

	// Without a surrounding span only the renderer sees the plan.
	ctx := context.Background()
	tracer.EmitPlan(ctx, lanes, steps)

	_ = tp.ForceFlush(ctx)
	assert.Empty(t, sr.Ended())

	// With a recording span the plan is also attached as an event.
	ctx, span := tp.Tracer("test").Start(ctx, "root")
	tracer.EmitPlan(ctx, lanes, steps)
	span.End()

	_ = tp.ForceFlush(ctx)
	spans := sr.Ended()
	require.Len(t, spans, 1)

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelSpan_SetAttribute(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")
	ctx, span := tracer.Start(context.Background(), "attr-test")

	span.SetAttribute("str", "val")
	span.SetAttribute("int", 123)
	span.SetAttribute("int64", int64(456))
	span.SetAttribute("float", 3.14)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("unknown", struct{}{}) // falls to the default case

	span.End()

	_ = tp.ForceFlush(ctx)
	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrMap := make(map[string]any)
	for _, a := range spans[0].Attributes() {
		switch a.Value.Type() {
		case attribute.STRING:
			attrMap[string(a.Key)] = a.Value.AsString()
		case attribute.INT64:
			attrMap[string(a.Key)] = a.Value.AsInt64()
		case attribute.FLOAT64:
			attrMap[string(a.Key)] = a.Value.AsFloat64()
		case attribute.BOOL:
			attrMap[string(a.Key)] = a.Value.AsBool()
		case attribute.STRINGSLICE:
			attrMap[string(a.Key)] = a.Value.AsStringSlice()
		}
	}

	assert.Equal(t, "val", attrMap["str"])
	assert.Equal(t, int64(123), attrMap["int"])
	assert.Equal(t, int64(456), attrMap["int64"])
	assert.InEpsilon(t, 3.14, attrMap["float"], 0.001)
	assert.Equal(t, true, attrMap["bool"])
	assert.Equal(t, []string{"a", "b"}, attrMap["slice"])
	assert.Equal(t, "{}", attrMap["unknown"])
}

func TestOTelSpan_Write_NoRenderer(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")
	ctx, span := tracer.Start(context.Background(), "log-test")

	n, err := span.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	span.End()

	_ = tp.ForceFlush(ctx)
	spans := sr.Ended()
	require.Len(t, spans, 1)

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "log", events[0].Name)
	assert.Equal(t, "hello", events[0].Attributes[0].Value.AsString())
}

func TestOTelSpan_Write_StreamsToRenderer(t *testing.T) {
	_, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	var gotSpanID string
	var gotData []byte
	mockRenderer.EXPECT().
		OnSpanLog(gomock.Any(), gomock.Any()).
		Do(func(spanID string, data []byte) {
			gotSpanID = spanID
			gotData = append(gotData, data...)
		}).
		MinTimes(1)

	tracer := telemetry.NewOTelTracer("test-tracer").WithRenderer(mockRenderer)
	_, span := tracer.Start(context.Background(), "stream-test")

	_, err := span.Write([]byte("cargo test output\n"))
	require.NoError(t, err)

	// End closes the batcher, which performs the final flush synchronously.
	span.End()

	assert.NotEmpty(t, gotSpanID)
	assert.Equal(t, "cargo test output\n", string(gotData))
}

func TestOTelTracer_Shutdown(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer")
	require.NoError(t, tracer.Shutdown(context.Background()))
}
