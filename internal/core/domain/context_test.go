package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lanes.dev/lanes/internal/core/domain"
)

func wasmLane() domain.RunContext {
	return domain.RunContext{
		Selection: []domain.AxisValue{
			{Axis: "target", Value: "wasm32-unknown-unknown"},
		},
	}
}

func TestRunContext_ID(t *testing.T) {
	lane := domain.RunContext{
		Selection: []domain.AxisValue{
			{Axis: "target", Value: "wasm32-unknown-unknown"},
			{Axis: "os", Value: "linux"},
		},
	}

	assert.Equal(t, "target=wasm32-unknown-unknown,os=linux", lane.ID())
}

func TestRunContext_Interpolate(t *testing.T) {
	lane := wasmLane()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single placeholder",
			in:   "--target ${matrix.target}",
			want: "--target wasm32-unknown-unknown",
		},
		{
			name: "repeated placeholder",
			in:   "${matrix.target}/${matrix.target}",
			want: "wasm32-unknown-unknown/wasm32-unknown-unknown",
		},
		{
			name: "unknown axis left untouched",
			in:   "--os ${matrix.os}",
			want: "--os ${matrix.os}",
		},
		{
			name: "no placeholder",
			in:   "cargo test",
			want: "cargo test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lane.Interpolate(tt.in))
		})
	}
}

func TestRunContext_ResolveStep(t *testing.T) {
	lane := wasmLane()

	step := domain.Step{
		Name:    "run-tests",
		Command: []string{"cargo", "test", "--target", "${matrix.target}"},
		Env:     map[string]string{"TARGET_DIR": "out/${matrix.target}"},
		Timeout: time.Minute,
	}

	resolved := lane.ResolveStep(step)

	assert.Equal(t, []string{"cargo", "test", "--target", "wasm32-unknown-unknown"}, resolved.Command)
	assert.Equal(t, "out/wasm32-unknown-unknown", resolved.Env["TARGET_DIR"])
	assert.Equal(t, time.Minute, resolved.Timeout)

	// The original step is untouched.
	assert.Equal(t, "${matrix.target}", step.Command[3])
	assert.Equal(t, "out/${matrix.target}", step.Env["TARGET_DIR"])
}

func TestRunContext_Value(t *testing.T) {
	lane := wasmLane()

	value, ok := lane.Value("target")
	require.True(t, ok)
	assert.Equal(t, "wasm32-unknown-unknown", value)

	_, ok = lane.Value("os")
	assert.False(t, ok)
}

func TestMergeEnv_Precedence(t *testing.T) {
	pipeline := map[string]string{"SHARED": "pipeline", "PIPELINE": "1"}
	lane := map[string]string{"SHARED": "lane", "LANE": "1"}
	step := map[string]string{"SHARED": "step", "STEP": "1"}

	merged := domain.MergeEnv(pipeline, lane, step)

	assert.Equal(t, "step", merged["SHARED"], "later layers win")
	assert.Equal(t, "1", merged["PIPELINE"])
	assert.Equal(t, "1", merged["LANE"])
	assert.Equal(t, "1", merged["STEP"])
}

func TestMergeEnv_NilLayers(t *testing.T) {
	merged := domain.MergeEnv(nil, map[string]string{"A": "1"}, nil)
	assert.Equal(t, map[string]string{"A": "1"}, merged)
}
