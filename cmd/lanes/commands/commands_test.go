package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lanes.dev/lanes/cmd/lanes/commands"
	"go.lanes.dev/lanes/internal/app"
	"go.lanes.dev/lanes/internal/build"
)

type mockApp struct {
	runFunc   func(ctx context.Context, opts app.RunOptions) error
	planFunc  func(ctx context.Context, w io.Writer, opts app.PlanOptions) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Plan(ctx context.Context, w io.Writer, opts app.PlanOptions) error {
	if m.planFunc != nil {
		return m.planFunc(ctx, w, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				capturedOpts = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"run",
			"--output-mode", "linear",
			"--parallelism", "4",
			"--only", "target=wasm32-unknown-unknown",
			"--only", "target=x86_64-unknown-linux-gnu",
			"--no-archive",
			"--watch",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "linear", capturedOpts.OutputMode)
		assert.Equal(t, 4, capturedOpts.Parallelism)
		assert.Equal(t, []string{
			"target=wasm32-unknown-unknown",
			"target=x86_64-unknown-linux-gnu",
		}, capturedOpts.Only)
		assert.True(t, capturedOpts.NoArchive)
		assert.True(t, capturedOpts.Watch)
	})

	t.Run("defaults", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "auto", capturedOpts.OutputMode)
		assert.Equal(t, 0, capturedOpts.Parallelism)
		assert.Empty(t, capturedOpts.Only)
		assert.False(t, capturedOpts.NoArchive)
		assert.False(t, capturedOpts.Watch)
	})

	t.Run("ci flag forces linear output", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "--ci"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "linear", capturedOpts.OutputMode)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"run", "extra"})

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Plan(t *testing.T) {
	t.Run("writes plan to stdout", func(t *testing.T) {
		mock := &mockApp{
			planFunc: func(_ context.Context, w io.Writer, _ app.PlanOptions) error {
				_, err := fmt.Fprintln(w, "pipeline: ci")
				return err
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, new(bytes.Buffer))
		cli.SetArgs([]string{"plan"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "pipeline: ci")
	})

	t.Run("passes only filters", func(t *testing.T) {
		var capturedOpts app.PlanOptions
		mock := &mockApp{
			planFunc: func(_ context.Context, _ io.Writer, opts app.PlanOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"plan", "--only", "target=wasm32-unknown-unknown"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"target=wasm32-unknown-unknown"}, capturedOpts.Only)
	})
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantAll bool
	}{
		{
			name:    "default keeps metadata",
			args:    []string{"clean"},
			wantAll: false,
		},
		{
			name:    "all removes metadata",
			args:    []string{"clean", "--all"},
			wantAll: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedOpts app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					capturedOpts = opts
					return nil
				},
			}

			cli := commands.New(mock)
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.wantAll, capturedOpts.All)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
}

func TestCommands_UnknownCommand(t *testing.T) {
	cli := commands.New(&mockApp{})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"deploy"})

	require.Error(t, cli.Execute(context.Background()))
}
