package archive_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lanes.dev/lanes/internal/adapters/archive"
	"go.lanes.dev/lanes/internal/core/domain"
)

func sampleResult() domain.PipelineResult {
	return domain.Aggregate([]domain.RunResult{
		{
			Context: domain.RunContext{Selection: []domain.AxisValue{
				{Axis: "target", Value: "wasm32-unknown-unknown"},
			}},
			Steps: []domain.StepResult{
				{Step: "check-format", Status: domain.StepSuccess,
					Duration: time.Second, Output: []byte("formatting ok\n")},
				{Step: "run-tests", Status: domain.StepFailed, ExitCode: 1,
					Detail: "exited with status 1", Duration: 2 * time.Second,
					Output: []byte("test failure output\n")},
			},
		},
	})
}

func TestStore_Put(t *testing.T) {
	root := t.TempDir()
	result := sampleResult()
	started := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	record := domain.NewPipelineRecord("run-1", "ci", started, started.Add(time.Minute), result)

	require.NoError(t, archive.NewStore().Put(root, record, result))

	data, err := os.ReadFile(filepath.Join(domain.RunsPath(root), "run-1.json"))
	require.NoError(t, err)

	var stored domain.PipelineRecord
	require.NoError(t, json.Unmarshal(data, &stored))

	assert.Equal(t, "run-1", stored.ID)
	assert.Equal(t, "ci", stored.Pipeline)
	assert.False(t, stored.Success)
	require.Len(t, stored.Runs, 1)
	require.Len(t, stored.Runs[0].Steps, 2)

	// Each captured output lands as a content-addressed log file and the
	// digest is recorded on the step.
	logsDir := filepath.Join(domain.RunsPath(root), "run-1")
	for i, output := range [][]byte{
		[]byte("formatting ok\n"),
		[]byte("test failure output\n"),
	} {
		digest := strconv.FormatUint(xxhash.Sum64(output), 16)
		assert.Equal(t, digest, stored.Runs[0].Steps[i].LogDigest)

		content, err := os.ReadFile(filepath.Join(logsDir, digest+".log"))
		require.NoError(t, err)
		assert.Equal(t, output, content)
	}
}

func TestStore_Put_EmptyOutputSkipsLogFile(t *testing.T) {
	root := t.TempDir()
	result := domain.Aggregate([]domain.RunResult{
		{
			Context: domain.RunContext{Selection: []domain.AxisValue{
				{Axis: "target", Value: "x86_64-unknown-linux-gnu"},
			}},
			Steps: []domain.StepResult{
				{Step: "run-tests", Status: domain.StepSuccess, Duration: time.Second},
			},
		},
	})
	record := domain.NewPipelineRecord("run-2", "ci", time.Now(), time.Now(), result)

	require.NoError(t, archive.NewStore().Put(root, record, result))

	entries, err := os.ReadDir(filepath.Join(domain.RunsPath(root), "run-2"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(filepath.Join(domain.RunsPath(root), "run-2.json"))
	require.NoError(t, err)

	var stored domain.PipelineRecord
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Empty(t, stored.Runs[0].Steps[0].LogDigest)
}

func TestStore_Put_DeduplicatesIdenticalOutput(t *testing.T) {
	root := t.TempDir()
	output := []byte("same output\n")
	result := domain.Aggregate([]domain.RunResult{
		{
			Context: domain.RunContext{Selection: []domain.AxisValue{
				{Axis: "target", Value: "wasm32-unknown-unknown"},
			}},
			Steps: []domain.StepResult{
				{Step: "a", Status: domain.StepSuccess, Output: output},
				{Step: "b", Status: domain.StepSuccess, Output: output},
			},
		},
	})
	record := domain.NewPipelineRecord("run-3", "ci", time.Now(), time.Now(), result)

	require.NoError(t, archive.NewStore().Put(root, record, result))

	entries, err := os.ReadDir(filepath.Join(domain.RunsPath(root), "run-3"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "identical outputs share one log file")
}

func TestStore_Put_UnwritableRoot(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o500))
	t.Cleanup(func() { _ = os.Chmod(root, 0o750) })

	result := sampleResult()
	record := domain.NewPipelineRecord("run-4", "ci", time.Now(), time.Now(), result)

	err := archive.NewStore().Put(root, record, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrArchiveCreateFailed.Error())
}
