// Package archive persists completed pipeline executions as JSON records
// plus content-addressed log files.
package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.RunArchive using one JSON file per pipeline
// execution and one log file per captured step output, addressed by the
// xxhash digest of its content.
type Store struct{}

// NewStore creates a new run archive store.
func NewStore() *Store {
	return &Store{}
}

// Put stores the record under <root>/.lanes/runs. Step outputs from the
// result are written as content-addressed log files and their digests are
// recorded on the step records before the record itself is marshaled.
func (s *Store) Put(root string, record domain.PipelineRecord, result domain.PipelineResult) error {
	runsDir := domain.RunsPath(root)
	logsDir := filepath.Join(runsDir, record.ID)

	if err := os.MkdirAll(logsDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveCreateFailed.Error())
	}

	for i := range record.Runs {
		if i >= len(result.Runs) {
			break
		}
		for j := range record.Runs[i].Steps {
			if j >= len(result.Runs[i].Steps) {
				break
			}
			output := result.Runs[i].Steps[j].Output
			if len(output) == 0 {
				continue
			}

			digest := strconv.FormatUint(xxhash.Sum64(output), 16)
			logPath := filepath.Join(logsDir, digest+".log")
			if err := os.WriteFile(logPath, output, domain.FilePerm); err != nil {
				return zerr.With(
					zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()),
					"file", logPath,
				)
			}
			record.Runs[i].Steps[j].LogDigest = digest
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveMarshalFailed.Error())
	}

	recordPath := filepath.Join(runsDir, record.ID+".json")
	if err := os.WriteFile(recordPath, data, domain.FilePerm); err != nil {
		return zerr.With(
			zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()),
			"file", recordPath,
		)
	}

	return nil
}

var _ ports.RunArchive = (*Store)(nil)
