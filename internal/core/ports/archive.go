package ports

import "go.lanes.dev/lanes/internal/core/domain"

// RunArchive persists completed pipeline executions for later inspection.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type RunArchive interface {
	// Put stores the record and the captured step output under the
	// pipeline root's metadata directory.
	Put(root string, record domain.PipelineRecord, result domain.PipelineResult) error
}
