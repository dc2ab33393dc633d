// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.lanes.dev/lanes/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion in a fresh child process
	// environment seeded with cmd.Env, streaming captured output to the
	// given writers.
	//
	// It returns the exit status of the process. A non-zero exit status is
	// not an error at this level; err is non-nil only when the command could
	// not be started or was interrupted by the context.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) (int, error)
}
