package ports

import (
	"context"
	"io"

	"go.lanes.dev/lanes/internal/core/domain"
)

// ToolchainInstaller installs a target-specific toolchain before a lane's
// verification steps run. The installer is an opaque collaborator: it
// exposes success or failure only.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainInstaller interface {
	// Install installs the toolchain described by tc. The Target field is
	// already resolved for the lane; ${matrix.*} placeholders are gone.
	Install(ctx context.Context, tc domain.Toolchain, stdout, stderr io.Writer) error
}
