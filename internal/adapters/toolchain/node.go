package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.lanes.dev/lanes/internal/adapters/shell"
	"go.lanes.dev/lanes/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain installer Graft node.
const NodeID graft.ID = "adapter.toolchain_installer"

func init() {
	graft.Register(graft.Node[ports.ToolchainInstaller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ToolchainInstaller, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRustupInstaller(executor), nil
		},
	})
}
