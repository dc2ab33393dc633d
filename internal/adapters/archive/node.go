package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.lanes.dev/lanes/internal/core/ports"
)

// NodeID is the unique identifier for the run archive Graft node.
const NodeID graft.ID = "adapter.run_archive"

func init() {
	graft.Register(graft.Node[ports.RunArchive]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.RunArchive, error) {
			return NewStore(), nil
		},
	})
}
