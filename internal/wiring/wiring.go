// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.lanes.dev/lanes/internal/adapters/archive"
	_ "go.lanes.dev/lanes/internal/adapters/config"
	_ "go.lanes.dev/lanes/internal/adapters/logger"
	_ "go.lanes.dev/lanes/internal/adapters/shell"
	_ "go.lanes.dev/lanes/internal/adapters/toolchain"
	_ "go.lanes.dev/lanes/internal/adapters/watcher"
	// Register app nodes.
	_ "go.lanes.dev/lanes/internal/app"
)
