package ports

import "go.lanes.dev/lanes/internal/core/domain"

// ConfigLoader defines the interface for loading the pipeline declaration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd, reads the first lanes.yaml it finds and
	// returns the validated pipeline.
	Load(cwd string) (*domain.Pipeline, error)

	// DiscoverRoot walks up from cwd to find the directory containing
	// lanes.yaml.
	DiscoverRoot(cwd string) (string, error)
}
