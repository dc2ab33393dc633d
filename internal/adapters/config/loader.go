// Package config provides the pipeline declaration loader.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultToolchainChannel is used when a toolchain declaration omits its channel.
const DefaultToolchainChannel = "stable"

// DefaultToolchainProfile is used when a toolchain declaration omits its profile.
const DefaultToolchainProfile = "minimal"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the first lanes.yaml found walking up from cwd and returns the
// validated pipeline. Configuration errors abort before any lane starts.
func (l *Loader) Load(cwd string) (*domain.Pipeline, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, domain.LanesFileName)

	data, err := os.ReadFile(configPath) //nolint:gosec // path is discovered, not user input
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var dto PipelineDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	if dto.Version != "" && dto.Version != "1" {
		l.Logger.Warn("unknown pipeline version " + dto.Version + ", continuing anyway")
	}

	pipeline, err := l.buildPipeline(root, &dto)
	if err != nil {
		return nil, err
	}

	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	return pipeline, nil
}

// DiscoverRoot walks up from cwd to find the directory containing lanes.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigNotFound.Error())
	}

	for {
		configPath := filepath.Join(currentDir, domain.LanesFileName)
		if _, err := os.Stat(configPath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) buildPipeline(root string, dto *PipelineDTO) (*domain.Pipeline, error) {
	name := dto.Name
	if name == "" {
		name = filepath.Base(root)
	}

	pipeline := &domain.Pipeline{
		Name: name,
		Root: root,
		Env:  dto.Env,
	}

	for _, axis := range dto.Matrix.Axes {
		pipeline.Matrix.Axes = append(pipeline.Matrix.Axes, domain.Axis{
			Name:   axis.Name,
			Values: axis.Values,
		})
	}

	if dto.Toolchain != nil {
		pipeline.Toolchain = &domain.Toolchain{
			Channel:    dto.Toolchain.Channel,
			Profile:    dto.Toolchain.Profile,
			Target:     dto.Toolchain.Target,
			Components: dto.Toolchain.Components,
		}
		if pipeline.Toolchain.Channel == "" {
			pipeline.Toolchain.Channel = DefaultToolchainChannel
		}
		if pipeline.Toolchain.Profile == "" {
			pipeline.Toolchain.Profile = DefaultToolchainProfile
		}
	}

	for _, stepDTO := range dto.Steps {
		step := domain.Step{
			Name:    stepDTO.Name,
			Command: stepDTO.Run,
			Env:     stepDTO.Env,
		}

		if stepDTO.Timeout != "" {
			timeout, err := time.ParseDuration(stepDTO.Timeout)
			if err != nil {
				return nil, zerr.With(
					zerr.With(
						zerr.Wrap(err, domain.ErrInvalidTimeout.Error()),
						"step", stepDTO.Name,
					),
					"timeout", stepDTO.Timeout,
				)
			}
			step.Timeout = timeout
		}

		pipeline.Steps = append(pipeline.Steps, step)
	}

	return pipeline, nil
}
