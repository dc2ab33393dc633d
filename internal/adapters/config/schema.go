package config

import (
	"go.lanes.dev/lanes/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// PipelineDTO represents the structure of the lanes.yaml pipeline file.
type PipelineDTO struct {
	Version   string            `yaml:"version"`
	Name      string            `yaml:"name"`
	Env       map[string]string `yaml:"env"`
	Matrix    MatrixDTO         `yaml:"matrix"`
	Toolchain *ToolchainDTO     `yaml:"toolchain"`
	Steps     []StepDTO         `yaml:"steps"`
}

// AxisDTO is one matrix axis as declared in the pipeline file.
type AxisDTO struct {
	Name   string
	Values []string
}

// MatrixDTO holds the matrix axes in declaration order.
//
// A plain map would lose the declaration order, which defines lane
// enumeration order, so the mapping node is decoded by hand.
type MatrixDTO struct {
	Axes []AxisDTO
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving axis order and
// rejecting duplicate axis names.
func (m *MatrixDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrConfigParseFailed, "reason", "matrix must be a mapping of axis name to value list")
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if seen[keyNode.Value] {
			return zerr.With(domain.ErrDuplicateAxis, "axis", keyNode.Value)
		}
		seen[keyNode.Value] = true

		var values []string
		if err := valueNode.Decode(&values); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "axis", keyNode.Value)
		}

		m.Axes = append(m.Axes, AxisDTO{Name: keyNode.Value, Values: values})
	}

	return nil
}

// ToolchainDTO is the toolchain requirement as declared in the pipeline file.
type ToolchainDTO struct {
	Channel    string   `yaml:"channel"`
	Profile    string   `yaml:"profile"`
	Target     string   `yaml:"target"`
	Components []string `yaml:"components"`
}

// StepDTO is one step as declared in the pipeline file.
type StepDTO struct {
	Name    string            `yaml:"name"`
	Run     []string          `yaml:"run"`
	Env     map[string]string `yaml:"env"`
	Timeout string            `yaml:"timeout"`
}
