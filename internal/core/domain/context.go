package domain

import (
	"regexp"
	"strings"
)

// AxisValue is one selected value of one matrix axis.
type AxisValue struct {
	Axis  string `json:"axis"`
	Value string `json:"value"`
}

// RunContext is one lane: one selected value per matrix axis plus the
// environment bindings derived from that selection. It is immutable once
// produced by Matrix.Expand.
type RunContext struct {
	Selection []AxisValue       `json:"selection"`
	Env       map[string]string `json:"env,omitempty"`
}

// ID returns the canonical lane identifier, e.g.
// "target=wasm32-unknown-unknown" or "os=linux,arch=arm64".
func (rc RunContext) ID() string {
	parts := make([]string, len(rc.Selection))
	for i, sel := range rc.Selection {
		parts[i] = sel.Axis + "=" + sel.Value
	}
	return strings.Join(parts, ",")
}

// Value returns the selected value for the given axis.
func (rc RunContext) Value(axis string) (string, bool) {
	for _, sel := range rc.Selection {
		if sel.Axis == axis {
			return sel.Value, true
		}
	}
	return "", false
}

var nonEnvCharRegex = regexp.MustCompile("[^A-Z0-9_]")

// bindings derives the per-lane environment bindings: every axis selection is
// exposed as MATRIX_<AXIS>=<value>.
func (rc RunContext) bindings() map[string]string {
	env := make(map[string]string, len(rc.Selection))
	for _, sel := range rc.Selection {
		key := "MATRIX_" + nonEnvCharRegex.ReplaceAllString(strings.ToUpper(sel.Axis), "_")
		env[key] = sel.Value
	}
	return env
}

var placeholderRegex = regexp.MustCompile(`\$\{matrix\.([a-zA-Z0-9_-]+)\}`)

// Interpolate replaces ${matrix.<axis>} placeholders in s with the lane's
// selected values. Unknown axes are left untouched so the failure surfaces
// in the executed command rather than being silently dropped.
func (rc RunContext) Interpolate(s string) string {
	return placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		axis := placeholderRegex.FindStringSubmatch(match)[1]
		if value, ok := rc.Value(axis); ok {
			return value
		}
		return match
	})
}

// ResolveStep returns a copy of the step with all ${matrix.*} placeholders
// expanded in its command and environment.
func (rc RunContext) ResolveStep(step Step) Step {
	resolved := step
	resolved.Command = make([]string, len(step.Command))
	for i, arg := range step.Command {
		resolved.Command[i] = rc.Interpolate(arg)
	}

	if len(step.Env) > 0 {
		resolved.Env = make(map[string]string, len(step.Env))
		for k, v := range step.Env {
			resolved.Env[k] = rc.Interpolate(v)
		}
	}

	return resolved
}

// MergeEnv merges environment layers into a single mapping. Later layers take
// precedence over earlier ones on key conflicts.
func MergeEnv(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
