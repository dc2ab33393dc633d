// Package domain contains the pure data model of the pipeline runner.
package domain

import (
	"regexp"

	"go.trai.ch/zerr"
)

var validNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Axis is a named, ordered sequence of matrix values.
type Axis struct {
	Name   string
	Values []string
}

// Matrix is an ordered list of axes. The order of axes and of their values
// is the declaration order and defines lane enumeration order.
type Matrix struct {
	Axes []Axis
}

// Size returns the number of lanes the matrix expands to.
func (m Matrix) Size() int {
	if len(m.Axes) == 0 {
		return 0
	}
	size := 1
	for _, axis := range m.Axes {
		size *= len(axis.Values)
	}
	return size
}

// Validate checks the matrix for configuration errors: a matrix must have at
// least one axis, every axis must have at least one value, and axis names
// must be unique and well formed.
func (m Matrix) Validate() error {
	if len(m.Axes) == 0 {
		return ErrEmptyMatrix
	}

	seen := make(map[string]bool, len(m.Axes))
	for _, axis := range m.Axes {
		if !validNameRegex.MatchString(axis.Name) {
			return zerr.With(ErrInvalidAxisName, "axis", axis.Name)
		}
		if seen[axis.Name] {
			return zerr.With(ErrDuplicateAxis, "axis", axis.Name)
		}
		seen[axis.Name] = true

		if len(axis.Values) == 0 {
			return zerr.With(ErrEmptyAxis, "axis", axis.Name)
		}
	}

	return nil
}

// Expand produces the ordered Cartesian product of the axes as lanes.
// Expansion is a pure function: the same matrix always yields the same lanes
// in the same order. It returns a configuration error and zero lanes if the
// matrix is invalid.
func (m Matrix) Expand() ([]RunContext, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	lanes := []RunContext{{}}
	for _, axis := range m.Axes {
		next := make([]RunContext, 0, len(lanes)*len(axis.Values))
		for _, lane := range lanes {
			for _, value := range axis.Values {
				selection := make([]AxisValue, len(lane.Selection), len(lane.Selection)+1)
				copy(selection, lane.Selection)
				next = append(next, RunContext{
					Selection: append(selection, AxisValue{Axis: axis.Name, Value: value}),
				})
			}
		}
		lanes = next
	}

	for i := range lanes {
		lanes[i].Env = lanes[i].bindings()
	}

	return lanes, nil
}

// HasAxis reports whether the matrix declares an axis with the given name.
func (m Matrix) HasAxis(name string) bool {
	for _, axis := range m.Axes {
		if axis.Name == name {
			return true
		}
	}
	return false
}
