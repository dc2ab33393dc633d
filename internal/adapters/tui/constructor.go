// Package tui provides an interactive terminal interface for watching lanes
// run.
package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.lanes.dev/lanes/internal/ui/output"
)

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) *Model {
	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return &Model{
		Lanes:      make([]*LaneNode, 0),
		LaneMap:    make(map[string]*LaneNode),
		SpanMap:    make(map[string]*LaneNode),
		StepSpans:  make(map[string]string),
		FollowMode: true,
	}
}
