package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.lanes.dev/lanes/internal/ui/style"
)

func headerHeight() int {
	return lipgloss.Height(titleStyle.Render("LANES")) + 1
}

// View renders the UI: the lane list on top, the selected lane's log tail
// below.
func (m *Model) View() string {
	if m.Height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.laneList(),
		m.logPane(),
	)
}

func (m *Model) laneList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LANES") + "\n")

	start := m.ListOffset
	end := m.ListOffset + m.listHeight()
	if end > len(m.Lanes) {
		end = len(m.Lanes)
	}
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderLaneRow(i, m.Lanes[i]) + "\n")
	}

	return s.String()
}

func (m *Model) renderLaneRow(index int, lane *LaneNode) string {
	icon := laneIcon(lane)
	rowStyle := laneStyle(lane)

	var cursor string
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if lane.Status != StatusDone && lane.Status != StatusError {
			rowStyle = selectedStyle
		}
	} else {
		cursor = "  "
	}

	content := fmt.Sprintf("%s %s", icon, lane.Name)
	row := cursor + rowStyle.Render(content)

	if lane.Status == StatusRunning && lane.CurrentStep != "" {
		progress := fmt.Sprintf(" %s %s (%d/%d)",
			style.Arrow, lane.CurrentStep, lane.StepsDone+1, len(m.StepNames))
		row += stepProgressStyle.Render(progress)
	}

	return row
}

func laneIcon(lane *LaneNode) string {
	switch lane.Status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default: // Pending
		return style.Circle
	}
}

func laneStyle(lane *LaneNode) lipgloss.Style {
	switch lane.Status {
	case StatusRunning:
		return laneRunningStyle
	case StatusDone:
		return laneDoneStyle
	case StatusError:
		return laneErrorStyle
	default: // Pending
		return lanePendingStyle
	}
}

func (m *Model) logPane() string {
	lane := m.selectedLane()
	if lane == nil {
		return titleStyle.Render("LOGS (Waiting...)")
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}
	header := titleStyle.Render("LOGS: " + lane.Name + mode)

	paneHeight := m.Height - headerHeight() - len(m.Lanes) - lipgloss.Height(header)
	if paneHeight < 1 {
		paneHeight = 1
	}

	lines := lane.Log.Tail(paneHeight)
	content := logPaneStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}
