package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.lanes.dev/lanes/internal/ui/style"
)

var (
	lanePendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	laneRunningStyle = lipgloss.NewStyle().
				Foreground(style.Teal).
				Bold(true)

	laneDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	laneErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Teal).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Teal).
			Foreground(style.White)

	stepProgressStyle = lipgloss.NewStyle().
				Foreground(style.Slate).
				Faint(true)

	logPaneStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
