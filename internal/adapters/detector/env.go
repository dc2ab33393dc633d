// Package detector picks the rendering mode from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode. Non-TTY stdout or a
// CI environment selects the linear renderer.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if !isTTY || inCI() {
		return ModeLinear
	}
	return ModeTUI
}

func inCI() bool {
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return true
	}
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
