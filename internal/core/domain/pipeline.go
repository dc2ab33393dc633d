package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// InstallStepName is the name of the synthesized toolchain installation step.
// It always runs first in a lane because every later step depends on the
// toolchain being present.
const InstallStepName = "install-toolchain"

// Pipeline is a fully loaded verification pipeline declaration.
type Pipeline struct {
	Name      string
	Root      string
	Env       map[string]string
	Matrix    Matrix
	Toolchain *Toolchain
	Steps     []Step
}

// Step is one command invocation within a lane. Steps execute strictly in
// declared order and a lane stops at the first failing step.
type Step struct {
	Name    string
	Command []string
	Env     map[string]string
	Timeout time.Duration
}

// Toolchain declares the target-specific toolchain a lane must install
// before any verification step runs. Target may contain ${matrix.*}
// placeholders.
type Toolchain struct {
	Channel    string
	Profile    string
	Target     string
	Components []string
}

// Validate checks the pipeline declaration for configuration errors.
// It is called once at load time, before any lane starts.
func (p *Pipeline) Validate() error {
	if err := p.Matrix.Validate(); err != nil {
		return err
	}

	if len(p.Steps) == 0 {
		return ErrNoSteps
	}

	seen := make(map[string]bool, len(p.Steps))
	for _, step := range p.Steps {
		if !validNameRegex.MatchString(step.Name) {
			return zerr.With(ErrInvalidStepName, "step", step.Name)
		}
		if step.Name == InstallStepName && p.Toolchain != nil {
			return zerr.With(ErrDuplicateStepName, "step", step.Name)
		}
		if seen[step.Name] {
			return zerr.With(ErrDuplicateStepName, "step", step.Name)
		}
		seen[step.Name] = true

		if len(step.Command) == 0 {
			return zerr.With(ErrEmptyCommand, "step", step.Name)
		}
	}

	return nil
}

// StepNames returns the names of all steps a lane will execute, including
// the synthesized toolchain installation step when a toolchain is declared.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.Steps)+1)
	if p.Toolchain != nil {
		names = append(names, InstallStepName)
	}
	for _, step := range p.Steps {
		names = append(names, step.Name)
	}
	return names
}

// Command is a resolved command invocation handed to the executor: an
// argument vector, a working directory and the fully merged environment of
// the invocation. The executor seeds the child process with this mapping
// only (plus an allow-listed slice of the system environment); the parent
// environment is never mutated.
type Command struct {
	Argv []string
	Dir  string
	Env  map[string]string
}
