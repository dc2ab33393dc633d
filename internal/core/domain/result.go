package domain

import "time"

// StepStatus is the terminal status of one step execution.
type StepStatus string

const (
	// StepSuccess indicates the step exited with status zero.
	StepSuccess StepStatus = "success"
	// StepFailed indicates the step ran and exited with a non-zero status.
	StepFailed StepStatus = "failed"
	// StepError indicates the step could not be executed at all
	// (infrastructure failure, e.g. the process could not be spawned).
	StepError StepStatus = "error"
	// StepSkipped indicates the step was never issued because the lane was
	// cancelled before it could run.
	StepSkipped StepStatus = "skipped"
)

// StepResult is the immutable outcome of one step execution.
type StepResult struct {
	Step     string        `json:"step"`
	Status   StepStatus    `json:"status"`
	ExitCode int           `json:"exit_code"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
	Output   []byte        `json:"-"`
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool {
	return r.Status == StepSuccess
}

// RunResult is the terminal outcome of one lane: the ordered step results up
// to and including the first failure, or all steps if none failed.
type RunResult struct {
	Context RunContext   `json:"context"`
	Steps   []StepResult `json:"steps"`
}

// Success reports whether every executed step of the lane succeeded.
func (r RunResult) Success() bool {
	for _, step := range r.Steps {
		if !step.OK() {
			return false
		}
	}
	return true
}

// FirstFailure returns the first non-successful step result of the lane,
// or nil if the lane succeeded.
func (r RunResult) FirstFailure() *StepResult {
	for i := range r.Steps {
		if !r.Steps[i].OK() {
			return &r.Steps[i]
		}
	}
	return nil
}

// PipelineResult is the aggregate outcome of all lanes.
type PipelineResult struct {
	Runs    []RunResult `json:"runs"`
	Success bool        `json:"success"`
}

// Aggregate reduces lane results to one pipeline result. The pipeline
// succeeds iff every lane succeeded. Aggregation is a logical AND and is
// therefore independent of the order of results.
func Aggregate(runs []RunResult) PipelineResult {
	result := PipelineResult{
		Runs:    runs,
		Success: true,
	}
	for _, run := range runs {
		if !run.Success() {
			result.Success = false
		}
	}
	return result
}

// FailedRuns returns the lanes that did not succeed, in enumeration order.
func (p PipelineResult) FailedRuns() []RunResult {
	var failed []RunResult
	for _, run := range p.Runs {
		if !run.Success() {
			failed = append(failed, run)
		}
	}
	return failed
}
