// Package scheduler executes the expanded lanes of a pipeline.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxCapturedOutput caps the per-step output retained for the run archive.
// Step output still streams to the renderer unbounded; only the in-memory
// copy is limited.
const maxCapturedOutput = 256 * 1024

// Scheduler runs the lanes of a pipeline. Lanes are independent and run in
// parallel up to the configured limit; within a lane, steps run strictly in
// declared order and the lane stops at the first step that does not succeed.
type Scheduler struct {
	executor  ports.Executor
	installer ports.ToolchainInstaller
	tracer    ports.Tracer
}

// NewScheduler creates a new Scheduler with the given collaborators.
func NewScheduler(
	executor ports.Executor,
	installer ports.ToolchainInstaller,
	tracer ports.Tracer,
) *Scheduler {
	return &Scheduler{
		executor:  executor,
		installer: installer,
		tracer:    tracer,
	}
}

// Run executes all lanes and aggregates their results. A failing lane never
// affects its siblings; the pipeline result is the logical AND over all
// lanes. The returned result is complete even when ctx is cancelled: steps
// that never ran are recorded as skipped.
func (s *Scheduler) Run(
	ctx context.Context,
	pipeline *domain.Pipeline,
	lanes []domain.RunContext,
	parallelism int,
) (*domain.PipelineResult, error) {
	if len(lanes) == 0 {
		return nil, domain.ErrNoMatchingLanes
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	laneIDs := make([]string, len(lanes))
	for i, lane := range lanes {
		laneIDs[i] = lane.ID()
	}
	s.tracer.EmitPlan(ctx, laneIDs, pipeline.StepNames())

	results := make([]domain.RunResult, len(lanes))

	// A plain errgroup, not WithContext: one lane failing must not cancel
	// its siblings. External cancellation still flows in through ctx.
	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, lane := range lanes {
		g.Go(func() error {
			results[i] = s.runLane(ctx, pipeline, lane)
			return nil
		})
	}

	_ = g.Wait()

	result := domain.Aggregate(results)
	return &result, nil
}

// runLane executes one lane: the synthesized toolchain installation step, if
// any, followed by the declared steps in order.
func (s *Scheduler) runLane(ctx context.Context, pipeline *domain.Pipeline, lane domain.RunContext) domain.RunResult {
	laneCtx, laneSpan := s.tracer.Start(ctx, lane.ID())
	defer laneSpan.End()

	laneSpan.SetAttribute("lane", lane.ID())
	laneSpan.SetAttribute("steps", len(pipeline.StepNames()))

	result := domain.RunResult{Context: lane}
	cancelled := false

	for _, name := range pipeline.StepNames() {
		if cancelled || ctx.Err() != nil {
			cancelled = true
			result.Steps = append(result.Steps, domain.StepResult{
				Step:   name,
				Status: domain.StepSkipped,
				Detail: "cancelled before execution",
			})
			continue
		}

		stepResult := s.runStep(laneCtx, pipeline, lane, name)
		result.Steps = append(result.Steps, stepResult)

		if stepResult.Status == domain.StepSkipped {
			// The step was interrupted by cancellation; everything after it
			// is skipped too.
			cancelled = true
			continue
		}
		if !stepResult.OK() {
			// Fail fast: nothing after the first failure executes, and
			// nothing is recorded for it either.
			break
		}
	}

	if failure := result.FirstFailure(); failure != nil {
		laneSpan.RecordError(zerr.With(
			zerr.With(domain.ErrStepFailed, "lane", lane.ID()),
			"step", failure.Step,
		))
	}

	return result
}

// runStep executes one named step of the lane and returns its result.
func (s *Scheduler) runStep(ctx context.Context, pipeline *domain.Pipeline, lane domain.RunContext, name string) domain.StepResult {
	stepCtx, stepSpan := s.tracer.Start(ctx, name)
	defer stepSpan.End()

	capture := newCappedBuffer(maxCapturedOutput)
	out := io.MultiWriter(stepSpan, capture)

	started := time.Now()

	var result domain.StepResult
	if name == domain.InstallStepName && pipeline.Toolchain != nil {
		result = s.installToolchain(stepCtx, pipeline, lane, out)
	} else {
		result = s.executeStep(stepCtx, pipeline, lane, name, out)
	}

	result.Step = name
	result.Duration = time.Since(started)
	result.Output = capture.Bytes()

	if !result.OK() {
		stepSpan.RecordError(zerr.With(
			zerr.With(domain.ErrStepFailed, "step", name),
			"status", string(result.Status),
		))
	}

	return result
}

// installToolchain runs the synthesized toolchain installation step with the
// lane's target resolved.
func (s *Scheduler) installToolchain(ctx context.Context, pipeline *domain.Pipeline, lane domain.RunContext, out io.Writer) domain.StepResult {
	tc := *pipeline.Toolchain
	tc.Target = lane.Interpolate(tc.Target)

	if err := s.installer.Install(ctx, tc, out, out); err != nil {
		if ctx.Err() != nil {
			return domain.StepResult{
				Status: domain.StepSkipped,
				Detail: "cancelled during execution",
			}
		}
		return domain.StepResult{
			Status:   domain.StepError,
			ExitCode: -1,
			Detail:   err.Error(),
		}
	}

	return domain.StepResult{Status: domain.StepSuccess}
}

// executeStep runs one declared step with placeholders resolved and the
// environment layers merged (pipeline < lane < step).
func (s *Scheduler) executeStep(ctx context.Context, pipeline *domain.Pipeline, lane domain.RunContext, name string, out io.Writer) domain.StepResult {
	step, ok := findStep(pipeline, name)
	if !ok {
		return domain.StepResult{
			Status:   domain.StepError,
			ExitCode: -1,
			Detail:   fmt.Sprintf("step %q not declared", name),
		}
	}

	resolved := lane.ResolveStep(step)

	if resolved.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, resolved.Timeout)
		defer cancel()
	}

	cmd := &domain.Command{
		Argv: resolved.Command,
		Dir:  pipeline.Root,
		Env:  domain.MergeEnv(pipeline.Env, lane.Env, resolved.Env),
	}

	code, err := s.executor.Execute(ctx, cmd, out, out)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return domain.StepResult{
				Status:   domain.StepError,
				ExitCode: -1,
				Detail:   fmt.Sprintf("timed out after %v", resolved.Timeout),
			}
		}
		if ctx.Err() != nil {
			return domain.StepResult{
				Status: domain.StepSkipped,
				Detail: "cancelled during execution",
			}
		}
		return domain.StepResult{
			Status:   domain.StepError,
			ExitCode: -1,
			Detail:   err.Error(),
		}
	}

	if code != 0 {
		return domain.StepResult{
			Status:   domain.StepFailed,
			ExitCode: code,
			Detail:   fmt.Sprintf("exited with status %d", code),
		}
	}

	return domain.StepResult{Status: domain.StepSuccess}
}

func findStep(pipeline *domain.Pipeline, name string) (domain.Step, bool) {
	for _, step := range pipeline.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return domain.Step{}, false
}

// cappedBuffer retains at most limit bytes and silently discards the rest.
type cappedBuffer struct {
	buf   []byte
	limit int
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - len(b.buf)
	if remaining > 0 {
		if len(p) < remaining {
			remaining = len(p)
		}
		b.buf = append(b.buf, p[:remaining]...)
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf
}
