// Package app implements the application layer for lanes.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.lanes.dev/lanes/internal/adapters/detector"
	"go.lanes.dev/lanes/internal/adapters/linear"
	"go.lanes.dev/lanes/internal/adapters/telemetry"
	"go.lanes.dev/lanes/internal/adapters/tui"
	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.lanes.dev/lanes/internal/engine/scheduler"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	installer    ports.ToolchainInstaller
	logger       ports.Logger
	archive      ports.RunArchive
	watcher      ports.Watcher
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	installer ports.ToolchainInstaller,
	log ports.Logger,
	archive ports.RunArchive,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		installer:    installer,
		logger:       log,
		archive:      archive,
		watcher:      watcher,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	OutputMode  string
	Parallelism int
	Only        []string
	NoArchive   bool
	Watch       bool
}

// Run expands the matrix and executes every selected lane. It returns
// domain.ErrPipelineFailed when at least one lane did not succeed.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.Watch {
		return a.runWatch(ctx, opts)
	}
	return a.runOnce(ctx, opts)
}

// runWatch runs the pipeline once, then re-runs it whenever the working tree
// changes, until ctx is cancelled.
func (a *App) runWatch(ctx context.Context, opts RunOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to determine working directory")
	}
	root, err := a.configLoader.DiscoverRoot(cwd)
	if err != nil {
		return err
	}

	runAndReport := func() {
		if err := a.runOnce(ctx, opts); err != nil {
			a.logger.Error(err)
		}
	}

	runAndReport()

	changes := make(chan []string, 1)
	go func() {
		err := a.watcher.Watch(ctx, root, func(paths []string) {
			select {
			case changes <- paths:
			default:
				// A re-run is already pending; drop the batch.
			}
		})
		if err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}()

	a.logger.Info("watching for changes, press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info(fmt.Sprintf("change detected (%d path(s)), re-running", len(paths)))
			runAndReport()
		}
	}
}

//nolint:cyclop // orchestration function
func (a *App) runOnce(ctx context.Context, opts RunOptions) error {
	pipeline, lanes, err := a.loadAndExpand(opts.Only)
	if err != nil {
		return err
	}

	// Detect environment and resolve output mode.
	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, opts.OutputMode)

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(model, optsTea...)
	} else {
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// Bridge OTel span lifecycle events to the renderer and register the
	// provider globally so otel.Tracer() picks it up.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("lanes").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	sched := scheduler.NewScheduler(a.executor, a.installer, tracer)

	var result *domain.PipelineResult
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	// Renderer routine.
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Scheduler routine.
	g.Go(func() (err error) {
		defer func() {
			// A recovered panic leaves result nil; fail the group so the
			// run bails out instead of archiving a nonexistent result.
			if r := recover(); r != nil {
				err = zerr.With(zerr.New("scheduler panicked"), "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		result, err = sched.Run(gctx, pipeline, lanes, opts.Parallelism)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	finished := time.Now()

	if !opts.NoArchive {
		record := domain.NewPipelineRecord(uuid.NewString(), pipeline.Name, started, finished, *result)
		if err := a.archive.Put(pipeline.Root, record, *result); err != nil {
			// Archiving is best-effort; the verdict stands regardless.
			a.logger.Warn("failed to archive run: " + err.Error())
		}
	}

	return a.report(result)
}

// report logs the pipeline summary and returns the final verdict.
func (a *App) report(result *domain.PipelineResult) error {
	if result.Success {
		a.logger.Info(fmt.Sprintf("all %d lane(s) passed", len(result.Runs)))
		return nil
	}

	failed := result.FailedRuns()
	for _, run := range failed {
		failure := run.FirstFailure()
		if failure == nil {
			continue
		}
		detail := failure.Detail
		if detail == "" {
			detail = string(failure.Status)
		}
		a.logger.Warn(fmt.Sprintf("lane %s failed at step %q: %s",
			run.Context.ID(), failure.Step, detail))
	}

	return zerr.With(
		zerr.With(domain.ErrPipelineFailed, "failed", len(failed)),
		"total", len(result.Runs),
	)
}

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	Only []string
}

// Plan prints the expanded lanes and the step sequence without executing
// anything.
func (a *App) Plan(_ context.Context, w io.Writer, opts PlanOptions) error {
	pipeline, lanes, err := a.loadAndExpand(opts.Only)
	if err != nil {
		return err
	}

	steps := pipeline.StepNames()
	fmt.Fprintf(w, "pipeline: %s\n", pipeline.Name)
	fmt.Fprintf(w, "lanes: %d\n", len(lanes))
	for _, lane := range lanes {
		fmt.Fprintf(w, "  %s\n", lane.ID())
	}
	fmt.Fprintf(w, "steps: %d\n", len(steps))
	for _, step := range steps {
		fmt.Fprintf(w, "  %s\n", step)
	}

	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	All bool
}

// Clean removes archived runs; with All set it removes the whole metadata
// directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to determine working directory")
	}
	root, err := a.configLoader.DiscoverRoot(cwd)
	if err != nil {
		return err
	}

	path := domain.RunsPath(root)
	name := "archived runs"
	if opts.All {
		path = domain.MetadataPath(root)
		name = "metadata directory"
	}

	a.logger.Info(fmt.Sprintf("removing %s...", name))
	if err := os.RemoveAll(path); err != nil {
		return zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name))
	}
	a.logger.Info(fmt.Sprintf("removed %s", name))

	return nil
}

// loadAndExpand loads the pipeline, expands the matrix and applies the
// --only lane filters.
func (a *App) loadAndExpand(only []string) (*domain.Pipeline, []domain.RunContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to determine working directory")
	}

	pipeline, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	lanes, err := pipeline.Matrix.Expand()
	if err != nil {
		return nil, nil, err
	}

	lanes, err = filterLanes(pipeline, lanes, only)
	if err != nil {
		return nil, nil, err
	}

	return pipeline, lanes, nil
}

// filterLanes keeps only the lanes matching every axis=value selector.
func filterLanes(pipeline *domain.Pipeline, lanes []domain.RunContext, only []string) ([]domain.RunContext, error) {
	if len(only) == 0 {
		return lanes, nil
	}

	selectors := make(map[string]string, len(only))
	for _, sel := range only {
		axis, value, ok := strings.Cut(sel, "=")
		if !ok || axis == "" || value == "" {
			return nil, zerr.With(
				zerr.With(domain.ErrUnknownAxis, "selector", sel),
				"reason", "expected axis=value",
			)
		}
		if !pipeline.Matrix.HasAxis(axis) {
			return nil, zerr.With(domain.ErrUnknownAxis, "axis", axis)
		}
		selectors[axis] = value
	}

	var filtered []domain.RunContext
	for _, lane := range lanes {
		matches := true
		for axis, value := range selectors {
			if got, _ := lane.Value(axis); got != value {
				matches = false
				break
			}
		}
		if matches {
			filtered = append(filtered, lane)
		}
	}

	if len(filtered) == 0 {
		return nil, zerr.With(domain.ErrNoMatchingLanes, "only", strings.Join(only, ","))
	}

	return filtered, nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
