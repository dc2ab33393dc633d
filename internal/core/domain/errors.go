package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyMatrix is returned when a pipeline declares no matrix axes.
	ErrEmptyMatrix = zerr.New("matrix must declare at least one axis")

	// ErrEmptyAxis is returned when a matrix axis has no values.
	ErrEmptyAxis = zerr.New("matrix axis has no values")

	// ErrDuplicateAxis is returned when two matrix axes share a name.
	ErrDuplicateAxis = zerr.New("duplicate matrix axis")

	// ErrInvalidAxisName is returned when an axis name contains invalid characters.
	ErrInvalidAxisName = zerr.New("axis name can only contain alphanumeric characters, hyphens and underscores")

	// ErrNoSteps is returned when a pipeline declares no steps.
	ErrNoSteps = zerr.New("pipeline must declare at least one step")

	// ErrDuplicateStepName is returned when two steps share a name.
	ErrDuplicateStepName = zerr.New("duplicate step name")

	// ErrInvalidStepName is returned when a step name contains invalid characters.
	ErrInvalidStepName = zerr.New("step name can only contain alphanumeric characters, hyphens and underscores")

	// ErrEmptyCommand is returned when a step declares no command.
	ErrEmptyCommand = zerr.New("step command is empty")

	// ErrUnknownAxis is returned when a lane filter or template references an axis
	// that is not part of the matrix.
	ErrUnknownAxis = zerr.New("unknown matrix axis")

	// ErrNoMatchingLanes is returned when a lane filter excludes every lane.
	ErrNoMatchingLanes = zerr.New("no lanes match the given filter")

	// ErrConfigNotFound is returned when no lanes.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find " + LanesFileName)

	// ErrConfigReadFailed is returned when the pipeline file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read pipeline file")

	// ErrConfigParseFailed is returned when the pipeline file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse pipeline file")

	// ErrInvalidTimeout is returned when a step timeout cannot be parsed.
	ErrInvalidTimeout = zerr.New("invalid step timeout, expected a Go duration such as '10m'")

	// ErrCommandStartFailed is returned when a step process could not be spawned
	// at all, as opposed to running and exiting non-zero.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrToolchainInstallFailed is returned when toolchain installation fails for a lane.
	ErrToolchainInstallFailed = zerr.New("toolchain installation failed")

	// ErrStepFailed is returned when a step exits with a non-zero status.
	ErrStepFailed = zerr.New("step failed")

	// ErrPipelineFailed is returned when at least one lane of the pipeline failed.
	ErrPipelineFailed = zerr.New("pipeline failed")

	// ErrArchiveWriteFailed is returned when a run record cannot be persisted.
	ErrArchiveWriteFailed = zerr.New("failed to write run record")

	// ErrArchiveCreateFailed is returned when the run archive directory cannot be created.
	ErrArchiveCreateFailed = zerr.New("failed to create run archive directory")

	// ErrArchiveMarshalFailed is returned when a run record cannot be marshaled.
	ErrArchiveMarshalFailed = zerr.New("failed to marshal run record")

	// ErrWatchFailed is returned when the file watcher cannot be established.
	ErrWatchFailed = zerr.New("failed to watch working tree")
)
