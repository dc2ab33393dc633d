package domain

import "time"

// PipelineRecord is the persisted form of one pipeline execution.
type PipelineRecord struct {
	ID         string      `json:"id"`
	Pipeline   string      `json:"pipeline"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Success    bool        `json:"success"`
	Runs       []RunRecord `json:"runs"`
}

// RunRecord is the persisted form of one lane execution.
type RunRecord struct {
	Lane    string       `json:"lane"`
	Success bool         `json:"success"`
	Steps   []StepRecord `json:"steps"`
}

// StepRecord is the persisted form of one step execution. LogDigest is the
// content digest of the captured step output, filled in by the archive when
// the record is stored.
type StepRecord struct {
	Name      string        `json:"name"`
	Status    StepStatus    `json:"status"`
	ExitCode  int           `json:"exit_code"`
	Detail    string        `json:"detail,omitempty"`
	Duration  time.Duration `json:"duration"`
	LogDigest string        `json:"log_digest,omitempty"`
}

// NewPipelineRecord converts a pipeline result into its persisted form.
func NewPipelineRecord(id, pipeline string, started, finished time.Time, result PipelineResult) PipelineRecord {
	record := PipelineRecord{
		ID:         id,
		Pipeline:   pipeline,
		StartedAt:  started,
		FinishedAt: finished,
		Success:    result.Success,
		Runs:       make([]RunRecord, 0, len(result.Runs)),
	}

	for _, run := range result.Runs {
		runRecord := RunRecord{
			Lane:    run.Context.ID(),
			Success: run.Success(),
			Steps:   make([]StepRecord, 0, len(run.Steps)),
		}
		for _, step := range run.Steps {
			runRecord.Steps = append(runRecord.Steps, StepRecord{
				Name:     step.Step,
				Status:   step.Status,
				ExitCode: step.ExitCode,
				Detail:   step.Detail,
				Duration: step.Duration,
			})
		}
		record.Runs = append(record.Runs, runRecord)
	}

	return record
}
