package models

import (
	"fmt"
	"strings"
	"time"
)

// RunSpec identifies one point in the sweep's parameter grid.
type RunSpec struct {
	ID           string // unique identifier
	Model        string
	Task         string
	Optimizer    string
	LearningRate string // forwarded verbatim to the trainer
	Epochs       int
	Seed         int
	OutputDir    string // path to the run's dispatch output directory
}

// ModelShort returns the trailing path component of the model identifier,
// matching how the trainer derives artifact file names.
func (r RunSpec) ModelShort() string {
	if i := strings.LastIndex(r.Model, "/"); i >= 0 {
		return r.Model[i+1:]
	}
	return r.Model
}

// Label is the human-readable combination echoed when the run is dispatched.
func (r RunSpec) Label() string {
	return fmt.Sprintf("%s %s %s lr=%s epochs=%d seed=%d",
		r.Model, r.Task, r.Optimizer, r.LearningRate, r.Epochs, r.Seed)
}

// RunResult contains the outcome of dispatching one trainer invocation.
type RunResult struct {
	RunID        string    `json:"run_id"`
	Model        string    `json:"model"`
	Task         string    `json:"task"`
	Optimizer    string    `json:"optimizer"`
	LearningRate string    `json:"learning_rate"`
	Epochs       int       `json:"epochs"`
	Seed         int       `json:"seed"`
	Skipped      bool      `json:"skipped"`
	SkipReason   string    `json:"skip_reason,omitempty"`
	ExitCode     int       `json:"exit_code"`
	Error        *RunError `json:"error"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	DurationSec  float64   `json:"duration_sec"`
}

type RunError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// SweepResult contains aggregate counts across all runs of a sweep.
type SweepResult struct {
	SweepName        string                  `json:"sweep_name"`
	JobID            string                  `json:"job_id"`
	Cancelled        bool                    `json:"cancelled"`
	TotalRuns        int                     `json:"total_runs"`
	CompletedRuns    int                     `json:"completed_runs"`
	FailedRuns       int                     `json:"failed_runs"`
	SkippedRuns      int                     `json:"skipped_runs"`
	TotalDurationSec float64                 `json:"total_duration_sec"`
	StartedAt        time.Time               `json:"started_at"`
	EndedAt          time.Time               `json:"ended_at"`
	Models           map[string]ModelSummary `json:"models"`
	Results          []RunSummary            `json:"results"`
}

type ModelSummary struct {
	TotalRuns     int     `json:"total_runs"`
	CompletedRuns int     `json:"completed_runs"`
	FailedRuns    int     `json:"failed_runs"`
	MeanRunSec    float64 `json:"mean_run_sec"`
}

type RunSummary struct {
	Model        string `json:"model"`
	Task         string `json:"task"`
	Optimizer    string `json:"optimizer"`
	LearningRate string `json:"learning_rate"`
	Epochs       int    `json:"epochs"`
	Seed         int    `json:"seed"`
	Failed       bool   `json:"failed"`
	Skipped      bool   `json:"skipped"`
}
