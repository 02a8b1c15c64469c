package model

import (
	"encoding/json"
	"time"
)

// Phase names one step of the agent pipeline. Phases advance strictly in
// declaration order; PhaseError is the only out-of-order transition and is
// terminal.
type Phase string

const (
	PhaseStart                Phase = "start"
	PhaseFetchRepository      Phase = "fetchRepository"
	PhaseAnalyzeCommits       Phase = "analyzeCommits"
	PhaseAnalyzeCodeStructure Phase = "analyzeCodeStructure"
	PhaseCheckHealth          Phase = "checkHealth"
	PhaseGenerateTodos        Phase = "generateTodos"
	PhasePrioritizeTodos      Phase = "prioritizeTodos"
	PhaseSaveTodos            Phase = "saveTodos"
	PhaseComplete             Phase = "complete"
	PhaseError                Phase = "error"
)

// ExecutionStatus is the terminal-or-running state of one pipeline execution.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// Execution is the audit record of one agent pipeline run.
type Execution struct {
	ID             string
	RepositoryID   int64
	UserID         string
	Status         ExecutionStatus
	Error          string
	StepCount      int
	TodosGenerated int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// StepRecord is one per-phase audit row within an execution.
type StepRecord struct {
	ID          int64
	ExecutionID string
	Seq         int
	Phase       Phase
	Output      json.RawMessage
	RecordedAt  time.Time
}
