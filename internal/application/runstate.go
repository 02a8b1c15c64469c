// Package application contains the agent pipeline core and its
// use-case orchestration services.
package application

import (
	"github.com/agentboard/agentboard/internal/domain/model"
)

// RunError records the failure that terminated a pipeline run.
type RunError struct {
	Phase   model.Phase `json:"phase"`
	Message string      `json:"message"`
}

// RunState is the single mutable record threaded through one pipeline
// execution. It is created fresh per invocation and discarded after the
// persistence phase writes its projections; only derived projections
// (todo list, analysis, audit rows) outlive it.
type RunState struct {
	RepositoryID int64
	UserID       string
	UserContext  string

	ExecutionID string
	Phase       model.Phase
	StepCount   int

	Repository *model.Repository
	Snapshot   *model.RepositorySnapshot
	Analysis   model.Analysis
	Todos      []model.TodoItem
	TodoListID int64

	Err *RunError
}

// NewRunState creates the initial state for one pipeline invocation.
func NewRunState(repositoryID int64, userID, userContext string) *RunState {
	return &RunState{
		RepositoryID: repositoryID,
		UserID:       userID,
		UserContext:  userContext,
	}
}
