package driven

import (
	"context"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// ExecutionStore defines the driven port for the pipeline audit trail.
type ExecutionStore interface {
	// Insert creates the execution row at the start of a run.
	Insert(ctx context.Context, exec model.Execution) error

	// Finish records the terminal status, error message, and summary counts.
	Finish(ctx context.Context, id string, status model.ExecutionStatus, errMsg string, stepCount, todosGenerated int) error

	// InsertStep appends one per-phase audit row.
	InsertStep(ctx context.Context, step model.StepRecord) error

	// GetByID returns an execution, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Execution, error)

	// ListSteps returns the audit rows of an execution in sequence order.
	ListSteps(ctx context.Context, executionID string) ([]model.StepRecord, error)
}
