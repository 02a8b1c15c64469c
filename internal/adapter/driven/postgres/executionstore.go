package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ExecutionStore = (*ExecutionStore)(nil)

// ExecutionStore is the PostgreSQL implementation of the ExecutionStore port
// interface. It records one row per pipeline run plus one audit row per
// executed phase.
type ExecutionStore struct {
	db *sql.DB
}

// NewExecutionStore creates a new ExecutionStore backed by the given DB.
func NewExecutionStore(db *sql.DB) *ExecutionStore {
	return &ExecutionStore{db: db}
}

// Insert creates the execution row at the start of a run.
func (s *ExecutionStore) Insert(ctx context.Context, exec model.Execution) error {
	const query = `
		INSERT INTO agent_executions (id, repository_id, user_id, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`

	startedAt := exec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query, exec.ID, exec.RepositoryID, exec.UserID, exec.Status, startedAt)
	if err != nil {
		return fmt.Errorf("insert execution %s: %w", exec.ID, err)
	}

	return nil
}

// Finish records the terminal status, error message, and summary counts.
func (s *ExecutionStore) Finish(ctx context.Context, id string, status model.ExecutionStatus, errMsg string, stepCount, todosGenerated int) error {
	const query = `
		UPDATE agent_executions
		SET status = $2, error = $3, step_count = $4, todos_generated = $5, finished_at = now()
		WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id, status, errMsg, stepCount, todosGenerated)
	if err != nil {
		return fmt.Errorf("finish execution %s: %w", id, err)
	}

	return nil
}

// InsertStep appends one per-phase audit row.
func (s *ExecutionStore) InsertStep(ctx context.Context, step model.StepRecord) error {
	const query = `
		INSERT INTO agent_steps (execution_id, seq, phase, output, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`

	recordedAt := step.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	output := step.Output
	if len(output) == 0 {
		output = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, query, step.ExecutionID, step.Seq, step.Phase, []byte(output), recordedAt)
	if err != nil {
		return fmt.Errorf("insert step %d of execution %s: %w", step.Seq, step.ExecutionID, err)
	}

	return nil
}

// GetByID returns an execution, or nil when it does not exist.
func (s *ExecutionStore) GetByID(ctx context.Context, id string) (*model.Execution, error) {
	const query = `
		SELECT id, repository_id, user_id, status, error, step_count, todos_generated,
		       started_at, finished_at
		FROM agent_executions WHERE id = $1`

	var exec model.Execution
	var finishedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&exec.ID, &exec.RepositoryID, &exec.UserID, &exec.Status, &exec.Error,
		&exec.StepCount, &exec.TodosGenerated, &exec.StartedAt, &finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get execution %s: %w", id, err)
	}

	if finishedAt.Valid {
		exec.FinishedAt = finishedAt.Time
	}

	return &exec, nil
}

// ListSteps returns the audit rows of an execution in sequence order.
func (s *ExecutionStore) ListSteps(ctx context.Context, executionID string) ([]model.StepRecord, error) {
	const query = `
		SELECT id, execution_id, seq, phase, output, recorded_at
		FROM agent_steps WHERE execution_id = $1 ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, executionID)
	if err != nil {
		return nil, fmt.Errorf("list steps of execution %s: %w", executionID, err)
	}
	defer rows.Close()

	var steps []model.StepRecord
	for rows.Next() {
		var step model.StepRecord
		var output []byte
		err := rows.Scan(&step.ID, &step.ExecutionID, &step.Seq, &step.Phase, &output, &step.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Output = output
		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}

	return steps, nil
}
