package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// ExecuteRequest is the input of one agent pipeline invocation.
type ExecuteRequest struct {
	RepositoryID int64
	UserID       string
	Context      string
}

// ExecuteResult is the sole public contract the HTTP layer depends on.
type ExecuteResult struct {
	Success         bool            `json:"success"`
	ExecutionID     string          `json:"execution_id,omitempty"`
	TodoListID      int64           `json:"todo_list_id,omitempty"`
	TodosGenerated  int             `json:"todos_generated,omitempty"`
	Analysis        *model.Analysis `json:"analysis,omitempty"`
	ExecutionTimeMS int64           `json:"execution_time_ms"`
	Error           string          `json:"error,omitempty"`
}

// AgentService runs the todo-generation pipeline: a fixed ordered list of
// phases executed against a RunState, short-circuiting to a terminal error
// phase when any phase fails.
type AgentService struct {
	gh       driven.GitHubClient
	llm      driven.Completer
	repos    driven.RepoStore
	todos    driven.TodoStore
	execs    driven.ExecutionStore
	notifier driven.Notifier
	parser   TodoParser
	cache    *AnalysisCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewAgentService creates an AgentService with all required dependencies.
// notifier and cache may be nil; notification and analysis caching are then
// skipped.
func NewAgentService(
	gh driven.GitHubClient,
	llm driven.Completer,
	repos driven.RepoStore,
	todos driven.TodoStore,
	execs driven.ExecutionStore,
	notifier driven.Notifier,
	cache *AnalysisCache,
	logger *slog.Logger,
) *AgentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentService{
		gh:       gh,
		llm:      llm,
		repos:    repos,
		todos:    todos,
		execs:    execs,
		notifier: notifier,
		parser:   BracketParser{},
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

type phaseFunc func(ctx context.Context, st *RunState) error

type phaseStep struct {
	name model.Phase
	fn   phaseFunc
}

// phases returns the fixed, ordered phase list. The runner calls these
// strictly in declaration order.
func (s *AgentService) phases() []phaseStep {
	return []phaseStep{
		{model.PhaseStart, s.phaseStart},
		{model.PhaseFetchRepository, s.phaseFetchRepository},
		{model.PhaseAnalyzeCommits, s.phaseAnalyzeCommits},
		{model.PhaseAnalyzeCodeStructure, s.phaseAnalyzeCodeStructure},
		{model.PhaseCheckHealth, s.phaseCheckHealth},
		{model.PhaseGenerateTodos, s.phaseGenerateTodos},
		{model.PhasePrioritizeTodos, s.phasePrioritizeTodos},
		{model.PhaseSaveTodos, s.phaseSaveTodos},
		{model.PhaseComplete, s.phaseComplete},
	}
}

// Execute runs the full pipeline for one repository and returns exactly one
// of: a success result with the todo list populated, or a failure result with
// the error message set. It never returns a Go error; all failures are
// absorbed into the result.
func (s *AgentService) Execute(ctx context.Context, req ExecuteRequest) *ExecuteResult {
	start := s.now()
	st := NewRunState(req.RepositoryID, req.UserID, req.Context)

	st = s.run(ctx, st)

	result := &ExecuteResult{
		ExecutionID:     st.ExecutionID,
		ExecutionTimeMS: s.now().Sub(start).Milliseconds(),
	}

	if st.Err != nil {
		result.Error = st.Err.Message
		s.logger.Error("agent run failed",
			"repository_id", req.RepositoryID,
			"execution_id", st.ExecutionID,
			"phase", st.Err.Phase,
			"error", st.Err.Message,
		)
		return result
	}

	result.Success = true
	result.TodoListID = st.TodoListID
	result.TodosGenerated = len(st.Todos)
	analysis := st.Analysis
	result.Analysis = &analysis

	s.logger.Info("agent run completed",
		"repository_id", req.RepositoryID,
		"execution_id", st.ExecutionID,
		"todos_generated", len(st.Todos),
		"steps", st.StepCount,
		"duration_ms", result.ExecutionTimeMS,
	)

	return result
}

// run executes the phase list against the state. On any phase error it
// transitions directly to the terminal error phase; no retries occur.
func (s *AgentService) run(ctx context.Context, st *RunState) *RunState {
	for _, p := range s.phases() {
		st.Phase = p.name
		st.StepCount++

		if err := p.fn(ctx, st); err != nil {
			return s.fail(ctx, st, p.name, err)
		}

		s.recordStep(ctx, st)
	}
	return st
}

// fail is the terminal error phase: it records the failure into the
// execution's audit record with status failed and returns the state to the
// caller. The failing phase is never retried.
func (s *AgentService) fail(ctx context.Context, st *RunState, phase model.Phase, cause error) *RunState {
	st.Err = &RunError{Phase: phase, Message: cause.Error()}
	st.Phase = model.PhaseError
	st.StepCount++
	s.recordStep(ctx, st)

	if st.ExecutionID != "" {
		if err := s.execs.Finish(ctx, st.ExecutionID, model.ExecutionFailed, st.Err.Message, st.StepCount, len(st.Todos)); err != nil {
			s.logger.Error("failed to record failed execution", "execution_id", st.ExecutionID, "error", err)
		}
	}

	return st
}

// recordStep writes one lightweight audit row for the phase that just ran.
// Audit failures are logged and never abort the pipeline.
func (s *AgentService) recordStep(ctx context.Context, st *RunState) {
	if st.ExecutionID == "" {
		return
	}

	step := model.StepRecord{
		ExecutionID: st.ExecutionID,
		Seq:         st.StepCount,
		Phase:       st.Phase,
		Output:      s.stepOutput(st),
		RecordedAt:  s.now(),
	}

	if err := s.execs.InsertStep(ctx, step); err != nil {
		s.logger.Warn("audit step write failed",
			"execution_id", st.ExecutionID,
			"phase", st.Phase,
			"error", err,
		)
	}
}

// stepOutput builds the compact per-phase output snapshot stored with each
// audit row.
func (s *AgentService) stepOutput(st *RunState) json.RawMessage {
	out := map[string]any{}

	switch st.Phase {
	case model.PhaseFetchRepository:
		if st.Snapshot != nil {
			out["commits"] = len(st.Snapshot.Commits)
			out["pull_requests"] = len(st.Snapshot.PullRequests)
			out["issues"] = len(st.Snapshot.Issues)
			out["languages"] = len(st.Snapshot.Languages)
		}
	case model.PhaseAnalyzeCommits:
		out["activity_score"] = st.Analysis.ActivityScore
	case model.PhaseAnalyzeCodeStructure:
		if st.Analysis.Structure != nil {
			out["top_level_dirs"] = st.Analysis.Structure.TopLevelDirs
			out["has_tests"] = st.Analysis.Structure.HasTests
		}
	case model.PhaseCheckHealth:
		out["architecture_score"] = st.Analysis.ArchitectureScore
		out["production_ready"] = st.Analysis.IsProductionReady
	case model.PhaseGenerateTodos, model.PhasePrioritizeTodos:
		out["todos"] = len(st.Todos)
	case model.PhaseSaveTodos:
		out["todo_list_id"] = st.TodoListID
	case model.PhaseError:
		if st.Err != nil {
			out["failed_phase"] = st.Err.Phase
			out["error"] = st.Err.Message
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// newExecutionID returns a fresh opaque execution identifier.
func newExecutionID() string {
	return uuid.NewString()
}
