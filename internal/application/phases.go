package application

import (
	"context"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Fetch limits: last 30 days of commits, up to 50 pull requests and issues,
// most recently updated first.
const (
	fetchPRLimit    = 50
	fetchIssueLimit = 50
)

// phaseStart creates the execution audit record and assigns the opaque
// execution identifier referenced by every subsequent audit write.
func (s *AgentService) phaseStart(ctx context.Context, st *RunState) error {
	st.ExecutionID = newExecutionID()

	exec := model.Execution{
		ID:           st.ExecutionID,
		RepositoryID: st.RepositoryID,
		UserID:       st.UserID,
		Status:       model.ExecutionRunning,
		StartedAt:    s.now(),
	}

	if err := s.execs.Insert(ctx, exec); err != nil {
		return fmt.Errorf("create execution record: %w", err)
	}

	return nil
}

// phaseFetchRepository resolves the repository and takes the full GitHub
// snapshot: metadata, 30 days of commits, recent PRs and issues, languages,
// root listing, health-file probes, CI and deployment status. The snapshot is
// set once and read-only afterwards.
func (s *AgentService) phaseFetchRepository(ctx context.Context, st *RunState) error {
	repo, err := s.repos.GetByID(ctx, st.RepositoryID)
	if err != nil {
		return fmt.Errorf("load repository %d: %w", st.RepositoryID, err)
	}
	if repo == nil {
		return fmt.Errorf("repository %d is not imported", st.RepositoryID)
	}
	st.Repository = repo

	info, err := s.gh.FetchRepository(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("fetch repository %s: %w", repo.FullName, err)
	}

	since := s.now().Add(-30 * 24 * time.Hour)
	commits, err := s.gh.FetchCommits(ctx, repo.FullName, since)
	if err != nil {
		return fmt.Errorf("fetch commits for %s: %w", repo.FullName, err)
	}

	prs, err := s.gh.FetchPullRequests(ctx, repo.FullName, fetchPRLimit)
	if err != nil {
		return fmt.Errorf("fetch pull requests for %s: %w", repo.FullName, err)
	}

	issues, err := s.gh.FetchIssues(ctx, repo.FullName, fetchIssueLimit)
	if err != nil {
		return fmt.Errorf("fetch issues for %s: %w", repo.FullName, err)
	}

	languages, err := s.gh.FetchLanguages(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("fetch languages for %s: %w", repo.FullName, err)
	}

	rootEntries, err := s.gh.FetchRootContents(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("fetch root contents for %s: %w", repo.FullName, err)
	}

	healthFiles, err := s.gh.FetchHealthFiles(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("probe health files for %s: %w", repo.FullName, err)
	}

	ciStatus, err := s.gh.FetchCIStatus(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("fetch CI status for %s: %w", repo.FullName, err)
	}

	deployStatus, err := s.gh.FetchDeploymentStatus(ctx, repo.FullName)
	if err != nil {
		return fmt.Errorf("fetch deployment status for %s: %w", repo.FullName, err)
	}

	st.Snapshot = &model.RepositorySnapshot{
		Info:             *info,
		Commits:          commits,
		PullRequests:     prs,
		Issues:           issues,
		Languages:        languages,
		RootEntries:      rootEntries,
		HealthFiles:      healthFiles,
		CIStatus:         ciStatus,
		DeploymentStatus: deployStatus,
	}

	return nil
}

// phaseAnalyzeCommits reduces commits, pull requests, and issues into their
// summaries and computes the activity score.
func (s *AgentService) phaseAnalyzeCommits(_ context.Context, st *RunState) error {
	commits := AnalyzeCommits(st.Snapshot.Commits)
	prs := AnalyzePullRequests(st.Snapshot.PullRequests)
	issues := AnalyzeIssues(st.Snapshot.Issues)

	st.Analysis.Commits = &commits
	st.Analysis.PullRequests = &prs
	st.Analysis.Issues = &issues
	st.Analysis.ActivityScore = ComputeActivityScore(commits, prs, issues)

	return nil
}

// phaseAnalyzeCodeStructure reduces the root listing and language mix into
// the structure summary.
func (s *AgentService) phaseAnalyzeCodeStructure(_ context.Context, st *RunState) error {
	structure := AnalyzeStructure(st.Snapshot.RootEntries, st.Snapshot.Languages)
	st.Analysis.Structure = &structure
	return nil
}

// phaseCheckHealth evaluates health files, dependency posture, CI and
// deployment state, then derives the architecture score and
// production-readiness verdict.
func (s *AgentService) phaseCheckHealth(_ context.Context, st *RunState) error {
	healthFiles := AnalyzeHealthFiles(st.Snapshot.HealthFiles)
	dependencies := AnalyzeDependencies(st.Snapshot.HealthFiles)
	health := model.HealthAnalysis{
		CIStatus:         st.Snapshot.CIStatus,
		DeploymentStatus: st.Snapshot.DeploymentStatus,
	}

	st.Analysis.HealthFiles = &healthFiles
	st.Analysis.Dependencies = &dependencies
	st.Analysis.Health = &health
	st.Analysis.ArchitectureScore = ComputeArchitectureScore(*st.Analysis.Structure, healthFiles)
	st.Analysis.IsProductionReady = ComputeProductionReadiness(st.Analysis.ActivityScore, st.Analysis.ArchitectureScore, health)

	return nil
}

// phaseGenerateTodos asks the LLM for todo items and parses its free-text
// response. An invocation failure is fatal to the run; an unparseable
// response is recovered locally through deterministic fallback generation.
// These are distinct failure modes and must not be conflated.
func (s *AgentService) phaseGenerateTodos(ctx context.Context, st *RunState) error {
	req := completionRequest(st)

	resp, err := s.llm.Complete(ctx, req)
	if err != nil {
		return fmt.Errorf("llm completion: %w", err)
	}

	items := s.parser.Parse(resp.Text)
	if len(items) == 0 {
		s.logger.Warn("llm response yielded no parseable todos, using fallback",
			"execution_id", st.ExecutionID,
			"model", resp.Model,
		)
		items = GenerateFallbackTodos(st.Analysis)
	}

	st.Todos = items
	return nil
}

// phasePrioritizeTodos scores every item and replaces the todo slice with
// the prioritized ordering.
func (s *AgentService) phasePrioritizeTodos(_ context.Context, st *RunState) error {
	st.Todos = PrioritizeTodos(st.Todos, st.Analysis)
	return nil
}

// phaseSaveTodos persists the todo list and its items. List creation and item
// insertion are separate writes; an item failure surfaces as a phase error
// and the list row is not rolled back.
func (s *AgentService) phaseSaveTodos(ctx context.Context, st *RunState) error {
	list := model.TodoList{
		RepositoryID: st.RepositoryID,
		UserID:       st.UserID,
		Title:        fmt.Sprintf("Generated todos for %s", st.Repository.FullName),
		CreatedAt:    s.now(),
	}

	listID, err := s.todos.CreateList(ctx, list)
	if err != nil {
		return fmt.Errorf("create todo list: %w", err)
	}
	st.TodoListID = listID

	if err := s.todos.InsertItems(ctx, listID, st.Todos); err != nil {
		return fmt.Errorf("insert todo items: %w", err)
	}

	return nil
}

// phaseComplete records the terminal completed status with summary counts,
// caches the analysis for the dashboard, and posts the recap notification.
// Notification failures are logged, never fatal.
func (s *AgentService) phaseComplete(ctx context.Context, st *RunState) error {
	if err := s.execs.Finish(ctx, st.ExecutionID, model.ExecutionCompleted, "", st.StepCount, len(st.Todos)); err != nil {
		return fmt.Errorf("record completed execution: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(st.Repository.FullName, st.Analysis)
	}

	if s.notifier != nil {
		recap := BuildRecap(st.Repository.FullName, st.Analysis, st.Todos)
		if err := s.notifier.Notify(ctx, recap); err != nil {
			s.logger.Warn("recap notification failed",
				"repo", st.Repository.FullName,
				"execution_id", st.ExecutionID,
				"error", err,
			)
		}
	}

	return nil
}

func completionRequest(st *RunState) driven.CompletionRequest {
	return driven.CompletionRequest{
		System: systemPrompt,
		Prompt: BuildTodoPrompt(st.Repository.FullName, st.Analysis, st.UserContext),
	}
}
