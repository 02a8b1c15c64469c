// Package httphandler is the HTTP driving adapter that serves the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agentboard/agentboard/internal/application"
	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	gh     driven.GitHubClient
	repos  driven.RepoStore
	todos  driven.TodoStore
	execs  driven.ExecutionStore
	agent  *application.AgentService
	cache  *application.AnalysisCache
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	gh driven.GitHubClient,
	repos driven.RepoStore,
	todos driven.TodoStore,
	execs driven.ExecutionStore,
	agent *application.AgentService,
	cache *application.AnalysisCache,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		gh:     gh,
		repos:  repos,
		todos:  todos,
		execs:  execs,
		agent:  agent,
		cache:  cache,
		logger: logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("POST /api/v1/repos", h.ImportRepo)
	mux.HandleFunc("DELETE /api/v1/repos/{owner}/{repo}", h.RemoveRepo)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/analyze", h.Analyze)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/todos", h.LatestTodos)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/analysis", h.LatestAnalysis)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/recap", h.Recap)
	mux.HandleFunc("GET /api/v1/executions/{id}", h.GetExecution)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRepos returns all imported repositories.
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repos.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list repos", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RepoResponse, 0, len(repos))
	for _, repo := range repos {
		resp = append(resp, toRepoResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ImportRepo validates a repository against the GitHub API and stores it.
func (h *Handler) ImportRepo(w http.ResponseWriter, r *http.Request) {
	var req AddRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !isValidRepoName(req.FullName) {
		writeError(w, http.StatusBadRequest, "invalid repository name: expected owner/repo format")
		return
	}

	info, err := h.gh.FetchRepository(r.Context(), req.FullName)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) {
			writeError(w, http.StatusNotFound, "repository not found on GitHub")
			return
		}
		h.logger.Error("failed to validate repo against github", "repo", req.FullName, "error", err)
		writeError(w, http.StatusBadGateway, "could not reach GitHub")
		return
	}

	repo := model.Repository{
		FullName:      info.FullName,
		Owner:         info.Owner,
		Name:          info.Name,
		DefaultBranch: info.DefaultBranch,
		Description:   info.Description,
		AddedAt:       time.Now().UTC(),
	}

	id, err := h.repos.Add(r.Context(), repo)
	if err != nil {
		if errors.Is(err, driven.ErrRepoAlreadyExists) {
			writeError(w, http.StatusConflict, "repository already exists")
			return
		}
		h.logger.Error("failed to add repo", "repo", req.FullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	repo.ID = id

	writeJSON(w, http.StatusCreated, toRepoResponse(repo))
}

// RemoveRepo removes a repository and all data derived from it.
func (h *Handler) RemoveRepo(w http.ResponseWriter, r *http.Request) {
	fullName := pathRepo(r)

	if err := h.repos.Remove(r.Context(), fullName); err != nil {
		if errors.Is(err, driven.ErrRepoNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.logger.Error("failed to remove repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Analyze runs the agent pipeline synchronously for a repository and returns
// the run result. Pipeline failures surface as a 200 response with success
// false and the error message; the execution audit trail records the detail.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	fullName := pathRepo(r)

	repo, err := h.repos.GetByFullName(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to get repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	var req AnalyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	h.logger.Info("analysis requested",
		"request_id", requestID(r.Context()),
		"repo", fullName,
		"user_id", req.UserID,
	)

	result := h.agent.Execute(r.Context(), application.ExecuteRequest{
		RepositoryID: repo.ID,
		UserID:       req.UserID,
		Context:      req.Context,
	})

	writeJSON(w, http.StatusOK, result)
}

// LatestTodos returns the most recently generated todo list for a repository.
func (h *Handler) LatestTodos(w http.ResponseWriter, r *http.Request) {
	fullName := pathRepo(r)

	repo, err := h.repos.GetByFullName(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to get repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	list, err := h.todos.GetLatestByRepository(r.Context(), repo.ID)
	if err != nil {
		h.logger.Error("failed to get latest todos", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "no todo list generated yet")
		return
	}

	writeJSON(w, http.StatusOK, toTodoListResponse(*list))
}

// LatestAnalysis returns the cached analysis of the last completed run.
func (h *Handler) LatestAnalysis(w http.ResponseWriter, r *http.Request) {
	fullName := pathRepo(r)

	if h.cache == nil {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}

	analysis, ok := h.cache.Get(fullName)
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// Recap returns a summary of the last completed run, combining the cached
// analysis with the latest stored todo list.
func (h *Handler) Recap(w http.ResponseWriter, r *http.Request) {
	fullName := pathRepo(r)

	if h.cache == nil {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}

	analysis, ok := h.cache.Get(fullName)
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}

	repo, err := h.repos.GetByFullName(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to get repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	var items []model.TodoItem
	list, err := h.todos.GetLatestByRepository(r.Context(), repo.ID)
	if err != nil {
		h.logger.Error("failed to get latest todos", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if list != nil {
		items = list.Items
	}

	recap := application.BuildRecap(fullName, analysis, items)
	writeJSON(w, http.StatusOK, toRecapResponse(recap))
}

// GetExecution returns one pipeline execution with its audit steps.
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	exec, err := h.execs.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get execution", "execution_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if exec == nil {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}

	steps, err := h.execs.ListSteps(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list execution steps", "execution_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toExecutionResponse(*exec, steps))
}

// pathRepo joins the owner and repo path segments into a full name.
func pathRepo(r *http.Request) string {
	return r.PathValue("owner") + "/" + r.PathValue("repo")
}

// isValidRepoName validates that name is in owner/repo format where each part
// contains only alphanumeric characters, hyphens, dots, or underscores.
func isValidRepoName(name string) bool {
	parts := strings.SplitN(name, "/", 3)
	if len(parts) != 2 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, ch := range part {
			if !isValidRepoChar(ch) {
				return false
			}
		}
	}

	return true
}

// isValidRepoChar returns true if the rune is allowed in a repository owner or name.
func isValidRepoChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
