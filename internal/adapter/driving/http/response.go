package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RepoResponse is the JSON representation of an imported repository.
type RepoResponse struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	Description   string `json:"description"`
	AddedAt       string `json:"added_at"`
}

// TodoItemResponse is the JSON representation of one stored todo item.
type TodoItemResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       string  `json:"priority"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	EstimatedHours float64 `json:"estimated_hours"`
	Rationale      string  `json:"rationale"`
	Source         string  `json:"source"`
	ImpactScore    int     `json:"impact_score"`
	UrgencyScore   int     `json:"urgency_score"`
}

// TodoListResponse is the JSON representation of a stored todo list.
type TodoListResponse struct {
	ID           int64              `json:"id"`
	RepositoryID int64              `json:"repository_id"`
	UserID       string             `json:"user_id"`
	Title        string             `json:"title"`
	CreatedAt    string             `json:"created_at"`
	Items        []TodoItemResponse `json:"items"`
}

// ExecutionResponse is the JSON representation of a pipeline execution with
// its audit steps.
type ExecutionResponse struct {
	ID             string         `json:"id"`
	RepositoryID   int64          `json:"repository_id"`
	UserID         string         `json:"user_id"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
	StepCount      int            `json:"step_count"`
	TodosGenerated int            `json:"todos_generated"`
	StartedAt      string         `json:"started_at"`
	FinishedAt     string         `json:"finished_at,omitempty"`
	Steps          []StepResponse `json:"steps"`
}

// StepResponse is the JSON representation of one audit step.
type StepResponse struct {
	Seq        int             `json:"seq"`
	Phase      string          `json:"phase"`
	Output     json.RawMessage `json:"output"`
	RecordedAt string          `json:"recorded_at"`
}

// RecapResponse is the JSON representation of a run recap, with the markdown
// summary rendered to sanitized HTML.
type RecapResponse struct {
	Repository        string             `json:"repository"`
	TodoCount         int                `json:"todo_count"`
	ActivityScore     float64            `json:"activity_score"`
	ArchitectureScore int                `json:"architecture_score"`
	ProductionReady   bool               `json:"production_ready"`
	TopTodos          []TodoItemResponse `json:"top_todos"`
	Markdown          string             `json:"markdown"`
	HTML              string             `json:"html"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// AddRepoRequest is the JSON body for the import repository endpoint.
type AddRepoRequest struct {
	FullName string `json:"full_name"`
}

// AnalyzeRequest is the JSON body for the analyze endpoint. Both fields are
// optional.
type AnalyzeRequest struct {
	UserID  string `json:"user_id"`
	Context string `json:"context"`
}

// toRepoResponse converts a domain Repository to its JSON response representation.
func toRepoResponse(repo model.Repository) RepoResponse {
	return RepoResponse{
		ID:            repo.ID,
		FullName:      repo.FullName,
		Owner:         repo.Owner,
		Name:          repo.Name,
		DefaultBranch: repo.DefaultBranch,
		Description:   repo.Description,
		AddedAt:       repo.AddedAt.UTC().Format(time.RFC3339),
	}
}

// toTodoItemResponse converts a domain TodoItem to its JSON representation.
func toTodoItemResponse(item model.TodoItem) TodoItemResponse {
	return TodoItemResponse{
		ID:             item.ID,
		Title:          item.Title,
		Description:    item.Description,
		Priority:       string(item.Priority),
		Category:       item.Category,
		Status:         string(item.Status),
		EstimatedHours: item.EstimatedHours,
		Rationale:      item.Rationale,
		Source:         string(item.Source),
		ImpactScore:    item.ImpactScore,
		UrgencyScore:   item.UrgencyScore,
	}
}

// toTodoListResponse converts a domain TodoList to its JSON representation.
func toTodoListResponse(list model.TodoList) TodoListResponse {
	items := make([]TodoItemResponse, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, toTodoItemResponse(item))
	}

	return TodoListResponse{
		ID:           list.ID,
		RepositoryID: list.RepositoryID,
		UserID:       list.UserID,
		Title:        list.Title,
		CreatedAt:    list.CreatedAt.UTC().Format(time.RFC3339),
		Items:        items,
	}
}

// toExecutionResponse converts a domain Execution and its steps to their JSON
// representation.
func toExecutionResponse(exec model.Execution, steps []model.StepRecord) ExecutionResponse {
	resp := ExecutionResponse{
		ID:             exec.ID,
		RepositoryID:   exec.RepositoryID,
		UserID:         exec.UserID,
		Status:         string(exec.Status),
		Error:          exec.Error,
		StepCount:      exec.StepCount,
		TodosGenerated: exec.TodosGenerated,
		StartedAt:      exec.StartedAt.UTC().Format(time.RFC3339),
		Steps:          make([]StepResponse, 0, len(steps)),
	}

	if !exec.FinishedAt.IsZero() {
		resp.FinishedAt = exec.FinishedAt.UTC().Format(time.RFC3339)
	}

	for _, step := range steps {
		output := step.Output
		if len(output) == 0 {
			output = json.RawMessage(`{}`)
		}
		resp.Steps = append(resp.Steps, StepResponse{
			Seq:        step.Seq,
			Phase:      string(step.Phase),
			Output:     output,
			RecordedAt: step.RecordedAt.UTC().Format(time.RFC3339),
		})
	}

	return resp
}

// toRecapResponse converts a domain Recap to its JSON representation,
// rendering the markdown summary to sanitized HTML.
func toRecapResponse(recap model.Recap) RecapResponse {
	top := make([]TodoItemResponse, 0, len(recap.TopTodos))
	for _, item := range recap.TopTodos {
		top = append(top, toTodoItemResponse(item))
	}

	return RecapResponse{
		Repository:        recap.RepoFullName,
		TodoCount:         recap.TodoCount,
		ActivityScore:     recap.ActivityScore,
		ArchitectureScore: recap.ArchitectureScore,
		ProductionReady:   recap.ProductionReady,
		TopTodos:          top,
		Markdown:          recap.Markdown,
		HTML:              renderMarkdown(recap.Markdown),
	}
}
