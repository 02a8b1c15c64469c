package model

import "time"

// TodoPriority represents the priority of a generated todo item.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
	PriorityUrgent TodoPriority = "urgent"
)

// ValidPriority reports whether p is one of the four known priorities.
func ValidPriority(p TodoPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TodoSource records where a todo item came from.
type TodoSource string

const (
	SourceLLM      TodoSource = "llm"
	SourceFallback TodoSource = "fallback"
)

// TodoStatus represents the workflow state of a stored todo item.
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusDone       TodoStatus = "done"
)

// TodoItem is one actionable task produced by the agent pipeline.
type TodoItem struct {
	ID             int64        `json:"id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Priority       TodoPriority `json:"priority"`
	Category       string       `json:"category"`
	Status         TodoStatus   `json:"status,omitempty"`
	EstimatedHours float64      `json:"estimated_hours"`
	Rationale      string       `json:"rationale"`
	Source         TodoSource   `json:"source"`
	ImpactScore    int          `json:"impact_score"`
	UrgencyScore   int          `json:"urgency_score"`
}

// TodoList groups the todo items produced by one pipeline run.
type TodoList struct {
	ID           int64
	RepositoryID int64
	UserID       string
	Title        string
	CreatedAt    time.Time
	Items        []TodoItem
}
