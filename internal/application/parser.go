package application

import (
	"encoding/json"
	"strings"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// TodoParser extracts todo items from free-text LLM output. Implementations
// never fail: unparseable input yields an empty slice and the caller falls
// back to deterministic generation.
type TodoParser interface {
	Parse(text string) []model.TodoItem
}

// BracketParser is the default extraction strategy: it takes the substring
// from the first '[' to the last ']' in the response and parses it as a JSON
// array; if that fails it parses the entire response; if both fail it returns
// an empty slice.
type BracketParser struct{}

var _ TodoParser = BracketParser{}

// todoPayload mirrors the JSON shape the prompt asks the model for.
type todoPayload struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       string  `json:"priority"`
	Category       string  `json:"category"`
	EstimatedHours float64 `json:"estimated_hours"`
	Rationale      string  `json:"rationale"`
}

// Parse implements TodoParser.
func (BracketParser) Parse(text string) []model.TodoItem {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")

	if start >= 0 && end > start {
		if items, ok := parseTodoArray(text[start : end+1]); ok {
			return items
		}
	}

	if items, ok := parseTodoArray(text); ok {
		return items
	}

	return []model.TodoItem{}
}

func parseTodoArray(raw string) ([]model.TodoItem, bool) {
	var payloads []todoPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, false
	}

	items := make([]model.TodoItem, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}

		priority := model.TodoPriority(strings.ToLower(strings.TrimSpace(p.Priority)))
		if !model.ValidPriority(priority) {
			priority = model.PriorityMedium
		}

		hours := p.EstimatedHours
		if hours < 0 {
			hours = 0
		}

		items = append(items, model.TodoItem{
			Title:          p.Title,
			Description:    p.Description,
			Priority:       priority,
			Category:       p.Category,
			EstimatedHours: hours,
			Rationale:      p.Rationale,
			Source:         model.SourceLLM,
		})
	}

	return items, true
}
