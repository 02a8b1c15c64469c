package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// systemPrompt is the fixed persona for todo generation.
const systemPrompt = `You are a senior software engineer reviewing a repository health report.
You produce concrete, actionable engineering tasks. You respond with a JSON
array only, no surrounding prose.`

// BuildTodoPrompt composes the task prompt for the generation phase,
// embedding the accumulated analysis as serialized JSON.
func BuildTodoPrompt(repoFullName string, analysis model.Analysis, userContext string) string {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		// Analysis is a plain value type; marshaling cannot realistically
		// fail, but the prompt must still be usable if it ever does.
		analysisJSON = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n\n", repoFullName)
	b.WriteString("Here is the automated health analysis of the repository:\n\n")
	b.Write(analysisJSON)
	b.WriteString("\n\n")

	if userContext != "" {
		fmt.Fprintf(&b, "Additional context from the user: %s\n\n", userContext)
	}

	b.WriteString(`Generate 3 to 7 prioritized engineering tasks for this repository.
Respond with a JSON array of objects with exactly these fields:
"title", "description", "priority" (one of "low", "medium", "high", "urgent"),
"category" (for example "security", "performance", "maintenance", "testing",
"documentation"), "estimated_hours" (a number), and "rationale".`)

	return b.String()
}
