package application

import (
	"fmt"
	"strings"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// maxRecapTodos bounds how many items a recap lists.
const maxRecapTodos = 3

// BuildRecap summarizes a run's analysis and todo list as a markdown recap
// for Slack notification and the recap endpoint.
func BuildRecap(repoFullName string, analysis model.Analysis, todos []model.TodoItem) model.Recap {
	top := todos
	if len(top) > maxRecapTodos {
		top = top[:maxRecapTodos]
	}

	recap := model.Recap{
		RepoFullName:      repoFullName,
		TodoCount:         len(todos),
		ActivityScore:     analysis.ActivityScore,
		ArchitectureScore: analysis.ArchitectureScore,
		ProductionReady:   analysis.IsProductionReady,
		TopTodos:          top,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Agent run recap: %s\n\n", repoFullName)
	fmt.Fprintf(&b, "- Activity score: **%.0f**/100\n", analysis.ActivityScore)
	fmt.Fprintf(&b, "- Architecture score: **%d**/100\n", analysis.ArchitectureScore)
	fmt.Fprintf(&b, "- Production ready: **%v**\n", analysis.IsProductionReady)
	fmt.Fprintf(&b, "- Todos generated: **%d**\n", len(todos))

	if len(top) > 0 {
		b.WriteString("\n### Top todos\n\n")
		for i, item := range top {
			fmt.Fprintf(&b, "%d. **%s** (%s, %s, ~%.0fh)\n", i+1, item.Title, item.Priority, item.Category, item.EstimatedHours)
		}
	}

	recap.Markdown = b.String()
	return recap
}
