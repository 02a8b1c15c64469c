package application

import (
	"fmt"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// Fallback generation thresholds.
const (
	lowActivityThreshold      = 30
	weakArchitectureThreshold = 60
	maxFallbackTodos          = 3
)

// GenerateFallbackTodos deterministically synthesizes one to three todo items
// from the accumulated analysis. It is invoked when the LLM response yields no
// parseable items and guarantees the pipeline never completes with an empty
// todo list.
//
// Rules, in order:
//  1. A follow-up task for the most recent commit, classified by keyword
//     (fix/bug, then feature/add, then update/upgrade, then a generic
//     follow-up).
//  2. A development-activity task when the activity score is below 30.
//  3. A structure-and-tooling task when the architecture score is below 60.
//
// When no rule fires, exactly one generic code-review item is emitted.
func GenerateFallbackTodos(analysis model.Analysis) []model.TodoItem {
	var items []model.TodoItem

	if analysis.Commits != nil && len(analysis.Commits.RecentMessages) > 0 {
		items = append(items, commitFollowUpTodo(analysis.Commits.RecentMessages[0]))
	}

	if analysis.ActivityScore < lowActivityThreshold {
		items = append(items, model.TodoItem{
			Title:          "Increase development activity",
			Description:    "Commit frequency, PR throughput, and issue resolution are all low. Schedule regular maintenance work to keep the repository healthy.",
			Priority:       model.PriorityMedium,
			Category:       "maintenance",
			EstimatedHours: 4,
			Rationale:      fmt.Sprintf("Activity score is %.0f (below %d).", analysis.ActivityScore, lowActivityThreshold),
			Source:         model.SourceFallback,
		})
	}

	if analysis.ArchitectureScore < weakArchitectureThreshold {
		items = append(items, model.TodoItem{
			Title:          "Improve project structure and tooling",
			Description:    "Add the missing structural basics: README, automated tests, CI workflows, or a container build.",
			Priority:       model.PriorityHigh,
			Category:       "maintenance",
			EstimatedHours: 6,
			Rationale:      fmt.Sprintf("Architecture score is %d (below %d).", analysis.ArchitectureScore, weakArchitectureThreshold),
			Source:         model.SourceFallback,
		})
	}

	if len(items) == 0 {
		items = append(items, model.TodoItem{
			Title:          "Code review and quality improvements",
			Description:    "Review recent changes for correctness, readability, and test coverage.",
			Priority:       model.PriorityMedium,
			Category:       "maintenance",
			EstimatedHours: 2,
			Rationale:      "No specific signals were found in the repository analysis.",
			Source:         model.SourceFallback,
		})
	}

	if len(items) > maxFallbackTodos {
		items = items[:maxFallbackTodos]
	}

	return items
}

// commitFollowUpTodo builds a follow-up task for the most recent commit
// message, using the same keyword priority order as the commit classifier.
func commitFollowUpTodo(message string) model.TodoItem {
	switch classifyCommitMessage(message) {
	case commitKindFix:
		return model.TodoItem{
			Title:          "Add regression tests for recent bugfix",
			Description:    fmt.Sprintf("The most recent commit (%q) is a bugfix. Add tests covering the fixed behavior so it cannot regress.", message),
			Priority:       model.PriorityHigh,
			Category:       "testing",
			EstimatedHours: 3,
			Rationale:      "Bugfix commits without accompanying regression tests tend to resurface.",
			Source:         model.SourceFallback,
		}
	case commitKindFeature:
		return model.TodoItem{
			Title:          "Document and test the new feature",
			Description:    fmt.Sprintf("The most recent commit (%q) adds functionality. Cover it with tests and user-facing documentation.", message),
			Priority:       model.PriorityMedium,
			Category:       "testing",
			EstimatedHours: 3,
			Rationale:      "New features need test and documentation coverage before they harden.",
			Source:         model.SourceFallback,
		}
	case commitKindUpdate:
		return model.TodoItem{
			Title:          "Verify the recent dependency or tooling update",
			Description:    fmt.Sprintf("The most recent commit (%q) updates existing code or dependencies. Verify nothing downstream broke.", message),
			Priority:       model.PriorityMedium,
			Category:       "maintenance",
			EstimatedHours: 2,
			Rationale:      "Updates can silently change behavior in dependent code paths.",
			Source:         model.SourceFallback,
		}
	default:
		return model.TodoItem{
			Title:          "Review the most recent change",
			Description:    fmt.Sprintf("Review the most recent commit (%q) for correctness and follow-up work.", message),
			Priority:       model.PriorityMedium,
			Category:       "maintenance",
			EstimatedHours: 1,
			Rationale:      "The latest commit did not match a known change pattern.",
			Source:         model.SourceFallback,
		}
	}
}
