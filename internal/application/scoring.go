package application

import (
	"sort"
	"strings"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// ComputeImpactScore derives a 0-10 impact score for a todo item:
// 5 base, plus a priority bonus (urgent +4, high +3, medium +2, low +1)
// and a category bonus (security +3, performance +2, maintenance +1).
func ComputeImpactScore(item model.TodoItem) int {
	score := 5

	switch item.Priority {
	case model.PriorityUrgent:
		score += 4
	case model.PriorityHigh:
		score += 3
	case model.PriorityMedium:
		score += 2
	case model.PriorityLow:
		score += 1
	}

	switch normalizeCategory(item.Category) {
	case "security":
		score += 3
	case "performance":
		score += 2
	case "maintenance":
		score += 1
	}

	if score > 10 {
		score = 10
	}
	return score
}

// ComputeUrgencyScore derives a 0-10 urgency score for a todo item:
// 3 base, +4 for security items on production-ready repositories,
// +2 for maintenance items when activity is low, +1 when architecture is weak.
func ComputeUrgencyScore(item model.TodoItem, analysis model.Analysis) int {
	score := 3
	category := normalizeCategory(item.Category)

	if analysis.IsProductionReady && category == "security" {
		score += 4
	}
	if analysis.ActivityScore < 50 && category == "maintenance" {
		score += 2
	}
	if analysis.ArchitectureScore < 60 {
		score++
	}

	if score > 10 {
		score = 10
	}
	return score
}

// PrioritizeTodos scores every item and returns a new slice ordered by
// combined impact and urgency, highest first. Ties keep their original
// relative order.
func PrioritizeTodos(items []model.TodoItem, analysis model.Analysis) []model.TodoItem {
	scored := make([]model.TodoItem, len(items))
	copy(scored, items)

	for i := range scored {
		scored[i].ImpactScore = ComputeImpactScore(scored[i])
		scored[i].UrgencyScore = ComputeUrgencyScore(scored[i], analysis)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ImpactScore+scored[i].UrgencyScore >
			scored[j].ImpactScore+scored[j].UrgencyScore
	})

	return scored
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
