package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/domain/model"
)

func TestComputeImpactScore(t *testing.T) {
	cases := []struct {
		name     string
		priority model.TodoPriority
		category string
		want     int
	}{
		{"urgent security caps at 10", model.PriorityUrgent, "security", 10},
		{"high security", model.PriorityHigh, "security", 10},
		{"high performance", model.PriorityHigh, "performance", 10},
		{"medium maintenance", model.PriorityMedium, "maintenance", 8},
		{"low no category", model.PriorityLow, "", 6},
		{"medium unknown category", model.PriorityMedium, "documentation", 7},
		{"category is case insensitive", model.PriorityLow, "  Security ", 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeImpactScore(model.TodoItem{Priority: tc.priority, Category: tc.category})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeUrgencyScore(t *testing.T) {
	prodReady := model.Analysis{IsProductionReady: true, ActivityScore: 80, ArchitectureScore: 90}
	quiet := model.Analysis{ActivityScore: 30, ArchitectureScore: 40}

	assert.Equal(t, 7, ComputeUrgencyScore(model.TodoItem{Category: "security"}, prodReady))
	assert.Equal(t, 3, ComputeUrgencyScore(model.TodoItem{Category: "security"}, model.Analysis{ActivityScore: 80, ArchitectureScore: 90}))
	// Quiet repo maintenance item: 3 + 2 (low activity) + 1 (weak architecture).
	assert.Equal(t, 6, ComputeUrgencyScore(model.TodoItem{Category: "maintenance"}, quiet))
	assert.Equal(t, 4, ComputeUrgencyScore(model.TodoItem{Category: "testing"}, quiet))
}

func TestPrioritizeTodos_OrdersByCombinedScore(t *testing.T) {
	analysis := model.Analysis{IsProductionReady: true, ActivityScore: 80, ArchitectureScore: 90}

	items := []model.TodoItem{
		{Title: "docs", Priority: model.PriorityLow, Category: "documentation"},
		{Title: "patch CVE", Priority: model.PriorityUrgent, Category: "security"},
		{Title: "speed up queries", Priority: model.PriorityMedium, Category: "performance"},
	}

	ordered := PrioritizeTodos(items, analysis)

	require.Len(t, ordered, 3)
	assert.Equal(t, "patch CVE", ordered[0].Title)
	assert.Equal(t, "speed up queries", ordered[1].Title)
	assert.Equal(t, "docs", ordered[2].Title)

	for _, item := range ordered {
		assert.Positive(t, item.ImpactScore)
		assert.Positive(t, item.UrgencyScore)
	}
}

func TestPrioritizeTodos_StableForTies(t *testing.T) {
	analysis := model.Analysis{ActivityScore: 80, ArchitectureScore: 90}

	items := []model.TodoItem{
		{Title: "first", Priority: model.PriorityMedium, Category: "testing"},
		{Title: "second", Priority: model.PriorityMedium, Category: "testing"},
		{Title: "third", Priority: model.PriorityMedium, Category: "testing"},
	}

	ordered := PrioritizeTodos(items, analysis)

	assert.Equal(t, "first", ordered[0].Title)
	assert.Equal(t, "second", ordered[1].Title)
	assert.Equal(t, "third", ordered[2].Title)
}

func TestPrioritizeTodos_DoesNotMutateInput(t *testing.T) {
	items := []model.TodoItem{{Title: "a", Priority: model.PriorityLow}}

	_ = PrioritizeTodos(items, model.Analysis{})

	assert.Zero(t, items[0].ImpactScore)
	assert.Zero(t, items[0].UrgencyScore)
}
