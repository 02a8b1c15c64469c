package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/domain/model"
)

func analysisWithRecentCommit(message string) model.Analysis {
	return model.Analysis{
		Commits:           &model.CommitAnalysis{RecentMessages: []string{message}},
		ActivityScore:     80,
		ArchitectureScore: 90,
	}
}

func TestGenerateFallbackTodos_BugfixCommit(t *testing.T) {
	items := GenerateFallbackTodos(analysisWithRecentCommit("fix: null pointer in parser"))

	require.Len(t, items, 1)
	assert.Equal(t, "Add regression tests for recent bugfix", items[0].Title)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
	assert.Equal(t, "testing", items[0].Category)
	assert.Equal(t, model.SourceFallback, items[0].Source)
	assert.Contains(t, items[0].Description, "fix: null pointer in parser")
}

func TestGenerateFallbackTodos_FeatureCommit(t *testing.T) {
	items := GenerateFallbackTodos(analysisWithRecentCommit("add dark mode toggle"))

	require.Len(t, items, 1)
	assert.Equal(t, "Document and test the new feature", items[0].Title)
	assert.Equal(t, model.PriorityMedium, items[0].Priority)
}

func TestGenerateFallbackTodos_UpdateCommit(t *testing.T) {
	items := GenerateFallbackTodos(analysisWithRecentCommit("update deps to latest"))

	require.Len(t, items, 1)
	assert.Equal(t, "Verify the recent dependency or tooling update", items[0].Title)
	assert.Equal(t, "maintenance", items[0].Category)
}

func TestGenerateFallbackTodos_OtherCommit(t *testing.T) {
	items := GenerateFallbackTodos(analysisWithRecentCommit("refactor internals"))

	require.Len(t, items, 1)
	assert.Equal(t, "Review the most recent change", items[0].Title)
}

func TestGenerateFallbackTodos_LowActivityAndWeakArchitecture(t *testing.T) {
	analysis := model.Analysis{
		Commits:           &model.CommitAnalysis{RecentMessages: []string{"fix crash"}},
		ActivityScore:     10,
		ArchitectureScore: 20,
	}

	items := GenerateFallbackTodos(analysis)

	require.Len(t, items, 3)
	assert.Equal(t, "Add regression tests for recent bugfix", items[0].Title)
	assert.Equal(t, "Increase development activity", items[1].Title)
	assert.Equal(t, "Improve project structure and tooling", items[2].Title)
	for _, item := range items {
		assert.Equal(t, model.SourceFallback, item.Source)
	}
}

func TestGenerateFallbackTodos_NoSignalsYieldsGenericItem(t *testing.T) {
	analysis := model.Analysis{ActivityScore: 80, ArchitectureScore: 90}

	items := GenerateFallbackTodos(analysis)

	require.Len(t, items, 1)
	assert.Equal(t, "Code review and quality improvements", items[0].Title)
	assert.Equal(t, model.PriorityMedium, items[0].Priority)
}

func TestGenerateFallbackTodos_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, GenerateFallbackTodos(model.Analysis{ActivityScore: 100, ArchitectureScore: 100}))
	assert.NotEmpty(t, GenerateFallbackTodos(model.Analysis{}))
}
