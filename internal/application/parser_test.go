package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/domain/model"
)

func TestBracketParser_PlainArray(t *testing.T) {
	items := BracketParser{}.Parse(`[
		{"title": "Add tests", "description": "Cover the parser", "priority": "high",
		 "category": "testing", "estimated_hours": 3, "rationale": "No coverage"}
	]`)

	require.Len(t, items, 1)
	assert.Equal(t, "Add tests", items[0].Title)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
	assert.Equal(t, "testing", items[0].Category)
	assert.InDelta(t, 3, items[0].EstimatedHours, 1e-9)
	assert.Equal(t, model.SourceLLM, items[0].Source)
}

func TestBracketParser_ArrayEmbeddedInProse(t *testing.T) {
	text := "Sure, here are the tasks you asked for:\n\n```json\n" +
		`[{"title": "Harden CI", "priority": "medium", "category": "maintenance"}]` +
		"\n```\n\nLet me know if you need more detail."

	items := BracketParser{}.Parse(text)

	require.Len(t, items, 1)
	assert.Equal(t, "Harden CI", items[0].Title)
}

func TestBracketParser_RefusalYieldsEmpty(t *testing.T) {
	items := BracketParser{}.Parse("I cannot help with that.")

	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBracketParser_MalformedJSONYieldsEmpty(t *testing.T) {
	items := BracketParser{}.Parse(`[{"title": "broken"`)

	assert.Empty(t, items)
}

func TestBracketParser_SkipsEmptyTitles(t *testing.T) {
	items := BracketParser{}.Parse(`[
		{"title": "  ", "priority": "high"},
		{"title": "Real task", "priority": "low"}
	]`)

	require.Len(t, items, 1)
	assert.Equal(t, "Real task", items[0].Title)
}

func TestBracketParser_DefaultsInvalidPriority(t *testing.T) {
	items := BracketParser{}.Parse(`[
		{"title": "a", "priority": "CRITICAL"},
		{"title": "b", "priority": "High"},
		{"title": "c"}
	]`)

	require.Len(t, items, 3)
	assert.Equal(t, model.PriorityMedium, items[0].Priority)
	assert.Equal(t, model.PriorityHigh, items[1].Priority)
	assert.Equal(t, model.PriorityMedium, items[2].Priority)
}

func TestBracketParser_ClampsNegativeHours(t *testing.T) {
	items := BracketParser{}.Parse(`[{"title": "a", "estimated_hours": -2}]`)

	require.Len(t, items, 1)
	assert.Zero(t, items[0].EstimatedHours)
}

func TestBracketParser_BracketsInsideStrings(t *testing.T) {
	text := `[{"title": "uses ] inside", "description": "tricky [ brackets ]"}]`

	items := BracketParser{}.Parse(text)

	require.Len(t, items, 1)
	assert.Equal(t, "uses ] inside", items[0].Title)
}
