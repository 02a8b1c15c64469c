package model

// Recap is a human-readable summary of a completed pipeline run, used for
// Slack notifications and the recap API endpoint.
type Recap struct {
	RepoFullName      string
	TodoCount         int
	ActivityScore     float64
	ArchitectureScore int
	ProductionReady   bool
	TopTodos          []TodoItem
	Markdown          string
}
