package model

import "time"

// RepositoryInfo is the repository metadata returned by the GitHub API.
type RepositoryInfo struct {
	FullName      string
	Owner         string
	Name          string
	Description   string
	DefaultBranch string
	Homepage      string
	Stars         int
	Forks         int
	OpenIssues    int
	Topics        []string
	PushedAt      time.Time
}

// Commit is a single commit fetched from the repository's default branch.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// PullRequest is a pull request summary used by the heuristic analyzers.
type PullRequest struct {
	Number    int
	Title     string
	State     string // "open" or "closed"
	Merged    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Issue is an issue summary used by the heuristic analyzers. Pull requests
// surfaced by the Issues API are filtered out by the adapter.
type Issue struct {
	Number    int
	Title     string
	State     string // "open" or "closed"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RootEntry is one entry of the repository's root directory listing.
type RootEntry struct {
	Name string
	Type string // "file" or "dir"
}

// HealthFiles holds the results of the adapter's health-file probes.
// ManifestContent carries the raw dependency manifest so the dependency
// analyzer stays pure and I/O free.
type HealthFiles struct {
	HasReadme       bool
	HasDockerfile   bool
	WorkflowFiles   []string
	Manifest        string // "package.json", "go.mod", or "" when none found
	ManifestContent string
	HasLockfile     bool
}

// RepositorySnapshot is the full read-only snapshot of fetched GitHub data.
// It is set exactly once by the fetch phase and never mutated afterwards.
type RepositorySnapshot struct {
	Info             RepositoryInfo
	Commits          []Commit
	PullRequests     []PullRequest
	Issues           []Issue
	Languages        map[string]int
	RootEntries      []RootEntry
	HealthFiles      HealthFiles
	CIStatus         string // conclusion of the latest completed workflow run, "unknown" if none
	DeploymentStatus string // state of the latest deployment, "unknown" if none
}
