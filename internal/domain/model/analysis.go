package model

// Analysis accumulates the named outputs of the heuristic analyzer phases.
// Each phase fills exactly its own fields and never touches another phase's
// output, so a completed run carries every field non-nil.
type Analysis struct {
	Commits           *CommitAnalysis      `json:"commits,omitempty"`
	PullRequests      *PullRequestAnalysis `json:"pull_requests,omitempty"`
	Issues            *IssueAnalysis       `json:"issues,omitempty"`
	Structure         *StructureAnalysis   `json:"structure,omitempty"`
	HealthFiles       *HealthFileAnalysis  `json:"health_files,omitempty"`
	Dependencies      *DependencyAnalysis  `json:"dependencies,omitempty"`
	Health            *HealthAnalysis      `json:"health,omitempty"`
	ActivityScore     float64              `json:"activity_score"`
	ArchitectureScore int                  `json:"architecture_score"`
	IsProductionReady bool                 `json:"is_production_ready"`
}

// CommitAnalysis summarizes the 30-day commit window.
type CommitAnalysis struct {
	Total            int      `json:"total"`
	Frequency        float64  `json:"frequency"` // commits per day over the 30-day window
	ActiveLast30Days bool     `json:"active_last_30_days"`
	Fixes            int      `json:"fixes"`
	Features         int      `json:"features"`
	Updates          int      `json:"updates"`
	Other            int      `json:"other"`
	RecentMessages   []string `json:"recent_messages"`
}

// PullRequestAnalysis summarizes fetched pull requests.
type PullRequestAnalysis struct {
	Total     int     `json:"total"`
	Open      int     `json:"open"`
	Merged    int     `json:"merged"`
	MergeRate float64 `json:"merge_rate"`
}

// IssueAnalysis summarizes fetched issues.
type IssueAnalysis struct {
	Total     int     `json:"total"`
	Open      int     `json:"open"`
	Closed    int     `json:"closed"`
	CloseRate float64 `json:"close_rate"`
}

// StructureAnalysis summarizes the repository layout and languages.
type StructureAnalysis struct {
	TopLevelDirs    int      `json:"top_level_dirs"`
	TopLevelFiles   int      `json:"top_level_files"`
	HasTests        bool     `json:"has_tests"`
	PrimaryLanguage string   `json:"primary_language"`
	Languages       []string `json:"languages"`
}

// HealthFileAnalysis records which structural health markers are present.
type HealthFileAnalysis struct {
	HasReadme         bool `json:"has_readme"`
	HasCI             bool `json:"has_ci"`
	HasDockerfile     bool `json:"has_dockerfile"`
	HasPackageScripts bool `json:"has_package_scripts"`
}

// RiskLevel grades the dependency posture of a repository.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DependencyAnalysis summarizes the dependency manifest.
type DependencyAnalysis struct {
	Manifest    string    `json:"manifest"` // manifest file name, "" when none found
	Count       int       `json:"count"`
	HasLockfile bool      `json:"has_lockfile"`
	Risk        RiskLevel `json:"risk"`
}

// HealthAnalysis carries the externally observed build and deployment state.
type HealthAnalysis struct {
	CIStatus         string `json:"ci_status"`
	DeploymentStatus string `json:"deployment_status"`
}
