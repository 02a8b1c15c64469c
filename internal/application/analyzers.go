package application

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// The heuristic analyzers reduce raw GitHub data into numeric health signals.
// They are pure functions: no I/O, no clocks, bit-identical output for
// identical input.

// commitWindowDays is the length of the commit fetch window. Commit frequency
// is always computed against this window, not against the observed span.
const commitWindowDays = 30

// maxRecentMessages bounds the commit messages carried into the analysis for
// prompt composition and fallback generation.
const maxRecentMessages = 5

// AnalyzeCommits summarizes the 30-day commit window, classifying messages
// into fixes, features, and updates by keyword.
func AnalyzeCommits(commits []model.Commit) model.CommitAnalysis {
	a := model.CommitAnalysis{
		Total:            len(commits),
		Frequency:        float64(len(commits)) / commitWindowDays,
		ActiveLast30Days: len(commits) > 0,
		RecentMessages:   []string{},
	}

	for i, c := range commits {
		if i < maxRecentMessages {
			a.RecentMessages = append(a.RecentMessages, c.Message)
		}

		switch classifyCommitMessage(c.Message) {
		case commitKindFix:
			a.Fixes++
		case commitKindFeature:
			a.Features++
		case commitKindUpdate:
			a.Updates++
		default:
			a.Other++
		}
	}

	return a
}

type commitKind int

const (
	commitKindOther commitKind = iota
	commitKindFix
	commitKindFeature
	commitKindUpdate
)

// classifyCommitMessage matches keywords case-insensitively, checked in
// priority order: fix/bug, then feature/add, then update/upgrade.
func classifyCommitMessage(message string) commitKind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "fix") || strings.Contains(m, "bug"):
		return commitKindFix
	case strings.Contains(m, "feature") || strings.Contains(m, "add"):
		return commitKindFeature
	case strings.Contains(m, "update") || strings.Contains(m, "upgrade"):
		return commitKindUpdate
	default:
		return commitKindOther
	}
}

// AnalyzePullRequests summarizes pull request state counts and merge rate.
func AnalyzePullRequests(prs []model.PullRequest) model.PullRequestAnalysis {
	a := model.PullRequestAnalysis{Total: len(prs)}

	for _, pr := range prs {
		if pr.Merged {
			a.Merged++
		} else if pr.State == "open" {
			a.Open++
		}
	}

	if a.Total > 0 {
		a.MergeRate = float64(a.Merged) / float64(a.Total)
	}

	return a
}

// AnalyzeIssues summarizes issue state counts and close rate.
func AnalyzeIssues(issues []model.Issue) model.IssueAnalysis {
	a := model.IssueAnalysis{Total: len(issues)}

	for _, is := range issues {
		if is.State == "closed" {
			a.Closed++
		} else {
			a.Open++
		}
	}

	if a.Total > 0 {
		a.CloseRate = float64(a.Closed) / float64(a.Total)
	}

	return a
}

// ComputeActivityScore combines commit frequency, PR merge rate, issue close
// rate, and recency into a 0-100 score:
//
//	min(frequency*10, 40) + min(mergeRate*20, 20) + min(closeRate*20, 20) + 20 if active
func ComputeActivityScore(commits model.CommitAnalysis, prs model.PullRequestAnalysis, issues model.IssueAnalysis) float64 {
	score := minF(commits.Frequency*10, 40)
	score += minF(prs.MergeRate*20, 20)
	score += minF(issues.CloseRate*20, 20)
	if commits.ActiveLast30Days {
		score += 20
	}
	return score
}

// AnalyzeStructure summarizes the root directory layout and language mix.
// Tests are detected from root entries whose name contains "test" or "spec",
// or a __tests__ directory.
func AnalyzeStructure(entries []model.RootEntry, languages map[string]int) model.StructureAnalysis {
	a := model.StructureAnalysis{Languages: []string{}}

	for _, e := range entries {
		if e.Type == "dir" {
			a.TopLevelDirs++
		} else {
			a.TopLevelFiles++
		}

		name := strings.ToLower(e.Name)
		if strings.Contains(name, "test") || strings.Contains(name, "spec") || name == "__tests__" {
			a.HasTests = true
		}
	}

	names := make([]string, 0, len(languages))
	for lang := range languages {
		names = append(names, lang)
	}
	// Deterministic ordering: by descending byte count, ties by name.
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})
	a.Languages = names
	if len(names) > 0 {
		a.PrimaryLanguage = names[0]
	}

	return a
}

// AnalyzeHealthFiles maps the adapter's file probes onto the named structural
// health markers. The package.json scripts check parses the raw manifest so
// the result stays deterministic for a fixed snapshot.
func AnalyzeHealthFiles(hf model.HealthFiles) model.HealthFileAnalysis {
	return model.HealthFileAnalysis{
		HasReadme:         hf.HasReadme,
		HasCI:             len(hf.WorkflowFiles) > 0,
		HasDockerfile:     hf.HasDockerfile,
		HasPackageScripts: hasPackageScripts(hf),
	}
}

func hasPackageScripts(hf model.HealthFiles) bool {
	if hf.Manifest != "package.json" || hf.ManifestContent == "" {
		return false
	}

	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal([]byte(hf.ManifestContent), &pkg); err != nil {
		return false
	}
	return len(pkg.Scripts) > 0
}

// AnalyzeDependencies counts declared dependencies in the manifest and grades
// the risk: high when there is no lockfile and more than 20 dependencies,
// medium when either holds, low otherwise. A repository without a manifest is
// low risk by definition.
func AnalyzeDependencies(hf model.HealthFiles) model.DependencyAnalysis {
	a := model.DependencyAnalysis{
		Manifest:    hf.Manifest,
		HasLockfile: hf.HasLockfile,
		Risk:        model.RiskLow,
	}

	switch hf.Manifest {
	case "package.json":
		a.Count = countPackageJSONDependencies(hf.ManifestContent)
	case "go.mod":
		a.Count = countGoModRequires(hf.ManifestContent)
	default:
		return a
	}

	heavy := a.Count > 20
	switch {
	case heavy && !a.HasLockfile:
		a.Risk = model.RiskHigh
	case heavy || !a.HasLockfile:
		a.Risk = model.RiskMedium
	}

	return a
}

func countPackageJSONDependencies(content string) int {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return 0
	}
	return len(pkg.Dependencies) + len(pkg.DevDependencies)
}

func countGoModRequires(content string) int {
	var count int
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock && line != "" && !strings.HasPrefix(line, "//"):
			count++
		case strings.HasPrefix(line, "require ") && !strings.HasSuffix(line, "("):
			count++
		}
	}
	return count
}

// ComputeArchitectureScore scores structural health 0-100:
// +20 README, +25 tests, +20 CI workflows, +15 Dockerfile,
// +10 package.json scripts, +10 more than 2 top-level directories.
func ComputeArchitectureScore(structure model.StructureAnalysis, health model.HealthFileAnalysis) int {
	score := 0
	if health.HasReadme {
		score += 20
	}
	if structure.HasTests {
		score += 25
	}
	if health.HasCI {
		score += 20
	}
	if health.HasDockerfile {
		score += 15
	}
	if health.HasPackageScripts {
		score += 10
	}
	if structure.TopLevelDirs > 2 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ComputeProductionReadiness requires a combined score above 120, a passing
// CI build, and a known deployment status.
func ComputeProductionReadiness(activityScore float64, architectureScore int, health model.HealthAnalysis) bool {
	return activityScore+float64(architectureScore) > 120 &&
		health.CIStatus == "success" &&
		health.DeploymentStatus != "unknown"
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
