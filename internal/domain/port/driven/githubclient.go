package driven

import (
	"context"
	"errors"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// ErrRepositoryNotFound indicates the requested owner/repo does not resolve
// to an existing, accessible GitHub repository.
var ErrRepositoryNotFound = errors.New("github repository not found")

// GitHubClient defines the driven port for read-only GitHub API access.
// All methods are side-effect free remote reads; transport and auth errors
// propagate unmodified so the pipeline runner can treat them as phase
// failures.
type GitHubClient interface {
	// FetchRepository returns repository metadata including topics.
	// Returns an error wrapping ErrRepositoryNotFound on 404.
	FetchRepository(ctx context.Context, fullName string) (*model.RepositoryInfo, error)

	// FetchCommits returns commits on the default branch since the given time.
	FetchCommits(ctx context.Context, fullName string, since time.Time) ([]model.Commit, error)

	// FetchPullRequests returns up to limit pull requests, most recently
	// updated first, across all states.
	FetchPullRequests(ctx context.Context, fullName string, limit int) ([]model.PullRequest, error)

	// FetchIssues returns up to limit issues, most recently updated first,
	// excluding pull requests.
	FetchIssues(ctx context.Context, fullName string, limit int) ([]model.Issue, error)

	// FetchLanguages returns the byte counts per language.
	FetchLanguages(ctx context.Context, fullName string) (map[string]int, error)

	// FetchRootContents returns the root directory listing.
	FetchRootContents(ctx context.Context, fullName string) ([]model.RootEntry, error)

	// FetchHealthFiles probes for README, Dockerfile, CI workflow files,
	// dependency manifest, and lockfiles.
	FetchHealthFiles(ctx context.Context, fullName string) (model.HealthFiles, error)

	// FetchCIStatus returns the conclusion of the most recent completed
	// workflow run ("success", "failure", ...) or "unknown" when the
	// repository has no workflow runs.
	FetchCIStatus(ctx context.Context, fullName string) (string, error)

	// FetchDeploymentStatus returns the state of the latest deployment or
	// "unknown" when the repository has none.
	FetchDeploymentStatus(ctx context.Context, fullName string) (string, error)
}
