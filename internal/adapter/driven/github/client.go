// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchRepository retrieves repository metadata including topics. A 404 is
// mapped to driven.ErrRepositoryNotFound; all other transport errors
// propagate unmodified.
func (c *Client) FetchRepository(ctx context.Context, fullName string) (*model.RepositoryInfo, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", fullName, driven.ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("fetching repository %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName, 0, 1)

	return &model.RepositoryInfo{
		FullName:      r.GetFullName(),
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Homepage:      r.GetHomepage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Topics:        r.Topics,
		PushedAt:      r.GetPushedAt().Time,
	}, nil
}

// FetchCommits retrieves commits on the default branch since the given time.
// It handles pagination automatically and maps go-github types to domain
// model types.
func (c *Client) FetchCommits(ctx context.Context, fullName string, since time.Time) ([]model.Commit, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.CommitsListOptions{
		Since:       since,
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var allCommits []model.Commit

	for {
		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits for %s (page %d): %w", fullName, opts.Page, err)
		}

		logRateLimit(resp, fullName+"/commits", opts.Page, len(commits))

		for _, commit := range commits {
			allCommits = append(allCommits, mapCommit(commit))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allCommits == nil {
		allCommits = []model.Commit{}
	}

	return allCommits, nil
}

// FetchPullRequests retrieves up to limit pull requests across all states,
// most recently updated first.
func (c *Client) FetchPullRequests(ctx context.Context, fullName string, limit int) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/pulls", 0, len(prs))

	mapped := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if len(mapped) == limit {
			break
		}
		mapped = append(mapped, model.PullRequest{
			Number:    pr.GetNumber(),
			Title:     pr.GetTitle(),
			State:     pr.GetState(),
			Merged:    !pr.GetMergedAt().IsZero(),
			CreatedAt: pr.GetCreatedAt().Time,
			UpdatedAt: pr.GetUpdatedAt().Time,
		})
	}

	return mapped, nil
}

// FetchIssues retrieves up to limit issues across all states, most recently
// updated first. Pull requests surfaced by the Issues API are filtered out.
func (c *Client) FetchIssues(ctx context.Context, fullName string, limit int) ([]model.Issue, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing issues for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/issues", 0, len(issues))

	mapped := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		if len(mapped) == limit {
			break
		}
		mapped = append(mapped, model.Issue{
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			State:     issue.GetState(),
			CreatedAt: issue.GetCreatedAt().Time,
			UpdatedAt: issue.GetUpdatedAt().Time,
		})
	}

	return mapped, nil
}

// FetchLanguages retrieves the byte counts per language.
func (c *Client) FetchLanguages(ctx context.Context, fullName string) (map[string]int, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	languages, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing languages for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/languages", 0, len(languages))

	if languages == nil {
		languages = map[string]int{}
	}

	return languages, nil
}

// FetchRootContents retrieves the repository's root directory listing.
func (c *Client) FetchRootContents(ctx context.Context, fullName string) ([]model.RootEntry, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	_, entries, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return nil, fmt.Errorf("listing root contents for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/contents", 0, len(entries))

	mapped := make([]model.RootEntry, 0, len(entries))
	for _, e := range entries {
		mapped = append(mapped, model.RootEntry{
			Name: e.GetName(),
			Type: e.GetType(),
		})
	}

	return mapped, nil
}

// lockfileNames are the dependency lockfiles recognized by the health probe.
var lockfileNames = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
}

// FetchHealthFiles probes for README, Dockerfile, CI workflow files, the
// dependency manifest, and lockfiles. The probes are independent reads and
// run concurrently.
func (c *Client) FetchHealthFiles(ctx context.Context, fullName string) (model.HealthFiles, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return model.HealthFiles{}, err
	}

	var hf model.HealthFiles
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, resp, err := c.gh.Repositories.GetReadme(gctx, owner, repo, nil)
		if err != nil {
			if isNotFound(resp) {
				return nil
			}
			return fmt.Errorf("probing README for %s: %w", fullName, err)
		}
		hf.HasReadme = true
		return nil
	})

	g.Go(func() error {
		exists, err := c.fileExists(gctx, owner, repo, "Dockerfile")
		if err != nil {
			return err
		}
		hf.HasDockerfile = exists
		return nil
	})

	g.Go(func() error {
		files, err := c.listWorkflowFiles(gctx, owner, repo)
		if err != nil {
			return err
		}
		hf.WorkflowFiles = files
		return nil
	})

	g.Go(func() error {
		manifest, content, err := c.fetchManifest(gctx, owner, repo)
		if err != nil {
			return err
		}
		hf.Manifest = manifest
		hf.ManifestContent = content
		return nil
	})

	g.Go(func() error {
		for _, name := range lockfileNames {
			exists, err := c.fileExists(gctx, owner, repo, name)
			if err != nil {
				return err
			}
			if exists {
				hf.HasLockfile = true
				return nil
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.HealthFiles{}, err
	}

	if hf.WorkflowFiles == nil {
		hf.WorkflowFiles = []string{}
	}

	return hf, nil
}

// FetchCIStatus returns the conclusion of the most recent completed workflow
// run, or "unknown" when the repository has none.
func (c *Client) FetchCIStatus(ctx context.Context, fullName string) (string, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return "", err
	}

	runs, resp, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &gh.ListWorkflowRunsOptions{
		Status:      "completed",
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		if isNotFound(resp) {
			return "unknown", nil
		}
		return "", fmt.Errorf("listing workflow runs for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/workflow-runs", 0, len(runs.WorkflowRuns))

	if len(runs.WorkflowRuns) == 0 {
		return "unknown", nil
	}

	conclusion := runs.WorkflowRuns[0].GetConclusion()
	if conclusion == "" {
		return "unknown", nil
	}

	return conclusion, nil
}

// FetchDeploymentStatus returns the state of the latest deployment, or
// "unknown" when the repository has no deployments.
func (c *Client) FetchDeploymentStatus(ctx context.Context, fullName string) (string, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return "", err
	}

	deployments, resp, err := c.gh.Repositories.ListDeployments(ctx, owner, repo, &gh.DeploymentsListOptions{
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		if isNotFound(resp) {
			return "unknown", nil
		}
		return "", fmt.Errorf("listing deployments for %s: %w", fullName, err)
	}

	if len(deployments) == 0 {
		return "unknown", nil
	}

	statuses, resp, err := c.gh.Repositories.ListDeploymentStatuses(ctx, owner, repo, deployments[0].GetID(), &gh.ListOptions{PerPage: 1})
	if err != nil {
		return "", fmt.Errorf("listing deployment statuses for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/deployments", 0, len(statuses))

	if len(statuses) == 0 {
		return "unknown", nil
	}

	return statuses[0].GetState(), nil
}

// fileExists probes for a file at the repository root. A 404 means absent,
// not an error.
func (c *Client) fileExists(ctx context.Context, owner, repo, path string) (bool, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if isNotFound(resp) {
			return false, nil
		}
		return false, fmt.Errorf("probing %s in %s/%s: %w", path, owner, repo, err)
	}
	return file != nil, nil
}

// listWorkflowFiles lists the contents of .github/workflows. A 404 means the
// repository has no CI workflows.
func (c *Client) listWorkflowFiles(ctx context.Context, owner, repo string) ([]string, error) {
	_, entries, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, ".github/workflows", nil)
	if err != nil {
		if isNotFound(resp) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing workflows in %s/%s: %w", owner, repo, err)
	}

	var files []string
	for _, e := range entries {
		name := e.GetName()
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			files = append(files, name)
		}
	}
	return files, nil
}

// manifestNames are the dependency manifests recognized by the health probe,
// checked in order.
var manifestNames = []string{"package.json", "go.mod"}

// fetchManifest returns the first dependency manifest found at the repository
// root, with its decoded content.
func (c *Client) fetchManifest(ctx context.Context, owner, repo string) (string, string, error) {
	for _, name := range manifestNames {
		file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, name, nil)
		if err != nil {
			if isNotFound(resp) {
				continue
			}
			return "", "", fmt.Errorf("fetching %s in %s/%s: %w", name, owner, repo, err)
		}
		if file == nil {
			continue
		}

		content, err := file.GetContent()
		if err != nil {
			return "", "", fmt.Errorf("decoding %s in %s/%s: %w", name, owner, repo, err)
		}
		return name, content, nil
	}

	return "", "", nil
}

// mapCommit converts a go-github RepositoryCommit to a domain model Commit.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapCommit(commit *gh.RepositoryCommit) model.Commit {
	author := commit.GetCommit().GetAuthor().GetName()
	if login := commit.GetAuthor().GetLogin(); login != "" {
		author = login
	}

	return model.Commit{
		SHA:     commit.GetSHA(),
		Message: commit.GetCommit().GetMessage(),
		Author:  author,
		Date:    commit.GetCommit().GetAuthor().GetDate().Time,
	}
}

// isNotFound reports whether a go-github response is a 404.
func isNotFound(resp *gh.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
