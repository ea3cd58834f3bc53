package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/todo-action/pkg/config"
	"github.com/ksysoev/todo-action/pkg/core"
	"golang.org/x/oauth2"
)

const searchPageSize = 100

// Client handles interaction with the GitHub API for a single repository
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a new GitHub client
func NewClient(token, repoFullName string) (*Client, error) {
	return newClient(NewRawClient(token), repoFullName)
}

// NewRawClient creates a new raw GitHub client
func NewRawClient(token string) *github.Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}

// NewEnterpriseClient creates a client for a GitHub Enterprise Server or any
// API compatible endpoint.
func NewEnterpriseClient(token, apiURL, repoFullName string) (*Client, error) {
	raw, err := NewRawClient(token).WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %s: %w", apiURL, err)
	}
	return newClient(raw, repoFullName)
}

func newClient(raw *github.Client, repoFullName string) (*Client, error) {
	owner, repo, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository name %q, expected owner/repo", repoFullName)
	}

	return &Client{
		client: raw,
		owner:  owner,
		repo:   repo,
	}, nil
}

// withBaseURL points the client at a different API root
func (c *Client) withBaseURL(base string) error {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return err
	}
	c.client.BaseURL = u
	return nil
}

// Repository returns the repository the client works on
func (c *Client) Repository() core.Repository {
	return core.Repository{Owner: c.owner, Name: c.repo}
}

// SearchByTitle returns issues whose title contains title, as reported by the search API.
// Callers must compare titles themselves, search matching is fuzzy.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]core.TrackedIssue, error) {
	// the search syntax has no escape for quotes inside a phrase
	phrase := strings.ReplaceAll(title, `"`, " ")
	query := fmt.Sprintf(`repo:%s/%s is:issue in:title "%s"`, c.owner, c.repo, phrase)

	result, _, err := c.client.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	issues := make([]core.TrackedIssue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, toTrackedIssue(issue))
	}

	return issues, nil
}

// Create opens a new issue
func (c *Client) Create(ctx context.Context, req core.IssueRequest) (core.TrackedIssue, error) {
	request := &github.IssueRequest{
		Title: &req.Title,
		Body:  &req.Body,
	}
	if len(req.Assignees) > 0 {
		request.Assignees = &req.Assignees
	}
	if len(req.Labels) > 0 {
		request.Labels = &req.Labels
	}

	issue, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, request)
	if err != nil {
		return core.TrackedIssue{}, fmt.Errorf("failed to create issue %q: %w", req.Title, err)
	}

	return toTrackedIssue(issue), nil
}

// ReopenAndComment reopens a closed issue and explains why in a comment
func (c *Client) ReopenAndComment(ctx context.Context, issue core.TrackedIssue, comment string) error {
	state := string(core.IssueOpen)
	if _, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, issue.Number, &github.IssueRequest{State: &state}); err != nil {
		return fmt.Errorf("failed to reopen issue #%d: %w", issue.Number, err)
	}

	if _, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, issue.Number, &github.IssueComment{Body: &comment}); err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", issue.Number, err)
	}

	return nil
}

// FileContent returns the decoded content of a file at ref
func (c *Client) FileContent(ctx context.Context, path, ref string) (string, error) {
	fileContent, _, _, err := c.client.Repositories.GetContents(
		ctx,
		c.owner,
		c.repo,
		path,
		&github.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get content of %s: %w", path, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("%s is a directory", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode content of %s: %w", path, err)
	}

	return content, nil
}

// GetCommit returns a commit with its changed files and parent count
func (c *Client) GetCommit(ctx context.Context, sha string) (core.Commit, error) {
	rc, _, err := c.client.Repositories.GetCommit(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return core.Commit{}, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	commit := core.Commit{
		SHA:         rc.GetSHA(),
		ParentCount: len(rc.Parents),
		Author:      rc.GetAuthor().GetLogin(),
	}
	if commit.SHA == "" {
		commit.SHA = sha
	}

	for _, f := range rc.Files {
		commit.Files = append(commit.Files, core.FileChange{
			Path:  f.GetFilename(),
			Patch: f.GetPatch(),
		})
	}

	return commit, nil
}

// LoadConfig reads the repository config file at ref. A missing file yields the defaults.
func (c *Client) LoadConfig(ctx context.Context, path, ref string) (core.Config, error) {
	content, err := c.FileContent(ctx, path, ref)
	if err != nil {
		cfg, _ := config.Parse(nil, path)
		if isNotFound(err) {
			return cfg, nil
		}
		return cfg, err
	}

	return config.Parse([]byte(content), path)
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

func toTrackedIssue(issue *github.Issue) core.TrackedIssue {
	state := core.IssueOpen
	if issue.GetState() == string(core.IssueClosed) {
		state = core.IssueClosed
	}

	return core.TrackedIssue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  state,
		URL:    issue.GetHTMLURL(),
	}
}
