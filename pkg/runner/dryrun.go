package runner

import (
	"context"

	"github.com/ksysoev/todo-action/pkg/core"
)

// Searcher looks up existing issues by title
type Searcher interface {
	SearchByTitle(ctx context.Context, title string) ([]core.TrackedIssue, error)
}

// DryRunTracker searches the real tracker but only logs mutations
type DryRunTracker struct {
	searcher Searcher
	log      core.Logger
}

// NewDryRunTracker wraps a searcher so no issue is ever created or edited
func NewDryRunTracker(searcher Searcher, log core.Logger) *DryRunTracker {
	return &DryRunTracker{searcher: searcher, log: log}
}

func (t *DryRunTracker) SearchByTitle(ctx context.Context, title string) ([]core.TrackedIssue, error) {
	return t.searcher.SearchByTitle(ctx, title)
}

func (t *DryRunTracker) Create(_ context.Context, req core.IssueRequest) (core.TrackedIssue, error) {
	t.log.Infof("[dry-run] would create issue %q assigned to %v with labels %v\n%s", req.Title, req.Assignees, req.Labels, req.Body)
	return core.TrackedIssue{Title: req.Title, State: core.IssueOpen}, nil
}

func (t *DryRunTracker) ReopenAndComment(_ context.Context, issue core.TrackedIssue, comment string) error {
	t.log.Infof("[dry-run] would reopen issue #%d %q with comment:\n%s", issue.Number, issue.Title, comment)
	return nil
}
