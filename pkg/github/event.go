package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/todo-action/pkg/core"
)

// CommitGetter fetches a commit with its files
type CommitGetter interface {
	GetCommit(ctx context.Context, sha string) (core.Commit, error)
}

// DecodePushEvent decodes a raw push delivery payload
func DecodePushEvent(payload []byte) (*github.PushEvent, error) {
	var ev github.PushEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode push event: %w", err)
	}
	return &ev, nil
}

// BuildPushEvent converts a push payload into a core event. Commit details are
// only fetched for pushes to the default branch. A commit that cannot be
// fetched is logged and left out; an error is returned only when ctx is done
// or no commit could be fetched at all.
func BuildPushEvent(ctx context.Context, ev *github.PushEvent, getter CommitGetter, log core.Logger) (core.PushEvent, error) {
	repo := ev.GetRepo()

	defaultBranch := repo.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = repo.GetMasterBranch()
	}

	event := core.PushEvent{
		Ref:           ev.GetRef(),
		DefaultBranch: defaultBranch,
		Owner:         repo.GetOwner().GetLogin(),
		Repo:          repo.GetName(),
	}
	if event.Owner == "" {
		event.Owner = repo.GetOwner().GetName()
	}

	if !core.IsDefaultBranchPush(event) || ev.GetDeleted() {
		return event, nil
	}

	var shas []string
	for _, c := range ev.Commits {
		if c.GetID() != "" {
			shas = append(shas, c.GetID())
		}
	}
	if len(shas) == 0 && ev.GetHeadCommit().GetID() != "" {
		shas = append(shas, ev.GetHeadCommit().GetID())
	}

	var errs []error
	for _, sha := range shas {
		if err := ctx.Err(); err != nil {
			return event, err
		}

		commit, err := getter.GetCommit(ctx, sha)
		if err != nil {
			log.Warningf("Skipping commit %s: %v", sha, err)
			errs = append(errs, err)
			continue
		}
		event.Commits = append(event.Commits, commit)
	}

	if len(event.Commits) == 0 && len(errs) > 0 {
		return event, fmt.Errorf("failed to fetch any of %d commits: %w", len(shas), errors.Join(errs...))
	}

	return event, nil
}
