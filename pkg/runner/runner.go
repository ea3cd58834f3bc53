package runner

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/todo-action/pkg/core"
	ghclient "github.com/ksysoev/todo-action/pkg/github"
)

// Repository is everything the runner needs from the hosting platform
type Repository interface {
	core.Tracker
	core.ContentFetcher
	ghclient.CommitGetter
	LoadConfig(ctx context.Context, path, ref string) (core.Config, error)
}

// Options tune a single run
type Options struct {
	// ServerURL is used for permalinks, defaults to https://github.com
	ServerURL string
	// ConfigFile overrides the repository config path
	ConfigFile string
	// Tracker replaces the repository as issue tracker, e.g. for dry runs
	Tracker core.Tracker
}

// Summary counts the outcomes of a run
type Summary struct {
	Created  int
	Reopened int
	Skipped  int
	Failed   int
	Outcomes []core.Outcome
}

// Run processes one push event end to end
func Run(ctx context.Context, repo Repository, ev *github.PushEvent, opts Options, log core.Logger) (Summary, error) {
	event, err := ghclient.BuildPushEvent(ctx, ev, repo, log)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load push event: %w", err)
	}

	if !core.IsDefaultBranchPush(event) {
		log.Infof("Push to %s is not on default branch %s. Skipping.", event.Ref, event.DefaultBranch)
		return Summary{}, nil
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = core.DefaultConfigFile
	}

	ref := ev.GetAfter()
	if ref == "" {
		ref = event.Ref
	}

	cfg, err := repo.LoadConfig(ctx, configFile, ref)
	if err != nil {
		log.Warningf("Failed to load %s, using defaults: %v", configFile, err)
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = repo
	}

	reconciler := core.NewReconciler(tracker, cfg, core.Repository{
		ServerURL: opts.ServerURL,
		Owner:     event.Owner,
		Name:      event.Repo,
	})
	gate := core.NewGate(cfg, repo, reconciler, log)

	outcomes, err := gate.Process(ctx, event)

	summary := Summarize(outcomes)
	if err != nil {
		return summary, fmt.Errorf("push processing interrupted: %w", err)
	}

	return summary, nil
}

// Summarize counts outcomes by action, failures counted apart
func Summarize(outcomes []core.Outcome) Summary {
	s := Summary{Outcomes: outcomes}
	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			s.Failed++
		case out.Action == core.ActionCreate:
			s.Created++
		case out.Action == core.ActionReopen:
			s.Reopened++
		default:
			s.Skipped++
		}
	}
	return s
}
