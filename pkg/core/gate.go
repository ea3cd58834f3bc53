package core

import (
	"context"
	"errors"
	"sync"
)

const defaultScanWorkers = 4

// ContentFetcher returns the full text of a file at a given ref
type ContentFetcher interface {
	FileContent(ctx context.Context, path, ref string) (string, error)
}

// Logger is the logging surface the gate needs; *githubactions.Action satisfies it
type Logger interface {
	Debugf(msg string, args ...any)
	Infof(msg string, args ...any)
	Warningf(msg string, args ...any)
}

// Gate turns a push event into reconciled markers
type Gate struct {
	cfg        Config
	fetcher    ContentFetcher
	reconciler *Reconciler
	log        Logger
	workers    int
}

// NewGate creates a gate. fetcher may be nil, in which case issue bodies carry no source snippet.
func NewGate(cfg Config, fetcher ContentFetcher, reconciler *Reconciler, log Logger) *Gate {
	return &Gate{
		cfg:        cfg,
		fetcher:    fetcher,
		reconciler: reconciler,
		log:        log,
		workers:    defaultScanWorkers,
	}
}

// IsDefaultBranchPush reports whether the event is a push to the repository's default branch
func IsDefaultBranchPush(event PushEvent) bool {
	return event.DefaultBranch != "" && event.Ref == "refs/heads/"+event.DefaultBranch
}

// Process scans every non-merge commit of a push and reconciles the markers found.
// Per-marker tracker failures are reported on the returned outcomes; the error is
// non-nil only when ctx is done.
func (g *Gate) Process(ctx context.Context, event PushEvent) ([]Outcome, error) {
	if !IsDefaultBranchPush(event) {
		g.log.Infof("Push to %s is not on default branch %s. Skipping.", event.Ref, event.DefaultBranch)
		return nil, nil
	}

	var outcomes []Outcome
	for _, commit := range event.Commits {
		if commit.IsMerge() {
			g.log.Infof("Skipping merge commit %s", shortSHA(commit.SHA))
			continue
		}

		found := g.scanCommit(ctx, commit)
		for _, mc := range found {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}

			out := g.reconciler.Reconcile(ctx, mc)
			if out.Err != nil {
				g.log.Warningf("Failed to reconcile TODO in %s (line %d): %v", mc.Marker.Path, mc.Marker.Line, out.Err)
			} else {
				g.log.Infof("%s: [%s] from %s (line %d)", out.Action, mc.Marker.Title, mc.Marker.Path, mc.Marker.Line)
			}
			outcomes = append(outcomes, out)
		}
	}

	return outcomes, ctx.Err()
}

// scanCommit finds markers in all files of a commit concurrently, preserving file order
func (g *Gate) scanCommit(ctx context.Context, commit Commit) []MarkerContext {
	results := make([][]MarkerContext, len(commit.Files))

	sem := make(chan struct{}, max(1, g.workers))
	var wg sync.WaitGroup

	for i, file := range commit.Files {
		i, file := i, file
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = g.scanFile(ctx, commit, file)
		}()
	}
	wg.Wait()

	var all []MarkerContext
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

func (g *Gate) scanFile(ctx context.Context, commit Commit, file FileChange) []MarkerContext {
	if !ShouldScan(file.Path, g.cfg) {
		g.log.Debugf("Skipping excluded file %s", file.Path)
		return nil
	}

	lines, err := ParsePatch(file.Patch)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			g.log.Warningf("Ignoring %s in %s: %v", file.Path, shortSHA(commit.SHA), perr)
		}
		return nil
	}

	markers := FindMarkers(file.Path, lines, g.cfg)
	if len(markers) == 0 {
		return nil
	}

	var content string
	if g.cfg.BlobLines > 0 && g.fetcher != nil {
		content, err = g.fetcher.FileContent(ctx, file.Path, commit.SHA)
		if err != nil {
			g.log.Warningf("Failed to fetch %s at %s, issues will have no snippet: %v", file.Path, shortSHA(commit.SHA), err)
			content = ""
		}
	}

	found := make([]MarkerContext, 0, len(markers))
	for _, m := range markers {
		mc := MarkerContext{Marker: m, Commit: commit}
		if content != "" {
			mc.Blob = ExtractBlob(content, m.Line, g.cfg.BlobLines)
		}
		found = append(found, mc)
	}

	return found
}
