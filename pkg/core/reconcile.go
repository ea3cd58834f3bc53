package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Tracker is the issue tracker the reconciler searches and mutates
type Tracker interface {
	SearchByTitle(ctx context.Context, title string) ([]TrackedIssue, error)
	Create(ctx context.Context, req IssueRequest) (TrackedIssue, error)
	ReopenAndComment(ctx context.Context, issue TrackedIssue, comment string) error
}

// Action is what the reconciler decided to do with a marker
type Action int

const (
	ActionSkip Action = iota
	ActionCreate
	ActionReopen
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionReopen:
		return "reopen"
	default:
		return "skip"
	}
}

// TrackerError wraps a failed tracker call for a single marker
type TrackerError struct {
	Op    string
	Title string
	Err   error
}

func (e *TrackerError) Error() string {
	return fmt.Sprintf("failed to %s issue %q: %v", e.Op, e.Title, e.Err)
}

func (e *TrackerError) Unwrap() error {
	return e.Err
}

// Repository identifies where issues and permalinks live
type Repository struct {
	ServerURL string
	Owner     string
	Name      string
}

func (r Repository) baseURL() string {
	server := strings.TrimSuffix(r.ServerURL, "/")
	if server == "" {
		server = "https://github.com"
	}
	return fmt.Sprintf("%s/%s/%s", server, r.Owner, r.Name)
}

// MarkerContext is a marker together with the commit and source it came from
type MarkerContext struct {
	Marker Marker
	Commit Commit
	Blob   BlobContext
}

// Decision is the outcome of comparing a marker with the tracker
type Decision struct {
	Action   Action
	Marker   Marker
	Existing *TrackedIssue
	Request  IssueRequest
	Comment  string
}

// Outcome is the applied result for one marker
type Outcome struct {
	Action Action
	Marker Marker
	SHA    string
	Issue  TrackedIssue
	Err    error
}

// Reconciler decides and applies create/reopen/skip for markers.
// Calls are serialized so a search and the mutation that follows it
// are never interleaved with another marker's.
type Reconciler struct {
	tracker Tracker
	cfg     Config
	repo    Repository
	mu      sync.Mutex
}

// NewReconciler creates a reconciler for a single repository
func NewReconciler(tracker Tracker, cfg Config, repo Repository) *Reconciler {
	return &Reconciler{
		tracker: tracker,
		cfg:     cfg,
		repo:    repo,
	}
}

// Reconcile decides what to do with a marker and performs at most one tracker mutation
func (r *Reconciler) Reconcile(ctx context.Context, mc MarkerContext) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Outcome{Marker: mc.Marker, SHA: mc.Commit.SHA}

	decision, err := r.Decide(ctx, mc)
	if err != nil {
		out.Err = err
		return out
	}
	out.Action = decision.Action
	if decision.Existing != nil {
		out.Issue = *decision.Existing
	}

	issue, err := r.Apply(ctx, decision)
	if err != nil {
		out.Err = err
		return out
	}
	if decision.Action == ActionCreate {
		out.Issue = issue
	}

	return out
}

// Decide searches the tracker for an issue with exactly the marker title
func (r *Reconciler) Decide(ctx context.Context, mc MarkerContext) (Decision, error) {
	title := mc.Marker.Title

	found, err := r.tracker.SearchByTitle(ctx, title)
	if err != nil {
		return Decision{}, &TrackerError{Op: "search", Title: title, Err: err}
	}

	d := Decision{Marker: mc.Marker}

	existing := firstExactMatch(found, title)
	switch {
	case existing == nil:
		d.Action = ActionCreate
		d.Request = IssueRequest{
			Title:     title,
			Body:      r.issueBody(mc),
			Assignees: r.assignees(mc.Commit),
			Labels:    mergeLabels(r.cfg.Labels, mc.Marker.Labels),
		}
	case existing.State == IssueClosed && r.cfg.ReopenClosed:
		d.Action = ActionReopen
		d.Existing = existing
		d.Comment = r.reopenComment(mc)
	default:
		d.Action = ActionSkip
		d.Existing = existing
	}

	return d, nil
}

// Apply performs the tracker mutation a decision calls for
func (r *Reconciler) Apply(ctx context.Context, d Decision) (TrackedIssue, error) {
	switch d.Action {
	case ActionCreate:
		issue, err := r.tracker.Create(ctx, d.Request)
		if err != nil {
			return TrackedIssue{}, &TrackerError{Op: "create", Title: d.Request.Title, Err: err}
		}
		return issue, nil
	case ActionReopen:
		if err := r.tracker.ReopenAndComment(ctx, *d.Existing, d.Comment); err != nil {
			return TrackedIssue{}, &TrackerError{Op: "reopen", Title: d.Existing.Title, Err: err}
		}
		return *d.Existing, nil
	default:
		return TrackedIssue{}, nil
	}
}

// firstExactMatch returns the first issue whose title equals title.
// Search backends match loosely, so only string equality counts.
func firstExactMatch(issues []TrackedIssue, title string) *TrackedIssue {
	for i := range issues {
		if issues[i].Title == title {
			return &issues[i]
		}
	}
	return nil
}

func (r *Reconciler) assignees(commit Commit) []string {
	switch r.cfg.AutoAssign.Mode {
	case AssignCommitter:
		if commit.Author == "" {
			return nil
		}
		return []string{commit.Author}
	case AssignUsers:
		return append([]string(nil), r.cfg.AutoAssign.Users...)
	default:
		return nil
	}
}

func mergeLabels(groups ...[]string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, group := range groups {
		for _, label := range group {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}

func (r *Reconciler) fileURL(sha, path string) string {
	return fmt.Sprintf("%s/blob/%s/%s", r.repo.baseURL(), sha, path)
}

func (r *Reconciler) commitURL(sha string) string {
	return fmt.Sprintf("%s/commit/%s", r.repo.baseURL(), sha)
}

func (r *Reconciler) issueBody(mc MarkerContext) string {
	m := mc.Marker
	sha := mc.Commit.SHA

	var b strings.Builder

	if m.Truncated {
		b.WriteString(m.FullTitle)
		b.WriteString("\n\n")
	}
	if m.Body != "" {
		b.WriteString(m.Body)
		b.WriteString("\n\n")
	}

	if b.Len() > 0 {
		b.WriteString("---\n\n")
	}

	if !mc.Blob.Empty() {
		b.WriteString("```\n")
		for _, line := range mc.Blob.Lines {
			pointer := " "
			if line.Marker {
				pointer = ">"
			}
			fmt.Fprintf(&b, "%4d %s %s\n", line.Number, pointer, line.Text)
		}
		b.WriteString("```\n\n")
		fmt.Fprintf(&b, "%s#L%d-L%d\n\n---\n\n", r.fileURL(sha, m.Path), mc.Blob.Start, mc.Blob.End)
	}

	fmt.Fprintf(&b, "Found in [`%s`](%s#L%d) (line %d) in %s\n\n", m.Path, r.fileURL(sha, m.Path), m.Line, m.Line, r.commitURL(sha))
	fmt.Fprintf(&b, "###### This issue was generated based on a `%s` comment in %s.", m.Keyword, shortSHA(sha))

	return b.String()
}

func (r *Reconciler) reopenComment(mc MarkerContext) string {
	m := mc.Marker
	return fmt.Sprintf(
		"This issue has been reopened because the **`%s`** comment still exists in [**%s**](%s#L%d), as of %s.",
		m.Keyword, m.Path, r.fileURL(mc.Commit.SHA, m.Path), m.Line, shortSHA(mc.Commit.SHA),
	)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
