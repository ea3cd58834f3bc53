package core

import (
	"context"
	"fmt"
	"sync"
)

// fakeTracker returns every known issue from search, like a loose full text search would
type fakeTracker struct {
	mu        sync.Mutex
	issues    []TrackedIssue
	searchErr error
	createErr map[string]error
	reopenErr error

	searches []string
	created  []IssueRequest
	reopened []TrackedIssue
	comments []string
}

func (f *fakeTracker) SearchByTitle(_ context.Context, title string) ([]TrackedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, title)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return append([]TrackedIssue(nil), f.issues...), nil
}

func (f *fakeTracker) Create(_ context.Context, req IssueRequest) (TrackedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.createErr[req.Title]; err != nil {
		return TrackedIssue{}, err
	}

	f.created = append(f.created, req)
	issue := TrackedIssue{
		Number: len(f.issues) + 1,
		Title:  req.Title,
		State:  IssueOpen,
		URL:    fmt.Sprintf("https://github.com/octo/repo/issues/%d", len(f.issues)+1),
	}
	f.issues = append(f.issues, issue)
	return issue, nil
}

func (f *fakeTracker) ReopenAndComment(_ context.Context, issue TrackedIssue, comment string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.reopenErr != nil {
		return f.reopenErr
	}
	f.reopened = append(f.reopened, issue)
	f.comments = append(f.comments, comment)
	return nil
}

type fakeFetcher struct {
	files map[string]string
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeFetcher) FileContent(_ context.Context, path, ref string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return "", f.err
	}
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("%s not found at %s", path, ref)
	}
	return content, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warningf(string, ...any) {}
