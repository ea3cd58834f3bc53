package github

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommits struct {
	commits map[string]core.Commit
	failing map[string]error
	err     error
	calls   []string
}

func (s *stubCommits) GetCommit(_ context.Context, sha string) (core.Commit, error) {
	s.calls = append(s.calls, sha)
	if s.err != nil {
		return core.Commit{}, s.err
	}
	if err, ok := s.failing[sha]; ok {
		return core.Commit{}, err
	}
	return s.commits[sha], nil
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any)  {}
func (l *recordingLogger) Warningf(msg string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(msg, args...))
}

const pushPayload = `{
	"ref": "refs/heads/master",
	"after": "c2",
	"commits": [{"id": "c1"}, {"id": "c2"}],
	"head_commit": {"id": "c2"},
	"repository": {
		"name": "repo",
		"full_name": "octo/repo",
		"default_branch": "master",
		"owner": {"login": "octo", "name": "octo"}
	}
}`

func TestBuildPushEvent(t *testing.T) {
	ev, err := DecodePushEvent([]byte(pushPayload))
	require.NoError(t, err)

	stub := &stubCommits{commits: map[string]core.Commit{
		"c1": {SHA: "c1", ParentCount: 1},
		"c2": {SHA: "c2", ParentCount: 2},
	}}

	event, err := BuildPushEvent(context.Background(), ev, stub, &recordingLogger{})
	require.NoError(t, err)

	assert.Equal(t, "refs/heads/master", event.Ref)
	assert.Equal(t, "master", event.DefaultBranch)
	assert.Equal(t, "octo", event.Owner)
	assert.Equal(t, "repo", event.Repo)
	assert.Equal(t, []string{"c1", "c2"}, stub.calls)
	require.Len(t, event.Commits, 2)
	assert.True(t, event.Commits[1].IsMerge())
}

func TestBuildPushEvent_OtherBranch(t *testing.T) {
	ev, err := DecodePushEvent([]byte(pushPayload))
	require.NoError(t, err)
	ref := "refs/heads/feature"
	ev.Ref = &ref

	stub := &stubCommits{}
	event, err := BuildPushEvent(context.Background(), ev, stub, &recordingLogger{})
	require.NoError(t, err)

	assert.Empty(t, event.Commits)
	assert.Empty(t, stub.calls)
}

func TestBuildPushEvent_HeadCommitOnly(t *testing.T) {
	ev, err := DecodePushEvent([]byte(pushPayload))
	require.NoError(t, err)
	ev.Commits = nil

	stub := &stubCommits{commits: map[string]core.Commit{"c2": {SHA: "c2", ParentCount: 1}}}
	event, err := BuildPushEvent(context.Background(), ev, stub, &recordingLogger{})
	require.NoError(t, err)

	assert.Equal(t, []string{"c2"}, stub.calls)
	assert.Len(t, event.Commits, 1)
}

func TestBuildPushEvent_FetchError(t *testing.T) {
	ev, err := DecodePushEvent([]byte(pushPayload))
	require.NoError(t, err)

	log := &recordingLogger{}
	_, err = BuildPushEvent(context.Background(), ev, &stubCommits{err: errors.New("boom")}, log)

	assert.ErrorContains(t, err, "boom")
	assert.Len(t, log.warnings, 2)
}

func TestBuildPushEvent_SkipsFailedCommit(t *testing.T) {
	ev, err := DecodePushEvent([]byte(`{
		"ref": "refs/heads/main",
		"commits": [{"id": "c1"}, {"id": "c2"}, {"id": "c3"}],
		"repository": {"name": "repo", "default_branch": "main", "owner": {"login": "octo"}}
	}`))
	require.NoError(t, err)

	stub := &stubCommits{
		commits: map[string]core.Commit{
			"c1": {SHA: "c1", ParentCount: 1},
			"c3": {SHA: "c3", ParentCount: 1},
		},
		failing: map[string]error{"c2": errors.New("server error")},
	}
	log := &recordingLogger{}

	event, err := BuildPushEvent(context.Background(), ev, stub, log)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2", "c3"}, stub.calls)
	require.Len(t, event.Commits, 2)
	assert.Equal(t, "c1", event.Commits[0].SHA)
	assert.Equal(t, "c3", event.Commits[1].SHA)

	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "c2")
	assert.Contains(t, log.warnings[0], "server error")
}

func TestBuildPushEvent_CancelledContext(t *testing.T) {
	ev, err := DecodePushEvent([]byte(pushPayload))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubCommits{}
	_, err = BuildPushEvent(ctx, ev, stub, &recordingLogger{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stub.calls)
}

func TestDecodePushEvent_Invalid(t *testing.T) {
	_, err := DecodePushEvent([]byte("{not json"))
	assert.Error(t, err)
}
