package core

// LineKind classifies a line of a unified diff
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineDeleted
)

// DiffLine is a single line of a parsed patch, numbered in the new file
type DiffLine struct {
	Number int
	Kind   LineKind
	Text   string
}

// FileChange is a file touched by a commit. Patch is empty for binary or oversized files.
type FileChange struct {
	Path  string
	Patch string
}

// Commit is a single commit of a push
type Commit struct {
	SHA         string
	ParentCount int
	Author      string
	Files       []FileChange
}

// IsMerge reports whether the commit has more than one parent
func (c Commit) IsMerge() bool {
	return c.ParentCount > 1
}

// PushEvent is the subset of a push delivery the gate works on
type PushEvent struct {
	Ref           string
	DefaultBranch string
	Owner         string
	Repo          string
	Commits       []Commit
}

// Marker represents a TODO comment found on an added line
type Marker struct {
	Path      string
	Line      int
	Keyword   string
	Title     string
	FullTitle string
	Body      string
	Labels    []string
	Truncated bool
}

// AssignMode selects how created issues get their assignees
type AssignMode int

const (
	AssignNone AssignMode = iota
	AssignCommitter
	AssignUsers
)

// AutoAssign is the resolved form of the autoAssign setting
type AutoAssign struct {
	Mode  AssignMode
	Users []string
}

// Config represents the repository configuration of the action
type Config struct {
	AutoAssign    AutoAssign
	ExcludePaths  []string
	ConfigFile    string
	BlobLines     int
	BodyKeyword   string
	ReopenClosed  bool
	Keywords      []string
	CaseSensitive bool
	Labels        []string
}

const (
	DefaultConfigFile = ".github/config.yml"
	DefaultBlobLines  = 5
)

// DefaultConfig returns the configuration used when the repository has none
func DefaultConfig() Config {
	return Config{
		ConfigFile:   DefaultConfigFile,
		BlobLines:    DefaultBlobLines,
		ReopenClosed: true,
		Keywords:     []string{"@todo", "TODO"},
	}
}

// IssueState is the state of a tracked issue
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// TrackedIssue is an existing issue in the tracker
type TrackedIssue struct {
	Number int
	Title  string
	State  IssueState
	URL    string
}

// IssueRequest carries everything needed to open a new issue
type IssueRequest struct {
	Title     string
	Body      string
	Assignees []string
	Labels    []string
}
