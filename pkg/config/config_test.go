package config

import (
	"testing"

	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil, "")
	require.NoError(t, err)

	assert.Equal(t, core.DefaultConfig(), cfg)
	assert.Equal(t, core.AssignNone, cfg.AutoAssign.Mode)
	assert.Equal(t, core.DefaultBlobLines, cfg.BlobLines)
	assert.True(t, cfg.ReopenClosed)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, cfg core.Config)
	}{
		{
			name:  "autoAssign false",
			input: "todo:\n  autoAssign: false\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, core.AutoAssign{Mode: core.AssignNone}, cfg.AutoAssign)
			},
		},
		{
			name:  "autoAssign true",
			input: "todo:\n  autoAssign: true\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, core.AutoAssign{Mode: core.AssignCommitter}, cfg.AutoAssign)
			},
		},
		{
			name:  "autoAssign string",
			input: "todo:\n  autoAssign: matchai\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, core.AutoAssign{Mode: core.AssignUsers, Users: []string{"matchai"}}, cfg.AutoAssign)
			},
		},
		{
			name:  "autoAssign list",
			input: "todo:\n  autoAssign:\n    - JasonEtco\n    - matchai\n    - defunkt\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, []string{"JasonEtco", "matchai", "defunkt"}, cfg.AutoAssign.Users)
				assert.Equal(t, core.AssignUsers, cfg.AutoAssign.Mode)
			},
		},
		{
			name:  "blobLines false",
			input: "todo:\n  blobLines: false\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Zero(t, cfg.BlobLines)
			},
		},
		{
			name:  "blobLines true",
			input: "todo:\n  blobLines: true\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, core.DefaultBlobLines, cfg.BlobLines)
			},
		},
		{
			name:  "blobLines number",
			input: "todo:\n  blobLines: 12\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, 12, cfg.BlobLines)
			},
		},
		{
			name:  "negative blobLines disables snippets",
			input: "todo:\n  blobLines: -3\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Zero(t, cfg.BlobLines)
			},
		},
		{
			name:  "reopenClosed false",
			input: "todo:\n  reopenClosed: false\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.False(t, cfg.ReopenClosed)
			},
		},
		{
			name:  "exclude string",
			input: "todo:\n  exclude: bin/\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, []string{"bin/"}, cfg.ExcludePaths)
			},
		},
		{
			name:  "exclude list",
			input: "todo:\n  exclude: [bin/, vendor/]\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, []string{"bin/", "vendor/"}, cfg.ExcludePaths)
			},
		},
		{
			name:  "body keyword and keywords",
			input: "todo:\n  bodyKeyword: BODY\n  keyword: [FIXME, TODO]\n  caseSensitive: true\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, "BODY", cfg.BodyKeyword)
				assert.Equal(t, []string{"FIXME", "TODO"}, cfg.Keywords)
				assert.True(t, cfg.CaseSensitive)
			},
		},
		{
			name:  "label true",
			input: "todo:\n  label: true\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, []string{DefaultLabel}, cfg.Labels)
			},
		},
		{
			name:  "label list",
			input: "todo:\n  label: [todo, tech-debt]\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, []string{"todo", "tech-debt"}, cfg.Labels)
			},
		},
		{
			name:  "settings at document root",
			input: "reopenClosed: false\nautoAssign: matchai\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.False(t, cfg.ReopenClosed)
				assert.Equal(t, []string{"matchai"}, cfg.AutoAssign.Users)
			},
		},
		{
			name:  "unrelated keys",
			input: "stale:\n  days: 30\ntodo:\n  blobLines: 2\n",
			check: func(t *testing.T, cfg core.Config) {
				assert.Equal(t, 2, cfg.BlobLines)
				assert.Equal(t, core.DefaultConfig().Keywords, cfg.Keywords)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input), ".github/config.yml")
			require.NoError(t, err)
			assert.Equal(t, ".github/config.yml", cfg.ConfigFile)
			tt.check(t, cfg)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not yaml", input: "todo: [unclosed"},
		{name: "blobLines map", input: "todo:\n  blobLines:\n    a: 1\n"},
		{name: "autoAssign map", input: "todo:\n  autoAssign:\n    user: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input), "todo.yml")
			assert.Error(t, err)

			want := core.DefaultConfig()
			want.ConfigFile = "todo.yml"
			assert.Equal(t, want, cfg)
		})
	}
}
