package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldScan(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		exclude []string
		config  string
		want    bool
	}{
		{name: "regular file", path: "index.js", want: true},
		{name: "default config file", path: ".github/config.yml", want: false},
		{name: "custom config file", path: "todo.yml", config: "todo.yml", want: false},
		{name: "default config file is scanned when another is configured", path: ".github/config.yml", config: "todo.yml", want: true},
		{name: "excluded prefix", path: "bin/index.js", exclude: []string{"bin/"}, want: false},
		{name: "second prefix", path: "vendor/lib.go", exclude: []string{"bin/", "vendor"}, want: false},
		{name: "not excluded", path: "src/bin.js", exclude: []string{"bin/"}, want: true},
		{name: "dot slash prefix", path: "bin/a.sh", exclude: []string{"./bin"}, want: false},
		{name: "blank prefix is ignored", path: "src/a.go", exclude: []string{"", "  "}, want: true},
		{name: "empty path", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ExcludePaths = tt.exclude
			if tt.config != "" {
				cfg.ConfigFile = tt.config
			}

			assert.Equal(t, tt.want, ShouldScan(tt.path, cfg))
		})
	}
}
