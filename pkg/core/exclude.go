package core

import "strings"

// ShouldScan reports whether a changed file is eligible for TODO scanning.
// The configuration file itself and any path under an excluded prefix are skipped.
func ShouldScan(path string, cfg Config) bool {
	path = strings.TrimPrefix(path, "./")
	if path == "" {
		return false
	}

	configFile := cfg.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if path == strings.TrimPrefix(configFile, "./") {
		return false
	}

	for _, prefix := range cfg.ExcludePaths {
		prefix = strings.TrimPrefix(strings.TrimSpace(prefix), "./")
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return true
}
