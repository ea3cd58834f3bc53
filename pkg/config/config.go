package config

import (
	"fmt"

	"github.com/ksysoev/todo-action/pkg/core"
	"gopkg.in/yaml.v3"
)

// DefaultLabel is applied when the label setting is simply true
const DefaultLabel = "todo"

// settings mirrors the repository config file. Fields accepting several
// shapes are kept as raw nodes and resolved once in Parse.
type settings struct {
	AutoAssign    yaml.Node `yaml:"autoAssign"`
	Exclude       yaml.Node `yaml:"exclude"`
	BlobLines     yaml.Node `yaml:"blobLines"`
	BodyKeyword   string    `yaml:"bodyKeyword"`
	ReopenClosed  *bool     `yaml:"reopenClosed"`
	Keyword       yaml.Node `yaml:"keyword"`
	CaseSensitive bool      `yaml:"caseSensitive"`
	Label         yaml.Node `yaml:"label"`
}

type document struct {
	Todo yaml.Node `yaml:"todo"`
}

// Parse reads the action settings from a config file. Settings may live under
// a top-level "todo" key or at the document root. On error the defaults are
// returned alongside it so callers can keep going.
func Parse(data []byte, path string) (core.Config, error) {
	cfg := core.DefaultConfig()
	if path != "" {
		cfg.ConfigFile = path
	}

	if len(data) == 0 {
		return cfg, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", cfg.ConfigFile, err)
	}

	var s settings
	var err error
	if doc.Todo.Kind != 0 {
		err = doc.Todo.Decode(&s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", cfg.ConfigFile, err)
	}

	resolved, err := s.resolve(cfg)
	if err != nil {
		return cfg, fmt.Errorf("invalid settings in %s: %w", cfg.ConfigFile, err)
	}

	return resolved, nil
}

func (s settings) resolve(cfg core.Config) (core.Config, error) {
	var err error

	if cfg.AutoAssign, err = parseAutoAssign(&s.AutoAssign); err != nil {
		return cfg, fmt.Errorf("autoAssign: %w", err)
	}

	if cfg.ExcludePaths, err = stringList(&s.Exclude); err != nil {
		return cfg, fmt.Errorf("exclude: %w", err)
	}

	if cfg.BlobLines, err = parseBlobLines(&s.BlobLines); err != nil {
		return cfg, fmt.Errorf("blobLines: %w", err)
	}

	if s.Keyword.Kind != 0 {
		keywords, err := stringList(&s.Keyword)
		if err != nil {
			return cfg, fmt.Errorf("keyword: %w", err)
		}
		if len(keywords) > 0 {
			cfg.Keywords = keywords
		}
	}

	if cfg.Labels, err = parseLabels(&s.Label); err != nil {
		return cfg, fmt.Errorf("label: %w", err)
	}

	if s.ReopenClosed != nil {
		cfg.ReopenClosed = *s.ReopenClosed
	}
	cfg.BodyKeyword = s.BodyKeyword
	cfg.CaseSensitive = s.CaseSensitive

	return cfg, nil
}

func isBool(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool"
}

func stringList(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings on line %d", n.Line)
	}
}

func parseAutoAssign(n *yaml.Node) (core.AutoAssign, error) {
	if isBool(n) {
		var on bool
		if err := n.Decode(&on); err != nil {
			return core.AutoAssign{}, err
		}
		if on {
			return core.AutoAssign{Mode: core.AssignCommitter}, nil
		}
		return core.AutoAssign{Mode: core.AssignNone}, nil
	}

	users, err := stringList(n)
	if err != nil {
		return core.AutoAssign{}, err
	}
	if len(users) == 0 {
		return core.AutoAssign{Mode: core.AssignNone}, nil
	}
	return core.AutoAssign{Mode: core.AssignUsers, Users: users}, nil
}

func parseBlobLines(n *yaml.Node) (int, error) {
	if n.Kind == 0 {
		return core.DefaultBlobLines, nil
	}

	if isBool(n) {
		var on bool
		if err := n.Decode(&on); err != nil {
			return 0, err
		}
		if on {
			return core.DefaultBlobLines, nil
		}
		return 0, nil
	}

	var lines int
	if err := n.Decode(&lines); err != nil {
		return 0, fmt.Errorf("expected a boolean or a number on line %d", n.Line)
	}
	return max(0, lines), nil
}

func parseLabels(n *yaml.Node) ([]string, error) {
	if isBool(n) {
		var on bool
		if err := n.Decode(&on); err != nil {
			return nil, err
		}
		if on {
			return []string{DefaultLabel}, nil
		}
		return nil, nil
	}
	return stringList(n)
}
