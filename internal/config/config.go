package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from tracegraph.yml.
type ProjectConfig struct {
	// Root is the directory the file-tree resolver walks. Defaults to the
	// config file's own directory when empty.
	Root string `yaml:"root,omitempty"`

	// Entries lists the node-ids traced as roots when the trace command is
	// given no root ids (neither positional arguments nor -entry).
	Entries []string `yaml:"entries,omitempty"`

	// ExcludeDirs lists directory names to leave out when indexing Root. It
	// is parsed but not applied: the file-tree resolver always skips dot
	// directories, node_modules, vendor and target, and no others.
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`

	// RemoteEndpoint, if set, switches the default resolver from the local
	// file-tree walker to internal/remote's A2A client pointed at this URL.
	RemoteEndpoint string `yaml:"remoteEndpoint,omitempty"`

	// GraphStorePath, if set, persists every trace to this KuzuDB file
	// instead of tracing into memory only.
	GraphStorePath string `yaml:"graphStorePath,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read tracegraph.yml or tracegraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"tracegraph.yml", "tracegraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		if cfg.Root == "" {
			cfg.Root = dir
		}
		return &cfg, nil
	}
	return &ProjectConfig{Root: dir}, nil
}
