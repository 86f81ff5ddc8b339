// Package projectconfig loads asyncscript.yaml, the per-project settings
// file the CLI and embeddable runtime read before running the analyser.
package projectconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level asyncscript.yaml document.
type Config struct {
	// Analyzer holds the three analyser tunables.
	Analyzer AnalyzerOptions `yaml:"analyzer"`

	// HostServices lists the .proto service files the host registers its
	// async-predeclared functions from.
	HostServices []string `yaml:"host_services,omitempty"`

	// CacheDir is where the build cache's sqlite database lives. A relative
	// path is used as given, relative to the working directory, not to the
	// config file's directory. Empty is replaced by the default
	// ".asyncscript-cache", so a loaded or default config always has one.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// AnalyzerOptions are the three async-propagation analyser knobs.
type AnalyzerOptions struct {
	// ForceAllAsync, when true, marks every call site may_suspend and every
	// analysed function Async; no dependency edges are recorded, so the
	// fixed-point resolver has nothing to resolve. Predeclared descriptors
	// keep their host-fixed asyncness.
	ForceAllAsync bool `yaml:"force_all_async,omitempty"`

	// AllowAsyncInitialisersOnAutocreate makes an auto-created field of
	// user-class type consult that class's init method, so the site may
	// suspend when the init is async. When false the init method is not
	// consulted for auto-create.
	AllowAsyncInitialisersOnAutocreate bool `yaml:"allow_async_initialisers_on_autocreate,omitempty"`

	// DebugTrace turns on the Tracer's trace logging.
	DebugTrace bool `yaml:"debug_trace,omitempty"`
}

// LoadConfig reads and parses an asyncscript.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses asyncscript.yaml content from bytes. path is used
// only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.CacheDir == "" {
		c.CacheDir = ".asyncscript-cache"
	}
}

// FindConfig searches for asyncscript.yaml starting from dir and walking
// up to parent directories.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"asyncscript.yaml", "asyncscript.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Default returns the zero-value config with defaults applied, used when
// no asyncscript.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}
