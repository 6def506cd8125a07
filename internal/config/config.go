// Package config handles loading and merging of borg-helper configuration files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/logger"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigFileName is the file name looked up in every fixed candidate
	// directory.
	ConfigFileName = "borg-helper.json"

	// ConfigPathsEnv names the environment variable holding extra config
	// paths, colon-separated, merged after the fixed candidates.
	ConfigPathsEnv = "BORG_HELPER_CONFIGS"
)

// Repository holds the settings of a single named backup repository.
type Repository struct {
	Repository string            `koanf:"repository" json:"repository"`
	Passphrase string            `koanf:"passphrase" json:"passphrase,omitempty"`
	SSHKey     string            `koanf:"ssh_key" json:"ssh_key,omitempty"`
	BorgBinary string            `koanf:"borg_binary" json:"borg_binary,omitempty"`
	Aliases    map[string]string `koanf:"aliases" json:"aliases,omitempty"`
}

// Config is the merged configuration view. It is built once at startup and
// read-only afterward.
type Config struct {
	BorgBinary   string                `koanf:"borg_binary" json:"borg_binary,omitempty"`
	Aliases      map[string]string     `koanf:"aliases" json:"aliases,omitempty"`
	Repositories map[string]Repository `koanf:"repositories" json:"repositories,omitempty"`
}

// NewConfig returns an empty configuration with initialized maps.
func NewConfig() *Config {
	return &Config{
		Aliases:      make(map[string]string),
		Repositories: make(map[string]Repository),
	}
}

// Binary returns the borg binary to use for the given repository:
// repository override first, then the global setting, then plain "borg"
// resolved via PATH.
func (c *Config) Binary(repo Repository) string {
	if repo.BorgBinary != "" {
		return repo.BorgBinary
	}
	if c.BorgBinary != "" {
		return c.BorgBinary
	}
	return "borg"
}

// CandidatePaths returns all config paths in merge order: the directory of
// the executable, /etc, the user config dir, the working directory, then any
// paths listed in BORG_HELPER_CONFIGS. Paths that do not exist are fine;
// the loader skips them.
func CandidatePaths() []string {
	paths := make([]string, 0, 8)

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ConfigFileName))
	}

	paths = append(paths, filepath.Join("/etc", ConfigFileName))

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}

	paths = append(paths, ConfigFileName)

	for _, p := range strings.Split(os.Getenv(ConfigPathsEnv), ":") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, ExpandUser(p))
		}
	}

	return paths
}

// ExpandUser replaces a leading "~" with the user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// Loader handles loading and parsing configuration files
type Loader struct {
	log *logger.Logger
}

// New creates a new config loader
func New(log *logger.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads, validates and parses a single configuration file.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, berrors.NewConfigurationError(path, "failed to read config", err)
	}

	// Determine parser based on file extension. The default candidates are
	// always .json; paths from BORG_HELPER_CONFIGS may use other formats.
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		parser = json.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, berrors.NewConfigurationError(path, "failed to parse config", err)
	}

	// Fail fast on unknown-shaped input before unmarshaling.
	if err := validateRaw(k.Raw()); err != nil {
		return nil, berrors.NewConfigurationError(path, "invalid config", err)
	}

	cfg := NewConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, berrors.NewConfigurationError(path, "failed to unmarshal config", err)
	}

	return cfg, nil
}

// LoadAll loads every existing candidate path in order and merges the
// results. Missing files are skipped silently; a present but invalid file
// is fatal.
func (l *Loader) LoadAll(paths []string) (*Config, error) {
	merged := NewConfig()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if l.log != nil {
				l.log.Debug().Str("path", path).Msg("Skipping config")
			}
			continue
		}

		cfg, err := l.Load(path)
		if err != nil {
			return nil, err
		}

		if l.log != nil {
			l.log.Debug().
				Str("path", path).
				Int("aliases", len(cfg.Aliases)).
				Int("repositories", len(cfg.Repositories)).
				Msg("Loaded config")
		}

		Merge(merged, cfg)
	}

	return merged, nil
}

// Merge merges src into dst. Scalars win when set in src; alias and
// repository maps merge key by key, a key in src replacing the same key in
// dst entirely. No field-level merge of an individual repository happens
// across sources.
func Merge(dst, src *Config) {
	if src.BorgBinary != "" {
		dst.BorgBinary = src.BorgBinary
	}

	for name, value := range src.Aliases {
		dst.Aliases[name] = value
	}

	for name, repo := range src.Repositories {
		dst.Repositories[name] = repo
	}
}

// SampleConfig returns a starter configuration for the init command.
func SampleConfig() string {
	return `{
  "aliases": {
    "create": "create --progress --stats"
  },
  "repositories": {
    "documents": {
      "repository": "ssh://backup@backup-host/./documents",
      "passphrase": "CHANGE-ME",
      "ssh_key": "~/.ssh/backup_ed25519",
      "aliases": {
        "create": "create ::{{ now | date \"2006-01-02_15:04\" }} ~/Documents"
      }
    }
  }
}
`
}
