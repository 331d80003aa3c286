// Package config loads mcomment settings. Priority, lowest to highest:
// defaults, the .mcomment.yaml file in the project root (or an explicit
// --config file), MCOMMENT_* environment variables, bound command flags.
package config

import (
	"path/filepath"
	"time"

	"mcomment/internal/walk"
)

// FileName is the base name of the project configuration file.
const FileName = ".mcomment"

// Config is the complete mcomment configuration.
type Config struct {
	Registry       string      `yaml:"registry" mapstructure:"registry"` // type registry, relative to the root
	Include        []string    `yaml:"include" mapstructure:"include"`   // globs of files to check
	Exclude        []string    `yaml:"exclude" mapstructure:"exclude"`   // globs of files and dirs to skip
	UseGitignore   bool        `yaml:"use_gitignore" mapstructure:"use_gitignore"`
	FollowSymlinks bool        `yaml:"follow_symlinks" mapstructure:"follow_symlinks"`
	MaxFileBytes   int64       `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	Workers        int         `yaml:"workers" mapstructure:"workers"`
	Watch          WatchConfig `yaml:"watch" mapstructure:"watch"`
	Diff           DiffConfig  `yaml:"diff" mapstructure:"diff"`

	// Root is the project root the configuration was loaded for.
	Root string `yaml:"-" mapstructure:"-"`
}

// WatchConfig configures "mcomment watch".
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// DiffConfig configures "fix --dry-run" output.
type DiffConfig struct {
	Context int `yaml:"context" mapstructure:"context"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Registry:     "types.json",
		Include:      []string{"**.m"},
		Exclude:      []string{".git/**", "**/slprj/**", "**/codegen/**"},
		UseGitignore: true,
		MaxFileBytes: 2_000_000,
		Workers:      4,
		Watch:        WatchConfig{Debounce: 500 * time.Millisecond},
		Diff:         DiffConfig{Context: 3},
	}
}

// RegistryPath returns the absolute path of the type registry.
func (c *Config) RegistryPath() string {
	if filepath.IsAbs(c.Registry) {
		return c.Registry
	}
	return filepath.Join(c.Root, c.Registry)
}

// WalkOptions returns the file selection settings for the walker.
func (c *Config) WalkOptions() walk.Options {
	return walk.Options{
		Include:        c.Include,
		Exclude:        c.Exclude,
		UseGitignore:   c.UseGitignore,
		FollowSymlinks: c.FollowSymlinks,
		MaxFileBytes:   c.MaxFileBytes,
	}
}
