package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options selects where configuration is read from.
type Options struct {
	Root  string         // project root; "" means the working directory
	File  string         // explicit config file; "" means <Root>/.mcomment.yaml
	Flags *pflag.FlagSet // flags named like config keys override everything
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"registry": "registry",
	"workers":  "workers",
	"context":  "diff.context",
	"debounce": "watch.debounce",
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Flags present in opt.Flags and set by the user
// 2. Environment variables (MCOMMENT_*)
// 3. Config file
// 4. Default values
func Load(opt Options) (*Config, error) {
	root := opt.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	v := viper.New()
	if opt.File != "" {
		v.SetConfigFile(opt.File)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
	}

	v.SetEnvPrefix("MCOMMENT")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., MCOMMENT_WATCH_DEBOUNCE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if opt.Flags != nil {
		for name, key := range flagKeys {
			if f := opt.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opt.File != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Root = root

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("registry", d.Registry)
	v.SetDefault("include", d.Include)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("use_gitignore", d.UseGitignore)
	v.SetDefault("follow_symlinks", d.FollowSymlinks)
	v.SetDefault("max_file_bytes", d.MaxFileBytes)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("diff.context", d.Diff.Context)
}
