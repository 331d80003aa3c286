package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "types.json", cfg.Registry)
	assert.Equal(t, []string{"**.m"}, cfg.Include)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 3, cfg.Diff.Context)
	assert.True(t, cfg.UseGitignore)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, Default().Exclude, cfg.Exclude)
	assert.Equal(t, int64(2_000_000), cfg.MaxFileBytes)
	assert.Equal(t, filepath.Join(cfg.Root, "types.json"), cfg.RegistryPath())
}

func TestLoad_FileAndEnv(t *testing.T) {
	root := t.TempDir()
	yml := "registry: conf/types.yaml\nworkers: 8\ninclude:\n  - \"src/**.m\"\nwatch:\n  debounce: 2s\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".mcomment.yaml"), []byte(yml), 0o644))

	cfg, err := Load(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{"src/**.m"}, cfg.Include)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, filepath.Join(cfg.Root, "conf", "types.yaml"), cfg.RegistryPath())

	t.Setenv("MCOMMENT_WORKERS", "2")
	t.Setenv("MCOMMENT_DIFF_CONTEXT", "7")
	cfg, err = Load(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 7, cfg.Diff.Context)
}

func TestLoad_FlagsOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv("MCOMMENT_WORKERS", "2")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 4, "")
	fs.Int("context", 3, "")
	require.NoError(t, fs.Parse([]string{"--workers=16"}))

	cfg, err := Load(Options{Root: root, Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 3, cfg.Diff.Context, "unset flag keeps the default")
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(Options{Root: t.TempDir(), File: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".mcomment.yaml"), []byte("workers: [1\n"), 0o644))
	_, err := Load(Options{Root: root})
	assert.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	cfg.Diff.Context = -1
	cfg.Watch.Debounce = 0
	cfg.Registry = " "
	cfg.Include = []string{"[bad"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.ErrorIs(t, err, ErrInvalidContext)
	assert.ErrorIs(t, err, ErrInvalidDebounce)
	assert.ErrorIs(t, err, ErrEmptyRegistry)
	assert.ErrorIs(t, err, ErrInvalidGlob)
}

func TestWalkOptions(t *testing.T) {
	cfg := Default()
	opt := cfg.WalkOptions()
	assert.Equal(t, cfg.Include, opt.Include)
	assert.Equal(t, cfg.MaxFileBytes, opt.MaxFileBytes)
	assert.True(t, opt.UseGitignore)
}
