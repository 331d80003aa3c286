package main

import (
	"errors"
	"fmt"
	"os"

	"mcomment/internal/logging"
	"mcomment/internal/registry"
	"mcomment/internal/walk"
	"mcomment/internal/workspace"
)

// files expands the positional arguments into sources. Without arguments
// the whole project root is walked.
func (a *app) files(args []string) ([]walk.File, error) {
	if len(args) == 0 {
		return walk.Collect(a.cfg.Root, a.cfg.WalkOptions())
	}
	return walk.Expand(a.cfg.Root, args, a.cfg.WalkOptions())
}

// readSource returns the normalized text of f.
func (a *app) readSource(f walk.File) (string, error) {
	return workspace.ReadText(f.AbsPath, a.cfg.MaxFileBytes)
}

// loadRegistry reads the type registry. A project without a registry file
// yields nil, which disables type checks.
func (a *app) loadRegistry() (*registry.Registry, error) {
	path := a.cfg.RegistryPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Logger().Debugw("no type registry", "path", path)
			return nil, nil
		}
		return nil, err
	}
	reg, err := registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

// editableRegistry is like loadRegistry but always returns a registry.
func (a *app) editableRegistry() (*registry.Registry, error) {
	reg, err := a.loadRegistry()
	if err != nil || reg != nil {
		return reg, err
	}
	return registry.New(), nil
}
