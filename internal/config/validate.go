package config

import (
	"errors"
	"fmt"
	"strings"

	"mcomment/internal/walk"
)

var (
	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidContext indicates a non-positive diff context
	ErrInvalidContext = errors.New("invalid diff context")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidGlob indicates an include or exclude glob that does not compile
	ErrInvalidGlob = errors.New("invalid glob")

	// ErrEmptyRegistry indicates a missing registry path
	ErrEmptyRegistry = errors.New("empty registry path")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be > 0 (got %d)", ErrInvalidWorkers, cfg.Workers))
	}
	if cfg.Diff.Context <= 0 {
		errs = append(errs, fmt.Errorf("%w: diff.context must be > 0 (got %d)", ErrInvalidContext, cfg.Diff.Context))
	}
	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce must be > 0 (got %s)", ErrInvalidDebounce, cfg.Watch.Debounce))
	}
	if strings.TrimSpace(cfg.Registry) == "" {
		errs = append(errs, ErrEmptyRegistry)
	}
	if _, err := walk.NewMatcher(cfg.Include, cfg.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidGlob, err))
	}
	return errors.Join(errs...)
}
