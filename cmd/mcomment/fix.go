package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mcomment/internal/diff"
	"mcomment/internal/engine"
	"mcomment/internal/logging"
	"mcomment/internal/walk"
	"mcomment/internal/workspace"
)

func newFixCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Regenerate header comments",
		Long: `fix rewrites the header comment of each file so that it lists every
parameter, return value and core variable, keeping existing descriptions.
With --dry-run the changes are printed as a unified diff instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.files(args)
			if err != nil {
				return err
			}
			changed := 0
			for _, f := range files {
				ok, err := a.fix(cmd.OutOrStdout(), f, dryRun)
				if err != nil {
					return err
				}
				if ok {
					changed++
				}
			}
			logging.Logger().Infow("fix finished", "files", len(files), "changed", changed, "dry_run", dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a unified diff instead of writing files")
	cmd.Flags().Int("context", 0, "context lines of --dry-run diffs (default from config)")
	return cmd
}

// fix regenerates the header of f and reports whether the file changed.
// Files are written atomically; line endings are normalized to LF.
func (a *app) fix(out io.Writer, f walk.File, dryRun bool) (bool, error) {
	text, err := a.readSource(f)
	if err != nil {
		logging.Logger().Warnw("skipping file", "path", f.RelPath, "error", err)
		return false, nil
	}
	edit := engine.RegenerateHeader(text)
	if !edit.Changed(text) {
		return false, nil
	}
	fixed := edit.Apply(text)
	if dryRun {
		fmt.Fprint(out, diff.Unified(f.RelPath, text, fixed, diff.Options{Context: a.cfg.Diff.Context}))
		return true, nil
	}
	if err := workspace.WriteFileAtomic(f.AbsPath, []byte(fixed), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", f.RelPath, err)
	}
	logging.Logger().Debugw("header regenerated", "path", f.RelPath)
	return true, nil
}
