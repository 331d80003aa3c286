package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"mcomment/internal/logging"
	"mcomment/internal/walk"
	"mcomment/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-check MATLAB files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Root
			if len(args) == 1 {
				dir = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, dir)
		},
	}
	cmd.Flags().Duration("debounce", 0, "quiet period before re-checking (default from config)")
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, dir string) error {
	m, err := walk.NewMatcher(a.cfg.Include, a.cfg.Exclude)
	if err != nil {
		return err
	}
	w, err := watch.New(dir, m, a.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	log := logging.Logger()
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	err = w.Start(ctx, func(changed []string) {
		files := existing(abs, changed)
		if len(files) == 0 {
			return
		}
		// The registry may have been edited since the last batch.
		reg, err := a.loadRegistry()
		if err != nil {
			log.Warnw("registry unavailable", "error", err)
		}
		n, err := a.check(ctx, cmd.OutOrStdout(), files, reg, a.cfg.Workers)
		if err != nil {
			log.Warnw("check failed", "error", err)
			return
		}
		log.Infow("re-checked", "files", len(files), "problems", n)
	})
	if err != nil {
		return err
	}
	log.Infow("watching", "dir", abs, "debounce", a.cfg.Watch.Debounce)
	<-ctx.Done()
	return nil
}

// existing keeps the changed paths that are still regular files.
func existing(root string, rels []string) []walk.File {
	var out []walk.File
	for _, rel := range rels {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		fi, err := os.Stat(abs)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		out = append(out, walk.File{RelPath: rel, AbsPath: abs, Size: fi.Size()})
	}
	return out
}
