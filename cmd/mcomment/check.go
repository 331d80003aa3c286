package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mcomment/internal/engine"
	"mcomment/internal/logging"
	"mcomment/internal/registry"
	"mcomment/internal/walk"
)

func newCheckCmd(a *app) *cobra.Command {
	var fail bool
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report undocumented symbols and unknown types",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.files(args)
			if err != nil {
				return err
			}
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}
			n, err := a.check(cmd.Context(), cmd.OutOrStdout(), files, reg, a.cfg.Workers)
			if err != nil {
				return err
			}
			logging.Logger().Infow("check finished", "files", len(files), "problems", n)
			if fail && n > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with status 1 when problems are found")
	cmd.Flags().Int("workers", 0, "number of files checked concurrently (default from config)")
	return cmd
}

type fileReport struct {
	file  walk.File
	diags []engine.Diagnostic
}

// check diagnoses files concurrently and prints the findings in file order
// as "path:line:col: kind: message". It returns the number of findings.
// Unreadable files are logged and skipped.
func (a *app) check(ctx context.Context, out io.Writer, files []walk.File, reg *registry.Registry, workers int) (int, error) {
	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := a.readSource(f)
			if err != nil {
				logging.Logger().Warnw("skipping file", "path", f.RelPath, "error", err)
				return nil
			}
			reports[i] = fileReport{file: f, diags: engine.Diagnose(text, reg)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, r := range reports {
		for _, d := range r.diags {
			fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", r.file.RelPath, d.Line, d.Col, d.Kind, d.Message)
			n++
		}
	}
	return n, nil
}
