package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mcomment/internal/engine"
	"mcomment/internal/logging"
	"mcomment/internal/walk"
	"mcomment/internal/workspace"
)

func newMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "members <file> [struct]",
		Short: "List struct variables or the members of one",
		Long: `Without a struct name, members lists the struct variables of the file
and the type their annotation names. With a name it lists the members used
in the file together with those of the variable's registered type.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := walk.Expand(a.cfg.Root, args[:1], a.cfg.WalkOptions())
			if err != nil {
				return err
			}
			if len(files) != 1 {
				return fmt.Errorf("%s: expected a single file", args[0])
			}
			text, err := a.readSource(files[0])
			if err != nil {
				return err
			}
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}
			loader, err := workspace.NewLoader(a.cfg.Root, a.cfg.MaxFileBytes)
			if err != nil {
				return err
			}
			defer loader.Close()

			r := engine.Resolver{Registry: reg, Loader: loader}
			if len(args) == 1 {
				printTargets(cmd.OutOrStdout(), r.StructTargets(text))
				return nil
			}
			return printMembers(cmd.OutOrStdout(), r, text, args[1])
		},
	}
}

func printTargets(out io.Writer, targets []engine.Target) {
	for _, t := range targets {
		if t.Type != "" {
			fmt.Fprintf(out, "%s\t--> %s\n", t.Name, t.Type)
			continue
		}
		fmt.Fprintln(out, t.Name)
	}
}

// printMembers prints one member per line. An unresolvable type is logged;
// the members used in the file are printed regardless.
func printMembers(out io.Writer, r engine.Resolver, text, name string) error {
	members, err := r.Members(text, name)
	if err != nil {
		if !errors.Is(err, engine.ErrTypeNotFound) {
			return err
		}
		logging.Logger().Warnw("type not resolved", "struct", name, "error", err)
	}
	for _, m := range members {
		if m.Detail != "" {
			fmt.Fprintf(out, "%s\t%s\n", m.Name, m.Detail)
			continue
		}
		fmt.Fprintln(out, m.Name)
	}
	return nil
}
