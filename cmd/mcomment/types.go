package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcomment/internal/logging"
	"mcomment/internal/registry"
)

func newTypesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Maintain the type registry",
	}
	cmd.AddCommand(newTypesListCmd(a), newTypesAddCmd(a), newTypesValidateCmd(a))
	return cmd
}

func newTypesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				e, _ := reg.Lookup(name)
				fmt.Fprintf(out, "%s\t%s\t%s\n", name, e.Path, e.Name)
			}
			return nil
		},
	}
}

func newTypesAddCmd(a *app) *cobra.Command {
	var e registry.Entry
	cmd := &cobra.Command{
		Use:   "add <Type>",
		Short: "Register a type defined by a variable of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.editableRegistry()
			if err != nil {
				return err
			}
			if err := reg.Add(args[0], e); err != nil {
				return err
			}
			if err := reg.Save(a.cfg.RegistryPath()); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
			logging.Logger().Infow("type registered", "type", args[0], "path", e.Path, "name", e.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&e.Path, "path", "", "file defining the type, relative to the root")
	cmd.Flags().StringVar(&e.Name, "name", "", "variable of that file holding the struct")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTypesValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every registered type points at an existing file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}
			if err := reg.Validate(a.cfg.Root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d types OK\n", reg.Len())
			return nil
		},
	}
}
