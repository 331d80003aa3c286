package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mcomment/internal/engine"
	"mcomment/internal/header"
	"mcomment/internal/walk"
)

// headerDump is what "mcomment header" prints.
type headerDump struct {
	Form         string        `yaml:"form"`
	Parsed       header.Record `yaml:"parsed"`
	Regenerated  header.Record `yaml:"regenerated"`
	Undocumented []string      `yaml:"undocumented,omitempty"`
}

func newHeaderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "header <file>",
		Short: "Print the parsed and regenerated header of a file as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := walk.Expand(a.cfg.Root, args, a.cfg.WalkOptions())
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

			regen, form := engine.Regenerate(text)
			dump := headerDump{Form: form.String(), Parsed: header.Parse(text), Regenerated: regen}
			for _, s := range engine.ComputeUndocumented(text) {
				dump.Undocumented = append(dump.Undocumented, s.Name)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(dump); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
