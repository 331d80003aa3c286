// Package main provides the mcomment CLI, which keeps the structured header
// comments of MATLAB sources in sync with the code below them.
//
// Commands:
//   - check   : report undocumented variables, call returns, parameters and unknown types
//   - fix     : regenerate headers in place (or print a unified diff with --dry-run)
//   - members : list the members of a struct variable
//   - types   : list, add and validate entries of the type registry
//   - watch   : re-check files as they change
//   - header  : print the parsed header of a file as YAML
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcomment/internal/config"
	"mcomment/internal/logging"
)

// errFindings makes "check --fail" exit non-zero without printing an error.
var errFindings = errors.New("problems found")

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile  string
	root     string
	registry string
	verbose  bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mcomment",
		Short: "Keep MATLAB header comments in sync with the code",
		Long: `mcomment checks that every variable, call return and parameter of a
MATLAB file is documented, either next to the code or in the header comment
at the top of the file, and regenerates that header on request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Init(cmd.ErrOrStderr())
			logging.SetVerbose(a.verbose)
			cfg, err := config.Load(config.Options{Root: a.root, File: a.cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Logger().Debugw("configuration loaded", "root", cfg.Root, "registry", cfg.RegistryPath())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is <root>/.mcomment.yaml)")
	pf.StringVar(&a.root, "root", "", "project root (default is the working directory)")
	pf.StringVar(&a.registry, "registry", "", "type registry file, relative to the root")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newCheckCmd(a),
		newFixCmd(a),
		newMembersCmd(a),
		newTypesCmd(a),
		newWatchCmd(a),
		newHeaderCmd(a),
	)
	return root
}

func main() {
	err := newRootCmd().Execute()
	_ = logging.Sync()
	switch {
	case err == nil:
	case errors.Is(err, errFindings):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
