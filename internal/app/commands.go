package app

import (
	"github.com/bethropolis/bmt/internal/config"
	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the bmt command tree.
func NewRootCommand() *cobra.Command {
	cfg := config.New()

	root := &cobra.Command{
		Use:   "bmt",
		Short: "Track game-mod manifests under a project root",
		Long: `bmt discovers mod manifest files under a project root, remembers
which mods you chose to include, and keeps that state in .bmt.json.

Scans honor .gitignore files the way git does, including nested
.gitignore files, negation and directory-only patterns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Dir, "dir", ".", "directory to operate in")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	pf.BoolVar(&cfg.Quiet, "quiet", false, "suppress INFO messages")
	pf.StringVar(&cfg.LogLevel, "log-level", "INFO", "logging level (DEBUG, INFO, WARN, ERROR)")
	pf.BoolVar(&cfg.NoColor, "no-color", false, "disable color output")

	root.AddCommand(newInitCommand(cfg), newFindModsCommand(cfg))
	return root
}

func newInitCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project here and run the first mod scan",
		Long: `Create .bmt.json in the target directory, scan for mod manifests,
and persist the results. Newly discovered mods start included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := New(cfg, fsys.NewOS(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return a.RunInit()
		},
	}
	addScanFlags(cmd, cfg)
	return cmd
}

func newFindModsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-mods",
		Short: "Re-scan an existing project for mod manifests",
		Long: `Scan the project containing the target directory for mod manifests.
Mods already known keep their include decision; new mods start included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := New(cfg, fsys.NewOS(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return a.RunFindMods()
		},
	}
	addScanFlags(cmd, cfg)
	return cmd
}

// addScanFlags registers the flags shared by the scanning subcommands.
func addScanFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	f.BoolVar(&cfg.NoGitignore, "no-gitignore", false, "do not honor .gitignore files during the scan")
	f.StringArrayVar(&cfg.IgnorePatterns, "ignore", nil, "additional ignore pattern (gitignore syntax, repeatable)")
	f.BoolVar(&cfg.Lenient, "lenient", false, "keep manifests that decode but fail validation")
	f.BoolVar(&cfg.JSONOutput, "json", false, "print results as JSON")
	f.BoolVar(&cfg.ShowSkipped, "show-skipped", false, "list skipped files/directories after the scan")
}
