// Package app is the composition root: it wires configuration, logging,
// discovery and state persistence behind the CLI commands.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/bethropolis/bmt/internal/config"
	"github.com/bethropolis/bmt/internal/discovery"
	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/logger"
	"github.com/bethropolis/bmt/internal/printer"
	"github.com/bethropolis/bmt/internal/project"
	"github.com/bethropolis/bmt/internal/summary"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	fs     fsys.WriteFS
	out    io.Writer
	errOut io.Writer

	// now returns the current time in epoch milliseconds; injectable for
	// tests.
	now func() int64
}

// New creates an App from resolved configuration.
func New(cfg *config.Config, fs fsys.WriteFS, out, errOut io.Writer) *App {
	cfg.ResolveColors()

	// Configure color globally
	color.NoColor = !cfg.UseColors

	log := logger.New(errOut, cfg.Verbose, cfg.UseColors)
	if cfg.LogLevel != "" && !cfg.Verbose {
		log.SetLevel(cfg.LogLevel)
	}
	if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		fs:     fs,
		out:    out,
		errOut: errOut,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// RunInit creates a new project in the target directory and runs the
// first scan. Re-initializing an existing project is refused.
func (a *App) RunInit() error {
	root, err := a.resolveDir()
	if err != nil {
		return err
	}

	if a.fs.Exists(project.StatePath(root)) {
		return fmt.Errorf("already a project: %s exists", project.StatePath(root))
	}

	a.log.Info("Initializing project at %s", root)
	st := &project.State{RootPath: root}
	return a.scanAndPersist(root, st)
}

// RunFindMods scans an existing project, merging the results with the
// persisted include decisions.
func (a *App) RunFindMods() error {
	start, err := a.resolveDir()
	if err != nil {
		return err
	}

	root, err := project.FindRoot(a.fs, start)
	if err != nil {
		return fmt.Errorf("not in a project (run 'bmt init' first): %w", err)
	}

	st, err := project.Load(a.fs, root)
	if err != nil {
		return err
	}

	return a.scanAndPersist(root, st)
}

// resolveDir canonicalizes the configured directory and checks it exists.
func (a *App) resolveDir() (string, error) {
	dir := a.fs.Canonicalize(a.cfg.Dir)
	md, ok := a.fs.Metadata(dir)
	if !ok {
		return "", fmt.Errorf("directory %q not found", dir)
	}
	if !md.IsDir {
		return "", fmt.Errorf("%q is not a directory", dir)
	}
	return dir, nil
}

// scanAndPersist runs discovery under root, merges the results into the
// state, persists it and reports.
func (a *App) scanAndPersist(root string, st *project.State) error {
	startTime := time.Now()

	if len(a.cfg.IgnorePatterns) > 0 {
		a.log.Info("Using additional ignore patterns: %v", a.cfg.IgnorePatterns)
	}
	if a.cfg.NoGitignore {
		a.log.Info("Not honoring .gitignore files.")
	}

	scanner := discovery.New(a.fs, root,
		discovery.WithLogger(a.log),
		discovery.WithGitignore(!a.cfg.NoGitignore),
		discovery.WithAdditionalIgnores(a.cfg.IgnorePatterns),
		discovery.WithStrict(!a.cfg.Lenient),
	)

	a.log.Info("Scanning %s", root)
	mods := scanner.Discover()

	found := make([]project.DiscoveredMod, 0, len(mods))
	for _, m := range mods {
		found = append(found, project.DiscoveredMod{
			Name:         m.Manifest.Name,
			ManifestPath: m.Path,
		})
	}
	st.ApplyScan(found, a.now())

	if err := project.Save(a.fs, root, st); err != nil {
		return err
	}

	p := printer.New().WithOutput(a.out).WithColors(a.cfg.UseColors)
	if a.cfg.JSONOutput {
		// Colors never belong inside a JSON document.
		p.WithJSON(true).WithColors(false)
	}
	if err := p.PrintMods(st.DiscoveredMods); err != nil {
		return err
	}

	summary.DisplayResults(a.log, len(st.DiscoveredMods), time.Since(startTime), a.cfg.Quiet)
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, scanner.Skipped(), a.errOut, a.cfg.Quiet)
	}

	return nil
}
