// Package discovery finds mod manifests under a project root.
//
// It is a thin consumer of the ignore engine and walker: traverse, keep
// the JSON files that survive the ignore rules, and run each through the
// manifest oracle. Discovery is best-effort — a candidate that fails to
// read, decode or validate is dropped, never fatal.
package discovery

import (
	"path"
	"strings"

	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/ignore"
	"github.com/bethropolis/bmt/internal/manifest"
	"github.com/bethropolis/bmt/internal/project"
	"github.com/bethropolis/bmt/internal/utils"
	"github.com/bethropolis/bmt/internal/walker"
)

// baseIgnores are always excluded from discovery, whatever the flags say:
// git internals and the project state file itself.
var baseIgnores = []string{".git/", project.StateFileName}

// Mod is one discovered manifest.
type Mod struct {
	Path     string // absolute manifest path
	Manifest *manifest.Manifest
}

// Scanner runs manifest discovery under one root.
type Scanner struct {
	fs   fsys.Filesystem
	root string
	log  utils.Logger

	respectGitignore bool
	additional       []string
	strict           bool

	skipped []walker.SkippedItem
}

// Option is a functional option for configuring a Scanner
type Option func(*Scanner)

// WithGitignore controls whether .gitignore files are honored during the
// scan. Enabled by default.
func WithGitignore(enabled bool) Option {
	return func(s *Scanner) {
		s.respectGitignore = enabled
	}
}

// WithAdditionalIgnores appends caller-supplied ignore patterns
// (gitignore syntax) on top of the base ignores.
func WithAdditionalIgnores(patterns []string) Option {
	return func(s *Scanner) {
		s.additional = patterns
	}
}

// WithStrict controls whether manifests failing validation are dropped
// (strict, the default) or returned as-is (lenient).
func WithStrict(strict bool) Option {
	return func(s *Scanner) {
		s.strict = strict
	}
}

// WithLogger sets a custom logger for the scanner
func WithLogger(logger utils.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New creates a Scanner rooted at root.
func New(fs fsys.Filesystem, root string, opts ...Option) *Scanner {
	s := &Scanner{
		fs:               fs,
		root:             fs.Canonicalize(root),
		log:              utils.NoopLogger{},
		respectGitignore: true,
		strict:           true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover runs the scan and returns every valid manifest found.
//
// With gitignore respected or additional patterns present, the
// hierarchical engine drives the walk. Otherwise a legacy substring/glob
// fallback is used (kept for compatibility; it has no gitignore
// semantics).
func (s *Scanner) Discover() []Mod {
	s.skipped = nil
	if s.respectGitignore || len(s.additional) > 0 {
		return s.hierarchical()
	}
	return s.legacy()
}

// Skipped returns the skipped-item report of the most recent Discover.
func (s *Scanner) Skipped() []walker.SkippedItem {
	return s.skipped
}

func (s *Scanner) hierarchical() []Mod {
	patterns := make([]string, 0, len(baseIgnores)+len(s.additional))
	patterns = append(patterns, baseIgnores...)
	patterns = append(patterns, s.additional...)

	engine := ignore.NewEngine(s.fs, s.root,
		ignore.WithLogger(s.log),
		ignore.WithGitignoreFiles(s.respectGitignore),
		ignore.WithAdditionalPatterns(patterns),
	)
	w := walker.New(s.fs, engine, walker.WithLogger(s.log))

	var mods []Mod
	for entry := range w.TrackedFiles() {
		if !isCandidate(entry.RelativePath) {
			continue
		}
		s.log.Debug("discovery: candidate %q", entry.RelativePath)
		if m := manifest.ParseAndValidate(s.fs, entry.Path, s.strict, s.log); m != nil {
			mods = append(mods, Mod{Path: entry.Path, Manifest: m})
		}
	}
	s.skipped = w.Skipped()
	return mods
}

// isCandidate reports whether a relative path names a manifest candidate:
// a .json file that is not the project state file.
func isCandidate(rel string) bool {
	base := path.Base(rel)
	return strings.HasSuffix(base, ".json") && base != project.StateFileName
}
