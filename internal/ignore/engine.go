// Package ignore implements hierarchical gitignore matching: a pattern
// compiler, a lazy per-directory level store, and an oracle that answers
// "is this path ignored?" honoring nested .gitignore files, negation and
// parent-directory shadowing.
//
// Matching is case-sensitive regardless of the host filesystem; on
// case-insensitive filesystems this is a known divergence from git.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/utils"
)

// Result is the engine's answer for one path.
type Result struct {
	Ignored bool
	Pattern *Pattern // the deciding pattern; nil when nothing matched
	Level   *Level   // the level consulted; nil when nothing was consulted
}

// Engine composes patterns from .git/info/exclude, the root .gitignore,
// nested .gitignore files along the ancestry chain and caller-supplied
// additional patterns, and decides whether paths are ignored.
//
// Levels are computed lazily and memoized for the engine's lifetime. An
// engine belongs to one logical task; it is not safe for concurrent use.
type Engine struct {
	fs   fsys.Filesystem
	root string
	log  utils.Logger

	useGitignoreFiles bool
	additional        []Pattern

	levels map[string]*Level
}

// NewEngine creates an engine rooted at root. The root is canonicalized;
// all relative paths the engine reports are relative to it.
func NewEngine(fs fsys.Filesystem, root string, opts ...Option) *Engine {
	e := &Engine{
		fs:                fs,
		root:              fs.Canonicalize(root),
		log:               utils.NoopLogger{},
		useGitignoreFiles: true,
		levels:            make(map[string]*Level),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the canonical root directory of the engine.
func (e *Engine) Root() string {
	return e.root
}

// ClearCache discards all memoized levels. Pattern sources are re-read and
// re-compiled on the next query.
func (e *Engine) ClearCache() {
	e.levels = make(map[string]*Level)
}

// IsIgnored decides whether path (absolute, or relative to the root) is
// ignored. The path is stat'ed to learn whether it is a directory; missing
// metadata is treated as "not a directory".
func (e *Engine) IsIgnored(path string) Result {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.root, path)
	}

	rel, ok := e.relative(path)
	if !ok || rel == "" {
		// Outside the root, or the root itself: never ignored.
		return Result{}
	}

	isDir := false
	if md, ok := e.fs.Metadata(path); ok {
		isDir = md.IsDir
	}

	return e.Check(rel, isDir)
}

// Check decides the status of a root-relative path (forward slashes) with
// known directory-ness, without touching the filesystem for the path
// itself. The walker uses this form to avoid re-statting entries.
func (e *Engine) Check(rel string, isDir bool) Result {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return Result{}
	}

	// A path beneath an ignored directory is ignored no matter what its
	// own patterns say: git never descends into an ignored directory, so
	// a negation targeting the child can have no effect.
	if parent := parentOf(rel); parent != "" {
		if pres := e.Check(parent, true); pres.Ignored {
			return pres
		}
	}

	lvl := e.levelFor(parentOf(rel))
	ignored, pat := lvl.IsIgnored(rel, isDir)
	return Result{Ignored: ignored, Pattern: pat, Level: lvl}
}

// levelFor returns the memoized level for a root-relative directory
// ("" for the root), building it and its ancestors on first use.
func (e *Engine) levelFor(relDir string) *Level {
	if lvl, ok := e.levels[relDir]; ok {
		return lvl
	}

	var patterns []Pattern
	if relDir == "" {
		patterns = e.rootPatterns()
	} else {
		parent := e.levelFor(parentOf(relDir))
		patterns = e.withLocal(parent.Patterns, relDir)
	}

	lvl := &Level{Patterns: patterns, Dir: e.abs(relDir), RelDir: relDir}
	e.levels[relDir] = lvl
	e.log.Debug("ignore: level %q holds %d patterns", relDir, len(patterns))
	return lvl
}

// rootPatterns builds the root pattern stack: the exclude file, the root
// .gitignore, then the additional patterns — in that order, so additional
// patterns win under last-match-wins.
func (e *Engine) rootPatterns() []Pattern {
	var pats []Pattern
	if e.useGitignoreFiles {
		pats = append(pats, e.parseFile(filepath.Join(e.root, ".git", "info", "exclude"), ".git/info/exclude", "")...)
		pats = append(pats, e.parseFile(filepath.Join(e.root, ".gitignore"), ".gitignore", "")...)
	}
	pats = append(pats, e.additional...)
	return pats
}

// withLocal appends the patterns of relDir's own .gitignore to the
// inherited list. When the directory has none the parent's slice is shared
// as-is, which keeps the cache cost per level near zero on typical trees.
func (e *Engine) withLocal(inherited []Pattern, relDir string) []Pattern {
	if !e.useGitignoreFiles {
		return inherited
	}

	giPath := filepath.Join(e.abs(relDir), ".gitignore")
	local := e.parseFile(giPath, relDir+"/.gitignore", relDir)
	if len(local) == 0 {
		return inherited
	}

	merged := make([]Pattern, 0, len(inherited)+len(local))
	merged = append(merged, inherited...)
	return append(merged, local...)
}

// parseFile reads and compiles one gitignore-syntax file. A missing file
// yields no patterns; read failures and bad lines are logged and skipped.
func (e *Engine) parseFile(path, descriptor, baseDir string) []Pattern {
	if !e.fs.Exists(path) {
		return nil
	}

	content, err := e.fs.ReadFile(path)
	if err != nil {
		e.log.Warn("ignore: cannot read %s: %v", descriptor, err)
		return nil
	}

	patterns, warnings := Parse(content, descriptor, baseDir)
	for _, w := range warnings {
		e.log.Warn("ignore: %s:%d: skipping %q: %s", w.Source.File, w.Source.Line, w.Text, w.Message)
	}
	return patterns
}

// relative converts an absolute path to root-relative forward-slash form.
// The second return is false for paths outside the root.
func (e *Engine) relative(abs string) (string, bool) {
	rel, err := filepath.Rel(e.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return filepath.ToSlash(rel), true
}

func (e *Engine) abs(relDir string) string {
	if relDir == "" {
		return e.root
	}
	return filepath.Join(e.root, filepath.FromSlash(relDir))
}

// parentOf returns the parent of a root-relative path, "" for top-level
// entries.
func parentOf(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}
