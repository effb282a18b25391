package walker

import (
	"iter"
	"path"
	"path/filepath"

	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/ignore"
	"github.com/bethropolis/bmt/internal/utils"
)

// Walker streams annotated entries from a depth-first walk of the tree
// under its root. Ignored directories are emitted once and never descended
// into, which is what makes an ignored ancestor shadow everything beneath
// it. The walk is lazy: nothing is listed until the consumer pulls, and
// breaking out of the range stops it immediately.
//
// Child order within a directory follows the filesystem's list order; no
// sorting is applied. A Walker belongs to one consumer at a time.
type Walker struct {
	fs     fsys.Filesystem
	root   string
	engine *ignore.Engine
	log    utils.Logger

	visited map[string]struct{}
	tracker *SkippedTracker
}

// Option is a functional option for configuring a Walker
type Option func(*Walker)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.log = logger
		}
	}
}

// New creates a Walker over the engine's root.
func New(fs fsys.Filesystem, engine *ignore.Engine, opts ...Option) *Walker {
	w := &Walker{
		fs:     fs,
		root:   engine.Root(),
		engine: engine,
		log:    utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Entries returns the stream of all entries under the root, depth-first,
// each directory's children contiguous. Starting the stream resets the
// skipped-item report of the previous walk.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w.visited = make(map[string]struct{})
		w.tracker = NewSkippedTracker(16)
		w.walk(w.root, "", yield)
	}
}

// TrackedFiles streams the non-directory entries that are not ignored.
func (w *Walker) TrackedFiles() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for e := range w.Entries() {
			if e.IsDir || e.Ignore.Ignored {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// IgnoredFiles streams the entries that are ignored.
func (w *Walker) IgnoredFiles() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for e := range w.Entries() {
			if !e.Ignore.Ignored {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Skipped returns the skipped-item report of the most recent walk.
func (w *Walker) Skipped() []SkippedItem {
	if w.tracker == nil {
		return nil
	}
	return w.tracker.Items()
}

// walk emits the children of dir and recurses into non-ignored
// subdirectories. It returns false when the consumer stopped pulling.
func (w *Walker) walk(dir, relDir string, yield func(Entry) bool) bool {
	// Refuse to revisit a directory already seen under another name;
	// this is the only symlink-cycle defense the walker has.
	canon := w.fs.Canonicalize(dir)
	if _, seen := w.visited[canon]; seen {
		w.log.Warn("walker: already visited %q, not descending again", relDir)
		w.tracker.Track(relDir, ReasonAlreadyVisited, true)
		return true
	}
	w.visited[canon] = struct{}{}

	children, err := w.fs.List(dir)
	if err != nil {
		// A directory we cannot list is treated as empty; the walk
		// continues elsewhere.
		w.log.Warn("walker: cannot list %q: %v", relDir, err)
		w.tracker.Track(relDir, ReasonSkippedListError, true)
		return true
	}

	for _, child := range children {
		isDir := false
		if md, ok := w.fs.Metadata(child); ok {
			isDir = md.IsDir
		}

		childRel := path.Join(relDir, filepath.Base(child))
		res := w.engine.Check(childRel, isDir)
		if res.Ignored {
			w.tracker.Track(childRel, ReasonIgnoredRule, isDir)
		}

		if !yield(Entry{Path: child, RelativePath: childRel, IsDir: isDir, Ignore: res}) {
			return false
		}

		if isDir && !res.Ignored {
			if !w.walk(child, childRel, yield) {
				return false
			}
		}
	}

	return true
}
