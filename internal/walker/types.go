// Package walker handles lazy, ignore-aware directory traversal
package walker

import (
	"github.com/bethropolis/bmt/internal/ignore"
)

// Entry is one traversed filesystem entry, annotated with its ignore
// status. Entries are values; the walker retains no reference to them.
type Entry struct {
	Path         string // absolute path
	RelativePath string // forward slashes, relative to the walk root
	IsDir        bool
	Ignore       ignore.Result
}

// SkippedReason clarifies why a path was not descended into or processed.
type SkippedReason string

const (
	ReasonIgnoredRule      SkippedReason = "Ignored (Gitignore/Custom Rule)"
	ReasonSkippedListError SkippedReason = "Skipped (List Error)"
	ReasonAlreadyVisited   SkippedReason = "Skipped (Already Visited)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker collects skipped items during a walk.
type SkippedTracker struct {
	items []SkippedItem
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	return st.items
}
