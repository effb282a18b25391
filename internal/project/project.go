// Package project persists the .bmt.json project state file.
//
// The state file marks the project root and remembers the user's
// include/exclude decisions across scans. An absent file means "no
// project"; an unreadable or malformed file is a distinct, recoverable
// error so the CLI can tell the user what to fix instead of silently
// re-initializing.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bethropolis/bmt/internal/fsys"
)

// StateFileName is the name of the state file that marks a project root.
const StateFileName = ".bmt.json"

// DiscoveredMod is one persisted discovery result.
type DiscoveredMod struct {
	Name         string `json:"name"`
	ManifestPath string `json:"manifestPath"`
	Included     bool   `json:"included"`
	DiscoveredAt int64  `json:"discoveredAt"` // epoch milliseconds
}

// State is the persisted project document.
type State struct {
	RootPath             string          `json:"rootPath"`
	DiscoveredMods       []DiscoveredMod `json:"discoveredMods"`
	LastScanMilliseconds int64           `json:"lastScanMilliseconds"`
}

// ErrNoProject reports that no state file exists at or above the
// searched directory.
var ErrNoProject = errors.New("project: no " + StateFileName + " found")

// MalformedStateError reports a state file that exists but cannot be read
// or decoded.
type MalformedStateError struct {
	Path string
	Err  error
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("project: state file %s is unreadable: %v", e.Path, e.Err)
}

func (e *MalformedStateError) Unwrap() error {
	return e.Err
}

// StatePath returns the path of the state file inside root.
func StatePath(root string) string {
	return filepath.Join(root, StateFileName)
}

// Load reads the state file from root. It returns ErrNoProject when the
// file is absent and a *MalformedStateError when it exists but cannot be
// read or decoded.
func Load(fs fsys.Filesystem, root string) (*State, error) {
	path := StatePath(root)
	if !fs.Exists(path) {
		return nil, ErrNoProject
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, &MalformedStateError{Path: path, Err: err}
	}

	var st State
	if err := json.Unmarshal(content, &st); err != nil {
		return nil, &MalformedStateError{Path: path, Err: err}
	}
	return &st, nil
}

// Save writes the state file into root.
func Save(fs fsys.WriteFS, root string, st *State) error {
	content, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("project: encoding state: %w", err)
	}
	content = append(content, '\n')
	if err := fs.WriteFile(StatePath(root), content, 0o644); err != nil {
		return fmt.Errorf("project: writing state: %w", err)
	}
	return nil
}

// FindRoot walks from start upward until a directory containing the state
// file is found. It returns ErrNoProject when the filesystem root is
// reached without a hit.
func FindRoot(fs fsys.Filesystem, start string) (string, error) {
	dir := fs.Canonicalize(start)
	for {
		if fs.Exists(StatePath(dir)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// ApplyScan merges a fresh scan into the state. A mod already present
// (same manifest path) keeps its Included decision and original
// DiscoveredAt; new mods arrive included; mods no longer on disk are
// dropped. The scan timestamp is recorded.
func (s *State) ApplyScan(found []DiscoveredMod, now int64) {
	prev := make(map[string]DiscoveredMod, len(s.DiscoveredMods))
	for _, m := range s.DiscoveredMods {
		prev[m.ManifestPath] = m
	}

	merged := make([]DiscoveredMod, 0, len(found))
	for _, m := range found {
		if old, ok := prev[m.ManifestPath]; ok {
			m.Included = old.Included
			m.DiscoveredAt = old.DiscoveredAt
		} else {
			m.Included = true
			m.DiscoveredAt = now
		}
		merged = append(merged, m)
	}

	s.DiscoveredMods = merged
	s.LastScanMilliseconds = now
}
