package discovery

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bethropolis/bmt/internal/manifest"
	"github.com/bethropolis/bmt/internal/walker"
	"github.com/danwakefield/fnmatch"
)

// legacy is the fallback scan used when gitignore semantics are disabled
// and no additional patterns were given. It rejects any path whose string
// contains an ignore entry as a substring or matches it as a simple glob.
// New code should prefer the hierarchical engine; this branch exists only
// to keep the old behavior of the no-gitignore path.
func (s *Scanner) legacy() []Mod {
	var mods []Mod
	s.legacyWalk(s.root, "", &mods)
	return mods
}

func (s *Scanner) legacyWalk(dir, relDir string, mods *[]Mod) {
	children, err := s.fs.List(dir)
	if err != nil {
		s.log.Warn("discovery: cannot list %q: %v", relDir, err)
		s.skipped = append(s.skipped, walker.SkippedItem{Path: relDir, Reason: walker.ReasonSkippedListError, IsDir: true})
		return
	}

	for _, child := range children {
		isDir := false
		if md, ok := s.fs.Metadata(child); ok {
			isDir = md.IsDir
		}
		rel := path.Join(relDir, filepath.Base(child))

		if legacyIgnored(rel) {
			s.skipped = append(s.skipped, walker.SkippedItem{Path: rel, Reason: walker.ReasonIgnoredRule, IsDir: isDir})
			continue
		}

		if isDir {
			s.legacyWalk(child, rel, mods)
			continue
		}

		if !isCandidate(rel) {
			continue
		}
		if m := manifest.ParseAndValidate(s.fs, child, s.strict, s.log); m != nil {
			*mods = append(*mods, Mod{Path: child, Manifest: m})
		}
	}
}

// legacyIgnored applies the crude substring-or-glob test of the fallback
// path against the base ignores.
func legacyIgnored(rel string) bool {
	for _, pat := range baseIgnores {
		if strings.Contains(rel, pat) || fnmatch.Match(pat, rel, 0) {
			return true
		}
	}
	return false
}
