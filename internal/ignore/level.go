package ignore

// Level is the cumulative, ordered list of patterns effective inside one
// directory: everything inherited from the parent level followed by the
// patterns of the directory's own .gitignore.
type Level struct {
	Patterns []Pattern
	Dir      string // absolute path of the directory this level describes
	RelDir   string // Dir relative to the repository root ("" at the root)
}

// IsIgnored evaluates the patterns in order against a root-relative path.
// The last matching pattern wins: a match sets the status to the inverse
// of its negation flag. When nothing matches the path is not ignored.
func (l *Level) IsIgnored(rel string, isDir bool) (bool, *Pattern) {
	ignored := false
	var matched *Pattern

	for i := range l.Patterns {
		p := &l.Patterns[i]
		if p.Matches(rel, isDir) {
			ignored = !p.Negation
			matched = p
		}
	}

	if matched == nil {
		return false, nil
	}
	return ignored, matched
}
